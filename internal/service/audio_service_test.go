package service

import (
	"context"
	"io"
	"testing"

	"github.com/ChristianFajardo2022/audiosmadres/internal/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescargar_ByPath(t *testing.T) {
	audios := newStubAudioRepo()
	audios.objects["audios/1715000000000.mp3"] = []byte("ID3data")
	svc := NewAudioService(audios)

	d, err := svc.Descargar(context.Background(), "audios/1715000000000.mp3")
	require.NoError(t, err)
	defer d.Body.Close()

	body, err := io.ReadAll(d.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3data"), body)
	assert.Equal(t, int64(7), d.Size)
	assert.Equal(t, "1715000000000.mp3", d.Filename)
}

func TestDescargar_ByPublicURL(t *testing.T) {
	audios := newStubAudioRepo()
	audios.objects["audios/1.mp3"] = []byte("x")
	svc := NewAudioService(audios)

	d, err := svc.Descargar(context.Background(), audios.PublicURL("audios/1.mp3"))
	require.NoError(t, err)
	defer d.Body.Close()
	assert.Equal(t, "1.mp3", d.Filename)
}

func TestDescargar_Errors(t *testing.T) {
	audios := newStubAudioRepo()
	svc := NewAudioService(audios)

	_, err := svc.Descargar(context.Background(), "")
	e := apierror.From(err)
	assert.Equal(t, apierror.KindValidation, e.Kind)
	assert.Equal(t, "No audio reference provided", e.Message)

	_, err = svc.Descargar(context.Background(), "audios/missing.mp3")
	e = apierror.From(err)
	assert.Equal(t, apierror.KindNotFound, e.Kind)
	assert.Equal(t, "Audio file not found", e.Message)

	audios.existsErr = errBoom
	_, err = svc.Descargar(context.Background(), "audios/missing.mp3")
	assert.Equal(t, apierror.KindUpstream, apierror.From(err).Kind)
}
