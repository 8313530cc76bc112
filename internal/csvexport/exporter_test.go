package csvexport

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/ChristianFajardo2022/audiosmadres/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExporter(t *testing.T) *Exporter {
	t.Helper()
	e, err := New("America/Bogota")
	require.NoError(t, err)
	return e
}

func parse(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestHeaderOrder(t *testing.T) {
	assert.Equal(t, []string{
		"Firstname", "Email", "Customer ID", "Order ID",
		"Transaction Status", "Audio Reference", "Created At",
	}, Header())
}

func TestEncodeRowsMatchHeaderWidth(t *testing.T) {
	e := newExporter(t)
	usuarios := []model.Usuario{
		{ID: "1", Fields: map[string]any{
			"firstname":   "Ana",
			"email":       "ana@example.com",
			"customer_id": "c1",
			"trx_status":  "approved",
			"order_id":    "o1",
			"audioRef":    "https://storage.googleapis.com/b/audios/1.mp3",
			"nombre":      "ignored",
		}},
		{ID: "2", Fields: map[string]any{"email": "solo@example.com"}},
		{ID: "3", Fields: map[string]any{}},
	}

	data, err := e.Encode(usuarios)
	require.NoError(t, err)

	records := parse(t, data)
	require.Len(t, records, 4)
	assert.Equal(t, Header(), records[0])
	for _, r := range records[1:] {
		assert.Len(t, r, len(records[0]))
	}
	assert.Equal(t, []string{"Ana", "ana@example.com", "c1", "o1", "approved", "https://storage.googleapis.com/b/audios/1.mp3", ""}, records[1])
	assert.Equal(t, []string{"", "solo@example.com", "", "", "", "", ""}, records[2])
}

func TestEncodeEmptyCollectionWritesHeader(t *testing.T) {
	e := newExporter(t)
	data, err := e.Encode(nil)
	require.NoError(t, err)

	records := parse(t, data)
	require.Len(t, records, 1)
	assert.Equal(t, Header(), records[0])
}

func TestCreatedAtFormattedInZone(t *testing.T) {
	e := newExporter(t)
	created := time.Date(2024, 5, 12, 20, 4, 5, 0, time.UTC) // 15:04:05 in Bogota (UTC-5)

	row := e.Project(model.Usuario{ID: "1", Fields: map[string]any{"createdAt": created}})
	assert.Equal(t, "05/12/2024, 03:04:05 PM", row.CreatedAt)
}

func TestNonStringValuesRendered(t *testing.T) {
	e := newExporter(t)
	row := e.Project(model.Usuario{Fields: map[string]any{
		"customer_id": float64(42),
		"createdAt":   "already formatted",
	}})
	assert.Equal(t, "42", row.CustomerID)
	assert.Equal(t, "already formatted", row.CreatedAt)
}

func TestNewRejectsUnknownZone(t *testing.T) {
	_, err := New("Mars/Olympus")
	assert.Error(t, err)
}
