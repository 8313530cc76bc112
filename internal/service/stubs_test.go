package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ChristianFajardo2022/audiosmadres/internal/model"
	"github.com/ChristianFajardo2022/audiosmadres/internal/repository"
)

// ── In-memory UsuarioRepository stub ─────────────────────────────────────────

type stubUsuarioRepo struct {
	mu        sync.Mutex
	docs      map[string]map[string]any
	order     []string
	findErr   error
	markErr   error
	createErr error
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{docs: make(map[string]map[string]any)}
}

func (r *stubUsuarioRepo) put(id string, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		r.order = append(r.order, id)
	}
	r.docs[id] = fields
}

func (r *stubUsuarioRepo) Create(_ context.Context, id string, fields map[string]any) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		cp[k] = v
	}
	cp[model.FieldCreatedAt] = time.Now()
	r.put(id, cp)
	return nil
}

func (r *stubUsuarioRepo) FindByField(_ context.Context, field, value string) ([]model.Usuario, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Usuario
	for _, id := range r.order {
		if v, ok := r.docs[id][field].(string); ok && v == value {
			out = append(out, model.Usuario{ID: id, Fields: copyFields(r.docs[id])})
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Usuario, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, model.Usuario{ID: id, Fields: copyFields(r.docs[id])})
	}
	return out, nil
}

func (r *stubUsuarioRepo) UpdateTransaction(_ context.Context, id, trxStatus, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return repository.ErrNotFound
	}
	doc[model.FieldTrxStatus] = trxStatus
	doc[model.FieldOrderID] = orderID
	return nil
}

func (r *stubUsuarioRepo) MarkStockUpdated(_ context.Context, id string) (bool, error) {
	if r.markErr != nil {
		return false, r.markErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if done, _ := doc[model.FieldStockUpdated].(bool); done {
		return false, nil
	}
	doc[model.FieldStockUpdated] = true
	return true, nil
}

func (r *stubUsuarioRepo) Ping(context.Context) error { return nil }

func (r *stubUsuarioRepo) field(id, field string) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[id][field]
}

func copyFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ── In-memory StockRepository stub ───────────────────────────────────────────

type stubStockRepo struct {
	mu    sync.Mutex
	stock int64
	err   error
	calls int
}

func (s *stubStockRepo) Decrement(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	s.stock--
	return s.stock, nil
}

func (s *stubStockRepo) Get(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock, nil
}

// ── In-memory AudioRepository stub ───────────────────────────────────────────

type stubAudioRepo struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	existsErr error
}

func newStubAudioRepo() *stubAudioRepo {
	return &stubAudioRepo{objects: make(map[string][]byte)}
}

func (a *stubAudioRepo) Exists(_ context.Context, path string) (bool, error) {
	if a.existsErr != nil {
		return false, a.existsErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.objects[path]
	return ok, nil
}

func (a *stubAudioRepo) Upload(_ context.Context, path, _ string, r io.Reader) (string, error) {
	if a.uploadErr != nil {
		return "", a.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	a.mu.Lock()
	a.objects[path] = data
	a.mu.Unlock()
	return a.PublicURL(path), nil
}

func (a *stubAudioRepo) Open(_ context.Context, path string) (io.ReadCloser, int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	data, ok := a.objects[path]
	if !ok {
		return nil, 0, repository.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (a *stubAudioRepo) PublicURL(path string) string {
	return "https://storage.example.test/bucket/" + strings.TrimPrefix(path, "/")
}

func (a *stubAudioRepo) Ping(context.Context) error { return nil }

var errBoom = errors.New("boom")
