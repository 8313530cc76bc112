package router

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/ChristianFajardo2022/audiosmadres/internal/model"
	"github.com/ChristianFajardo2022/audiosmadres/internal/repository"
)

// memUsuarios is an in-memory UsuarioRepository preserving insertion order.
type memUsuarios struct {
	mu    sync.Mutex
	docs  map[string]map[string]any
	order []string
}

func newMemUsuarios() *memUsuarios { return &memUsuarios{docs: map[string]map[string]any{}} }

func (m *memUsuarios) seed(id string, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = append(m.order, id)
	m.docs[id] = fields
}

func (m *memUsuarios) get(id string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]any{}
	for k, v := range m.docs[id] {
		out[k] = v
	}
	return out
}

func (m *memUsuarios) Create(_ context.Context, id string, fields map[string]any) error {
	f := map[string]any{}
	for k, v := range fields {
		f[k] = v
	}
	f[model.FieldCreatedAt] = time.Now()
	m.seed(id, f)
	return nil
}

func (m *memUsuarios) FindByField(_ context.Context, field, value string) ([]model.Usuario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Usuario
	for _, id := range m.order {
		if v, ok := m.docs[id][field].(string); ok && v == value {
			out = append(out, m.usuario(id))
		}
	}
	return out, nil
}

func (m *memUsuarios) List(context.Context) ([]model.Usuario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Usuario, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.usuario(id))
	}
	return out, nil
}

func (m *memUsuarios) usuario(id string) model.Usuario {
	f := map[string]any{}
	for k, v := range m.docs[id] {
		f[k] = v
	}
	return model.Usuario{ID: id, Fields: f}
}

func (m *memUsuarios) UpdateTransaction(_ context.Context, id, trxStatus, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return repository.ErrNotFound
	}
	doc[model.FieldTrxStatus] = trxStatus
	doc[model.FieldOrderID] = orderID
	return nil
}

func (m *memUsuarios) MarkStockUpdated(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if done, _ := doc[model.FieldStockUpdated].(bool); done {
		return false, nil
	}
	doc[model.FieldStockUpdated] = true
	return true, nil
}

func (m *memUsuarios) Ping(context.Context) error { return nil }

type memStock struct {
	mu    sync.Mutex
	value int64
}

func (s *memStock) Decrement(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value--
	return s.value, nil
}

func (s *memStock) Get(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

type memAudios struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemAudios() *memAudios { return &memAudios{objects: map[string][]byte{}} }

func (a *memAudios) Exists(_ context.Context, path string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.objects[path]
	return ok, nil
}

func (a *memAudios) Upload(_ context.Context, path, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	a.mu.Lock()
	a.objects[path] = data
	a.mu.Unlock()
	return a.PublicURL(path), nil
}

func (a *memAudios) Open(_ context.Context, path string) (io.ReadCloser, int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	data, ok := a.objects[path]
	if !ok {
		return nil, 0, repository.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (a *memAudios) PublicURL(path string) string {
	return "https://storage.googleapis.com/audios-bucket/" + path
}

func (a *memAudios) Ping(context.Context) error { return nil }
