package api

import (
	"context"
	"net/http"
	"net/url"
	"sync"
)

// Each service caches its last full fetch so list views can re-derive
// filtered sets client-side without a refetch. GetAll with forceRefresh
// bypasses the cache; every mutation invalidates it.

// ClienteService manages clients.
type ClienteService struct {
	c      *Client
	mu     sync.Mutex
	cached []Cliente
}

// GetAll returns every client.
func (s *ClienteService) GetAll(ctx context.Context, forceRefresh bool) ([]Cliente, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !forceRefresh && s.cached != nil {
		return append([]Cliente(nil), s.cached...), nil
	}

	var out []Cliente
	if err := s.c.do(ctx, http.MethodGet, "/clientes", nil, nil, &out); err != nil {
		return nil, err
	}
	s.cached = out
	return append([]Cliente(nil), out...), nil
}

// Search matches the term against company name, RUT, and code.
func (s *ClienteService) Search(ctx context.Context, term string) ([]Cliente, error) {
	q := url.Values{"q": {term}}
	var out []Cliente
	if err := s.c.do(ctx, http.MethodGet, "/clientes", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByRUT returns the client with the given RUT, or nil when none exists.
func (s *ClienteService) GetByRUT(ctx context.Context, rut string) (*Cliente, error) {
	q := url.Values{"rut": {rut}}
	var out []Cliente
	if err := s.c.do(ctx, http.MethodGet, "/clientes", q, nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// Create registers a new client. A RUT already registered to another client
// is refused with a DuplicateError before the backend is called.
func (s *ClienteService) Create(ctx context.Context, data Cliente) (*Cliente, error) {
	if data.RUT != "" {
		existing, err := s.GetByRUT(ctx, data.RUT)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, &DuplicateError{Field: "el RUT", Value: data.RUT}
		}
	}

	var out Cliente
	if err := s.c.do(ctx, http.MethodPost, "/clientes", nil, data, &out); err != nil {
		return nil, err
	}
	s.invalidate()
	return &out, nil
}

// Update modifies an existing client, enforcing RUT uniqueness against
// other clients.
func (s *ClienteService) Update(ctx context.Context, id string, data Cliente) (*Cliente, error) {
	if data.RUT != "" {
		existing, err := s.GetByRUT(ctx, data.RUT)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, &DuplicateError{Field: "el RUT", Value: data.RUT}
		}
	}

	var out Cliente
	if err := s.c.do(ctx, http.MethodPatch, "/clientes/"+id, nil, data, &out); err != nil {
		return nil, err
	}
	s.invalidate()
	return &out, nil
}

// Delete deactivates a client instead of removing it: the estado field is
// set to inactivo so history stays intact.
func (s *ClienteService) Delete(ctx context.Context, id string) error {
	patch := map[string]string{"estado": "inactivo"}
	if err := s.c.do(ctx, http.MethodPatch, "/clientes/"+id, nil, patch, nil); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *ClienteService) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// ProyectoService manages projects.
type ProyectoService struct {
	c      *Client
	mu     sync.Mutex
	cached []Proyecto
}

func (s *ProyectoService) GetAll(ctx context.Context, forceRefresh bool) ([]Proyecto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !forceRefresh && s.cached != nil {
		return append([]Proyecto(nil), s.cached...), nil
	}

	var out []Proyecto
	if err := s.c.do(ctx, http.MethodGet, "/proyectos", nil, nil, &out); err != nil {
		return nil, err
	}
	s.cached = out
	return append([]Proyecto(nil), out...), nil
}

func (s *ProyectoService) Search(ctx context.Context, term string) ([]Proyecto, error) {
	q := url.Values{"q": {term}}
	var out []Proyecto
	if err := s.c.do(ctx, http.MethodGet, "/proyectos", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProyectoService) Create(ctx context.Context, data Proyecto) (*Proyecto, error) {
	var out Proyecto
	if err := s.c.do(ctx, http.MethodPost, "/proyectos", nil, data, &out); err != nil {
		return nil, err
	}
	s.invalidate()
	return &out, nil
}

func (s *ProyectoService) Update(ctx context.Context, id string, data Proyecto) (*Proyecto, error) {
	var out Proyecto
	if err := s.c.do(ctx, http.MethodPatch, "/proyectos/"+id, nil, data, &out); err != nil {
		return nil, err
	}
	s.invalidate()
	return &out, nil
}

func (s *ProyectoService) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, "/proyectos/"+id, nil, nil, nil); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *ProyectoService) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// CubicacionService manages take-offs.
type CubicacionService struct {
	c      *Client
	mu     sync.Mutex
	cached []Cubicacion
}

func (s *CubicacionService) GetAll(ctx context.Context, forceRefresh bool) ([]Cubicacion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !forceRefresh && s.cached != nil {
		return append([]Cubicacion(nil), s.cached...), nil
	}

	var out []Cubicacion
	if err := s.c.do(ctx, http.MethodGet, "/cubicaciones", nil, nil, &out); err != nil {
		return nil, err
	}
	s.cached = out
	return append([]Cubicacion(nil), out...), nil
}

func (s *CubicacionService) Search(ctx context.Context, term string) ([]Cubicacion, error) {
	q := url.Values{"q": {term}}
	var out []Cubicacion
	if err := s.c.do(ctx, http.MethodGet, "/cubicaciones", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CubicacionService) Create(ctx context.Context, data Cubicacion) (*Cubicacion, error) {
	var out Cubicacion
	if err := s.c.do(ctx, http.MethodPost, "/cubicaciones", nil, data, &out); err != nil {
		return nil, err
	}
	s.invalidate()
	return &out, nil
}

func (s *CubicacionService) Update(ctx context.Context, id string, data Cubicacion) (*Cubicacion, error) {
	var out Cubicacion
	if err := s.c.do(ctx, http.MethodPatch, "/cubicaciones/"+id, nil, data, &out); err != nil {
		return nil, err
	}
	s.invalidate()
	return &out, nil
}

func (s *CubicacionService) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, "/cubicaciones/"+id, nil, nil, nil); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CubicacionService) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// ProductoService manages take-off line items.
type ProductoService struct {
	c      *Client
	mu     sync.Mutex
	cached []Producto
}

func (s *ProductoService) GetAll(ctx context.Context, forceRefresh bool) ([]Producto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !forceRefresh && s.cached != nil {
		return append([]Producto(nil), s.cached...), nil
	}

	var out []Producto
	if err := s.c.do(ctx, http.MethodGet, "/productos", nil, nil, &out); err != nil {
		return nil, err
	}
	s.cached = out
	return append([]Producto(nil), out...), nil
}

// GetByCubicacion returns the line items of one take-off.
func (s *ProductoService) GetByCubicacion(ctx context.Context, cubicacionID string) ([]Producto, error) {
	q := url.Values{"cubicacion_id": {cubicacionID}}
	var out []Producto
	if err := s.c.do(ctx, http.MethodGet, "/productos", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProductoService) Search(ctx context.Context, term string) ([]Producto, error) {
	q := url.Values{"q": {term}}
	var out []Producto
	if err := s.c.do(ctx, http.MethodGet, "/productos", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProductoService) Create(ctx context.Context, data Producto) (*Producto, error) {
	var out Producto
	if err := s.c.do(ctx, http.MethodPost, "/productos", nil, data, &out); err != nil {
		return nil, err
	}
	s.invalidate()
	return &out, nil
}

func (s *ProductoService) Update(ctx context.Context, id string, data Producto) (*Producto, error) {
	var out Producto
	if err := s.c.do(ctx, http.MethodPatch, "/productos/"+id, nil, data, &out); err != nil {
		return nil, err
	}
	s.invalidate()
	return &out, nil
}

func (s *ProductoService) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, "/productos/"+id, nil, nil, nil); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *ProductoService) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
