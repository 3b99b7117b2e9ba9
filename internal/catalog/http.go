package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductCatalog/pkg/kit"
)

type Server struct {
	Store Store
	Log   *zap.Logger
	Rules Rules
}

func NewServer(store Store, log *zap.Logger, rules Rules) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{Store: store, Log: log, Rules: rules}
}

// Routes serves the read endpoints on reads and the write endpoints on
// writes, so the caller can put auth and rate limiting in front of writes only.
func (s *Server) Routes(reads, writes chi.Router) {
	reads.Get("/products", s.list)
	reads.Get("/products/{id}", s.get)

	writes.Post("/products", s.create)
	writes.Put("/products/{id}", s.update)
	writes.Delete("/products/{id}", s.delete)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.Log.Error("list products failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.Log.Error("get product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodeValid(w, r)
	if !ok {
		return
	}

	created, err := s.Store.Create(r.Context(), p)
	if err != nil {
		s.Log.Error("create product failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, created)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok := s.decodeValid(w, r)
	if !ok {
		return
	}

	updated, found, err := s.Store.Update(r.Context(), id, p)
	if err != nil {
		s.Log.Error("update product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	_, found, err := s.Store.Get(r.Context(), id)
	if err == nil && found {
		err = s.Store.Delete(r.Context(), id)
	}
	if err != nil {
		s.Log.Error("delete product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeValid reads a product payload and runs the validation rules. On
// failure the 400 response has already been written.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request) (Product, bool) {
	var p Product
	if err := kit.DecodeJSON(w, r, &p); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid json", nil)
		return Product{}, false
	}
	p.ID = ""

	if v := s.Rules.Validate(p); len(v) > 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "validation failed", v.Map())
		return Product{}, false
	}
	return p, true
}
