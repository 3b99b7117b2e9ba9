package storefront

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductCatalog/internal/catalog"
)

const (
	msgNotFound     = "Product not found."
	msgUpdateFailed = "Product update failed."
	msgUnavailable  = "The catalog is unavailable right now. Please try again later."
	msgBadForm      = "The submitted form could not be read."
)

type Server struct {
	Store     catalog.Store
	Templates *Templates
	Log       *zap.Logger
	Rules     catalog.Rules
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/Products", http.StatusFound)
	})

	r.Get("/Products", s.list)
	r.Get("/Products/Edit/{id}", s.edit)
	r.Get("/Products/Add", s.addForm)
	r.Post("/Products/Add", s.add)
	r.Post("/Products/Update", s.update)
	r.Post("/Products/Remove", s.remove)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.Log.Error("list products failed", zap.Error(err))
		s.renderError(w, http.StatusInternalServerError, msgUnavailable)
		return
	}
	s.render(w, http.StatusOK, pageProducts, pageData{Title: "Products", Products: products})
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.Log.Error("get product failed", zap.Error(err), zap.String("id", id))
		s.renderError(w, http.StatusInternalServerError, msgUnavailable)
		return
	}
	if !ok {
		s.renderError(w, http.StatusNotFound, msgNotFound)
		return
	}
	s.renderForm(w, editForm(p, amountsOf(p), nil, ""))
}

func (s *Server) addForm(w http.ResponseWriter, _ *http.Request) {
	s.renderForm(w, addForm(catalog.Product{}, amounts{}, nil, ""))
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	p, raw, bad, err := productFromForm(w, r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, msgBadForm)
		return
	}
	p.ID = ""

	if v := merge(bad, s.Rules.Validate(p)); len(v) > 0 {
		s.renderForm(w, addForm(p, raw, v, ""))
		return
	}

	created, err := s.Store.Create(r.Context(), p)
	var rejected catalog.Violations
	switch {
	case errors.As(err, &rejected):
		s.renderForm(w, addForm(p, raw, rejected, ""))
		return
	case err != nil:
		s.Log.Error("create product failed", zap.Error(err))
		s.renderForm(w, addForm(p, raw, nil, msgUnavailable))
		return
	}

	redirectToEdit(w, r, created.ID)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	p, raw, bad, err := productFromForm(w, r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, msgBadForm)
		return
	}

	if v := merge(bad, s.Rules.Validate(p)); len(v) > 0 {
		s.renderForm(w, editForm(p, raw, v, ""))
		return
	}

	updated, found, err := s.Store.Update(r.Context(), p.ID, p)
	var rejected catalog.Violations
	switch {
	case errors.As(err, &rejected):
		s.renderForm(w, editForm(p, raw, rejected, ""))
		return
	case err != nil:
		s.Log.Error("update product failed", zap.Error(err), zap.String("id", p.ID))
		s.renderForm(w, editForm(p, raw, nil, msgUnavailable))
		return
	case !found:
		s.renderError(w, http.StatusNotFound, msgUpdateFailed)
		return
	}

	redirectToEdit(w, r, updated.ID)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		s.renderError(w, http.StatusBadRequest, msgBadForm)
		return
	}
	id := formProductID(r)

	if err := s.Store.Delete(r.Context(), id); err != nil {
		s.Log.Error("delete product failed", zap.Error(err), zap.String("id", id))
		s.renderError(w, http.StatusInternalServerError, msgUnavailable)
		return
	}
	http.Redirect(w, r, "/Products", http.StatusSeeOther)
}

func redirectToEdit(w http.ResponseWriter, r *http.Request, id string) {
	http.Redirect(w, r, "/Products/Edit/"+url.PathEscape(id), http.StatusSeeOther)
}

func addForm(p catalog.Product, raw amounts, v catalog.Violations, alert string) pageData {
	return pageData{Title: "Add product", Action: "/Products/Add", Product: p, Amounts: raw, Violations: v.Map(), Error: alert}
}

func editForm(p catalog.Product, raw amounts, v catalog.Violations, alert string) pageData {
	return pageData{Title: "Edit product", Action: "/Products/Update", Product: p, Amounts: raw, Violations: v.Map(), Error: alert}
}

// renderForm re-displays the submitted product. Violations are shown inline
// and the response stays 200, as a normal form round trip.
func (s *Server) renderForm(w http.ResponseWriter, data pageData) {
	data.Categories = catalog.Categories()
	s.render(w, http.StatusOK, pageForm, data)
}

func (s *Server) renderError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Cache-Control", "no-store")
	s.render(w, status, pageError, pageData{Title: "Error", Message: msg})
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	if err := s.Templates.Render(w, status, name, data); err != nil {
		s.Log.Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}
