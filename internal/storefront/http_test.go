package storefront

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ProductCatalog/internal/catalog"
)

func newTestServer(t *testing.T, store catalog.Store, rules catalog.Rules) http.Handler {
	t.Helper()

	ts, err := LoadTemplates()
	require.NoError(t, err)

	s := &Server{Store: store, Templates: ts, Log: zap.NewNop(), Rules: rules}
	return NewHandler(s, HTTPDeps{Log: zap.NewNop()})
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func post(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func productForm(name string) url.Values {
	return url.Values{
		"name":            {name},
		"description":     {"A sturdy desk lamp."},
		"price":           {"1500"},
		"quantity":        {"3"},
		"productCategory": {"Other"},
	}
}

func TestRootRedirectsToProducts(t *testing.T) {
	h := newTestServer(t, catalog.NewMemStore(), catalog.DefaultRules)

	rr := get(h, "/")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/Products", rr.Header().Get("Location"))
}

func TestListShowsProducts(t *testing.T) {
	store := catalog.NewMemStore()
	require.NoError(t, catalog.Seed(context.Background(), store, catalog.DemoProducts()))
	h := newTestServer(t, store, catalog.DefaultRules)

	rr := get(h, "/Products")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	for _, p := range catalog.DemoProducts() {
		assert.Contains(t, rr.Body.String(), p.Name)
	}

	rr = get(h, "/Products")
	assert.Contains(t, rr.Body.String(), "Electronics")
}

func TestAddValidProductRedirectsToEdit(t *testing.T) {
	store := catalog.NewMemStore()
	h := newTestServer(t, store, catalog.DefaultRules)

	rr := post(h, "/Products/Add", productForm("Lamp"))
	require.Equal(t, http.StatusSeeOther, rr.Code)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "/Products/Edit/"+all[0].ID, rr.Header().Get("Location"))
	assert.Equal(t, catalog.Other, all[0].Category)

	rr = get(h, rr.Header().Get("Location"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `value="Lamp"`)
	assert.Contains(t, rr.Body.String(), `value="Other" selected`)
	assert.Contains(t, rr.Body.String(), `name="price" inputmode="numeric" value="1500"`)
}

func TestAddInvalidProductRedisplaysForm(t *testing.T) {
	store := catalog.NewMemStore()
	h := newTestServer(t, store, catalog.DefaultRules)

	form := productForm("12")
	form.Set("price", "abc")
	form.Set("productCategory", "Toys")

	rr := post(h, "/Products/Add", form)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, "The product name must be between 3 and 10 characters.")
	assert.Contains(t, body, catalog.MsgPrice)
	assert.Contains(t, body, catalog.MsgCategory)
	assert.Contains(t, body, `value="12"`)
	assert.Contains(t, body, "A sturdy desk lamp.")
	assert.Contains(t, body, `name="price" inputmode="numeric" value="abc"`)
	assert.Contains(t, body, `name="quantity" inputmode="numeric" value="3"`)

	all, _ := store.List(context.Background())
	assert.Empty(t, all)
}

func TestAddHonorsConfiguredNameMax(t *testing.T) {
	store := catalog.NewMemStore()
	h := newTestServer(t, store, catalog.DefaultRules.WithNameMax(100))

	rr := post(h, "/Products/Add", productForm("Adjustable LED desk lamp"))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestEditMissingProduct(t *testing.T) {
	h := newTestServer(t, catalog.NewMemStore(), catalog.DefaultRules)

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		rr := get(h, "/Products/Edit/"+id)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Product not found.")
	}
}

func TestUpdate(t *testing.T) {
	store := catalog.NewMemStore()
	created, err := store.Create(context.Background(), catalog.Product{Name: "Lamp", Description: "Desk lamp.", Category: catalog.Other})
	require.NoError(t, err)
	h := newTestServer(t, store, catalog.DefaultRules)

	form := productForm("Lantern")
	form.Set("id", created.ID)
	rr := post(h, "/Products/Update", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/Products/Edit/"+created.ID, rr.Header().Get("Location"))

	got, _, _ := store.Get(context.Background(), created.ID)
	assert.Equal(t, "Lantern", got.Name)
	assert.Equal(t, 1500, got.Price)

	form.Set("name", "x")
	rr = post(h, "/Products/Update", form)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "The product name must be between 3 and 10 characters.")
	assert.Contains(t, rr.Body.String(), `action="/Products/Update"`)

	got, _, _ = store.Get(context.Background(), created.ID)
	assert.Equal(t, "Lantern", got.Name)
}

func TestUpdateMissingProduct(t *testing.T) {
	h := newTestServer(t, catalog.NewMemStore(), catalog.DefaultRules)

	form := productForm("Lantern")
	form.Set("id", uuid.NewString())
	rr := post(h, "/Products/Update", form)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Product update failed.")
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}

func TestRemove(t *testing.T) {
	store := catalog.NewMemStore()
	a, _ := store.Create(context.Background(), catalog.Product{Name: "Lamp", Description: "Desk lamp.", Category: catalog.Other})
	b, _ := store.Create(context.Background(), catalog.Product{Name: "Cup", Description: "Tea cup.", Category: catalog.Food})
	h := newTestServer(t, store, catalog.DefaultRules)

	rr := post(h, "/Products/Remove", url.Values{"id": {a.ID}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/Products", rr.Header().Get("Location"))

	rr = post(h, "/Products/Remove", url.Values{"guid": {b.ID}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr = post(h, "/Products/Remove", url.Values{"id": {uuid.NewString()}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	all, _ := store.List(context.Background())
	assert.Empty(t, all)
}

func TestRemoteStoreRejectionsAreShown(t *testing.T) {
	api := catalog.NewHandler(catalog.NewServer(catalog.NewMemStore(), zap.NewNop(), catalog.DefaultRules), catalog.HTTPDeps{Log: zap.NewNop()})
	srv := httptest.NewServer(api)
	defer srv.Close()

	// the storefront accepts longer names than the API does
	h := newTestServer(t, catalog.NewClient(srv.URL, 0), catalog.DefaultRules.WithNameMax(100))

	rr := post(h, "/Products/Add", productForm("Adjustable LED desk lamp"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "The product name must be between 3 and 10 characters.")

	rr = post(h, "/Products/Add", productForm("Lamp"))
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr = get(h, "/Products")
	assert.Contains(t, rr.Body.String(), "Lamp")

	rr = get(h, "/readyz")
	assert.Equal(t, http.StatusOK, rr.Code)
}

type brokenStore struct{ catalog.Store }

func (brokenStore) List(context.Context) ([]catalog.Product, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Create(context.Context, catalog.Product) (catalog.Product, error) {
	return catalog.Product{}, errors.New("connection refused")
}

func TestStoreFailures(t *testing.T) {
	h := newTestServer(t, brokenStore{}, catalog.DefaultRules)

	rr := get(h, "/Products")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), msgUnavailable)

	rr = post(h, "/Products/Add", productForm("Lamp"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), msgUnavailable)
}

func TestStaticAssets(t *testing.T) {
	h := newTestServer(t, catalog.NewMemStore(), catalog.DefaultRules)

	rr := get(h, "/static/style.css")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/css")
}

func TestLoadTemplatesErrors(t *testing.T) {
	_, err := loadTemplates(fstest.MapFS{})
	assert.ErrorContains(t, err, "layout")

	_, err = loadTemplates(fstest.MapFS{
		"layout.html":   {Data: []byte(`{{define "layout"}}{{template "content" .}}{{end}}`)},
		"products.html": {Data: []byte(`{{define "content"}}{{.Nope}{{end}}`)},
	})
	assert.ErrorContains(t, err, "products.html")
}
