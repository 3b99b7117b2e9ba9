package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ProductCatalog/internal/auth"
	"ProductCatalog/pkg/kit"
)

func newTestHandler(t *testing.T, store Store, deps HTTPDeps) http.Handler {
	t.Helper()
	deps.Log = zap.NewNop()
	return NewHandler(NewServer(store, zap.NewNop(), DefaultRules), deps)
}

func do(t *testing.T, h http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) (string, map[string]string) {
	t.Helper()

	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error, body.Details
}

const validBody = `{"name":"Keyboard","description":"Mechanical keyboard.","price":4990,"quantity":3,"productCategory":"Electronics"}`

func TestCreateValidProduct(t *testing.T) {
	store := NewMemStore()
	h := newTestHandler(t, store, HTTPDeps{})

	rr := do(t, h, http.MethodPost, "/products", validBody)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var p Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Keyboard", p.Name)
	assert.Equal(t, Electronics, p.Category)

	_, ok, _ := store.Get(context.Background(), p.ID)
	assert.True(t, ok)
}

func TestCreateRejectsShortName(t *testing.T) {
	store := NewMemStore()
	h := newTestHandler(t, store, HTTPDeps{})

	rr := do(t, h, http.MethodPost, "/products", `{"name":"12","description":"Mechanical keyboard.","price":1,"quantity":1,"productCategory":"Food"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	msg, details := decodeError(t, rr)
	assert.Equal(t, "validation failed", msg)
	assert.Equal(t, "The product name must be between 3 and 10 characters.", details[FieldName])

	all, _ := store.List(context.Background())
	assert.Empty(t, all)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	h := newTestHandler(t, NewMemStore(), HTTPDeps{})

	for _, cat := range []string{`"Toys"`, `42`} {
		rr := do(t, h, http.MethodPost, "/products", `{"name":"Ball","description":"Red ball.","price":1,"quantity":1,"productCategory":`+cat+`}`)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		_, details := decodeError(t, rr)
		assert.Equal(t, "Invalid product category.", details[FieldCategory])
	}
}

func TestCreateRejectsAmountsAboveColumnRange(t *testing.T) {
	store := NewMemStore()
	h := newTestHandler(t, store, HTTPDeps{})

	rr := do(t, h, http.MethodPost, "/products", `{"name":"Vault","description":"Bank vault.","price":3000000000,"quantity":2147483648,"productCategory":"Other"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	_, details := decodeError(t, rr)
	assert.Equal(t, MsgPrice, details[FieldPrice])
	assert.Equal(t, MsgQuantity, details[FieldQuantity])

	all, _ := store.List(context.Background())
	assert.Empty(t, all)
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	h := newTestHandler(t, NewMemStore(), HTTPDeps{})

	for _, body := range []string{`{`, `[1,2]`, validBody + `{}`} {
		rr := do(t, h, http.MethodPost, "/products", body)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		msg, _ := decodeError(t, rr)
		assert.Equal(t, "invalid json", msg)
	}
}

func TestUnknownFieldsAreRejected(t *testing.T) {
	store := NewMemStore()
	created, _ := store.Create(context.Background(), Product{Name: "Mouse", Description: "Optical.", Category: Electronics})
	h := newTestHandler(t, store, HTTPDeps{})

	body := `{"name":"Ball","description":"Red ball.","price":1,"quantity":1,"productCategory":"Other","color":"red"}`

	rr := do(t, h, http.MethodPost, "/products", body)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	msg, _ := decodeError(t, rr)
	assert.Equal(t, "invalid json", msg)

	rr = do(t, h, http.MethodPut, "/products/"+created.ID, body)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	got, _, _ := store.Get(context.Background(), created.ID)
	assert.Equal(t, "Mouse", got.Name)
}

func TestGetAndList(t *testing.T) {
	store := NewMemStore()
	created, _ := store.Create(context.Background(), Product{Name: "Mouse", Description: "Optical.", Category: Electronics})
	h := newTestHandler(t, store, HTTPDeps{})

	rr := do(t, h, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var all []Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	assert.Equal(t, []Product{created}, all)

	rr = do(t, h, http.MethodGet, "/products/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/products/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodGet, "/products/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdate(t *testing.T) {
	store := NewMemStore()
	created, _ := store.Create(context.Background(), Product{Name: "Mouse", Description: "Optical.", Category: Electronics})
	h := newTestHandler(t, store, HTTPDeps{})

	rr := do(t, h, http.MethodPut, "/products/"+created.ID, validBody)
	require.Equal(t, http.StatusOK, rr.Code)
	var p Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, created.ID, p.ID)
	assert.Equal(t, "Keyboard", p.Name)

	rr = do(t, h, http.MethodPut, "/products/"+uuid.NewString(), validBody)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodPut, "/products/"+created.ID, `{"name":"12","description":"x","price":-1,"quantity":0,"productCategory":"Food"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	_, details := decodeError(t, rr)
	assert.Len(t, details, 3)

	got, _, _ := store.Get(context.Background(), created.ID)
	assert.Equal(t, "Keyboard", got.Name)
}

func TestDelete(t *testing.T) {
	store := NewMemStore()
	created, _ := store.Create(context.Background(), Product{Name: "Mouse", Description: "Optical.", Category: Electronics})
	h := newTestHandler(t, store, HTTPDeps{})

	rr := do(t, h, http.MethodDelete, "/products/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodDelete, "/products/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

type failingStore struct{ *MemStore }

var errBroken = errors.New("broken")

func (*failingStore) List(context.Context) ([]Product, error) { return nil, errBroken }
func (*failingStore) Create(context.Context, Product) (Product, error) {
	return Product{}, errBroken
}
func (*failingStore) Ping(context.Context) error { return errBroken }

func TestStoreFailuresAreServerErrors(t *testing.T) {
	h := newTestHandler(t, &failingStore{NewMemStore()}, HTTPDeps{})

	rr := do(t, h, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	msg, _ := decodeError(t, rr)
	assert.Equal(t, "server error", msg)

	rr = do(t, h, http.MethodPost, "/products", validBody)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = do(t, h, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestWriteRoutesRequireToken(t *testing.T) {
	tm, err := auth.NewTokenMaker("s3cret")
	require.NoError(t, err)
	h := newTestHandler(t, NewMemStore(), HTTPDeps{Tokens: tm})

	rr := do(t, h, http.MethodPost, "/products", validBody)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, h, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	tok, err := tm.New("test", time.Minute)
	require.NoError(t, err)
	rr = do(t, h, http.MethodPost, "/products", validBody, "Authorization", "Bearer "+tok)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestWriteRoutesRateLimited(t *testing.T) {
	h := newTestHandler(t, NewMemStore(), HTTPDeps{WritesPerMinute: 2})

	for range 2 {
		rr := do(t, h, http.MethodPost, "/products", validBody)
		require.Equal(t, http.StatusCreated, rr.Code)
	}
	rr := do(t, h, http.MethodPost, "/products", validBody)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	rr = do(t, h, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t, NewMemStore(), HTTPDeps{
		Service:        "catalog",
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   "scrape",
	})

	do(t, h, http.MethodGet, "/products", "")

	rr := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, h, http.MethodGet, "/metrics", "", "Authorization", "Bearer scrape")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `catalog_http_requests_total{method="GET",path="/products",service="catalog",status="200"} 1`)
}

func TestPanicIsRecovered(t *testing.T) {
	h := newTestHandler(t, panicStore{}, HTTPDeps{})

	rr := do(t, h, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var body kit.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "server error", body.Error)
	assert.NotEmpty(t, body.RequestID)
}

type panicStore struct{ Store }

func (panicStore) List(context.Context) ([]Product, error) { panic("boom") }
