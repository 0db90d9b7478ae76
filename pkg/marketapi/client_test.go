package marketapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/"})
}

func TestListOrdersAcceptsBareArrayAndEnvelope(t *testing.T) {
	bodies := map[string]string{
		"bare":     `[{"_id":"o1","status":"completed"}]`,
		"envelope": `{"data":[{"id":"o1","status":"completed"}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/orders", r.URL.Path)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				_, _ = io.WriteString(w, body)
			})
			orders, err := c.ListOrders(context.Background(), "tok")
			require.NoError(t, err)
			require.Len(t, orders, 1)
			assert.Equal(t, "o1", orders[0].ID)
		})
	}
}

func TestListOrdersNonListPayloadIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})
	orders, err := c.ListOrders(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestUnauthorizedSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := c.ListOrders(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAPIErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"product not found"}`)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	})

	err := c.DeleteProduct(context.Background(), "tok", "p1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "product not found", ErrorReason(err))

	_, err = c.PatchProduct(context.Background(), "tok", "p1", map[string]any{"stock": 1})
	assert.Equal(t, "Bad Request", ErrorReason(err))
}

func TestListProductsQueryAndPagination(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/products", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "Süt", r.URL.Query().Get("category"))
		_, _ = io.WriteString(w, `{"data":[{"_id":"p1","name":"Ayran","price":12.5,"stock":0}],"pagination":{"page":3,"totalPages":"x"}}`)
	})
	page, err := c.ListProducts(context.Background(), "tok", ProductQuery{Page: 3, Category: "Süt"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "p1", page.Products[0].ID)
	require.NotNil(t, page.Pagination.Page)
	assert.Equal(t, 3, *page.Pagination.Page)
	assert.Nil(t, page.Pagination.TotalPages)
}

func TestListCategoriesSendsNoToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[{"_id":"c1","name":"Süt","isActive":true}]`)
	})
	cats, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Süt", cats[0].Name)
}

func TestCreateProductMultipart(t *testing.T) {
	active := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Ayran", r.FormValue("name"))
		assert.Equal(t, "24.9", r.FormValue("price"))
		assert.Equal(t, "5", r.FormValue("stock"))
		assert.Equal(t, []string{"Süt", "İçecek"}, r.MultipartForm.Value["category"])
		assert.Equal(t, "true", r.FormValue("isActive"))
		_, hasCampaign := r.MultipartForm.Value["isCampaign"]
		assert.False(t, hasCampaign)
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "ayran.png", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, "png-bytes", string(data))
		w.WriteHeader(http.StatusCreated)
	})

	err := c.CreateProduct(context.Background(), "tok", ProductForm{
		Name:       "Ayran",
		Price:      decimal.RequireFromString("24.90"),
		Stock:      5,
		Categories: []string{"Süt", "İçecek"},
		IsActive:   &active,
		Image:      &ImageFile{Filename: "ayran.png", ContentType: "image/png", Content: strings.NewReader("png-bytes")},
	})
	require.NoError(t, err)
}

func TestPatchProductReturnsServerProduct(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["isCampaign"])
		_, _ = io.WriteString(w, `{"_id":"p1","isCampaign":true}`)
	})
	p, err := c.PatchProduct(context.Background(), "tok", "p1", map[string]any{"isCampaign": true})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.IsCampaign)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"token":"jwt"}`)
	})

	token, err := c.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt", token)

	_, err = c.Login(context.Background(), "a@b.c", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSanitizeForLogMasksNestedSecrets(t *testing.T) {
	out := sanitizeForLog([]byte(`{"email":"a","password":"p","nested":[{"token":"t"}]}`))
	assert.NotContains(t, string(out), `"p"`)
	assert.NotContains(t, string(out), `"t"`)
	assert.Contains(t, string(out), "***MASKED***")
}
