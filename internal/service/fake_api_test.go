package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/herevemarket/admin_console/internal/models"
	"github.com/herevemarket/admin_console/pkg/marketapi"
)

// fakeMarket is an in-memory market API.
type fakeMarket struct {
	mu sync.Mutex

	orders     []map[string]any
	categories []map[string]any
	products   []map[string]any
	pagination map[string]any

	// fail maps "METHOD /path" to a status code and optional error message.
	fail    map[string]failure
	calls   []string
	queries []string
	bodies  map[string]map[string]any
	forms   map[string]map[string][]string
}

type failure struct {
	status  int
	message string
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		fail:   map[string]failure{},
		bodies: map[string]map[string]any{},
		forms:  map[string]map[string][]string{},
	}
}

func (f *fakeMarket) failOn(route string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[route] = failure{status: status, message: message}
}

func (f *fakeMarket) callCount(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == route {
			n++
		}
	}
	return n
}

// productFromForm stores a posted multipart product the way the API echoes it.
func productFromForm(form map[string][]string) map[string]any {
	first := func(k string) string {
		if v := form[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	p := map[string]any{
		"name":        first("name"),
		"brand":       first("brand"),
		"barcode":     first("barcode"),
		"description": first("description"),
		"isActive":    first("isActive") == "true",
		"isCampaign":  first("isCampaign") == "true",
	}
	if price, err := strconv.ParseFloat(first("price"), 64); err == nil {
		p["price"] = price
	}
	if stock, err := strconv.Atoi(first("stock")); err == nil {
		p["stock"] = stock
	}
	categories := []any{}
	for _, c := range form["category"] {
		categories = append(categories, c)
	}
	p["category"] = categories
	return p
}

func (f *fakeMarket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	route := r.Method + " " + r.URL.Path
	f.calls = append(f.calls, route)
	if r.URL.RawQuery != "" {
		f.queries = append(f.queries, r.URL.RawQuery)
	}

	if fl, ok := f.fail[route]; ok {
		w.WriteHeader(fl.status)
		if fl.message != "" {
			_ = json.NewEncoder(w).Encode(map[string]string{"error": fl.message})
		}
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			values := map[string][]string{}
			for k, v := range r.MultipartForm.Value {
				values[k] = v
			}
			for k := range r.MultipartForm.File {
				values["file:"+k] = []string{r.MultipartForm.File[k][0].Filename}
			}
			f.forms[route] = values
		}
	} else if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		if json.Unmarshal(data, &body) == nil {
			f.bodies[route] = body
		}
	}

	switch {
	case route == "GET /orders":
		writeJSON(w, map[string]any{"data": f.orders})
	case route == "GET /categories":
		writeJSON(w, f.categories)
	case route == "GET /admin/api/products":
		resp := map[string]any{"data": f.products}
		if f.pagination != nil {
			resp["pagination"] = f.pagination
		}
		writeJSON(w, resp)
	case route == "POST /admin/api/products":
		created := productFromForm(f.forms[route])
		created["_id"] = fmt.Sprintf("new-%d", len(f.products)+1)
		f.products = append(f.products, created)
		writeJSON(w, created)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/admin/api/products/"):
		id := strings.TrimPrefix(r.URL.Path, "/admin/api/products/")
		for _, p := range f.products {
			if p["_id"] == id {
				for k, v := range f.bodies[route] {
					p[k] = v
				}
				writeJSON(w, p)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/admin/api/orders/"):
		id := strings.TrimPrefix(r.URL.Path, "/admin/api/orders/")
		kept := f.orders[:0]
		for _, o := range f.orders {
			if o["_id"] != id {
				kept = append(kept, o)
			}
		}
		f.orders = kept
		writeJSON(w, map[string]string{"message": "deleted"})
	default:
		writeJSON(w, map[string]string{"message": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeClient(t *testing.T, f *fakeMarket) *marketapi.Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return marketapi.NewClient(marketapi.Config{BaseURL: srv.URL})
}

// recorder collects activities.
type recorder struct {
	activities []models.Activity
}

func (r *recorder) Record(_ context.Context, a models.Activity) {
	r.activities = append(r.activities, a)
}

func (r *recorder) actions() []string {
	var out []string
	for _, a := range r.activities {
		out = append(out, a.Action)
	}
	return out
}

func answer(yes bool) (Confirmer, *[]string) {
	var asked []string
	return ConfirmFunc(func(msg string) bool {
		asked = append(asked, msg)
		return yes
	}), &asked
}

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

var testSession = Session{Token: "tok", ID: "s1", Actor: "admin@hereve.market"}
