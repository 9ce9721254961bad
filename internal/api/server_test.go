package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"github.com/san-kum/uavsizer/internal/airfoil"
	"github.com/san-kum/uavsizer/internal/assets"
	"github.com/san-kum/uavsizer/internal/db"
	"github.com/san-kum/uavsizer/internal/design"
	"github.com/san-kum/uavsizer/internal/log"
	"github.com/san-kum/uavsizer/internal/storage"
)

func newServer(t *testing.T, r rate.Limit, burst int) *Server {
	t.Helper()
	database, err := db.Open(assets.FS())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	src := design.Sources{
		DB:       database,
		Airfoils: airfoil.NewLibrary(assets.FS()),
		AVLDir:   t.TempDir(),
		Logger:   log.Discard(),
	}
	return New(src, storage.New(t.TempDir()), r, burst)
}

func do(h http.Handler, method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndFetchDesign(t *testing.T) {
	h := newServer(t, 100, 100).Handler()

	rec := do(h, "POST", "/api/designs", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		ID     string `json:"id"`
		Design struct {
			Weight struct {
				MTOW float64 `json:"mtow"`
			} `json:"weight"`
		} `json:"design"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID == "" || out.Design.Weight.MTOW <= 0 {
		t.Fatalf("unexpected response %+v", out)
	}

	if rec := do(h, "GET", "/api/designs/"+out.ID, nil); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	rec = do(h, "GET", "/api/designs/"+out.ID+"/sheet", nil)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Errorf("expected PDF sheet, got %d", rec.Code)
	}
	rec = do(h, "GET", "/api/designs", nil)
	if !strings.Contains(rec.Body.String(), out.ID) {
		t.Error("expected run in listing")
	}
	if rec := do(h, "GET", "/api/designs/missing", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestCreateDesignErrors(t *testing.T) {
	h := newServer(t, 100, 100).Handler()

	tests := []struct {
		name string
		url  string
		body string
	}{
		{"bad json", "/api/designs", "{"},
		{"bad value", "/api/designs", `{"mission": {"target_value": -1}}`},
		{"bad preset", "/api/designs?preset=nope", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, "POST", tt.url, []byte(tt.body))
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("expected 422, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestDatabases(t *testing.T) {
	h := newServer(t, 100, 100).Handler()

	rec := do(h, "GET", "/api/databases", nil)
	if !strings.Contains(rec.Body.String(), "motors") {
		t.Errorf("expected motors category, got %s", rec.Body.String())
	}
	rec = do(h, "GET", "/api/databases/motors", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "fields") {
		t.Errorf("expected motor records, got %d", rec.Code)
	}
	rec = do(h, "GET", "/api/databases/propellers", nil)
	if !strings.Contains(rec.Body.String(), "10x7E") {
		t.Errorf("expected propeller names, got %s", rec.Body.String())
	}
	if rec := do(h, "GET", "/api/databases/wheels", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	h := newServer(t, 0.01, 2).Handler()
	for i := 0; i < 2; i++ {
		if rec := do(h, "GET", "/api/presets", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	if rec := do(h, "GET", "/api/presets", nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	rec := do(newServer(t, 1, 1).Handler(), "OPTIONS", "/api/designs", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
}
