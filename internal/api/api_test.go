package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAPIKeyAuthMissingKey(t *testing.T) {
	handler := APIKeyAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/videos", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAPIKeyAuthWrongKey(t *testing.T) {
	handler := APIKeyAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/v1/videos", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestAPIKeyAuthAcceptsHeaderAndBearer(t *testing.T) {
	handler := APIKeyAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/v1/videos", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("X-API-Key: expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/v1/videos", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Bearer: expected 200, got %d", rec.Code)
	}
}

func TestCreateRenderRejectsEmptyPrompt(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	for _, body := range []string{`{}`, `{"prompt":"   "}`, `not json`} {
		req := httptest.NewRequest("POST", "/v1/videos", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.CreateRender(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
		var resp map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("body %q: invalid error response: %v", body, err)
		}
		if resp["error"] == "" {
			t.Errorf("body %q: expected error message", body)
		}
	}
}

func TestCreateRenderRejectsOversizedPrompt(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	prompt := strings.Repeat("a", maxPromptLength+1)
	body := `{"prompt":"` + prompt + `"}`
	req := httptest.NewRequest("POST", "/v1/videos", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateRender(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
