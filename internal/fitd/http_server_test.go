package fitd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHTTPServer(rps float64, burst int) *HTTPServer {
	store, exec, metrics := newTestServices(testConfig())
	return NewHTTPServer(store, exec, metrics, rps, burst)
}

func doRequest(t *testing.T, srv *HTTPServer, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	srv.Handler().ServeHTTP(rr, req)

	var decoded map[string]any
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
	}
	return rr, decoded
}

func TestHTTPServerHealthz(t *testing.T) {
	rr, body := doRequest(t, newTestHTTPServer(0, 0), http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", body["status"])
	}
	if body["timestamp"] == "" {
		t.Fatalf("expected timestamp to be set")
	}
}

func TestHTTPServerModelsAndDatasets(t *testing.T) {
	srv := newTestHTTPServer(0, 0)

	rr, body := doRequest(t, srv, http.MethodGet, "/v1/models", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	models, ok := body["models"].([]any)
	if !ok || len(models) != 2 {
		t.Fatalf("expected 2 models, got %v", body["models"])
	}

	rr, body = doRequest(t, srv, http.MethodGet, "/v1/datasets", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	datasets, ok := body["datasets"].([]any)
	if !ok || len(datasets) != 3 {
		t.Fatalf("expected 3 datasets, got %v", body["datasets"])
	}
	all := datasets[2].(map[string]any)
	if all["name"] != "all" || all["points"] != float64(16) {
		t.Fatalf("unexpected dataset entry %v", all)
	}

	rr, _ = doRequest(t, srv, http.MethodPost, "/v1/models", "{}")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHTTPServerCreateAndGetFit(t *testing.T) {
	srv := newTestHTTPServer(0, 0)

	rr, body := doRequest(t, srv, http.MethodPost, "/v1/fits", `{"model":"mvk","dataset":"matlab"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	fitJSON := body["fit"].(map[string]any)
	if fitJSON["status"] != string(StatusCompleted) {
		t.Fatalf("expected completed, got %v", fitJSON["status"])
	}
	rep := fitJSON["report"].(map[string]any)
	if rep["model"] != "mars-van-krevelen" {
		t.Fatalf("unexpected report model %v", rep["model"])
	}
	id := fitJSON["id"].(string)

	rr, body = doRequest(t, srv, http.MethodGet, "/v1/fits/"+id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if body["fit"].(map[string]any)["id"] != id {
		t.Fatalf("expected fit %s", id)
	}

	rr, body = doRequest(t, srv, http.MethodGet, "/v1/fits?status=completed", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if fits := body["fits"].([]any); len(fits) != 1 {
		t.Fatalf("expected 1 fit, got %d", len(fits))
	}
}

func TestHTTPServerCreateFitAsync(t *testing.T) {
	srv := newTestHTTPServer(0, 0)

	rr, body := doRequest(t, srv, http.MethodPost, "/v1/fits?wait=false", `{"model":"hw"}`)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", rr.Code, rr.Body.String())
	}
	id := body["fit"].(map[string]any)["id"].(string)

	srv.Executor.Wait()
	_, body = doRequest(t, srv, http.MethodGet, "/v1/fits/"+id, "")
	if got := body["fit"].(map[string]any)["status"]; got != string(StatusCompleted) {
		t.Fatalf("expected completed, got %v", got)
	}
}

func TestHTTPServerErrors(t *testing.T) {
	srv := newTestHTTPServer(0, 0)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{"bad body", http.MethodPost, "/v1/fits", "{", http.StatusBadRequest},
		{"bad wait", http.MethodPost, "/v1/fits?wait=maybe", "{}", http.StatusBadRequest},
		{"unknown model", http.MethodPost, "/v1/fits", `{"model":"langmuir"}`, http.StatusBadRequest},
		{"zero rate", http.MethodPost, "/v1/fits", `{"observations":[{"x1":1,"x2":1,"rate":0}]}`, http.StatusBadRequest},
		{"initial outside bounds", http.MethodPost, "/v1/fits", `{"model":"hw","initial":[0.0346,4.35,14.81]}`, http.StatusBadRequest},
		{"bad status filter", http.MethodGet, "/v1/fits?status=done", "", http.StatusBadRequest},
		{"missing fit", http.MethodGet, "/v1/fits/nope", "", http.StatusNotFound},
		{"missing id", http.MethodGet, "/v1/fits/", "", http.StatusBadRequest},
		{"delete fit", http.MethodDelete, "/v1/fits/abc", "", http.StatusMethodNotAllowed},
		{"put fits", http.MethodPut, "/v1/fits", "{}", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := doRequest(t, srv, tt.method, tt.path, tt.body)
			if rr.Code != tt.code {
				t.Fatalf("expected status %d, got %d: %s", tt.code, rr.Code, rr.Body.String())
			}
			if body["error"] == nil {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestHTTPServerRejectsOversizedWork(t *testing.T) {
	srv := newTestHTTPServer(0, 0)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"starts", "/v1/fits", `{"model":"hw","starts":100000000}`},
		{"starts async", "/v1/fits?wait=false", `{"model":"hw","starts":100000000}`},
		{"max iterations", "/v1/fits", `{"model":"hw","max_iterations":1000000000}`},
		{"max iterations async", "/v1/fits?wait=false", `{"model":"hw","max_iterations":1000000000}`},
		{"negative iterations", "/v1/fits", `{"model":"hw","max_iterations":-5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := doRequest(t, srv, http.MethodPost, tt.path, tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}
			if msg, _ := body["error"].(string); !strings.Contains(msg, "invalid request") {
				t.Fatalf("expected invalid request message, got %v", body["error"])
			}
		})
	}

	_, body := doRequest(t, srv, http.MethodGet, "/v1/fits", "")
	if fits, _ := body["fits"].([]any); len(fits) != 0 {
		t.Fatalf("expected no fit records, got %d", len(fits))
	}
}

func TestHTTPServerRateLimit(t *testing.T) {
	srv := newTestHTTPServer(0.001, 1)

	rr, _ := doRequest(t, srv, http.MethodGet, "/v1/fits", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rr.Code)
	}
	rr, _ = doRequest(t, srv, http.MethodGet, "/v1/fits", "")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	// unlimited routes stay available
	rr, _ = doRequest(t, srv, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected healthz to bypass the limiter, got %d", rr.Code)
	}
}

func TestHTTPServerMetrics(t *testing.T) {
	srv := newTestHTTPServer(0, 0)
	doRequest(t, srv, http.MethodPost, "/v1/fits", `{"model":"mvk"}`)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	out := rr.Body.String()
	for _, want := range []string{
		`kinfit_fits_total{model="mars-van-krevelen",status="completed"} 1`,
		"kinfit_fit_duration_seconds_bucket",
		`kinfit_http_requests_total{code="Created",route="fits"} 1`,
		"kinfit_last_score",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected metrics to contain %q:\n%s", want, out)
		}
	}
}
