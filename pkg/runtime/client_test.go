package runtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientDoSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer auth header, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Auth:    []AuthStrategy{BearerAuth{Token: "tok"}},
	})

	var out map[string]string
	if err := c.Do(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/things"}, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out["ok"] != "yes" {
		t.Errorf("got %v", out)
	}
}

func TestClientDoNonOKReturnsTypedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"nope"}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	err := c.Do(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/missing"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var nfe *NotFoundError
	if !asNotFound(err, &nfe) {
		t.Fatalf("expected *NotFoundError, got %T: %v", err, err)
	}
	if nfe.Status != 404 {
		t.Errorf("status = %d, want 404", nfe.Status)
	}
}

func asNotFound(err error, target **NotFoundError) bool {
	if nfe, ok := err.(*NotFoundError); ok {
		*target = nfe
		return true
	}
	return false
}

func TestClientRetriesOnServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"attempt": attempts})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Retry: RetryPolicy{
			Kind:        RetryExponential,
			MaxAttempts: 5,
			BaseDelay:   time.Millisecond,
			RetryOn:     DefaultRetryOn(),
		},
	})

	var out map[string]int
	if err := c.Do(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/flaky"}, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if out["attempt"] != 3 {
		t.Errorf("out = %v", out)
	}
}

func TestClientDoesNotRetryNonRetryableStatus(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Retry:   RetryPolicy{Kind: RetryExponential, MaxAttempts: 5, BaseDelay: time.Millisecond, RetryOn: DefaultRetryOn()},
	})

	err := c.Do(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/bad"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (400 is not retryable)", attempts)
	}
}

func TestPerCallHeaderWinsOverDefault(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Custom")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		DefaultHeaders: http.Header{"X-Custom": []string{"default"}},
	})
	err := c.Do(context.Background(), RequestOptions{
		Method:  http.MethodGet,
		Path:    "/x",
		Headers: http.Header{"X-Custom": []string{"override"}},
	}, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if seen != "override" {
		t.Errorf("X-Custom = %q, want override", seen)
	}
}

func TestAPIKeyInQuery(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Auth:    []AuthStrategy{APIKeyAuth{In: APIKeyInQuery, Name: "api_key", Value: "secret"}},
	})
	if err := c.Do(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/x"}, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("api_key = %q, want secret", gotKey)
	}
}
