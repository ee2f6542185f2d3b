package runtime

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDoStreamSSE(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"n\":1}\n\n"))
		w.Write([]byte("data: {\"n\":2}\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	stream, err := c.DoStream(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/events"}, StreamSSE)
	if err != nil {
		t.Fatalf("DoStream: %v", err)
	}
	defer stream.Close()

	var got []string
	for {
		ev, ok, err := stream.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, string(ev.Data))
	}
	if len(got) != 2 || got[0] != `{"n":1}` || got[1] != `{"n":2}` {
		t.Errorf("got %v", got)
	}
}

func TestDoStreamNDJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		io.WriteString(w, "{\"a\":1}\n{\"a\":2}\n")
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	stream, err := c.DoStream(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/events"}, StreamNDJSON)
	if err != nil {
		t.Fatalf("DoStream: %v", err)
	}
	defer stream.Close()

	count := 0
	for {
		_, ok, err := stream.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestStreamCloseReleasesEarly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		fl, _ := w.(http.Flusher)
		for i := 0; i < 1000; i++ {
			io.WriteString(w, "{\"n\":1}\n")
			if fl != nil {
				fl.Flush()
			}
		}
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	stream, err := c.DoStream(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/events"}, StreamNDJSON)
	if err != nil {
		t.Fatalf("DoStream: %v", err)
	}
	if _, _, err := stream.Next(context.Background()); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
