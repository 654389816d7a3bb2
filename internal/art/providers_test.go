package art

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/youruser/cardforge/internal/cache"
	"github.com/youruser/cardforge/internal/errors"
)

func TestPollinationsURL(t *testing.T) {
	p := NewPollinations()
	got := p.URL("ninja, themed around Shadow Strike/2", 512, 768)
	want := "https://image.pollinations.ai/prompt/ninja%2C%20themed%20around%20Shadow%20Strike%2F2?height=768&nologo=true&width=512"
	if got != want {
		t.Errorf("URL() =\n%s\nwant\n%s", got, want)
	}
}

func TestPollinationsGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if !strings.HasPrefix(r.URL.Path, "/prompt/a cat") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("nologo") != "true" || r.URL.Query().Get("width") != "64" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	p := NewPollinations()
	p.BaseURL = srv.URL
	got, err := p.Generate(context.Background(), "a cat", 64, 64)
	if err != nil || string(got) != "image-bytes" {
		t.Fatalf("Generate() = %q, %v", got, err)
	}
}

func TestPollinationsRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	p := NewPollinations()
	p.BaseURL, p.Backoff = srv.URL, time.Millisecond
	got, err := p.Generate(context.Background(), "x", 8, 8)
	if err != nil || string(got) != "ok" {
		t.Fatalf("Generate() = %q, %v", got, err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestPollinationsDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad prompt", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewPollinations()
	p.BaseURL, p.Backoff = srv.URL, time.Millisecond
	_, err := p.Generate(context.Background(), "x", 8, 8)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestPollinationsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewPollinations()
	p.BaseURL, p.Backoff, p.Attempts = srv.URL, time.Millisecond, 2
	if _, err := p.Generate(context.Background(), "x", 8, 8); !errors.Is(err, errors.ErrCodeRateLimited) {
		t.Errorf("error = %v, want RATE_LIMITED", err)
	}
}

func TestStabilityGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		var req stabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.TextPrompts) != 1 || req.TextPrompts[0].Text != "a cat" || req.CFGScale != 7 || req.Steps != 30 || req.Samples != 1 || req.Width != 1024 {
			t.Errorf("payload = %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"artifacts": []map[string]string{{"base64": base64.StdEncoding.EncodeToString([]byte("png!"))}},
		})
	}))
	defer srv.Close()

	s := NewStability("sk-test")
	s.Endpoint = srv.URL
	got, err := s.Generate(context.Background(), "a cat", 1024, 1024)
	if err != nil || string(got) != "png!" {
		t.Fatalf("Generate() = %q, %v", got, err)
	}
}

func TestStabilityErrors(t *testing.T) {
	t.Setenv(StabilityKeyEnv, "")
	if _, err := NewStability("").Generate(context.Background(), "x", 8, 8); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing key error = %v, want INVALID_CONFIG", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"artifacts": []}`))
	}))
	defer srv.Close()
	s := NewStability("k")
	s.Endpoint = srv.URL
	if _, err := s.Generate(context.Background(), "x", 8, 8); !errors.Is(err, errors.ErrCodeDecodeFailed) {
		t.Errorf("empty artifacts error = %v, want DECODE_FAILED", err)
	}

	unauthorized := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer unauthorized.Close()
	s.Endpoint = unauthorized.URL
	if _, err := s.Generate(context.Background(), "x", 8, 8); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("401 error = %v, want INVALID_CONFIG", err)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "pollinations", "stability"} {
		if _, err := New(name, "k"); err != nil {
			t.Errorf("New(%q) error = %v", name, err)
		}
	}
	if _, err := New("midjourney", ""); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("New(unknown) error = %v", err)
	}
}

type countingGenerator struct {
	calls int
}

func (g *countingGenerator) Name() string { return "counting" }

func (g *countingGenerator) Generate(_ context.Context, prompt string, w, h int) ([]byte, error) {
	g.calls++
	return []byte(prompt), nil
}

func TestCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingGenerator{}
	c := &Cached{Inner: inner, Cache: fc, TTL: time.Hour}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if got, err := c.Generate(ctx, "p", 10, 10); err != nil || string(got) != "p" {
			t.Fatalf("Generate() = %q, %v", got, err)
		}
	}
	if _, err := c.Generate(ctx, "p", 20, 10); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2 (size is part of the key)", inner.calls)
	}
}
