package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
	"github.com/catalogo/storefront-client/internal/core/service"
	"github.com/catalogo/storefront-client/internal/infrastructure/storage/memory"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type staticToken string

func (s staticToken) Token(context.Context) string { return string(s) }

// captured is what the test server saw for the last request.
type captured struct {
	mu      sync.Mutex
	method  string
	path    string
	query   string
	header  http.Header
	body    []byte
	request int
}

func (c *captured) snapshot() captured {
	c.mu.Lock()
	defer c.mu.Unlock()
	return captured{method: c.method, path: c.path, query: c.query, header: c.header.Clone(), body: c.body, request: c.request}
}

func newServer(t *testing.T, status int, respBody string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.method = r.Method
		c.path = r.URL.Path
		c.query = r.URL.RawQuery
		c.header = r.Header.Clone()
		c.body = body
		c.request++
		c.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func newClient(t *testing.T, baseURL string, tokens ports.TokenSource, onInvalid InvalidationFunc) *Client {
	t.Helper()
	c, err := New(Options{
		BaseURL:              baseURL + "/api",
		Tokens:               tokens,
		OnSessionInvalidated: onInvalid,
		Logger:               zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func apiError(t *testing.T, err error) *domain.APIError {
	t.Helper()
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %T (%v)", err, err)
	}
	return apiErr
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "localhost:8080"} {
		if _, err := New(Options{BaseURL: raw}); err == nil {
			t.Errorf("New(%q): expected error", raw)
		}
	}
}

// ---------------------------------------------------------------------------
// Request phase
// ---------------------------------------------------------------------------

func TestDo_AttachesBearerToken(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `[]`)
	c := newClient(t, srv.URL, staticToken("abc123"), nil)

	if _, err := c.Do(context.Background(), ports.APIRequest{Path: "/products"}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	got := seen.snapshot()
	if got.header.Get("Authorization") != "Bearer abc123" {
		t.Errorf("Authorization = %q", got.header.Get("Authorization"))
	}
	if got.path != "/api/products" {
		t.Errorf("path = %q, want /api/products", got.path)
	}
	if got.header.Get(headerRequestID) == "" {
		t.Error("expected request id header")
	}
}

func TestDo_NoTokenNoAuthorization(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `{}`)
	c := newClient(t, srv.URL, staticToken(""), nil)

	if _, err := c.Do(context.Background(), ports.APIRequest{Path: "/categories"}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if h := seen.snapshot().header.Get("Authorization"); h != "" {
		t.Errorf("expected no Authorization header, got %q", h)
	}
}

func TestDo_SkipAuth(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `{}`)
	c := newClient(t, srv.URL, staticToken("abc123"), nil)

	_, err := c.Do(context.Background(), ports.APIRequest{Method: http.MethodPost, Path: "/auth/login", SkipAuth: true})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if h := seen.snapshot().header.Get("Authorization"); h != "" {
		t.Errorf("expected no Authorization header, got %q", h)
	}
}

func TestDo_JSONBody(t *testing.T) {
	srv, seen := newServer(t, http.StatusCreated, `{"id":7}`)
	c := newClient(t, srv.URL, nil, nil)

	resp, err := c.Do(context.Background(), ports.APIRequest{
		Method: http.MethodPost,
		Path:   "/categories",
		Body:   ports.JSONBody{Value: map[string]string{"name": "Tools"}},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	got := seen.snapshot()
	if ct := got.header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var sent map[string]string
	if err := json.Unmarshal(got.body, &sent); err != nil || sent["name"] != "Tools" {
		t.Errorf("unexpected body %q (%v)", got.body, err)
	}
	var out struct{ ID int64 }
	if err := resp.Decode(&out); err != nil || out.ID != 7 {
		t.Errorf("decode = %+v, %v", out, err)
	}
}

func TestDo_NoBodyDefaultsToJSON(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `{}`)
	c := newClient(t, srv.URL, nil, nil)

	if _, err := c.Do(context.Background(), ports.APIRequest{Path: "/reports/available"}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if ct := seen.snapshot().header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestDo_MultipartBody(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `{"id":1}`)
	c := newClient(t, srv.URL, staticToken("tok"), nil)

	_, err := c.Do(context.Background(), ports.APIRequest{
		Method: http.MethodPost,
		Path:   "/products/1/image",
		// a stale JSON content type from the caller must not survive
		Headers: http.Header{"Content-Type": []string{"application/json"}},
		Body: ports.MultipartBody{
			Fields: map[string]string{"note": "front"},
			Files: []ports.FilePart{{
				Field:       "file",
				FileName:    "image_1.png",
				ContentType: "image/png",
				Content:     strings.NewReader("PNGDATA"),
			}},
		},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	got := seen.snapshot()
	mediaType, params, err := mime.ParseMediaType(got.header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("parse content type %q: %v", got.header.Get("Content-Type"), err)
	}
	if mediaType != "multipart/form-data" || params["boundary"] == "" {
		t.Fatalf("content type = %q %v", mediaType, params)
	}
	if got.header.Get("Authorization") != "Bearer tok" {
		t.Errorf("Authorization = %q", got.header.Get("Authorization"))
	}

	r := multipart.NewReader(strings.NewReader(string(got.body)), params["boundary"])
	form, err := r.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	if form.Value["note"][0] != "front" {
		t.Errorf("field note = %v", form.Value["note"])
	}
	fh := form.File["file"]
	if len(fh) != 1 || fh[0].Filename != "image_1.png" || fh[0].Header.Get("Content-Type") != "image/png" {
		t.Fatalf("unexpected file part %+v", fh)
	}
	f, _ := fh[0].Open()
	data, _ := io.ReadAll(f)
	if string(data) != "PNGDATA" {
		t.Errorf("file content = %q", data)
	}
}

func TestDo_RawBodyOmitsContentType(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `{}`)
	c := newClient(t, srv.URL, nil, nil)

	_, err := c.Do(context.Background(), ports.APIRequest{
		Method:  http.MethodPut,
		Path:    "/blob",
		Headers: http.Header{"Content-Type": []string{"application/json"}},
		Body:    ports.RawBody{Reader: strings.NewReader("raw-bytes")},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	got := seen.snapshot()
	if ct := got.header.Get("Content-Type"); ct != "" {
		t.Errorf("expected no Content-Type, got %q", ct)
	}
	if string(got.body) != "raw-bytes" {
		t.Errorf("body = %q", got.body)
	}
}

func TestDo_QueryEncoded(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `[]`)
	c := newClient(t, srv.URL, nil, nil)

	_, err := c.Do(context.Background(), ports.APIRequest{
		Path:  "/products/search",
		Query: map[string][]string{"name": {"café & tea"}},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if q := seen.snapshot().query; q != "name=caf%C3%A9+%26+tea" {
		t.Errorf("query = %q", q)
	}
}

// ---------------------------------------------------------------------------
// Response phase
// ---------------------------------------------------------------------------

func TestDo_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind error
		wantMsg  string
	}{
		{"payload too large", http.StatusRequestEntityTooLarge, `{"message":"ignored"}`, domain.ErrPayloadTooLarge, domain.ErrPayloadTooLarge.Error()},
		{"unsupported media", http.StatusUnsupportedMediaType, ``, domain.ErrUnsupportedMediaType, domain.ErrUnsupportedMediaType.Error()},
		{"not found with message", http.StatusNotFound, `{"message":"Product not found"}`, domain.ErrNotFound, "Product not found"},
		{"not found bare", http.StatusNotFound, ``, domain.ErrNotFound, domain.ErrNotFound.Error()},
		{"server message verbatim", http.StatusConflict, `{"message":"Category name already exists"}`, domain.ErrServer, "Category name already exists"},
		{"error field fallback", http.StatusBadRequest, `{"error":"Invalid price"}`, domain.ErrServer, "Invalid price"},
		{"generic", http.StatusInternalServerError, `<html>oops</html>`, domain.ErrServer, "request failed with status 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)
			c := newClient(t, srv.URL, nil, nil)

			_, err := c.Do(context.Background(), ports.APIRequest{Path: "/x"})
			apiErr := apiError(t, err)
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("kind: got %v, want %v", apiErr.Kind, tt.wantKind)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
			if apiErr.Status != tt.status {
				t.Errorf("status = %d, want %d", apiErr.Status, tt.status)
			}
		})
	}
}

func TestDo_UnauthorizedInvokesCallback(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{"message":"expired"}`)

	var calls []string
	c := newClient(t, srv.URL, staticToken("old"), func(_ context.Context, rejected string) {
		calls = append(calls, rejected)
	})

	_, err := c.Do(context.Background(), ports.APIRequest{Path: "/products"})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if domain.UserMessage(err) != domain.ErrUnauthenticated.Error() {
		t.Errorf("user message = %q", domain.UserMessage(err))
	}
	if len(calls) != 1 || calls[0] != "old" {
		t.Fatalf("callback calls = %v", calls)
	}
}

func TestDo_UnauthorizedWithoutToken_KeepsServerMessage(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
	c := newClient(t, srv.URL, staticToken("tok"), nil)

	_, err := c.Do(context.Background(), ports.APIRequest{Method: http.MethodPost, Path: "/auth/login", SkipAuth: true})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if msg := domain.UserMessage(err); msg != "Invalid credentials" {
		t.Errorf("user message = %q", msg)
	}
}

func TestDo_UnauthorizedClearsSession(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	store := service.NewSessionStore(kv, zerolog.Nop())
	if err := store.Login(ctx, &domain.User{Username: "ana", Role: domain.RoleUser}, "tok"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	srv, _ := newServer(t, http.StatusUnauthorized, ``)
	c := newClient(t, srv.URL, store, store.Invalidate)

	_, err := c.Do(ctx, ports.APIRequest{Path: "/products"})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if store.State().IsAuthenticated() {
		t.Fatal("session should be cleared after 401")
	}
	if kv.Has(service.KeyToken) || kv.Has(service.KeyUser) {
		t.Fatal("persisted session should be removed after 401")
	}
}

func TestDo_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := newClient(t, base, nil, nil)
	_, err := c.Do(context.Background(), ports.APIRequest{Path: "/products"})
	apiErr := apiError(t, err)
	if !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
	if apiErr.Status != 0 {
		t.Errorf("status = %d, want 0", apiErr.Status)
	}
}

func TestDo_TimeoutIsConnectionError(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := newClient(t, srv.URL, nil, nil)
	_, err := c.Do(context.Background(), ports.APIRequest{Path: "/slow", Timeout: 50 * time.Millisecond})
	if !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
}

func TestDo_CanceledByCaller(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	c := newClient(t, srv.URL, nil, nil)
	_, err := c.Do(ctx, ports.APIRequest{Path: "/slow"})
	if !errors.Is(err, domain.ErrCanceled) {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
	if errors.Is(err, domain.ErrConnection) {
		t.Fatal("cancellation must not be reported as a connection error")
	}
}
