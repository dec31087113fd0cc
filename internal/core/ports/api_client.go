package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Payload is the body of an outgoing request. The concrete type decides the
// content type the pipeline sends.
type Payload interface {
	payload()
}

// JSONBody is encoded with encoding/json and sent as application/json.
type JSONBody struct {
	Value any
}

// FilePart is a single file inside a multipart body.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Content     io.Reader
}

// MultipartBody is sent as multipart/form-data. The boundary header is
// produced by the encoder, never by the caller.
type MultipartBody struct {
	Fields map[string]string
	Files  []FilePart
}

// RawBody is sent as-is with no Content-Type header.
type RawBody struct {
	Reader io.Reader
}

func (JSONBody) payload()      {}
func (MultipartBody) payload() {}
func (RawBody) payload()       {}

// APIRequest describes one call against the storefront API.
type APIRequest struct {
	Method  string
	Path    string
	Query   url.Values
	Body    Payload
	Headers http.Header
	// Timeout overrides the client default when positive.
	Timeout time.Duration
	// SkipAuth suppresses the stored bearer token (login, register).
	SkipAuth bool
}

// APIResponse is a successful response; Body is returned unchanged.
type APIResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the JSON body into v.
func (r *APIResponse) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// APIClient sends requests through the shared request pipeline.
type APIClient interface {
	Do(ctx context.Context, req APIRequest) (*APIResponse, error)
}

// TokenSource yields the bearer token to attach to the next request, or ""
// when no session is active.
type TokenSource interface {
	Token(ctx context.Context) string
}
