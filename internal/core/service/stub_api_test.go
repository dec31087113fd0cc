package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/catalogo/storefront-client/internal/core/ports"
)

// stubAPI records requests and answers them with handle.
type stubAPI struct {
	mu     sync.Mutex
	reqs   []ports.APIRequest
	handle func(req ports.APIRequest) (*ports.APIResponse, error)
}

func (s *stubAPI) Do(_ context.Context, req ports.APIRequest) (*ports.APIResponse, error) {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	if s.handle == nil {
		return &ports.APIResponse{Status: 200}, nil
	}
	return s.handle(req)
}

func (s *stubAPI) requests() []ports.APIRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.APIRequest(nil), s.reqs...)
}

func (s *stubAPI) last(t *testing.T) ports.APIRequest {
	t.Helper()
	reqs := s.requests()
	if len(reqs) == 0 {
		t.Fatal("expected a request, got none")
	}
	return reqs[len(reqs)-1]
}

func respondJSON(t *testing.T, v any) func(ports.APIRequest) (*ports.APIResponse, error) {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return func(ports.APIRequest) (*ports.APIResponse, error) {
		return &ports.APIResponse{Status: 200, Body: body}, nil
	}
}

func respondErr(err error) func(ports.APIRequest) (*ports.APIResponse, error) {
	return func(ports.APIRequest) (*ports.APIResponse, error) { return nil, err }
}

// jsonBodyOf returns the value carried by a JSON payload.
func jsonBodyOf(t *testing.T, req ports.APIRequest) any {
	t.Helper()
	b, ok := req.Body.(ports.JSONBody)
	if !ok {
		t.Fatalf("expected JSONBody, got %T", req.Body)
	}
	return b.Value
}
