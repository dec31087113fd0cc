package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/catalogo/storefront-client/internal/core/domain"
)

// errorBody is the subset of a server error payload the client understands.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// statusError maps a non-2xx response to the error shown to the user.
// A 401 on a request that carried no token (a login attempt) keeps the
// server's message, since there was no session to expire.
func statusError(status int, body []byte, hadToken bool) *domain.APIError {
	switch status {
	case http.StatusUnauthorized:
		msg := domain.ErrUnauthenticated.Error()
		if m := serverMessage(body); !hadToken && m != "" {
			msg = m
		}
		return &domain.APIError{Status: status, Message: msg, Kind: domain.ErrUnauthenticated}
	case http.StatusRequestEntityTooLarge:
		return &domain.APIError{Status: status, Message: domain.ErrPayloadTooLarge.Error(), Kind: domain.ErrPayloadTooLarge}
	case http.StatusUnsupportedMediaType:
		return &domain.APIError{Status: status, Message: domain.ErrUnsupportedMediaType.Error(), Kind: domain.ErrUnsupportedMediaType}
	}

	msg := serverMessage(body)
	if status == http.StatusNotFound {
		if msg == "" {
			msg = domain.ErrNotFound.Error()
		}
		return &domain.APIError{Status: status, Message: msg, Kind: domain.ErrNotFound}
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	return &domain.APIError{Status: status, Message: msg, Kind: domain.ErrServer}
}

// serverMessage extracts "message" (or, failing that, "error") from a JSON
// error body. Non-JSON bodies yield "".
func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if m := strings.TrimSpace(eb.Message); m != "" {
		return m
	}
	return strings.TrimSpace(eb.Error)
}

func outcomeLabel(kind error) string {
	switch {
	case errors.Is(kind, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(kind, domain.ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(kind, domain.ErrUnsupportedMediaType):
		return "unsupported_media_type"
	case errors.Is(kind, domain.ErrNotFound):
		return "not_found"
	default:
		return "server_error"
	}
}
