package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/catalogo/storefront-client/internal/core/ports"
)

func getJSON(ctx context.Context, api ports.APIClient, path string, query url.Values, out any) error {
	resp, err := api.Do(ctx, ports.APIRequest{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// sendJSON issues a request with an optional JSON body and decodes the
// response into out when out is non-nil.
func sendJSON(ctx context.Context, api ports.APIClient, method, path string, in, out any) error {
	req := ports.APIRequest{Method: method, Path: path}
	if in != nil {
		req.Body = ports.JSONBody{Value: in}
	}
	resp, err := api.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

func itemPath(collection string, id int64, suffix ...string) string {
	p := fmt.Sprintf("%s/%d", collection, id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
