package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/catalogo/storefront-client/internal/core/ports"
	"github.com/catalogo/storefront-client/internal/infrastructure/metrics"
)

type encodedBody struct {
	reader io.Reader
	length int64 // -1 when unknown
}

// encodeBody turns a payload into a request body and the content type the
// encoder requires ("" when the body must go out without one).
func encodeBody(p ports.Payload) (encodedBody, string, error) {
	switch b := p.(type) {
	case nil:
		return encodedBody{length: 0}, "", nil
	case ports.JSONBody:
		return encodeJSON(b.Value)
	case *ports.JSONBody:
		return encodeJSON(b.Value)
	case ports.MultipartBody:
		return encodeMultipart(b)
	case *ports.MultipartBody:
		return encodeMultipart(*b)
	case ports.RawBody:
		return encodedBody{reader: b.Reader, length: -1}, "", nil
	case *ports.RawBody:
		return encodedBody{reader: b.Reader, length: -1}, "", nil
	default:
		return encodedBody{}, "", fmt.Errorf("unsupported payload %T", p)
	}
}

func encodeJSON(v any) (encodedBody, string, error) {
	if v == nil {
		return encodedBody{length: 0}, mimeJSON, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return encodedBody{}, "", fmt.Errorf("encode json body: %w", err)
	}
	return encodedBody{reader: bytes.NewReader(data), length: int64(len(data))}, mimeJSON, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart buffers the whole form; uploads are capped well below
// the size where streaming would matter.
func encodeMultipart(m ports.MultipartBody) (encodedBody, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return encodedBody{}, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}
	for _, f := range m.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.FileName)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return encodedBody{}, "", fmt.Errorf("create part %s: %w", f.Field, err)
		}
		n, err := io.Copy(part, f.Content)
		if err != nil {
			return encodedBody{}, "", fmt.Errorf("copy part %s: %w", f.Field, err)
		}
		metrics.UploadBytesTotal.Add(float64(n))
	}
	if err := w.Close(); err != nil {
		return encodedBody{}, "", fmt.Errorf("close multipart: %w", err)
	}
	return encodedBody{reader: &buf, length: int64(buf.Len())}, w.FormDataContentType(), nil
}
