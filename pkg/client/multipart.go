package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
)

// Form assembles a multipart request body. Scalar fields are stringified;
// object-valued fields are JSON-encoded to text parts; files are attached
// with their filenames — matching what the web client sends.
type Form struct {
	fields []formField
	files  []filePart
}

type formField struct {
	key   string
	value any
}

type filePart struct {
	field    string
	filename string
	r        io.Reader
}

func NewForm() *Form {
	return &Form{}
}

// Set adds a non-file field. Later values for the same key are appended,
// as with repeated form entries.
func (f *Form) Set(key string, value any) *Form {
	f.fields = append(f.fields, formField{key: key, value: value})
	return f
}

// AddFile attaches a binary part.
func (f *Form) AddFile(field, filename string, r io.Reader) *Form {
	f.files = append(f.files, filePart{field: field, filename: filename, r: r})
	return f
}

// Value returns the stringified first value of a scalar field, or "" when
// absent or non-scalar. Used for pre-flight validation.
func (f *Form) Value(key string) string {
	for _, fld := range f.fields {
		if fld.key != key {
			continue
		}
		switch v := fld.value.(type) {
		case string:
			return v
		case bool, int, int32, int64, float32, float64:
			return fmt.Sprint(v)
		default:
			return ""
		}
	}
	return ""
}

func (f *Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, fld := range f.fields {
		var text string
		switch v := fld.value.(type) {
		case string:
			text = v
		case bool, int, int32, int64, float32, float64:
			text = fmt.Sprint(v)
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, "", fmt.Errorf("encode field %q: %w", fld.key, err)
			}
			text = string(b)
		}
		if err := w.WriteField(fld.key, text); err != nil {
			return nil, "", fmt.Errorf("write field %q: %w", fld.key, err)
		}
	}

	for _, fp := range f.files {
		part, err := w.CreateFormFile(fp.field, fp.filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %q: %w", fp.field, err)
		}
		if _, err := io.Copy(part, fp.r); err != nil {
			return nil, "", fmt.Errorf("copy file part %q: %w", fp.field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize form: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// doMultipart issues one multipart request. Multipart calls always mutate,
// so they never retry.
func (c *Client) doMultipart(ctx context.Context, method, path string, form *Form, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return err
	}
	return c.once(ctx, method, path, nil, body, contentType, nil, out)
}

// query helpers shared by the domain request groups

func setStr(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}

func setInt(v url.Values, key string, n int) {
	if n > 0 {
		v.Set(key, fmt.Sprint(n))
	}
}

func setFloat(v url.Values, key string, f float64) {
	if f != 0 {
		v.Set(key, fmt.Sprintf("%v", f))
	}
}

func setBool(v url.Values, key string, b bool) {
	if b {
		v.Set(key, "true")
	}
}
