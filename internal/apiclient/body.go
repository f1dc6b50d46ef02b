package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
)

// Body is a request payload.
type Body interface {
	ContentType() string
	Reader() (io.Reader, error)
}

type jsonBody struct {
	v any
}

// JSON encodes v as the request body.
func JSON(v any) Body { return jsonBody{v: v} }

func (b jsonBody) ContentType() string { return "application/json" }

func (b jsonBody) Reader() (io.Reader, error) {
	buf, err := json.Marshal(b.v)
	if err != nil {
		return nil, fmt.Errorf("encode json body: %w", err)
	}
	return bytes.NewReader(buf), nil
}

// File is a file part of a multipart body.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

type multipartBody struct {
	fields   url.Values
	file     *File
	boundary string
}

// Multipart encodes fields and an optional file as multipart/form-data.
// Repeated values produce repeated parts.
func Multipart(fields url.Values, file *File) Body {
	return &multipartBody{fields: fields, file: file, boundary: randomBoundary()}
}

func randomBoundary() string {
	w := multipart.NewWriter(io.Discard)
	return w.Boundary()
}

func (b *multipartBody) ContentType() string {
	return "multipart/form-data; boundary=" + b.boundary
}

func (b *multipartBody) Reader() (io.Reader, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(b.boundary); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(b.fields))
	for k := range b.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range b.fields[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, fmt.Errorf("write field %s: %w", k, err)
			}
		}
	}

	if b.file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(b.file.Field), escapeQuotes(b.file.Filename)))
		ct := b.file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(b.file.Data); err != nil {
			return nil, fmt.Errorf("write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
