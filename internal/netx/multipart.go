// Package netx contains small HTTP helpers shared by the API client and the
// mock server.
package netx

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// Field is a plain multipart form value. Repeated names are allowed and keep
// their order, which is how array fields ("shortVideos[]") are encoded.
type Field struct {
	Name  string
	Value string
}

// FilePart is a file attached to a multipart form.
type FilePart struct {
	Field    string
	FileName string
	Data     []byte
}

// MultipartBody encodes fields and files as multipart/form-data and returns
// the body together with its Content-Type (which carries the boundary).
func MultipartBody(fields []Field, files []FilePart) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}
