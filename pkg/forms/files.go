package forms

import (
	"io"
	"mime/multipart"
	"sort"
	"strings"
)

// Upload carries the metadata of one submitted file. The pipeline never reads
// the payload; Open hands the bytes to cleaner hooks and storage layers that
// want them.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Files maps field names to the uploads submitted for them, mirroring
// multipart form semantics where a name can repeat.
type Files map[string][]Upload

// First returns the first upload recorded for the named field.
func (f Files) First(name string) (Upload, bool) {
	uploads := f[name]
	if len(uploads) == 0 {
		return Upload{}, false
	}
	return uploads[0], true
}

// NewUpload wraps pre-extracted file metadata for binding.
func NewUpload(name string, size int64, contentType string, open func() (io.ReadCloser, error)) Upload {
	return Upload{
		Name:        strings.TrimSpace(name),
		Size:        size,
		ContentType: strings.TrimSpace(contentType),
		Open:        open,
	}
}

// UploadFromMultipart adapts one *multipart.FileHeader into an Upload.
func UploadFromMultipart(header *multipart.FileHeader) Upload {
	if header == nil {
		return Upload{}
	}
	return Upload{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

// FilesFromMultipart collects every file part of a parsed multipart form,
// preserving per-field submission order.
func FilesFromMultipart(form *multipart.Form) Files {
	if form == nil || len(form.File) == 0 {
		return nil
	}
	files := make(Files, len(form.File))
	names := make([]string, 0, len(form.File))
	for name := range form.File {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, header := range form.File[name] {
			files[name] = append(files[name], UploadFromMultipart(header))
		}
	}
	return files
}
