package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if files == nil {
		return nil, errors.New("jsonschema loader: fs is nil")
	}
	if name == "" {
		return nil, errors.New("jsonschema loader: fs path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, fmt.Errorf("jsonschema loader: read document from fs: %w", err)
	}
	return data, nil
}
