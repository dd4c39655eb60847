package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Remote schema documents are small; cap reads so a misbehaving server
// cannot balloon memory during detection.
const maxRemoteDocument = 8 << 20

func loadHTTP(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	switch {
	case client == nil:
		return nil, errors.New("jsonschema loader: http fallback is disabled")
	case url == "":
		return nil, errors.New("jsonschema loader: url is required")
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("jsonschema loader: build request: %w", err)
	}
	req.Header.Set("Accept", "application/schema+json, application/json, application/yaml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsonschema loader: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("jsonschema loader: fetch %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteDocument+1))
	if err != nil {
		return nil, fmt.Errorf("jsonschema loader: read %s: %w", url, err)
	}
	if len(data) > maxRemoteDocument {
		return nil, fmt.Errorf("jsonschema loader: %s exceeds %d bytes", url, maxRemoteDocument)
	}
	return data, nil
}
