package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Specs fetched over the wire are bounded so a runaway response cannot
// exhaust memory before kin-openapi ever sees it.
const maxRemoteSpec = 16 << 20

func loadHTTP(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	switch {
	case client == nil:
		return nil, errors.New("openapi loader: http fallback is disabled")
	case url == "":
		return nil, errors.New("openapi loader: url is required")
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openapi loader: fetch %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSpec+1))
	if err != nil {
		return nil, fmt.Errorf("openapi loader: read %s: %w", url, err)
	}
	if len(data) > maxRemoteSpec {
		return nil, fmt.Errorf("openapi loader: %s exceeds %d bytes", url, maxRemoteSpec)
	}
	return data, nil
}
