package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrRequestFailed is returned for every failed call to Canvas or Trello.
// Transport, status and decode failures are not distinguished.
var ErrRequestFailed = errors.New("request failed")

func requestFailed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRequestFailed, fmt.Sprintf(format, args...))
}

// doJSON sends the request and decodes a 2xx JSON body into out. out may be nil.
func doJSON(ctx context.Context, client *http.Client, method, apiURL string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return requestFailed("failed to create %s request: %v", method, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return requestFailed("failed to send %s request: %v", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return requestFailed("API returned non-2xx status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return requestFailed("failed to decode response: %v", err)
	}
	return nil
}
