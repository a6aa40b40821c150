package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// BackendCheck returns a check that a backend host answers HTTP at all. Any
// response below 500 counts as reachable; the backends expose no dedicated
// health route, so a 404 or 405 from the root still proves the host is up.
func BackendCheck(client *http.Client, baseURL string) CheckFunc {
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL, nil)
		if err != nil {
			return fmt.Errorf("invalid backend url: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("backend unreachable: %w", err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("backend returned status %d", resp.StatusCode)
		}
		return nil
	}
}
