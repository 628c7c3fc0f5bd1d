package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	simQueries "github.com/andrescamacho/gridfleet-go/internal/application/sim/queries"
)

// DaemonClient talks to the daemon's HTTP endpoints
type DaemonClient struct {
	baseURL string
	http    *http.Client
}

// HealthResponse mirrors the daemon's health payload
type HealthResponse struct {
	Status string `json:"status"`
}

// NewDaemonClient creates a client for the daemon at the given address
func NewDaemonClient(addr string) *DaemonClient {
	return &DaemonClient{
		baseURL: "http://" + addr,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// HealthCheck verifies daemon health
func (c *DaemonClient) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	body, _, err := c.get(ctx, "/healthz")
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	return &health, nil
}

// GetState fetches the full simulation snapshot
func (c *DaemonClient) GetState(ctx context.Context) (*simQueries.GetStateResponse, error) {
	body, _, err := c.get(ctx, "/get_state")
	if err != nil {
		return nil, err
	}

	var state simQueries.GetStateResponse
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state response: %w", err)
	}
	return &state, nil
}

// ExportPaths downloads the path coordinate dump. Returns the filename
// the daemon suggested alongside the content.
func (c *DaemonClient) ExportPaths(ctx context.Context) (string, []byte, error) {
	body, header, err := c.get(ctx, "/export_path_coordinates")
	if err != nil {
		return "", nil, err
	}

	filename := "robot_path_coordinates.txt"
	if disposition := header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				filename = name
			}
		}
	}
	return filename, body, nil
}

// get issues a GET request and returns the body. Non-2xx responses are
// turned into errors, decoding the daemon's {"error": ...} payload when
// there is one.
func (c *DaemonClient) get(ctx context.Context, path string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reach daemon at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, nil, fmt.Errorf("daemon returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, nil, fmt.Errorf("daemon returned %d for %s", resp.StatusCode, path)
	}

	return body, resp.Header, nil
}
