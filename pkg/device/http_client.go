// pkg/device/http_client.go

package device

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"farmops/pkg/cycle/types"
)

type httpGateway struct {
	endpoint string
	key      string
	httpc    *http.Client
}

func NewHTTP(endpoint, key string, timeout time.Duration) Gateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpGateway{endpoint: strings.TrimRight(endpoint, "/"), key: key, httpc: &http.Client{Timeout: timeout}}
}

func (g *httpGateway) Mode() string { return "http" }

func (g *httpGateway) Deploy(ctx context.Context, deviceID string, stage types.Stage) error {
	if deviceID == "" {
		return ErrNoDevice
	}
	body, digest, err := BuildPayload(stage).Encode()
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	u := g.endpoint + "/devices/" + url.PathEscape(deviceID) + "/stage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", digest)
	if g.key != "" {
		req.Header.Set("Authorization", "Bearer "+g.key)
	}

	resp, err := g.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("deploy to %s: %w", deviceID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("deploy to %s: controller answered %d: %s", deviceID, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
