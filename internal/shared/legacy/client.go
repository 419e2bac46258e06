// Package legacy talks to the old JASS REST gateway, which still serves the
// billing kiosks and keeps its own copy of product stock. The gateway
// predates this service and its responses are not uniform: identifiers come
// back as "id", "_id" or nested under "data", a lookup for a missing
// resolution answers either 404 or an empty array, and some deployments
// reject PATCH. The client absorbs all of that so callers see one contract.
package legacy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is an HTTP client for the legacy gateway.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a gateway client. timeout <= 0 falls back to 15s.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ErrNoIdentifier is returned when a gateway response carries no recognizable
// record identifier in any of the known shapes.
var ErrNoIdentifier = fmt.Errorf("legacy gateway response carries no identifier")

// ExtractID pulls a record identifier out of a decoded gateway response.
// Older endpoints answer {"id": ...}, the mongo-era ones {"_id": ...}, and the
// wrapped ones {"data": {"id"|"_id": ...}}. Tried in that order.
func ExtractID(payload map[string]interface{}) (string, error) {
	if id := stringValue(payload["id"]); id != "" {
		return id, nil
	}
	if id := stringValue(payload["_id"]); id != "" {
		return id, nil
	}
	if data, ok := payload["data"].(map[string]interface{}); ok {
		if id := stringValue(data["id"]); id != "" {
			return id, nil
		}
		if id := stringValue(data["_id"]); id != "" {
			return id, nil
		}
	}
	return "", ErrNoIdentifier
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// Numeric ids show up on the oldest endpoints.
		return fmt.Sprintf("%.0f", t)
	default:
		return ""
	}
}

// LegacyResolution is the gateway's resolution record, reduced to the fields
// the reconciliation cares about.
type LegacyResolution struct {
	ID         string `json:"id"`
	IncidentID string `json:"incidentId"`
}

// FindResolutionsByIncident looks up resolutions for an incident. The
// gateway answers 404 for "none" on some deployments and an empty array on
// others; both come back here as an empty slice with no error.
func (c *Client) FindResolutionsByIncident(ctx context.Context, incidentID string) ([]LegacyResolution, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet,
		fmt.Sprintf("/api/resolutions?incidentId=%s", incidentID), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return []LegacyResolution{}, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("legacy resolution lookup failed: status %d", status)
	}

	var result []LegacyResolution
	if err := json.Unmarshal(body, &result); err != nil {
		// Some deployments wrap the array in {"data": [...]}.
		var wrapped struct {
			Data []LegacyResolution `json:"data"`
		}
		if err2 := json.Unmarshal(body, &wrapped); err2 != nil {
			return nil, fmt.Errorf("decode legacy resolutions: %w", err)
		}
		result = wrapped.Data
	}
	return result, nil
}

// PushResolution mirrors a resolution record to the gateway. When the
// gateway already holds a row for the incident the first one is updated;
// otherwise a new record is created and its identifier extracted from
// whichever response shape the gateway chose. Returns the remote identifier.
func (c *Client) PushResolution(ctx context.Context, incidentID string, doc map[string]interface{}) (string, error) {
	existing, err := c.FindResolutionsByIncident(ctx, incidentID)
	if err != nil {
		return "", err
	}

	if len(existing) > 0 {
		remoteID := existing[0].ID
		_, status, err := c.doRequest(ctx, http.MethodPut, "/api/resolutions/"+remoteID, doc)
		if err != nil {
			return "", fmt.Errorf("legacy resolution update failed: %w", err)
		}
		if status < 200 || status >= 300 {
			return "", fmt.Errorf("legacy resolution update failed: status %d", status)
		}
		return remoteID, nil
	}

	body, status, err := c.doRequest(ctx, http.MethodPost, "/api/resolutions", doc)
	if err != nil {
		return "", fmt.Errorf("legacy resolution create failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("legacy resolution create failed: status %d", status)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode legacy resolution response: %w", err)
	}
	return ExtractID(payload)
}

// PushStock mirrors a corrected stock level to the gateway. It tries a
// partial update first; gateways that reject PATCH get a full PUT carrying
// the complete product document the caller supplies. The PUT path is
// last-write-wins on the remote side, which is the only contract the gateway
// offers.
func (c *Client) PushStock(ctx context.Context, productID string, stock float64, fullProduct map[string]interface{}) error {
	patch := map[string]interface{}{"currentStock": stock}
	_, status, err := c.doRequest(ctx, http.MethodPatch,
		"/api/products/"+productID, patch)
	if err == nil && status >= 200 && status < 300 {
		return nil
	}

	if fullProduct == nil {
		if err != nil {
			return fmt.Errorf("legacy stock patch failed: %w", err)
		}
		return fmt.Errorf("legacy stock patch failed: status %d", status)
	}

	full := make(map[string]interface{}, len(fullProduct)+1)
	for k, v := range fullProduct {
		full[k] = v
	}
	full["currentStock"] = stock

	_, status, err = c.doRequest(ctx, http.MethodPut,
		"/api/products/"+productID, full)
	if err != nil {
		return fmt.Errorf("legacy stock overwrite failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("legacy stock overwrite failed: status %d", status)
	}
	return nil
}

// FetchProduct reads the gateway's copy of a product as a raw document, for
// use as the PUT fallback body.
func (c *Client) FetchProduct(ctx context.Context, productID string) (map[string]interface{}, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, "/api/products/"+productID, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("legacy product fetch failed: status %d", status)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode legacy product: %w", err)
	}
	if data, ok := doc["data"].(map[string]interface{}); ok {
		return data, nil
	}
	return doc, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request legacy gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
