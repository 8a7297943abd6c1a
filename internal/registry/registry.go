// Package registry talks to the token-standard registry (the settlement
// instrument's admin app). It hands out the registry admin party and the
// per-allocation transfer choice context with its disclosed contracts.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"invoicelane/internal/settlement"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: &http.Client{}}
}

func (c *Client) GetRegistryAdminID(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/registry/metadata/v1/info", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("registry info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("registry info returned %d", resp.StatusCode)
	}
	var out struct {
		AdminID string `json:"adminId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.AdminID, nil
}

// GetAllocationTransferContext fetches the disclosed-contract descriptors
// required to exercise the transfer leg of an allocation. The bool reports
// whether the registry knows the allocation at all; a known allocation may
// legitimately come back with zero descriptors.
func (c *Client) GetAllocationTransferContext(ctx context.Context, allocationCid string) ([]settlement.DisclosedContractDescriptor, bool, error) {
	url := fmt.Sprintf("%s/registry/allocations/v1/%s/choice-contexts/transfer", c.BaseURL, allocationCid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte(`{}`)))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("content-type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("registry transfer context: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("registry transfer context returned %d", resp.StatusCode)
	}
	var out struct {
		DisclosedContracts []settlement.DisclosedContractDescriptor `json:"disclosedContracts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, err
	}
	return out.DisclosedContracts, true, nil
}
