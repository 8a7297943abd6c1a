// Package ledger submits commands to the ledger's JSON API. It never
// retries: the caller-supplied command id carries idempotency, and a
// rejection is terminal for the request that caused it.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"invoicelane/internal/model"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: &http.Client{}}
}

// RejectionError is a command the ledger refused (business-rule violation,
// stale contract, missing disclosure). Surfaced verbatim to the caller.
type RejectionError struct {
	Status  int
	Code    string
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("ledger rejected command: status=%d code=%s message=%s", e.Status, e.Code, e.Message)
}

type CreateRequest struct {
	TemplateID string
	Payload    any
	CommandID  string
	ActAs      string
}

type ExerciseRequest struct {
	TemplateID         string
	ContractID         string
	Choice             string
	Argument           any
	CommandID          string
	ActAs              string
	DisclosedContracts []model.DisclosedContract
}

// Create submits a create command and waits for completion.
func (c *Client) Create(ctx context.Context, req CreateRequest) error {
	body := map[string]any{
		"commands": []any{
			map[string]any{
				"CreateCommand": map[string]any{
					"templateId":      req.TemplateID,
					"createArguments": req.Payload,
				},
			},
		},
		"commandId": req.CommandID,
		"actAs":     []string{req.ActAs},
	}
	_, err := c.submit(ctx, "/v2/commands/submit-and-wait", body)
	return err
}

// Exercise submits an exercise command, waits for the transaction tree and
// returns the choice's declared result. Disclosed contracts are passed
// through exactly as built.
func (c *Client) Exercise(ctx context.Context, req ExerciseRequest) (json.RawMessage, error) {
	disclosed := make([]map[string]any, 0, len(req.DisclosedContracts))
	for _, d := range req.DisclosedContracts {
		disclosed = append(disclosed, map[string]any{
			"templateId":       d.TemplateID.String(),
			"contractId":       d.ContractID,
			"createdEventBlob": d.CreatedEventBlob,
		})
	}
	body := map[string]any{
		"commands": []any{
			map[string]any{
				"ExerciseCommand": map[string]any{
					"templateId":     req.TemplateID,
					"contractId":     req.ContractID,
					"choice":         req.Choice,
					"choiceArgument": req.Argument,
				},
			},
		},
		"commandId":          req.CommandID,
		"actAs":              []string{req.ActAs},
		"disclosedContracts": disclosed,
	}
	resp, err := c.submit(ctx, "/v2/commands/submit-and-wait-for-transaction-tree", body)
	if err != nil {
		return nil, err
	}
	return exerciseResult(resp)
}

func (c *Client) submit(ctx context.Context, path string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("content-type", "application/json")
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ledger submit: %w", err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode >= 300 {
		var e struct {
			Code  string `json:"code"`
			Cause string `json:"cause"`
		}
		_ = json.Unmarshal(buf.Bytes(), &e)
		return nil, &RejectionError{Status: resp.StatusCode, Code: e.Code, Message: e.Cause}
	}
	return buf.Bytes(), nil
}

// exerciseResult digs the root exercised event's result out of the
// transaction tree response.
func exerciseResult(resp []byte) (json.RawMessage, error) {
	var out struct {
		TransactionTree struct {
			RootEventIds []json.Number `json:"rootEventIds"`
			EventsByID   map[string]struct {
				ExercisedTreeEvent struct {
					ExerciseResult json.RawMessage `json:"exerciseResult"`
				} `json:"ExercisedTreeEvent"`
			} `json:"eventsById"`
		} `json:"transactionTree"`
	}
	if err := json.Unmarshal(resp, &out); err != nil {
		return nil, fmt.Errorf("ledger response: %w", err)
	}
	for _, id := range out.TransactionTree.RootEventIds {
		ev, ok := out.TransactionTree.EventsByID[id.String()]
		if !ok {
			continue
		}
		if len(ev.ExercisedTreeEvent.ExerciseResult) > 0 {
			return ev.ExercisedTreeEvent.ExerciseResult, nil
		}
	}
	return nil, nil
}
