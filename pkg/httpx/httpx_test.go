package httpx

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteOKStampsRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteOK(rec, map[string]any{"invoices": []string{}})
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	rid, _ := body["request_id"].(string)
	if !strings.HasPrefix(rid, "req_") {
		t.Errorf("request_id = %q", rid)
	}
	if _, ok := body["invoices"]; !ok {
		t.Error("payload key lost")
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 404, "NOT_FOUND", "no such contract")
	if rec.Code != 404 {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("content-type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}
	var body struct {
		RequestID string `json:"request_id"`
		Error     struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != "NOT_FOUND" || body.Error.Message != "no such contract" {
		t.Errorf("error = %+v", body.Error)
	}
	if body.RequestID == "" {
		t.Error("missing request_id")
	}
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"carrier": "x", "carrrier": "y"}`))
	var dst struct {
		Carrier string `json:"carrier"`
	}
	if err := ReadJSON(r, &dst); err == nil {
		t.Fatal("unknown field accepted")
	}
}
