package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetRegistryAdminID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/registry/metadata/v1/info" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"adminId": "dso::1"}`))
	}))
	defer ts.Close()

	got, err := New(ts.URL).GetRegistryAdminID(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "dso::1" {
		t.Errorf("adminId = %q", got)
	}
}

func TestGetAllocationTransferContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/registry/allocations/v1/alloc-1/choice-contexts/transfer" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		_, _ = w.Write([]byte(`{"disclosedContracts": [
			{"templateId": "p:M:E", "contractId": "c1", "createdEventBlob": "YmxvYg=="}
		]}`))
	}))
	defer ts.Close()

	got, found, err := New(ts.URL).GetAllocationTransferContext(context.Background(), "alloc-1")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("known allocation reported as not found")
	}
	if len(got) != 1 || got[0].ContractID != "c1" || got[0].TemplateID != "p:M:E" {
		t.Errorf("descriptors = %+v", got)
	}
}

func TestGetAllocationTransferContextUnknown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, found, err := New(ts.URL).GetAllocationTransferContext(context.Background(), "nope")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("unknown allocation reported as found")
	}
}

func TestGetAllocationTransferContextEmptyIsFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	got, found, err := New(ts.URL).GetAllocationTransferContext(context.Background(), "alloc-2")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Error("empty context reported as not found")
	}
	if len(got) != 0 {
		t.Errorf("descriptors = %+v, want none", got)
	}
}
