package settlement

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestParseTemplateID(t *testing.T) {
	id, err := ParseTemplateID("pkg123:Splice.AmuletRules:AmuletRules")
	if err != nil {
		t.Fatal(err)
	}
	if id.PackageID != "pkg123" || id.ModuleName != "Splice.AmuletRules" || id.EntityName != "AmuletRules" {
		t.Errorf("parsed %+v", id)
	}
}

func TestParseTemplateIDEntityKeepsColons(t *testing.T) {
	id, err := ParseTemplateID("pkg:Module:Entity:Extra")
	if err != nil {
		t.Fatal(err)
	}
	if id.EntityName != "Entity:Extra" {
		t.Errorf("entity = %q, want %q", id.EntityName, "Entity:Extra")
	}
}

func TestParseTemplateIDRejectsMalformed(t *testing.T) {
	for _, s := range []string{"onlyonecolon:here", "", "a:b:", ":b:c", "a::c"} {
		if _, err := ParseTemplateID(s); err == nil {
			t.Errorf("ParseTemplateID(%q) succeeded, want error", s)
		}
	}
}

func blob(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func TestBuildTransferContextClassifiesKnownEntities(t *testing.T) {
	tc, err := BuildTransferContext([]DisclosedContractDescriptor{
		{TemplateID: "pkg:Splice.AmuletRules:AmuletRules", ContractID: "abc", CreatedEventBlob: blob("rules")},
		{TemplateID: "pkg:Splice.Round:OpenMiningRound", ContractID: "def", CreatedEventBlob: blob("round")},
		{TemplateID: "pkg:Some.Module:Unrelated", ContractID: "ghi", CreatedEventBlob: blob("other")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(tc.Disclosures) != 3 {
		t.Fatalf("got %d disclosures, want 3", len(tc.Disclosures))
	}
	values := tc.ExtraArgs.Context.Values
	if len(values) != 2 {
		t.Fatalf("got %d context values, want 2", len(values))
	}
	if v, ok := values["amulet-rules"]; !ok || v.Value != "abc" {
		t.Errorf("amulet-rules = %+v", v)
	}
	if v, ok := values["open-round"]; !ok || v.Value != "def" {
		t.Errorf("open-round = %+v", v)
	}
	if string(tc.Disclosures[0].CreatedEventBlob) != "rules" {
		t.Errorf("blob decoded to %q", tc.Disclosures[0].CreatedEventBlob)
	}
}

func TestBuildTransferContextEmpty(t *testing.T) {
	tc, err := BuildTransferContext(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tc.Disclosures) != 0 || len(tc.ExtraArgs.Context.Values) != 0 {
		t.Errorf("empty input produced %+v", tc)
	}
	if tc.ExtraArgs.Meta.Values == nil {
		t.Error("meta values map is nil")
	}
}

func TestBuildTransferContextAllOrNothing(t *testing.T) {
	cases := []DisclosedContractDescriptor{
		{TemplateID: "missing-segments", ContractID: "abc", CreatedEventBlob: blob("x")},
		{TemplateID: "pkg:Module:Entity", ContractID: "abc", CreatedEventBlob: "not base64!!"},
	}
	for _, bad := range cases {
		_, err := BuildTransferContext([]DisclosedContractDescriptor{
			{TemplateID: "pkg:Splice.AmuletRules:AmuletRules", ContractID: "ok", CreatedEventBlob: blob("rules")},
			bad,
		})
		var malformed *MalformedError
		if !errors.As(err, &malformed) {
			t.Errorf("descriptor %+v: got %v, want MalformedError", bad, err)
		}
	}
}
