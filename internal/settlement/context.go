// Package settlement turns the disclosed-contract descriptors handed out by
// the token-standard registry into the choice context a settlement choice
// needs. The ledger rejects the exercise if the context misses a required
// key, so any malformed descriptor fails the whole build.
package settlement

import (
	"encoding/base64"
	"fmt"
	"strings"

	"invoicelane/internal/model"
)

// MalformedError reports a descriptor that cannot be decoded or parsed.
type MalformedError struct{ Detail string }

func (e *MalformedError) Error() string { return "malformed disclosed contract: " + e.Detail }

// DisclosedContractDescriptor is the transport form served by the registry.
type DisclosedContractDescriptor struct {
	TemplateID       string `json:"templateId"`
	ContractID       string `json:"contractId"`
	CreatedEventBlob string `json:"createdEventBlob"`
}

// contextKeyByEntity is the closed set of settlement-infrastructure
// templates that contribute a named context entry. Anything else rides
// along in the disclosure list without a context key.
var contextKeyByEntity = map[string]string{
	"AmuletRules":     "amulet-rules",
	"OpenMiningRound": "open-round",
}

type TransferContext struct {
	ExtraArgs   model.ExtraArgs
	Disclosures []model.DisclosedContract
}

// ParseTemplateID splits packageId:moduleName:entityName. Entity names may
// themselves contain colons, so only the first two separators split.
func ParseTemplateID(s string) (model.Identifier, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return model.Identifier{}, &MalformedError{Detail: fmt.Sprintf("template id %q must be packageId:moduleName:entityName", s)}
	}
	return model.Identifier{PackageID: parts[0], ModuleName: parts[1], EntityName: parts[2]}, nil
}

// BuildTransferContext decodes every descriptor and assembles the keyed
// choice context. All-or-nothing: one bad descriptor fails the build.
func BuildTransferContext(descriptors []DisclosedContractDescriptor) (TransferContext, error) {
	values := map[string]model.AnyValue{}
	disclosures := make([]model.DisclosedContract, 0, len(descriptors))
	for _, d := range descriptors {
		id, err := ParseTemplateID(d.TemplateID)
		if err != nil {
			return TransferContext{}, err
		}
		blob, err := base64.StdEncoding.DecodeString(d.CreatedEventBlob)
		if err != nil {
			return TransferContext{}, &MalformedError{Detail: fmt.Sprintf("created event blob of %s: %v", d.ContractID, err)}
		}
		disclosures = append(disclosures, model.DisclosedContract{
			TemplateID:       id,
			ContractID:       d.ContractID,
			CreatedEventBlob: blob,
		})
		if key, ok := contextKeyByEntity[id.EntityName]; ok {
			values[key] = model.ContractIDValue(d.ContractID)
		}
	}
	return TransferContext{
		ExtraArgs: model.ExtraArgs{
			Context: model.ChoiceContext{Values: values},
			Meta:    model.EmptyMetadata(),
		},
		Disclosures: disclosures,
	}, nil
}
