package model

// Identifier is a parsed template identifier (packageId:moduleName:entityName).
type Identifier struct {
	PackageID  string `json:"packageId"`
	ModuleName string `json:"moduleName"`
	EntityName string `json:"entityName"`
}

func (id Identifier) String() string {
	return id.PackageID + ":" + id.ModuleName + ":" + id.EntityName
}

// DisclosedContract is an externally supplied proof of a contract required
// to exercise a choice the caller cannot otherwise see. Consumed once per
// invocation, never persisted.
type DisclosedContract struct {
	TemplateID       Identifier
	ContractID       string
	CreatedEventBlob []byte
}
