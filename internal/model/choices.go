package model

import "time"

// Qualified template names as the PQS knows them (module:entity).
const (
	TplInvoice           = "Invoicing.Invoice:Invoice"
	TplPaymentRequest    = "Invoicing.Invoice:InvoicePaymentRequest"
	TplAllocation        = "Splice.Api.Token.AllocationV1:Allocation"
	TplAllocationRequest = "Splice.Api.Token.AllocationRequestV1:AllocationRequest"
	TplLogisticsView     = "Invoicing.Disclosure:LogisticsView"
	TplBookkeeperView    = "Invoicing.Disclosure:BookkeeperView"
)

// Template references for command submission (package-name form).
const (
	CmdTplInvoice           = "#quickstart-invoicing:" + TplInvoice
	CmdTplPaymentRequest    = "#quickstart-invoicing:" + TplPaymentRequest
	CmdTplAllocationRequest = "#splice-api-token-allocation-request-v1:" + TplAllocationRequest
	CmdTplLogisticsView     = "#quickstart-invoicing:" + TplLogisticsView
	CmdTplBookkeeperView    = "#quickstart-invoicing:" + TplBookkeeperView
)

const (
	ChoiceRequestPayment       = "Invoice_RequestPayment"
	ChoiceCancel               = "Invoice_Cancel"
	ChoiceMarkPaid             = "Invoice_MarkPaid"
	ChoiceShareWithCarrier     = "Invoice_ShareWithCarrier"
	ChoiceShareWithBookkeeper  = "Invoice_ShareWithBookkeeper"
	ChoicePaymentComplete      = "InvoicePaymentRequest_Complete"
	ChoiceAllocationWithdraw   = "AllocationRequest_Withdraw"
	ChoiceLogisticsAcknowledge = "LogisticsView_Acknowledge"
	ChoiceLogisticsRevoke      = "LogisticsView_Revoke"
	ChoiceBookkeeperAck        = "BookkeeperView_Acknowledge"
	ChoiceBookkeeperRevoke     = "BookkeeperView_Revoke"
)

// AnyValue is the token-standard metadata variant; only the contract-id
// constructor is used here.
type AnyValue struct {
	Tag   string `json:"tag"`
	Value any    `json:"value"`
}

func ContractIDValue(cid string) AnyValue {
	return AnyValue{Tag: "AV_ContractId", Value: cid}
}

type ChoiceContext struct {
	Values map[string]AnyValue `json:"values"`
}

type ExtraArgs struct {
	Context ChoiceContext `json:"context"`
	Meta    Metadata      `json:"meta"`
}

func EmptyExtraArgs() ExtraArgs {
	return ExtraArgs{Context: ChoiceContext{Values: map[string]AnyValue{}}, Meta: EmptyMetadata()}
}

// Choice arguments.

type RequestPaymentArg struct {
	RequestID    string    `json:"requestId"`
	RequestedAt  time.Time `json:"requestedAt"`
	PrepareUntil time.Time `json:"prepareUntil"`
	SettleBefore time.Time `json:"settleBefore"`
}

type CancelArg struct {
	Actor string   `json:"actor"`
	Meta  Metadata `json:"meta"`
}

type MarkPaidArg struct {
	PaidAt time.Time `json:"paidAt"`
}

type ShareWithCarrierArg struct {
	Carrier string `json:"carrier"`
	Actor   string `json:"actor"`
}

type ShareWithBookkeeperArg struct {
	Bookkeeper string `json:"bookkeeper"`
	Actor      string `json:"actor"`
}

type PaymentCompleteArg struct {
	AllocationCid string    `json:"allocationCid"`
	InvoiceCid    string    `json:"invoiceCid"`
	ExtraArgs     ExtraArgs `json:"extraArgs"`
}

type PaymentCompleteResult struct {
	PaidInvoiceID string `json:"paidInvoiceId"`
	ReceiptID     string `json:"receiptId"`
}

type AllocationWithdrawArg struct {
	ExtraArgs ExtraArgs `json:"extraArgs"`
}

type ViewActionArg struct {
	Meta Metadata `json:"meta"`
}
