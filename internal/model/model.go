// Package model mirrors the ledger-side payload shapes. Field tags follow
// the JSON encoding of the contract payloads, which is also what the PQS
// stores in its payload column.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	StatusIssued        InvoiceStatus = "Issued"
	StatusPartiallyPaid InvoiceStatus = "PartiallyPaid"
	StatusPaid          InvoiceStatus = "Paid"
	StatusVoid          InvoiceStatus = "Void"
)

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type PartyInfo struct {
	PartyName string  `json:"partyName"`
	RegNumber string  `json:"regNumber"`
	TaxNumber string  `json:"taxNumber"`
	Address   Address `json:"address"`
	Contact   Contact `json:"contact"`
}

type LineItem struct {
	ItemName      string          `json:"itemName"`
	Sku           string          `json:"sku"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unitOfMeasure"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Discount      decimal.Decimal `json:"discount"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	LineSubtotal  decimal.Decimal `json:"lineSubtotal"`
	BatchInfo     string          `json:"batchInfo"`
	DeliveryDate  string          `json:"deliveryDate"`
}

type TaxEntry struct {
	TaxName   string          `json:"taxName"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
}

// InstrumentId identifies the settlement instrument (registry admin + symbol).
type InstrumentId struct {
	Admin string `json:"admin"`
	ID    string `json:"id"`
}

type Metadata struct {
	Values map[string]string `json:"values"`
}

func EmptyMetadata() Metadata { return Metadata{Values: map[string]string{}} }

type Invoice struct {
	Seller           string          `json:"seller"`
	Buyer            string          `json:"buyer"`
	Provider         string          `json:"provider"`
	InvoiceNum       int64           `json:"invoiceNum"`
	InvoiceDate      time.Time       `json:"invoiceDate"`
	DueDate          time.Time       `json:"dueDate"`
	Currency         string          `json:"currency"`
	SellerInfo       PartyInfo       `json:"sellerInfo"`
	BuyerInfo        PartyInfo       `json:"buyerInfo"`
	ShippingAddress  Address         `json:"shippingAddress"`
	LineItems        []LineItem      `json:"lineItems"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TotalDiscount    decimal.Decimal `json:"totalDiscount"`
	TaxBreakdown     []TaxEntry      `json:"taxBreakdown"`
	TotalTax         decimal.Decimal `json:"totalTax"`
	GrandTotal       decimal.Decimal `json:"grandTotal"`
	AmountPaid       decimal.Decimal `json:"amountPaid"`
	BalanceDue       decimal.Decimal `json:"balanceDue"`
	Instrument       InstrumentId    `json:"instrument"`
	PaymentTerms     string          `json:"paymentTerms"`
	PoNumber         string          `json:"poNumber"`
	SalesOrderNumber string          `json:"salesOrderNumber"`
	Notes            string          `json:"notes"`
	DeliveryTerms    string          `json:"deliveryTerms"`
	Description      string          `json:"description"`
	Status           InvoiceStatus   `json:"status"`
	Meta             Metadata        `json:"meta"`
}

type InvoicePaymentRequest struct {
	Seller       string          `json:"seller"`
	Buyer        string          `json:"buyer"`
	Provider     string          `json:"provider"`
	InvoiceNum   int64           `json:"invoiceNum"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	RequestID    string          `json:"requestId"`
	PrepareUntil time.Time       `json:"prepareUntil"`
	SettleBefore time.Time       `json:"settleBefore"`
	RequestedAt  time.Time       `json:"requestedAt"`
}

// LogisticsView is the carrier-facing disclosure: shipping data only, no
// prices. The price-free shape is structural, not a projection we apply.
type LogisticsItem struct {
	ItemName      string          `json:"itemName"`
	Sku           string          `json:"sku"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unitOfMeasure"`
	BatchInfo     string          `json:"batchInfo"`
	DeliveryDate  string          `json:"deliveryDate"`
}

type LogisticsView struct {
	Grantor         string          `json:"grantor"`
	Carrier         string          `json:"carrier"`
	Provider        string          `json:"provider"`
	InvoiceRef      string          `json:"invoiceRef"`
	OrderRef        string          `json:"orderRef"`
	ShipFromAddress Address         `json:"shipFromAddress"`
	ShipToAddress   Address         `json:"shipToAddress"`
	SellerContact   Contact         `json:"sellerContact"`
	BuyerContact    Contact         `json:"buyerContact"`
	Items           []LogisticsItem `json:"items"`
	DeliveryTerms   string          `json:"deliveryTerms"`
	Notes           string          `json:"notes"`
}

// BookkeeperView is the finance-facing disclosure: totals and tax breakdown,
// no line items or counterparty contact data.
type BookkeeperView struct {
	Grantor        string          `json:"grantor"`
	Bookkeeper     string          `json:"bookkeeper"`
	Provider       string          `json:"provider"`
	InvoiceNum     int64           `json:"invoiceNum"`
	InvoiceDate    time.Time       `json:"invoiceDate"`
	SellerName     string          `json:"sellerName"`
	BuyerName      string          `json:"buyerName"`
	Currency       string          `json:"currency"`
	Status         InvoiceStatus   `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TotalDiscount  decimal.Decimal `json:"totalDiscount"`
	TaxBreakdown   []TaxEntry      `json:"taxBreakdown"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
	AmountPaid     decimal.Decimal `json:"amountPaid"`
	BalanceDue     decimal.Decimal `json:"balanceDue"`
	ItemCategories []string        `json:"itemCategories"`
}
