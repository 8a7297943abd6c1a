// Package invoicing holds the pure financial computation for invoices. It
// must produce the same numbers the ledger-side template computes, so all
// arithmetic is exact decimal and nothing here does I/O.
package invoicing

import (
	"strconv"

	"github.com/shopspring/decimal"

	"invoicelane/internal/model"
)

// LineItemInput is a line item as submitted by the caller. Absent numeric fields
// decode to zero.
type LineItemInput struct {
	ItemName      string          `json:"itemName"`
	Sku           string          `json:"sku"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unitOfMeasure"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Discount      decimal.Decimal `json:"discount"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	BatchInfo     string          `json:"batchInfo"`
	DeliveryDate  string          `json:"deliveryDate"`
}

type Totals struct {
	LineItems     []model.LineItem
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TaxBreakdown  []model.TaxEntry
	TotalTax      decimal.Decimal
	GrandTotal    decimal.Decimal
	AmountPaid    decimal.Decimal
	BalanceDue    decimal.Decimal
}

// Compute derives line subtotals, aggregate totals and the tax breakdown.
// Line subtotal is quantity*unitPrice-discount; a discount larger than
// quantity*unitPrice legitimately yields a negative subtotal and is not
// clamped. Tax groups are keyed by the exact rate representation, so rates
// differing only in trailing precision form separate groups, matching the
// ledger-side grouping.
func Compute(lines []LineItemInput) Totals {
	items := make([]model.LineItem, 0, len(lines))
	subtotal := decimal.Zero
	totalDiscount := decimal.Zero
	for _, in := range lines {
		lineSubtotal := in.Quantity.Mul(in.UnitPrice).Sub(in.Discount)
		items = append(items, model.LineItem{
			ItemName:      in.ItemName,
			Sku:           in.Sku,
			Quantity:      in.Quantity,
			UnitOfMeasure: in.UnitOfMeasure,
			UnitPrice:     in.UnitPrice,
			Discount:      in.Discount,
			TaxRate:       in.TaxRate,
			LineSubtotal:  lineSubtotal,
			BatchInfo:     in.BatchInfo,
			DeliveryDate:  in.DeliveryDate,
		})
		subtotal = subtotal.Add(lineSubtotal)
		totalDiscount = totalDiscount.Add(in.Discount)
	}

	breakdown := taxBreakdown(items)
	totalTax := decimal.Zero
	for _, te := range breakdown {
		totalTax = totalTax.Add(te.TaxAmount)
	}
	grandTotal := subtotal.Add(totalTax)

	return Totals{
		LineItems:     items,
		Subtotal:      subtotal,
		TotalDiscount: totalDiscount,
		TaxBreakdown:  breakdown,
		TotalTax:      totalTax,
		GrandTotal:    grandTotal,
		AmountPaid:    decimal.Zero,
		BalanceDue:    grandTotal,
	}
}

// taxBreakdown partitions lines with a positive tax rate into one entry per
// distinct rate, in first-seen order. Zero-rate lines contribute to the
// subtotal but never appear here.
func taxBreakdown(items []model.LineItem) []model.TaxEntry {
	type group struct {
		rate    decimal.Decimal
		taxable decimal.Decimal
	}
	var order []string
	groups := map[string]*group{}
	for _, li := range items {
		if !li.TaxRate.IsPositive() {
			continue
		}
		key := rateKey(li.TaxRate)
		g, ok := groups[key]
		if !ok {
			g = &group{rate: li.TaxRate, taxable: decimal.Zero}
			groups[key] = g
			order = append(order, key)
		}
		g.taxable = g.taxable.Add(li.LineSubtotal)
	}
	out := make([]model.TaxEntry, 0, len(order))
	for _, key := range order {
		g := groups[key]
		out = append(out, model.TaxEntry{
			TaxName:   "Tax " + g.rate.Mul(decimal.NewFromInt(100)).String() + "%",
			TaxRate:   g.rate,
			TaxAmount: g.taxable.Mul(g.rate),
		})
	}
	return out
}

// rateKey identifies a rate by coefficient and exponent rather than value,
// so 0.1 and 0.10 stay in separate groups. Decimal.String trims trailing
// zeros and would merge them.
func rateKey(rate decimal.Decimal) string {
	return rate.Coefficient().String() + "e" + strconv.Itoa(int(rate.Exponent()))
}
