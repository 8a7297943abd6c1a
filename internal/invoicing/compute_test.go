package invoicing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotals(t *testing.T) {
	totals := Compute([]LineItemInput{
		{ItemName: "widget", Quantity: dec("2"), UnitPrice: dec("10"), Discount: dec("0"), TaxRate: dec("0.1")},
		{ItemName: "gadget", Quantity: dec("1"), UnitPrice: dec("5"), Discount: dec("1"), TaxRate: dec("0.1")},
	})

	if got := totals.LineItems[0].LineSubtotal; !got.Equal(dec("20")) {
		t.Errorf("line 0 subtotal = %s, want 20", got)
	}
	if got := totals.LineItems[1].LineSubtotal; !got.Equal(dec("4")) {
		t.Errorf("line 1 subtotal = %s, want 4", got)
	}
	if !totals.Subtotal.Equal(dec("24")) {
		t.Errorf("subtotal = %s, want 24", totals.Subtotal)
	}
	if !totals.TotalDiscount.Equal(dec("1")) {
		t.Errorf("totalDiscount = %s, want 1", totals.TotalDiscount)
	}
	if len(totals.TaxBreakdown) != 1 {
		t.Fatalf("tax breakdown has %d entries, want 1", len(totals.TaxBreakdown))
	}
	entry := totals.TaxBreakdown[0]
	if entry.TaxName != "Tax 10%" {
		t.Errorf("tax name = %q, want %q", entry.TaxName, "Tax 10%")
	}
	if !entry.TaxAmount.Equal(dec("2.4")) {
		t.Errorf("tax amount = %s, want 2.4", entry.TaxAmount)
	}
	if !totals.GrandTotal.Equal(dec("26.4")) {
		t.Errorf("grandTotal = %s, want 26.4", totals.GrandTotal)
	}
	if !totals.AmountPaid.IsZero() {
		t.Errorf("amountPaid = %s, want 0", totals.AmountPaid)
	}
	if !totals.BalanceDue.Equal(totals.GrandTotal) {
		t.Errorf("balanceDue = %s, want %s", totals.BalanceDue, totals.GrandTotal)
	}
}

func TestComputeEmpty(t *testing.T) {
	totals := Compute(nil)
	if len(totals.LineItems) != 0 || len(totals.TaxBreakdown) != 0 {
		t.Fatalf("empty input produced items or tax entries")
	}
	if !totals.GrandTotal.IsZero() || !totals.BalanceDue.IsZero() {
		t.Errorf("grandTotal = %s, balanceDue = %s, want zero", totals.GrandTotal, totals.BalanceDue)
	}
}

func TestComputeZeroRateExcluded(t *testing.T) {
	totals := Compute([]LineItemInput{
		{Quantity: dec("1"), UnitPrice: dec("100"), TaxRate: dec("0")},
		{Quantity: dec("1"), UnitPrice: dec("50"), TaxRate: dec("0.2")},
	})
	if len(totals.TaxBreakdown) != 1 {
		t.Fatalf("tax breakdown has %d entries, want 1", len(totals.TaxBreakdown))
	}
	if !totals.TaxBreakdown[0].TaxAmount.Equal(dec("10")) {
		t.Errorf("tax amount = %s, want 10", totals.TaxBreakdown[0].TaxAmount)
	}
	if !totals.Subtotal.Equal(dec("150")) {
		t.Errorf("subtotal = %s, want 150", totals.Subtotal)
	}
}

func TestComputeScaleVariantsGroupSeparately(t *testing.T) {
	totals := Compute([]LineItemInput{
		{Quantity: dec("1"), UnitPrice: dec("100"), TaxRate: dec("0.1")},
		{Quantity: dec("1"), UnitPrice: dec("100"), TaxRate: dec("0.10")},
	})
	if len(totals.TaxBreakdown) != 2 {
		t.Fatalf("tax breakdown has %d entries, want 2 (0.1 and 0.10 are distinct representations)", len(totals.TaxBreakdown))
	}
	for _, e := range totals.TaxBreakdown {
		if e.TaxName != "Tax 10%" {
			t.Errorf("tax name = %q, want %q", e.TaxName, "Tax 10%")
		}
		if !e.TaxAmount.Equal(dec("10")) {
			t.Errorf("tax amount = %s, want 10", e.TaxAmount)
		}
	}
	if !totals.TotalTax.Equal(dec("20")) {
		t.Errorf("totalTax = %s, want 20", totals.TotalTax)
	}
}

func TestComputeGroupOrderIsFirstSeen(t *testing.T) {
	totals := Compute([]LineItemInput{
		{Quantity: dec("1"), UnitPrice: dec("10"), TaxRate: dec("0.2")},
		{Quantity: dec("1"), UnitPrice: dec("10"), TaxRate: dec("0.05")},
		{Quantity: dec("1"), UnitPrice: dec("10"), TaxRate: dec("0.2")},
	})
	if len(totals.TaxBreakdown) != 2 {
		t.Fatalf("tax breakdown has %d entries, want 2", len(totals.TaxBreakdown))
	}
	if totals.TaxBreakdown[0].TaxName != "Tax 20%" || totals.TaxBreakdown[1].TaxName != "Tax 5%" {
		t.Errorf("group order = [%q %q], want first-seen order", totals.TaxBreakdown[0].TaxName, totals.TaxBreakdown[1].TaxName)
	}
	if !totals.TaxBreakdown[0].TaxAmount.Equal(dec("4")) {
		t.Errorf("merged 20%% group tax = %s, want 4", totals.TaxBreakdown[0].TaxAmount)
	}
}

func TestComputeNegativeSubtotalNotClamped(t *testing.T) {
	totals := Compute([]LineItemInput{
		{Quantity: dec("1"), UnitPrice: dec("5"), Discount: dec("8"), TaxRate: dec("0.1")},
	})
	if !totals.LineItems[0].LineSubtotal.Equal(dec("-3")) {
		t.Errorf("line subtotal = %s, want -3", totals.LineItems[0].LineSubtotal)
	}
	if !totals.TaxBreakdown[0].TaxAmount.Equal(dec("-0.3")) {
		t.Errorf("tax amount = %s, want -0.3", totals.TaxBreakdown[0].TaxAmount)
	}
	if !totals.GrandTotal.Equal(dec("-3.3")) {
		t.Errorf("grandTotal = %s, want -3.3", totals.GrandTotal)
	}
}
