// Package repository exposes the active-contract views the API serves:
// by-id lookups, per-party view listings, and the invoice correlation
// aggregate that joins invoices to payment requests and allocations on
// business keys.
package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"invoicelane/internal/model"
	"invoicelane/internal/pqs"
)

type Repository struct{ Pqs *pqs.Pqs }

func New(p *pqs.Pqs) *Repository { return &Repository{Pqs: p} }

// The three active sets share no foreign keys; they correlate on business
// fields only. Invoice to payment request matches on (invoiceNum, buyer);
// payment request to allocation matches the request id against the
// allocation's settlement reference and the buyer against the transfer-leg
// sender. Left joins keep invoices without requests and requests without
// allocations.
const invoiceCorrelationSQL = `
SELECT invoice.contract_id    AS invoice_contract_id,
       invoice.payload        AS invoice_payload,
       pmtreq.contract_id     AS pmtreq_contract_id,
       pmtreq.payload         AS pmtreq_payload,
       allocation.contract_id AS allocation_contract_id
FROM active($1) invoice
LEFT JOIN active($2) pmtreq ON
    invoice.payload->>'invoiceNum' = pmtreq.payload->>'invoiceNum'
    AND invoice.payload->>'buyer' = pmtreq.payload->>'buyer'
LEFT JOIN active($3) allocation ON
    pmtreq.payload->>'requestId' = allocation.payload->'allocation'->'settlement'->'settlementRef'->>'id'
    AND pmtreq.payload->>'buyer' = allocation.payload->'allocation'->'transferLeg'->>'sender'
WHERE invoice.payload->>'seller' = $4 OR invoice.payload->>'buyer' = $5 OR invoice.payload->>'provider' = $6
ORDER BY invoice.contract_id
`

type PaymentRequestWithAllocation struct {
	Request       pqs.Contract[model.InvoicePaymentRequest]
	AllocationCid *string
}

type InvoiceWithPaymentRequests struct {
	Invoice         pqs.Contract[model.Invoice]
	PaymentRequests []PaymentRequestWithAllocation
}

// correlationRow is one row of the three-way outer join. Payment request and
// allocation columns are NULL when the left join found no match.
type correlationRow struct {
	InvoiceCid            string
	InvoicePayload        []byte
	PaymentRequestCid     *string
	PaymentRequestPayload []byte
	AllocationCid         *string
}

// FindActiveInvoices returns every invoice visible to the party together
// with its correlated payment requests and allocation references. Aggregate
// order follows the first appearance of each invoice in the row stream;
// callers wanting a stable order sort explicitly.
func (r *Repository) FindActiveInvoices(ctx context.Context, party string) ([]InvoiceWithPaymentRequests, error) {
	var rows []correlationRow
	err := r.Pqs.Query(ctx, invoiceCorrelationSQL,
		[]any{model.TplInvoice, model.TplPaymentRequest, model.TplAllocation, party, party, party},
		func(rs pgx.Rows) error {
			var row correlationRow
			if err := rs.Scan(&row.InvoiceCid, &row.InvoicePayload, &row.PaymentRequestCid, &row.PaymentRequestPayload, &row.AllocationCid); err != nil {
				return err
			}
			rows = append(rows, row)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return foldCorrelationRows(rows)
}

// foldCorrelationRows groups join rows into aggregates. Pure: the whole
// correlation result is materialized first, then folded, so a transport
// failure never yields a partial aggregate.
func foldCorrelationRows(rows []correlationRow) ([]InvoiceWithPaymentRequests, error) {
	var order []string
	byInvoice := map[string]*InvoiceWithPaymentRequests{}
	for _, row := range rows {
		agg, ok := byInvoice[row.InvoiceCid]
		if !ok {
			var inv model.Invoice
			if err := json.Unmarshal(row.InvoicePayload, &inv); err != nil {
				return nil, err
			}
			agg = &InvoiceWithPaymentRequests{
				Invoice: pqs.Contract[model.Invoice]{ContractID: row.InvoiceCid, Payload: inv},
			}
			byInvoice[row.InvoiceCid] = agg
			order = append(order, row.InvoiceCid)
		}
		if row.PaymentRequestCid == nil {
			continue
		}
		var req model.InvoicePaymentRequest
		if err := json.Unmarshal(row.PaymentRequestPayload, &req); err != nil {
			return nil, err
		}
		agg.PaymentRequests = append(agg.PaymentRequests, PaymentRequestWithAllocation{
			Request:       pqs.Contract[model.InvoicePaymentRequest]{ContractID: *row.PaymentRequestCid, Payload: req},
			AllocationCid: row.AllocationCid,
		})
	}
	out := make([]InvoiceWithPaymentRequests, 0, len(order))
	for _, cid := range order {
		out = append(out, *byInvoice[cid])
	}
	return out, nil
}

func (r *Repository) FindInvoiceByID(ctx context.Context, contractID string) (pqs.Contract[model.Invoice], error) {
	return pqs.ByContractID[model.Invoice](ctx, r.Pqs, model.TplInvoice, contractID)
}

func (r *Repository) FindActivePaymentRequestByID(ctx context.Context, contractID string) (pqs.Contract[model.InvoicePaymentRequest], error) {
	return pqs.ByContractID[model.InvoicePaymentRequest](ctx, r.Pqs, model.TplPaymentRequest, contractID)
}

// FindActiveAllocationRequestByID checks existence only; the payload stays
// opaque because withdrawing needs nothing from it.
func (r *Repository) FindActiveAllocationRequestByID(ctx context.Context, contractID string) (pqs.Contract[json.RawMessage], error) {
	return pqs.ByContractID[json.RawMessage](ctx, r.Pqs, model.TplAllocationRequest, contractID)
}

func (r *Repository) FindActiveLogisticsViews(ctx context.Context, party string) ([]pqs.Contract[model.LogisticsView], error) {
	return pqs.ActiveWhere[model.LogisticsView](ctx, r.Pqs, model.TplLogisticsView,
		`payload->>'grantor' = $2 OR payload->>'carrier' = $3 OR payload->>'provider' = $4`,
		party, party, party)
}

func (r *Repository) FindLogisticsViewByID(ctx context.Context, contractID string) (pqs.Contract[model.LogisticsView], error) {
	return pqs.ByContractID[model.LogisticsView](ctx, r.Pqs, model.TplLogisticsView, contractID)
}

func (r *Repository) FindActiveBookkeeperViews(ctx context.Context, party string) ([]pqs.Contract[model.BookkeeperView], error) {
	return pqs.ActiveWhere[model.BookkeeperView](ctx, r.Pqs, model.TplBookkeeperView,
		`payload->>'grantor' = $2 OR payload->>'bookkeeper' = $3 OR payload->>'provider' = $4`,
		party, party, party)
}

func (r *Repository) FindBookkeeperViewByID(ctx context.Context, contractID string) (pqs.Contract[model.BookkeeperView], error) {
	return pqs.ByContractID[model.BookkeeperView](ctx, r.Pqs, model.TplBookkeeperView, contractID)
}
