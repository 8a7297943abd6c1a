package main

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"invoicelane/internal/invoicing"
	"invoicelane/internal/ledger"
	"invoicelane/internal/model"
	"invoicelane/internal/repository"
	"invoicelane/internal/settlement"
	"invoicelane/pkg/httpx"
)

func (s *server) registerInvoiceRoutes(api chi.Router) {
	api.Get("/invoices", s.listInvoices)
	api.Post("/invoices", s.createInvoice)
	api.Post("/invoices/{contractId}/request-payment", s.requestInvoicePayment)
	api.Post("/invoices/{contractId}/complete-payment", s.completeInvoicePayment)
	api.Post("/invoices/{contractId}/cancel", s.cancelInvoice)
	api.Post("/invoices/{contractId}/mark-paid", s.markInvoicePaid)
	api.Post("/invoices/{contractId}/share-carrier", s.shareWithCarrier)
	api.Post("/invoices/{contractId}/share-bookkeeper", s.shareWithBookkeeper)
}

type paymentRequestResponse struct {
	ContractID string `json:"contractId"`
	model.InvoicePaymentRequest
	PrepareDeadlinePassed bool    `json:"prepareDeadlinePassed"`
	SettleDeadlinePassed  bool    `json:"settleDeadlinePassed"`
	AllocationCid         *string `json:"allocationCid,omitempty"`
}

type invoiceResponse struct {
	ContractID string `json:"contractId"`
	model.Invoice
	PaymentRequests []paymentRequestResponse `json:"paymentRequests"`
}

func (s *server) listInvoices(w http.ResponseWriter, r *http.Request) {
	party, err := s.auth.Party(r.Header.Get("Authorization"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	aggs, err := s.repo.FindActiveInvoices(r.Context(), party)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	now := s.now()
	out := make([]invoiceResponse, 0, len(aggs))
	for _, agg := range aggs {
		out = append(out, toInvoiceResponse(agg, now))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNum < out[j].InvoiceNum })
	httpx.WriteOK(w, map[string]any{"invoices": out})
}

func toInvoiceResponse(agg repository.InvoiceWithPaymentRequests, now time.Time) invoiceResponse {
	reqs := make([]paymentRequestResponse, 0, len(agg.PaymentRequests))
	for _, pr := range agg.PaymentRequests {
		reqs = append(reqs, paymentRequestResponse{
			ContractID:            pr.Request.ContractID,
			InvoicePaymentRequest: pr.Request.Payload,
			PrepareDeadlinePassed: !pr.Request.Payload.PrepareUntil.After(now),
			SettleDeadlinePassed:  !pr.Request.Payload.SettleBefore.After(now),
			AllocationCid:         pr.AllocationCid,
		})
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].RequestedAt.Before(reqs[j].RequestedAt) })
	return invoiceResponse{
		ContractID:      agg.Invoice.ContractID,
		Invoice:         agg.Invoice.Payload,
		PaymentRequests: reqs,
	}
}

type createInvoiceRequest struct {
	Seller           string                    `json:"seller"`
	Buyer            string                    `json:"buyer"`
	DueDate          time.Time                 `json:"dueDate"`
	Currency         string                    `json:"currency"`
	SellerInfo       model.PartyInfo           `json:"sellerInfo"`
	BuyerInfo        model.PartyInfo           `json:"buyerInfo"`
	ShippingAddress  model.Address             `json:"shippingAddress"`
	LineItems        []invoicing.LineItemInput `json:"lineItems"`
	PaymentTerms     string                    `json:"paymentTerms"`
	PoNumber         string                    `json:"poNumber"`
	SalesOrderNumber string                    `json:"salesOrderNumber"`
	Notes            string                    `json:"notes"`
	DeliveryTerms    string                    `json:"deliveryTerms"`
	Description      string                    `json:"description"`
}

func (s *server) createInvoice(w http.ResponseWriter, r *http.Request) {
	party, err := s.auth.AdminPartyFrom(r.Header.Get("Authorization"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	cmdID, ok := commandID(r)
	if !ok {
		httpx.WriteError(w, 400, "MISSING_COMMAND_ID", "commandId query parameter is required")
		return
	}
	var req createInvoiceRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.WriteError(w, 400, "BAD_JSON", err.Error())
		return
	}

	adminID, err := s.registry.GetRegistryAdminID(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}

	now := s.now()
	totals := invoicing.Compute(req.LineItems)
	invoice := model.Invoice{
		Seller:           req.Seller,
		Buyer:            req.Buyer,
		Provider:         party,
		InvoiceNum:       0, // sequential per provider, assigned ledger-side
		InvoiceDate:      now,
		DueDate:          req.DueDate,
		Currency:         req.Currency,
		SellerInfo:       req.SellerInfo,
		BuyerInfo:        req.BuyerInfo,
		ShippingAddress:  req.ShippingAddress,
		LineItems:        totals.LineItems,
		Subtotal:         totals.Subtotal,
		TotalDiscount:    totals.TotalDiscount,
		TaxBreakdown:     totals.TaxBreakdown,
		TotalTax:         totals.TotalTax,
		GrandTotal:       totals.GrandTotal,
		AmountPaid:       totals.AmountPaid,
		BalanceDue:       totals.BalanceDue,
		Instrument:       model.InstrumentId{Admin: adminID, ID: "Amulet"},
		PaymentTerms:     req.PaymentTerms,
		PoNumber:         req.PoNumber,
		SalesOrderNumber: req.SalesOrderNumber,
		Notes:            req.Notes,
		DeliveryTerms:    req.DeliveryTerms,
		Description:      req.Description,
		Status:           model.StatusIssued,
		Meta:             model.EmptyMetadata(),
	}
	err = s.ledger.Create(r.Context(), ledger.CreateRequest{
		TemplateID: model.CmdTplInvoice,
		Payload:    invoice,
		CommandID:  cmdID,
		ActAs:      party,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.log.Info().Str("command_id", cmdID).Str("buyer", req.Buyer).Msg("invoice created")
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"request_id": httpx.NewRequestID()})
}

type requestPaymentRequest struct {
	PrepareUntilDuration string `json:"prepareUntilDuration"`
	SettleBeforeDuration string `json:"settleBeforeDuration"`
}

func (s *server) requestInvoicePayment(w http.ResponseWriter, r *http.Request) {
	party, err := s.auth.AdminPartyFrom(r.Header.Get("Authorization"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	cmdID, ok := commandID(r)
	if !ok {
		httpx.WriteError(w, 400, "MISSING_COMMAND_ID", "commandId query parameter is required")
		return
	}
	var req requestPaymentRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.WriteError(w, 400, "BAD_JSON", err.Error())
		return
	}
	prepare, err := parseISODuration(req.PrepareUntilDuration)
	if err != nil {
		httpx.WriteError(w, 400, "BAD_DURATION", err.Error())
		return
	}
	settle, err := parseISODuration(req.SettleBeforeDuration)
	if err != nil {
		httpx.WriteError(w, 400, "BAD_DURATION", err.Error())
		return
	}

	invoice, err := s.repo.FindInvoiceByID(r.Context(), chi.URLParam(r, "contractId"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	now := s.now()
	arg := model.RequestPaymentArg{
		RequestID:    uuid.NewString(),
		RequestedAt:  now,
		PrepareUntil: now.Add(prepare),
		SettleBefore: now.Add(settle),
	}
	_, err = s.ledger.Exercise(r.Context(), ledger.ExerciseRequest{
		TemplateID: model.CmdTplInvoice,
		ContractID: invoice.ContractID,
		Choice:     model.ChoiceRequestPayment,
		Argument:   arg,
		CommandID:  cmdID,
		ActAs:      party,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.log.Info().Str("contract_id", invoice.ContractID).Str("request_id", arg.RequestID).Msg("payment requested")
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"request_id": httpx.NewRequestID()})
}

type completePaymentRequest struct {
	AllocationContractID     string `json:"allocationContractId"`
	PaymentRequestContractID string `json:"paymentRequestContractId"`
}

func (s *server) completeInvoicePayment(w http.ResponseWriter, r *http.Request) {
	party, err := s.auth.AdminPartyFrom(r.Header.Get("Authorization"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	cmdID, ok := commandID(r)
	if !ok {
		httpx.WriteError(w, 400, "MISSING_COMMAND_ID", "commandId query parameter is required")
		return
	}
	invoiceCid := chi.URLParam(r, "contractId")
	var req completePaymentRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.WriteError(w, 400, "BAD_JSON", err.Error())
		return
	}

	// The transfer context and the payment request come from independent
	// services; fetch both, combine only when both are in.
	var descriptors []settlement.DisclosedContractDescriptor
	var allocationKnown bool
	var pmtReqCid string
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		descriptors, allocationKnown, err = s.registry.GetAllocationTransferContext(ctx, req.AllocationContractID)
		return err
	})
	g.Go(func() error {
		pmtReq, err := s.repo.FindActivePaymentRequestByID(ctx, req.PaymentRequestContractID)
		if err != nil {
			return err
		}
		pmtReqCid = pmtReq.ContractID
		return nil
	})
	if err := g.Wait(); err != nil {
		s.writeErr(w, err)
		return
	}
	if !allocationKnown {
		httpx.WriteError(w, 404, "NOT_FOUND", "transfer context not found for allocation "+req.AllocationContractID)
		return
	}

	tc, err := settlement.BuildTransferContext(descriptors)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	arg := model.PaymentCompleteArg{
		AllocationCid: req.AllocationContractID,
		InvoiceCid:    invoiceCid,
		ExtraArgs:     tc.ExtraArgs,
	}
	raw, err := s.ledger.Exercise(r.Context(), ledger.ExerciseRequest{
		TemplateID:         model.CmdTplPaymentRequest,
		ContractID:         pmtReqCid,
		Choice:             model.ChoicePaymentComplete,
		Argument:           arg,
		CommandID:          cmdID,
		ActAs:              party,
		DisclosedContracts: tc.Disclosures,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	var result model.PaymentCompleteResult
	if err := json.Unmarshal(raw, &result); err != nil {
		s.writeErr(w, err)
		return
	}
	s.log.Info().Str("invoice_id", result.PaidInvoiceID).Str("receipt_id", result.ReceiptID).Msg("payment completed")
	httpx.WriteOK(w, map[string]any{"invoiceId": result.PaidInvoiceID, "receiptId": result.ReceiptID})
}

type cancelRequest struct {
	Meta map[string]string `json:"meta"`
}

func (s *server) cancelInvoice(w http.ResponseWriter, r *http.Request) {
	party, err := s.auth.AdminPartyFrom(r.Header.Get("Authorization"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	cmdID, ok := commandID(r)
	if !ok {
		httpx.WriteError(w, 400, "MISSING_COMMAND_ID", "commandId query parameter is required")
		return
	}
	var req cancelRequest
	_ = httpx.ReadJSON(r, &req)
	meta := model.EmptyMetadata()
	if req.Meta != nil {
		meta = model.Metadata{Values: req.Meta}
	}

	invoice, err := s.repo.FindInvoiceByID(r.Context(), chi.URLParam(r, "contractId"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	_, err = s.ledger.Exercise(r.Context(), ledger.ExerciseRequest{
		TemplateID: model.CmdTplInvoice,
		ContractID: invoice.ContractID,
		Choice:     model.ChoiceCancel,
		Argument:   model.CancelArg{Actor: party, Meta: meta},
		CommandID:  cmdID,
		ActAs:      party,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) markInvoicePaid(w http.ResponseWriter, r *http.Request) {
	party, err := s.auth.AdminPartyFrom(r.Header.Get("Authorization"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	cmdID, ok := commandID(r)
	if !ok {
		httpx.WriteError(w, 400, "MISSING_COMMAND_ID", "commandId query parameter is required")
		return
	}
	invoice, err := s.repo.FindInvoiceByID(r.Context(), chi.URLParam(r, "contractId"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	_, err = s.ledger.Exercise(r.Context(), ledger.ExerciseRequest{
		TemplateID: model.CmdTplInvoice,
		ContractID: invoice.ContractID,
		Choice:     model.ChoiceMarkPaid,
		Argument:   model.MarkPaidArg{PaidAt: s.now()},
		CommandID:  cmdID,
		ActAs:      party,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type shareWithCarrierRequest struct {
	Carrier string `json:"carrier"`
}

func (s *server) shareWithCarrier(w http.ResponseWriter, r *http.Request) {
	party, err := s.auth.AdminPartyFrom(r.Header.Get("Authorization"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	cmdID, ok := commandID(r)
	if !ok {
		httpx.WriteError(w, 400, "MISSING_COMMAND_ID", "commandId query parameter is required")
		return
	}
	var req shareWithCarrierRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.WriteError(w, 400, "BAD_JSON", err.Error())
		return
	}
	invoice, err := s.repo.FindInvoiceByID(r.Context(), chi.URLParam(r, "contractId"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	_, err = s.ledger.Exercise(r.Context(), ledger.ExerciseRequest{
		TemplateID: model.CmdTplInvoice,
		ContractID: invoice.ContractID,
		Choice:     model.ChoiceShareWithCarrier,
		Argument:   model.ShareWithCarrierArg{Carrier: req.Carrier, Actor: party},
		CommandID:  cmdID,
		ActAs:      party,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"request_id": httpx.NewRequestID()})
}

type shareWithBookkeeperRequest struct {
	Bookkeeper string `json:"bookkeeper"`
}

func (s *server) shareWithBookkeeper(w http.ResponseWriter, r *http.Request) {
	party, err := s.auth.AdminPartyFrom(r.Header.Get("Authorization"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	cmdID, ok := commandID(r)
	if !ok {
		httpx.WriteError(w, 400, "MISSING_COMMAND_ID", "commandId query parameter is required")
		return
	}
	var req shareWithBookkeeperRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.WriteError(w, 400, "BAD_JSON", err.Error())
		return
	}
	invoice, err := s.repo.FindInvoiceByID(r.Context(), chi.URLParam(r, "contractId"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	_, err = s.ledger.Exercise(r.Context(), ledger.ExerciseRequest{
		TemplateID: model.CmdTplInvoice,
		ContractID: invoice.ContractID,
		Choice:     model.ChoiceShareWithBookkeeper,
		Argument:   model.ShareWithBookkeeperArg{Bookkeeper: req.Bookkeeper, Actor: party},
		CommandID:  cmdID,
		ActAs:      party,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"request_id": httpx.NewRequestID()})
}
