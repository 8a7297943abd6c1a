package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"invoicelane/internal/ledger"
	"invoicelane/internal/model"
	"invoicelane/pkg/httpx"
)

func (s *server) registerPaymentRequestRoutes(api chi.Router) {
	api.Delete("/payment-requests/{contractId}", s.withdrawPaymentRequest)
}

// withdrawPaymentRequest withdraws the allocation request that backs a
// pending payment request. The buyer-side allocation, if any, is retired by
// the registry as a consequence; we only exercise the withdraw choice.
func (s *server) withdrawPaymentRequest(w http.ResponseWriter, r *http.Request) {
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
	allocReq, err := s.repo.FindActiveAllocationRequestByID(r.Context(), chi.URLParam(r, "contractId"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	_, err = s.ledger.Exercise(r.Context(), ledger.ExerciseRequest{
		TemplateID: model.CmdTplAllocationRequest,
		ContractID: allocReq.ContractID,
		Choice:     model.ChoiceAllocationWithdraw,
		Argument:   model.AllocationWithdrawArg{ExtraArgs: model.EmptyExtraArgs()},
		CommandID:  cmdID,
		ActAs:      party,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.log.Info().Str("contract_id", allocReq.ContractID).Msg("payment request withdrawn")
	w.WriteHeader(http.StatusNoContent)
}
