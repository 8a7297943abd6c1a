package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"invoicelane/internal/ledger"
	"invoicelane/internal/model"
	"invoicelane/pkg/httpx"
)

func (s *server) registerDisclosureRoutes(api chi.Router) {
	api.Get("/logistics-views", s.listLogisticsViews)
	api.Post("/logistics-views/{contractId}/acknowledge", s.viewAction(model.CmdTplLogisticsView, model.ChoiceLogisticsAcknowledge, s.logisticsViewCid))
	api.Post("/logistics-views/{contractId}/revoke", s.viewAction(model.CmdTplLogisticsView, model.ChoiceLogisticsRevoke, s.logisticsViewCid))
	api.Get("/bookkeeper-views", s.listBookkeeperViews)
	api.Post("/bookkeeper-views/{contractId}/acknowledge", s.viewAction(model.CmdTplBookkeeperView, model.ChoiceBookkeeperAck, s.bookkeeperViewCid))
	api.Post("/bookkeeper-views/{contractId}/revoke", s.viewAction(model.CmdTplBookkeeperView, model.ChoiceBookkeeperRevoke, s.bookkeeperViewCid))
}

type logisticsViewResponse struct {
	ContractID string `json:"contractId"`
	model.LogisticsView
}

func (s *server) listLogisticsViews(w http.ResponseWriter, r *http.Request) {
	party, err := s.auth.Party(r.Header.Get("Authorization"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	views, err := s.repo.FindActiveLogisticsViews(r.Context(), party)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := make([]logisticsViewResponse, 0, len(views))
	for _, v := range views {
		out = append(out, logisticsViewResponse{ContractID: v.ContractID, LogisticsView: v.Payload})
	}
	httpx.WriteOK(w, map[string]any{"views": out})
}

type bookkeeperViewResponse struct {
	ContractID string `json:"contractId"`
	model.BookkeeperView
}

func (s *server) listBookkeeperViews(w http.ResponseWriter, r *http.Request) {
	party, err := s.auth.Party(r.Header.Get("Authorization"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	views, err := s.repo.FindActiveBookkeeperViews(r.Context(), party)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := make([]bookkeeperViewResponse, 0, len(views))
	for _, v := range views {
		out = append(out, bookkeeperViewResponse{ContractID: v.ContractID, BookkeeperView: v.Payload})
	}
	httpx.WriteOK(w, map[string]any{"views": out})
}

func (s *server) logisticsViewCid(r *http.Request) (string, error) {
	v, err := s.repo.FindLogisticsViewByID(r.Context(), chi.URLParam(r, "contractId"))
	return v.ContractID, err
}

func (s *server) bookkeeperViewCid(r *http.Request) (string, error) {
	v, err := s.repo.FindBookkeeperViewByID(r.Context(), chi.URLParam(r, "contractId"))
	return v.ContractID, err
}

// viewAction builds a handler for the acknowledge/revoke choices, which all
// take an empty-metadata argument and act as the authenticated party. The
// ledger enforces who may exercise which choice.
func (s *server) viewAction(templateID, choice string, lookup func(*http.Request) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		party, err := s.auth.Party(r.Header.Get("Authorization"))
		if err != nil {
			s.writeErr(w, err)
			return
		}
		cmdID, ok := commandID(r)
		if !ok {
			httpx.WriteError(w, 400, "MISSING_COMMAND_ID", "commandId query parameter is required")
			return
		}
		cid, err := lookup(r)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		_, err = s.ledger.Exercise(r.Context(), ledger.ExerciseRequest{
			TemplateID: templateID,
			ContractID: cid,
			Choice:     choice,
			Argument:   model.ViewActionArg{Meta: model.EmptyMetadata()},
			CommandID:  cmdID,
			ActAs:      party,
		})
		if err != nil {
			s.writeErr(w, err)
			return
		}
		s.log.Info().Str("contract_id", cid).Str("choice", choice).Msg("disclosure action")
		w.WriteHeader(http.StatusNoContent)
	}
}
