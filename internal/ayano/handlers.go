// Copyright (c) 2026 camp-sub001 contributors.

package ayano

import (
	"net/http"

	"github.com/367718/camp-sub001/internal/orchestrator"
	"github.com/367718/camp-sub001/internal/platform/ctxutil"
	"github.com/367718/camp-sub001/internal/platform/respond"
)

// Handler holds the single [*orchestrator.Orchestrator] every route reads
// from or triggers a run through.
type Handler struct {
	orch *orchestrator.Orchestrator
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, map[string]string{"status": "ok"})
}

func (h *Handler) listKinds(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, h.orch.Kinds.Iter())
}

func (h *Handler) listFormats(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, h.orch.Formats.Iter())
}

func (h *Handler) listFeeds(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, h.orch.Feeds.Iter())
}

func (h *Handler) listSeries(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, h.orch.Series.Iter())
}

func (h *Handler) listCandidates(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, h.orch.Candidates.Iter())
}

func (h *Handler) listLedger(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, h.orch.Ledger.Iter())
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	result, err := h.orch.Run(r.Context())
	if err != nil {
		respond.Error(w, ctxutil.GetLogger(r.Context()), err)
		return
	}
	respond.OK(w, result)
}
