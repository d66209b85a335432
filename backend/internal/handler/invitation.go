package handler

import (
	"net/http"
	"time"

	"github.com/campusdesk/campusdesk/shared/utils"
)

type sweepStatsResponse struct {
	RunAt      *time.Time `json:"run_at,omitempty"`
	Cutoff     *time.Time `json:"cutoff,omitempty"`
	Deleted    int64      `json:"deleted"`
	DurationMs int64      `json:"duration_ms"`
}

type invitationStatsResponse struct {
	Outstanding int                `json:"outstanding"`
	LastSweep   sweepStatsResponse `json:"last_sweep"`
}

// InvitationStats reports unexpired codes (reclaiming expired ones on the
// way) and the result of the last background sweep.
func (h *Handler) InvitationStats(w http.ResponseWriter, r *http.Request) {
	count, err := h.invitations.OutstandingCount(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, invitationStatsResponse{
		Outstanding: count,
		LastSweep:   h.lastSweep(),
	})
}

// SweepInvitations runs one sweep now instead of waiting for the ticker.
func (h *Handler) SweepInvitations(w http.ResponseWriter, r *http.Request) {
	if err := h.sweeper.RunSweep(r.Context()); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, h.lastSweep())
}

func (h *Handler) lastSweep() sweepStatsResponse {
	stats := h.sweeper.GetLastSweepStats()
	resp := sweepStatsResponse{Deleted: stats.Deleted, DurationMs: stats.DurationMs}
	if !stats.RunAt.IsZero() {
		resp.RunAt = &stats.RunAt
		resp.Cutoff = &stats.Cutoff
	}
	return resp
}
