package api

import (
	"net/http"

	"github.com/phrazzld/taskwatch/internal/api/shared"
	"github.com/phrazzld/taskwatch/internal/domain"
)

// HealthHandler handles GET /health
func HealthHandler(tracker TaskTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
			Status:       "ok",
			TrackedTasks: len(tracker.Visible(domain.NoFilter)),
		})
	}
}
