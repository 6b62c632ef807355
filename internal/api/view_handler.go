package api

import (
	"net/http"

	"github.com/phrazzld/taskwatch/internal/api/shared"
	"github.com/phrazzld/taskwatch/internal/domain"
	"github.com/phrazzld/taskwatch/internal/view"
)

// TaskBoard is the presentational state served by the view endpoints.
type TaskBoard interface {
	Visible() []view.Row
	Filter() domain.Filter
	SetFilter(filter domain.Filter)
	FilterAvailable() bool
}

// ViewHandler serves the board
type ViewHandler struct {
	board TaskBoard
}

// NewViewHandler creates a new ViewHandler
func NewViewHandler(board TaskBoard) *ViewHandler {
	return &ViewHandler{board: board}
}

// GetView handles GET /view
func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.snapshot())
}

// SetFilter handles PUT /view/filter. An empty status shows every task.
func (h *ViewHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req StatusFilterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.board.SetFilter(req.Filter())
	shared.RespondWithJSON(w, r, http.StatusOK, h.snapshot())
}

func (h *ViewHandler) snapshot() ViewResponse {
	rows := h.board.Visible()
	if rows == nil {
		rows = []view.Row{}
	}
	return ViewResponse{
		Filter:          string(h.board.Filter()),
		FilterAvailable: h.board.FilterAvailable(),
		Rows:            rows,
	}
}
