package view

import (
	"fmt"
	"sync"

	"github.com/phrazzld/taskwatch/internal/domain"
	"github.com/phrazzld/taskwatch/internal/events"
)

// Row is the rendered state of one task. Cancellable is false once the
// task reached a terminal status. PollError is set while status checks for
// the task are failing.
type Row struct {
	TaskID      string            `json:"task_id"`
	Status      domain.TaskStatus `json:"status"`
	Info        string            `json:"info"`
	Result      string            `json:"result,omitempty"`
	PollError   string            `json:"poll_error,omitempty"`
	Cancellable bool              `json:"cancellable"`
}

// Board keeps one row per task in creation order plus the current status
// filter.
type Board struct {
	mu     sync.RWMutex
	rows   []*Row
	index  map[string]*Row
	filter domain.Filter
}

// NewBoard creates an empty Board showing every task.
func NewBoard() *Board {
	return &Board{
		index:  make(map[string]*Row),
		filter: domain.NoFilter,
	}
}

// OnTaskCreated adds a PENDING row.
func (b *Board) OnTaskCreated(taskID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.index[taskID]; exists {
		return
	}
	row := &Row{TaskID: taskID, Cancellable: true}
	setStatus(row, domain.TaskStatusPending)
	b.rows = append(b.rows, row)
	b.index[taskID] = row
}

// OnStatusChanged updates a row's status line.
func (b *Board) OnStatusChanged(taskID string, status domain.TaskStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if row, ok := b.index[taskID]; ok {
		setStatus(row, status)
	}
}

// OnOutcomeReady shows the result, or the error when there is no result.
func (b *Board) OnOutcomeReady(taskID string, outcome domain.Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if row, ok := b.index[taskID]; ok {
		row.Result = outcome.Text()
	}
}

// OnPollFailed marks the row's status as possibly stale.
func (b *Board) OnPollFailed(taskID string, reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if row, ok := b.index[taskID]; ok {
		row.PollError = reason
		renderInfo(row)
	}
}

// OnPollRecovered clears the failure mark.
func (b *Board) OnPollRecovered(taskID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if row, ok := b.index[taskID]; ok {
		row.PollError = ""
		renderInfo(row)
	}
}

// OnTaskRemoved drops the row.
func (b *Board) OnTaskRemoved(taskID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.index[taskID]; !ok {
		return
	}
	delete(b.index, taskID)
	for i, row := range b.rows {
		if row.TaskID == taskID {
			b.rows = append(b.rows[:i], b.rows[i+1:]...)
			break
		}
	}
}

// SetFilter changes which rows Visible returns.
func (b *Board) SetFilter(filter domain.Filter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter = filter
}

// Filter returns the current filter.
func (b *Board) Filter() domain.Filter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filter
}

// FilterAvailable reports whether the filter control should be shown,
// which is whenever at least one task is on the board.
func (b *Board) FilterAvailable() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rows) > 0
}

// Rows returns copies of all rows in creation order.
func (b *Board) Rows() []Row {
	return b.collect(domain.NoFilter)
}

// Visible returns copies of the rows matching the current filter.
func (b *Board) Visible() []Row {
	return b.collect(b.Filter())
}

func (b *Board) collect(filter domain.Filter) []Row {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rows := make([]Row, 0, len(b.rows))
	for _, row := range b.rows {
		if filter.Matches(row.Status) {
			rows = append(rows, *row)
		}
	}
	return rows
}

func setStatus(row *Row, status domain.TaskStatus) {
	row.Status = status
	row.Cancellable = !status.IsTerminal()
	renderInfo(row)
}

func renderInfo(row *Row) {
	row.Info = fmt.Sprintf("Task %s: %s", row.TaskID, row.Status)
	if row.PollError != "" {
		row.Info += " (status check failed)"
	}
}

var _ events.View = (*Board)(nil)
