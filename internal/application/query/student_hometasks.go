package query

import (
	"context"

	"github.com/school-diary/diary-backend/internal/application/access"
	"github.com/school-diary/diary-backend/internal/domain/gradebook"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HOME TASKS QUERY
// Home tasks from a target date onward. The date filter defaults to today on
// the school clock when omitted; a malformed date is a validation failure,
// never silently today.
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentHomeTasksQuery asks for home tasks from a date onward.
type ListStudentHomeTasksQuery struct {
	Identity shared.Identity

	// Date is an optional YYYY-MM-DD lower bound; empty means today.
	Date string
}

// ListStudentHomeTasksHandler handles the ListStudentHomeTasksQuery.
type ListStudentHomeTasksHandler struct {
	taskRepo gradebook.HomeTaskRepository
	clock    timeutil.Clock
}

// NewListStudentHomeTasksHandler creates a ListStudentHomeTasksHandler.
func NewListStudentHomeTasksHandler(taskRepo gradebook.HomeTaskRepository, clock timeutil.Clock) *ListStudentHomeTasksHandler {
	return &ListStudentHomeTasksHandler{taskRepo: taskRepo, clock: clock}
}

// Handle lists home tasks whose schedule date is on or after the target date,
// ordered by schedule date ascending. Home tasks are visible to every
// student.
func (h *ListStudentHomeTasksHandler) Handle(ctx context.Context, q ListStudentHomeTasksQuery) ([]HomeTaskDetailDTO, error) {
	if err := access.Check(q.Identity, access.EntityHomeTask, access.ActionList); err != nil {
		return nil, err
	}

	from, err := parseTargetDate(q.Date, h.clock)
	if err != nil {
		return nil, err
	}

	details, err := h.taskRepo.ListFromDate(ctx, from)
	if err != nil {
		return nil, err
	}

	dtos := make([]HomeTaskDetailDTO, 0, len(details))
	for _, d := range details {
		dtos = append(dtos, NewHomeTaskDetailDTO(d))
	}
	return dtos, nil
}
