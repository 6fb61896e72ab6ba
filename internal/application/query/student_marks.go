package query

import (
	"context"

	"github.com/school-diary/diary-backend/internal/application/access"
	"github.com/school-diary/diary-backend/internal/domain/gradebook"
	"github.com/school-diary/diary-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT MARKS QUERY
// A student's own marks, never anyone else's. Ordered by schedule date then
// lesson name so the listing reads like a chronological diary.
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentMarksQuery asks for the acting student's own marks.
type ListStudentMarksQuery struct {
	Identity shared.Identity
}

// ListStudentMarksHandler handles the ListStudentMarksQuery.
type ListStudentMarksHandler struct {
	markRepo gradebook.MarkRepository
}

// NewListStudentMarksHandler creates a ListStudentMarksHandler.
func NewListStudentMarksHandler(markRepo gradebook.MarkRepository) *ListStudentMarksHandler {
	return &ListStudentMarksHandler{markRepo: markRepo}
}

// Handle lists the acting student's marks ordered by schedule date ascending
// then lesson name ascending.
func (h *ListStudentMarksHandler) Handle(ctx context.Context, q ListStudentMarksQuery) ([]MarkDetailDTO, error) {
	if err := access.Check(q.Identity, access.EntityMark, access.ActionList); err != nil {
		return nil, err
	}

	details, err := h.markRepo.ListByStudent(ctx, q.Identity.UserID)
	if err != nil {
		return nil, err
	}

	dtos := make([]MarkDetailDTO, 0, len(details))
	for _, d := range details {
		dtos = append(dtos, NewMarkDetailDTO(d))
	}
	return dtos, nil
}
