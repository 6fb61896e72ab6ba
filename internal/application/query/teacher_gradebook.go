package query

import (
	"context"

	"github.com/school-diary/diary-backend/internal/application/access"
	"github.com/school-diary/diary-backend/internal/domain/gradebook"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/timetable"
	"github.com/school-diary/diary-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER GRADEBOOK QUERIES
// Marks and home tasks under the acting teacher's lessons, plus the student
// roster used to pick who to grade.
// ══════════════════════════════════════════════════════════════════════════════

// ListTeacherMarksQuery asks for the marks on the acting teacher's schedules.
type ListTeacherMarksQuery struct {
	Identity shared.Identity
}

// ListTeacherHomeTasksQuery asks for the home tasks on the acting teacher's
// schedules.
type ListTeacherHomeTasksQuery struct {
	Identity shared.Identity
}

// GetMarkQuery asks for one mark by ID.
type GetMarkQuery struct {
	Identity shared.Identity
	MarkID   string
}

// GetHomeTaskQuery asks for one home task by ID.
type GetHomeTaskQuery struct {
	Identity   shared.Identity
	HomeTaskID string
}

// ListStudentsQuery asks for the student roster.
type ListStudentsQuery struct {
	Identity shared.Identity
}

// ListTeacherMarksHandler handles the ListTeacherMarksQuery.
type ListTeacherMarksHandler struct {
	markRepo gradebook.MarkRepository
}

// NewListTeacherMarksHandler creates a ListTeacherMarksHandler.
func NewListTeacherMarksHandler(markRepo gradebook.MarkRepository) *ListTeacherMarksHandler {
	return &ListTeacherMarksHandler{markRepo: markRepo}
}

// Handle lists the teacher's marks ordered by schedule date ascending then
// lesson name ascending.
func (h *ListTeacherMarksHandler) Handle(ctx context.Context, q ListTeacherMarksQuery) ([]MarkDetailDTO, error) {
	if err := access.Check(q.Identity, access.EntityMark, access.ActionList); err != nil {
		return nil, err
	}

	details, err := h.markRepo.ListByTeacher(ctx, q.Identity.UserID)
	if err != nil {
		return nil, err
	}

	dtos := make([]MarkDetailDTO, 0, len(details))
	for _, d := range details {
		dtos = append(dtos, NewMarkDetailDTO(d))
	}
	return dtos, nil
}

// GetMarkHandler handles the GetMarkQuery.
type GetMarkHandler struct {
	markRepo         gradebook.MarkRepository
	scheduleRepo     timetable.ScheduleRepository
	enforceOwnership bool
}

// NewGetMarkHandler creates a GetMarkHandler.
func NewGetMarkHandler(markRepo gradebook.MarkRepository, scheduleRepo timetable.ScheduleRepository, enforceOwnership bool) *GetMarkHandler {
	return &GetMarkHandler{markRepo: markRepo, scheduleRepo: scheduleRepo, enforceOwnership: enforceOwnership}
}

// Handle returns one mark with its schedule date and lesson name. With
// ownership enforced, a mark under another teacher's lesson is reported as
// not found.
func (h *GetMarkHandler) Handle(ctx context.Context, q GetMarkQuery) (*MarkDetailDTO, error) {
	if err := access.Check(q.Identity, access.EntityMark, access.ActionRead); err != nil {
		return nil, err
	}

	m, err := h.markRepo.GetByID(ctx, q.MarkID)
	if err != nil {
		return nil, err
	}
	d, err := h.scheduleRepo.GetDetail(ctx, m.ScheduleID)
	if err != nil {
		return nil, err
	}
	if h.enforceOwnership && d.TeacherID != q.Identity.UserID {
		return nil, shared.ErrMarkNotFound
	}

	dto := NewMarkDetailDTO(&gradebook.MarkDetail{
		Mark:       *m,
		Date:       d.Schedule.Date.String(),
		LessonName: d.LessonName,
	})
	return &dto, nil
}

// GetHomeTaskHandler handles the GetHomeTaskQuery.
type GetHomeTaskHandler struct {
	taskRepo         gradebook.HomeTaskRepository
	scheduleRepo     timetable.ScheduleRepository
	enforceOwnership bool
}

// NewGetHomeTaskHandler creates a GetHomeTaskHandler.
func NewGetHomeTaskHandler(taskRepo gradebook.HomeTaskRepository, scheduleRepo timetable.ScheduleRepository, enforceOwnership bool) *GetHomeTaskHandler {
	return &GetHomeTaskHandler{taskRepo: taskRepo, scheduleRepo: scheduleRepo, enforceOwnership: enforceOwnership}
}

// Handle returns one home task with its schedule date and lesson name. With
// ownership enforced, a task under another teacher's lesson is reported as
// not found.
func (h *GetHomeTaskHandler) Handle(ctx context.Context, q GetHomeTaskQuery) (*HomeTaskDetailDTO, error) {
	if err := access.Check(q.Identity, access.EntityHomeTask, access.ActionRead); err != nil {
		return nil, err
	}

	t, err := h.taskRepo.GetByID(ctx, q.HomeTaskID)
	if err != nil {
		return nil, err
	}
	d, err := h.scheduleRepo.GetDetail(ctx, t.ScheduleID)
	if err != nil {
		return nil, err
	}
	if h.enforceOwnership && d.TeacherID != q.Identity.UserID {
		return nil, shared.ErrHomeTaskNotFound
	}

	dto := NewHomeTaskDetailDTO(&gradebook.HomeTaskDetail{
		HomeTask:   *t,
		Date:       d.Schedule.Date.String(),
		LessonName: d.LessonName,
	})
	return &dto, nil
}

// ListTeacherHomeTasksHandler handles the ListTeacherHomeTasksQuery.
type ListTeacherHomeTasksHandler struct {
	taskRepo gradebook.HomeTaskRepository
}

// NewListTeacherHomeTasksHandler creates a ListTeacherHomeTasksHandler.
func NewListTeacherHomeTasksHandler(taskRepo gradebook.HomeTaskRepository) *ListTeacherHomeTasksHandler {
	return &ListTeacherHomeTasksHandler{taskRepo: taskRepo}
}

// Handle lists the teacher's home tasks ordered by schedule date ascending.
func (h *ListTeacherHomeTasksHandler) Handle(ctx context.Context, q ListTeacherHomeTasksQuery) ([]HomeTaskDetailDTO, error) {
	if err := access.Check(q.Identity, access.EntityHomeTask, access.ActionList); err != nil {
		return nil, err
	}

	details, err := h.taskRepo.ListByTeacher(ctx, q.Identity.UserID)
	if err != nil {
		return nil, err
	}

	dtos := make([]HomeTaskDetailDTO, 0, len(details))
	for _, d := range details {
		dtos = append(dtos, NewHomeTaskDetailDTO(d))
	}
	return dtos, nil
}

// ListStudentsHandler handles the ListStudentsQuery.
type ListStudentsHandler struct {
	userRepo user.Repository
}

// NewListStudentsHandler creates a ListStudentsHandler.
func NewListStudentsHandler(userRepo user.Repository) *ListStudentsHandler {
	return &ListStudentsHandler{userRepo: userRepo}
}

// Handle lists every user with the student role, ordered by username.
func (h *ListStudentsHandler) Handle(ctx context.Context, q ListStudentsQuery) ([]UserDTO, error) {
	if err := access.Check(q.Identity, access.EntityStudent, access.ActionList); err != nil {
		return nil, err
	}

	students, err := h.userRepo.ListByRole(ctx, shared.RoleStudent)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, 0, len(students))
	for _, s := range students {
		dtos = append(dtos, NewUserDTO(s))
	}
	return dtos, nil
}
