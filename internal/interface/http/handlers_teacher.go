package http

import (
	"net/http"

	"github.com/school-diary/diary-backend/internal/application/command"
	"github.com/school-diary/diary-backend/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER HANDLERS
// Lessons, periods, schedules, marks and home tasks managed by teachers.
// Role and ownership rules are resolved by the command and query layers;
// these handlers only parse and respond.
// ══════════════════════════════════════════════════════════════════════════════

type lessonRequest struct {
	Name string `json:"name"`
}

type periodRequest struct {
	Number    int    `json:"number"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type scheduleRequest struct {
	LessonID string `json:"lesson_id"`
	PeriodID string `json:"period_id"`
	Date     string `json:"date"`
}

type markRequest struct {
	ScheduleID string `json:"schedule_id"`
	StudentID  string `json:"student_id"`
	Value      int    `json:"value"`
}

type markUpdateRequest struct {
	Value int `json:"value"`
}

type homeTaskRequest struct {
	ScheduleID  string `json:"schedule_id"`
	Description string `json:"description"`
}

type homeTaskUpdateRequest struct {
	Description string `json:"description"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Lessons
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := s.deps.ListLessons.Handle(r.Context(), query.ListLessonsQuery{
		Identity: identityFrom(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lessons)
}

func (s *Server) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	var req lessonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Malformed JSON body")
		return
	}

	l, err := s.deps.CreateLesson.Handle(r.Context(), command.CreateLessonCommand{
		Identity: identityFrom(r.Context()),
		Name:     req.Name,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, query.NewLessonDTO(l))
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	l, err := s.deps.GetLesson.Handle(r.Context(), query.GetLessonQuery{
		Identity: identityFrom(r.Context()),
		LessonID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	var req lessonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Malformed JSON body")
		return
	}

	l, err := s.deps.UpdateLesson.Handle(r.Context(), command.UpdateLessonCommand{
		Identity: identityFrom(r.Context()),
		LessonID: r.PathValue("id"),
		Name:     req.Name,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, query.NewLessonDTO(l))
}

func (s *Server) handleDeleteLesson(w http.ResponseWriter, r *http.Request) {
	err := s.deps.DeleteLesson.Handle(r.Context(), command.DeleteLessonCommand{
		Identity: identityFrom(r.Context()),
		LessonID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────────────────────────────────────
// Periods
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.deps.ListPeriods.Handle(r.Context(), query.ListPeriodsQuery{
		Identity: identityFrom(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

func (s *Server) handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req periodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Malformed JSON body")
		return
	}

	p, err := s.deps.CreatePeriod.Handle(r.Context(), command.CreatePeriodCommand{
		Identity:  identityFrom(r.Context()),
		Number:    req.Number,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, query.NewPeriodDTO(p))
}

// ─────────────────────────────────────────────────────────────────────────────
// Students roster
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.deps.ListStudents.Handle(r.Context(), query.ListStudentsQuery{
		Identity: identityFrom(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// ─────────────────────────────────────────────────────────────────────────────
// Schedules
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.deps.ListSchedules.Handle(r.Context(), query.ListSchedulesQuery{
		Identity: identityFrom(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedules)
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Malformed JSON body")
		return
	}

	sched, err := s.deps.CreateSchedule.Handle(r.Context(), command.CreateScheduleCommand{
		Identity: identityFrom(r.Context()),
		LessonID: req.LessonID,
		PeriodID: req.PeriodID,
		Date:     req.Date,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sched)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := s.deps.GetSchedule.Handle(r.Context(), query.GetScheduleQuery{
		Identity:   identityFrom(r.Context()),
		ScheduleID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Malformed JSON body")
		return
	}

	sched, err := s.deps.UpdateSchedule.Handle(r.Context(), command.UpdateScheduleCommand{
		Identity:   identityFrom(r.Context()),
		ScheduleID: r.PathValue("id"),
		LessonID:   req.LessonID,
		PeriodID:   req.PeriodID,
		Date:       req.Date,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	err := s.deps.DeleteSchedule.Handle(r.Context(), command.DeleteScheduleCommand{
		Identity:   identityFrom(r.Context()),
		ScheduleID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────────────────────────────────────
// Marks
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleListTeacherMarks(w http.ResponseWriter, r *http.Request) {
	marks, err := s.deps.ListTeacherMarks.Handle(r.Context(), query.ListTeacherMarksQuery{
		Identity: identityFrom(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, marks)
}

func (s *Server) handleCreateMark(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Malformed JSON body")
		return
	}

	m, err := s.deps.CreateMark.Handle(r.Context(), command.CreateMarkCommand{
		Identity:   identityFrom(r.Context()),
		ScheduleID: req.ScheduleID,
		StudentID:  req.StudentID,
		Value:      req.Value,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, query.NewMarkDTO(m))
}

func (s *Server) handleGetMark(w http.ResponseWriter, r *http.Request) {
	m, err := s.deps.GetMark.Handle(r.Context(), query.GetMarkQuery{
		Identity: identityFrom(r.Context()),
		MarkID:   r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleUpdateMark(w http.ResponseWriter, r *http.Request) {
	var req markUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Malformed JSON body")
		return
	}

	m, err := s.deps.UpdateMark.Handle(r.Context(), command.UpdateMarkCommand{
		Identity: identityFrom(r.Context()),
		MarkID:   r.PathValue("id"),
		Value:    req.Value,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, query.NewMarkDTO(m))
}

func (s *Server) handleDeleteMark(w http.ResponseWriter, r *http.Request) {
	err := s.deps.DeleteMark.Handle(r.Context(), command.DeleteMarkCommand{
		Identity: identityFrom(r.Context()),
		MarkID:   r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────────────────────────────────────
// Home tasks
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleListTeacherHomeTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.deps.ListTeacherHomeTasks.Handle(r.Context(), query.ListTeacherHomeTasksQuery{
		Identity: identityFrom(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateHomeTask(w http.ResponseWriter, r *http.Request) {
	var req homeTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Malformed JSON body")
		return
	}

	t, err := s.deps.CreateHomeTask.Handle(r.Context(), command.CreateHomeTaskCommand{
		Identity:    identityFrom(r.Context()),
		ScheduleID:  req.ScheduleID,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, query.NewHomeTaskDTO(t))
}

func (s *Server) handleGetHomeTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.deps.GetHomeTask.Handle(r.Context(), query.GetHomeTaskQuery{
		Identity:   identityFrom(r.Context()),
		HomeTaskID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateHomeTask(w http.ResponseWriter, r *http.Request) {
	var req homeTaskUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Malformed JSON body")
		return
	}

	t, err := s.deps.UpdateHomeTask.Handle(r.Context(), command.UpdateHomeTaskCommand{
		Identity:    identityFrom(r.Context()),
		HomeTaskID:  r.PathValue("id"),
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, query.NewHomeTaskDTO(t))
}

func (s *Server) handleDeleteHomeTask(w http.ResponseWriter, r *http.Request) {
	err := s.deps.DeleteHomeTask.Handle(r.Context(), command.DeleteHomeTaskCommand{
		Identity:   identityFrom(r.Context()),
		HomeTaskID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
