package http

import (
	"net/http"

	"github.com/school-diary/diary-backend/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// Read-only views over the student's own diary. The date query parameter is
// optional on the day view and the home task listing; it defaults to today.
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleStudentSchedule(w http.ResponseWriter, r *http.Request) {
	rows, err := s.deps.GetStudentSchedule.Handle(r.Context(), query.GetStudentScheduleQuery{
		Identity: identityFrom(r.Context()),
		Date:     r.URL.Query().Get("date"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleStudentMarks(w http.ResponseWriter, r *http.Request) {
	marks, err := s.deps.ListStudentMarks.Handle(r.Context(), query.ListStudentMarksQuery{
		Identity: identityFrom(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, marks)
}

func (s *Server) handleStudentHomeTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.deps.ListStudentHomeTasks.Handle(r.Context(), query.ListStudentHomeTasksQuery{
		Identity: identityFrom(r.Context()),
		Date:     r.URL.Query().Get("date"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}
