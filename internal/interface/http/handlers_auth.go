package http

import (
	"context"
	"net/http"
	"time"

	"github.com/school-diary/diary-backend/internal/application/command"
	"github.com/school-diary/diary-backend/internal/application/query"
	"github.com/school-diary/diary-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTH & PROFILE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Address     string `json:"address,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

type updateProfileRequest struct {
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Address     string `json:"address,omitempty"`
}

// parseOptionalDate parses an optional YYYY-MM-DD field into *time.Time.
func parseOptionalDate(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(timeutil.DateLayout, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// handleRegister creates a user with a profile.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Malformed JSON body")
		return
	}

	dob, ok := parseOptionalDate(req.DateOfBirth)
	if !ok {
		writeJSONError(w, http.StatusUnprocessableEntity, "validation_failed", "date_of_birth must be YYYY-MM-DD")
		return
	}

	result, err := s.deps.RegisterUser.Handle(r.Context(), command.RegisterUserCommand{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		DateOfBirth: dob,
		Address:     req.Address,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, query.GetProfileResult{
		User:    query.NewUserDTO(result.User),
		Profile: query.NewProfileDTO(result.Profile),
	})
}

// handleLogin exchanges credentials for an access token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Malformed JSON body")
		return
	}

	result, err := s.deps.Login.Handle(r.Context(), command.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:  result.Token,
		UserID: result.UserID,
		Role:   result.Role.String(),
	})
}

// handleGetProfile returns the caller's account and profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetProfile.Handle(r.Context(), query.GetProfileQuery{
		Identity: identityFrom(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleUpdateProfile edits the caller's own profile details.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Malformed JSON body")
		return
	}

	dob, ok := parseOptionalDate(req.DateOfBirth)
	if !ok {
		writeJSONError(w, http.StatusUnprocessableEntity, "validation_failed", "date_of_birth must be YYYY-MM-DD")
		return
	}

	profile, err := s.deps.UpdateProfile.Handle(r.Context(), command.UpdateProfileCommand{
		Identity:    identityFrom(r.Context()),
		DateOfBirth: dob,
		Address:     req.Address,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, query.NewProfileDTO(profile))
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type healthStatus struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime,omitempty"`
	Checks map[string]string `json:"checks,omitempty"`
}

// handleHealth reports overall service health including dependencies.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(ctx); err != nil {
			checks["database"] = "down"
			healthy = false
		} else {
			checks["database"] = "up"
		}
	}
	if s.deps.Cache != nil {
		if err := s.deps.Cache.Ping(ctx); err != nil {
			// The cache is optional; a down cache degrades, not fails.
			checks["cache"] = "down"
		} else {
			checks["cache"] = "up"
		}
	}

	status := healthStatus{
		Status: "ok",
		Uptime: s.Uptime().Round(time.Second).String(),
		Checks: checks,
	}
	code := http.StatusOK
	if !healthy {
		status.Status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, status)
}

// handleReady reports readiness: the store must be reachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(ctx); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "not_ready", "Database is unreachable")
			return
		}
	}

	writeJSON(w, http.StatusOK, healthStatus{Status: "ready"})
}

// handleLive reports liveness: the process is up.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthStatus{Status: "alive"})
}
