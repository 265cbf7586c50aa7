package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	MarkLeave(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn handles POST /attendance/check-in
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrInvalidToken)
		return
	}

	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode check-in request", "error", err)
		response.InvalidInput(w, "Invalid request format", map[string]string{"body": "request body must be a JSON object"})
		return
	}
	req.UserID = principal.UserID

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", result)
}

// CheckOut handles POST /attendance/check-out
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrInvalidToken)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), attendance.CheckOutRequest{UserID: principal.UserID})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", result)
}

// Get handles GET /attendance/{id}
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrInvalidToken)
		return
	}

	result, err := h.attendanceService.GetAttendance(r.Context(), attendance.GetAttendanceRequest{
		ID:            chi.URLParam(r, "id"),
		RequesterID:   principal.UserID,
		RequesterRole: string(principal.Role),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MarkLeave handles POST /admin/attendance/leave
func (h *attendanceHandlerImpl) MarkLeave(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode leave request", "error", err)
		response.InvalidInput(w, "Invalid request format", map[string]string{"body": "request body must be a JSON object"})
		return
	}

	result, err := h.attendanceService.MarkLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave recorded", result)
}
