package httpapi

import (
	"encoding/json"
	"errors"
	"expvar"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/EneyderGarcia/turnerov2/internal/models"
	"github.com/EneyderGarcia/turnerov2/internal/store"

	"github.com/google/uuid"
)

type Handler struct {
	desks store.DeskStore
	users store.UserStore
}

type Options struct{}

func NewHandler(desks store.DeskStore, users store.UserStore, options Options) *Handler {
	return &Handler{
		desks: desks,
		users: users,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.Handle("/metrics", expvar.Handler())
	mux.HandleFunc("/api/login", h.handleLogin)
	mux.HandleFunc("/api/board", h.handleBoard)
	mux.HandleFunc("/api/board/latest", h.handleBoardLatest)
	mux.HandleFunc("/api/desks", h.handleDesks)
	mux.HandleFunc("/api/desks/deleted", h.handleDeletedDesks)
	mux.HandleFunc("/api/desks/", h.handleDeskActions)
	mux.HandleFunc("/api/tickets/next", h.handleNextTicket)
	mux.HandleFunc("/api/users", h.handleUsers)
	mux.HandleFunc("/api/users/", h.handleUserActions)
	mux.HandleFunc("/api/system/reset", h.handleSystemReset)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User    models.User    `json:"user"`
	Session models.Session `json:"session"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	result, err := h.users.Login(r.Context(), store.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{User: result.User, Session: result.Session})
}

type boardResponse struct {
	Desks        []models.Desk   `json:"desks"`
	NextTicket   int64           `json:"next_ticket"`
	LastAdvanced *models.Ticket  `json:"last_advanced,omitempty"`
	Recent       []models.Ticket `json:"recent_tickets"`
	TotalTickets int64           `json:"total_tickets"`
	Timestamp    time.Time       `json:"timestamp"`
}

func (h *Handler) handleBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	desks, err := h.desks.ListActiveDesks(r.Context())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	next, err := h.desks.NextTicketNumber(r.Context())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	recent, err := h.desks.ListRecentTickets(r.Context(), 10)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	total, err := h.desks.CountTickets(r.Context())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	resp := boardResponse{
		Desks:        desks,
		NextTicket:   next,
		Recent:       recent,
		TotalTickets: total,
		Timestamp:    time.Now().UTC(),
	}
	if last, ok := h.desks.LastAdvanced(); ok {
		resp.LastAdvanced = &last
	}
	writeJSON(w, http.StatusOK, resp)
}

type latestTicketResponse struct {
	Ticket  *models.Ticket `json:"ticket,omitempty"`
	Message string         `json:"message"`
}

func (h *Handler) handleBoardLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ticket, found, err := h.desks.LatestTicket(r.Context())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, latestTicketResponse{Message: "waiting for first ticket"})
		return
	}
	writeJSON(w, http.StatusOK, latestTicketResponse{
		Ticket:  &ticket,
		Message: "ticket " + strconv.FormatInt(ticket.TicketNumber, 10) + " at desk " + strconv.Itoa(ticket.DeskNumber),
	})
}

type createDeskResponse struct {
	Desk     models.Desk `json:"desk"`
	Recycled bool        `json:"recycled"`
}

func (h *Handler) handleDesks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		desks, err := h.desks.ListDesks(r.Context())
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, requestIDFromRequest(r), status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, desks)
	case http.MethodPost:
		desk, recycled, err := h.desks.CreateDesk(r.Context())
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, requestIDFromRequest(r), status, code, msg)
			return
		}
		writeJSON(w, http.StatusCreated, createDeskResponse{Desk: desk, Recycled: recycled})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleDeletedDesks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	desks, err := h.desks.ListDeletedDesks(r.Context())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, desks)
}

func (h *Handler) handleDeskActions(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/desks/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	deskID := parts[0]
	if !isValidUUID(deskID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "desk id must be a UUID")
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.handleGetDesk(w, r, deskID)
		case http.MethodDelete:
			h.handleDeleteDesk(w, r, deskID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if len(parts) != 2 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch parts[1] {
	case "toggle":
		h.handleToggleDesk(w, r, deskID)
	case "recover":
		h.handleRecoverDesk(w, r, deskID)
	case "reset":
		h.handleResetDesk(w, r, deskID)
	case "assign":
		h.handleAssignStaff(w, r, deskID)
	case "claim":
		h.handleClaimTicket(w, r, deskID)
	case "history":
		h.handleDeskHistory(w, r, deskID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleGetDesk(w http.ResponseWriter, r *http.Request, deskID string) {
	desk, err := h.desks.GetDesk(r.Context(), deskID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, desk)
}

func (h *Handler) handleDeleteDesk(w http.ResponseWriter, r *http.Request, deskID string) {
	desk, err := h.desks.SoftDeleteDesk(r.Context(), deskID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, desk)
}

func (h *Handler) handleToggleDesk(w http.ResponseWriter, r *http.Request, deskID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	desk, err := h.desks.ToggleDeskActive(r.Context(), deskID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, desk)
}

func (h *Handler) handleRecoverDesk(w http.ResponseWriter, r *http.Request, deskID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	desk, err := h.desks.RecoverDesk(r.Context(), deskID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, desk)
}

func (h *Handler) handleResetDesk(w http.ResponseWriter, r *http.Request, deskID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	desk, err := h.desks.ResetDeskTicket(r.Context(), deskID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, desk)
}

type assignRequest struct {
	StaffID string `json:"staff_id"`
}

func (h *Handler) handleAssignStaff(w http.ResponseWriter, r *http.Request, deskID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req assignRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.StaffID = strings.TrimSpace(req.StaffID)
	if req.StaffID != "" && !isValidUUID(req.StaffID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "staff_id must be a UUID when provided")
		return
	}

	desk, err := h.desks.AssignStaff(r.Context(), deskID, req.StaffID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, desk)
}

type claimRequest struct {
	RequestID string `json:"request_id"`
}

func (h *Handler) handleClaimTicket(w http.ResponseWriter, r *http.Request, deskID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req claimRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.RequestID = strings.TrimSpace(req.RequestID)
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	} else if !isValidUUID(req.RequestID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "request_id must be a UUID when provided")
		return
	}

	ticket, _, err := h.desks.ClaimTicket(r.Context(), store.ClaimTicketInput{
		RequestID: req.RequestID,
		DeskID:    deskID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (h *Handler) handleDeskHistory(w http.ResponseWriter, r *http.Request, deskID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 || value > 500 {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "limit must be between 1 and 500")
			return
		}
		limit = value
	}

	entries, err := h.desks.ListDeskHistory(r.Context(), deskID, limit)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleNextTicket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	next, err := h.desks.NextTicketNumber(r.Context())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"next_ticket": next})
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		users, err := h.users.ListUsers(r.Context())
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, requestIDFromRequest(r), status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, users)
	case http.MethodPost:
		var req createUserRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
		req.Role = strings.TrimSpace(req.Role)
		if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "name, email, password, and role are required")
			return
		}
		if req.Role != models.RoleAdmin && req.Role != models.RoleStaff {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "role must be admin or staff")
			return
		}

		user, err := h.users.CreateUser(r.Context(), store.CreateUserInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
		})
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, requestIDFromRequest(r), status, code, msg)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type updateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Active   *bool  `json:"active"`
}

func (h *Handler) handleUserActions(w http.ResponseWriter, r *http.Request) {
	userID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/users/"), "/")
	if userID == "" || strings.Contains(userID, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if !isValidUUID(userID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "user id must be a UUID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := h.users.GetUser(r.Context(), userID)
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, requestIDFromRequest(r), status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case http.MethodPost:
		var req updateUserRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		if req.Role != "" && req.Role != models.RoleAdmin && req.Role != models.RoleStaff {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "role must be admin or staff")
			return
		}

		user, err := h.users.UpdateUser(r.Context(), store.UpdateUserInput{
			UserID:   userID,
			Name:     strings.TrimSpace(req.Name),
			Email:    strings.TrimSpace(req.Email),
			Password: req.Password,
			Role:     req.Role,
			Active:   req.Active,
		})
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, requestIDFromRequest(r), status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case http.MethodDelete:
		if session, ok := sessionFromContext(r.Context()); ok && session.UserID == userID {
			writeError(w, requestIDFromRequest(r), http.StatusConflict, "invalid_request", "cannot delete your own account")
			return
		}
		if err := h.users.DeactivateUser(r.Context(), userID); err != nil {
			status, code, msg := mapError(err)
			writeError(w, requestIDFromRequest(r), status, code, msg)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleSystemReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := h.desks.ResetSystem(r.Context()); err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "system reset"})
}

type errorResponse struct {
	RequestID string        `json:"request_id"`
	Error     responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func mapError(err error) (int, string, string) {
	var assigned *store.StaffAssignedError
	switch {
	case errors.As(err, &assigned):
		return http.StatusConflict, "staff_assigned", assigned.Error()
	case errors.Is(err, store.ErrDeskNotFound):
		return http.StatusNotFound, "desk_not_found", "desk not found"
	case errors.Is(err, store.ErrDeskDeleted):
		return http.StatusConflict, "desk_deleted", "desk is deleted"
	case errors.Is(err, store.ErrDeskInactive):
		return http.StatusConflict, "desk_inactive", "desk is not open for service"
	case errors.Is(err, store.ErrDeskNotDeleted):
		return http.StatusConflict, "desk_not_deleted", "desk is not deleted"
	case errors.Is(err, store.ErrDuplicateDeskNumber):
		return http.StatusConflict, "duplicate_desk_number", "desk number already in use"
	case errors.Is(err, store.ErrDeskNumbersExhausted):
		return http.StatusConflict, "desk_numbers_exhausted", "no desk numbers available"
	case errors.Is(err, store.ErrTicketNotFound):
		return http.StatusNotFound, "ticket_not_found", "ticket not found"
	case errors.Is(err, store.ErrNotStaffRole):
		return http.StatusConflict, "not_staff_role", "user does not have the staff role"
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found", "user not found"
	case errors.Is(err, store.ErrEmailTaken):
		return http.StatusConflict, "email_taken", "email already in use"
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid email or password"
	case errors.Is(err, store.ErrSessionNotFound):
		return http.StatusUnauthorized, "unauthorized", "invalid session"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func writeError(w http.ResponseWriter, requestID string, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		RequestID: requestID,
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
