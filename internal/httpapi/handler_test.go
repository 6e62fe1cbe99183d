package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/EneyderGarcia/turnerov2/internal/models"
	"github.com/EneyderGarcia/turnerov2/internal/store"

	"github.com/google/uuid"
)

type fakeDeskStore struct {
	createDeskFn   func(ctx context.Context) (models.Desk, bool, error)
	getDeskFn      func(ctx context.Context, deskID string) (models.Desk, error)
	toggleFn       func(ctx context.Context, deskID string) (models.Desk, error)
	softDeleteFn   func(ctx context.Context, deskID string) (models.Desk, error)
	recoverFn      func(ctx context.Context, deskID string) (models.Desk, error)
	listActiveFn   func(ctx context.Context) ([]models.Desk, error)
	listDesksFn    func(ctx context.Context) ([]models.Desk, error)
	listDeletedFn  func(ctx context.Context) ([]models.Desk, error)
	resetDeskFn    func(ctx context.Context, deskID string) (models.Desk, error)
	claimFn        func(ctx context.Context, input store.ClaimTicketInput) (models.Ticket, bool, error)
	nextNumberFn   func(ctx context.Context) (int64, error)
	latestFn       func(ctx context.Context) (models.Ticket, bool, error)
	lastAdvancedFn func() (models.Ticket, bool)
	listRecentFn   func(ctx context.Context, limit int) ([]models.Ticket, error)
	countFn        func(ctx context.Context) (int64, error)
	assignFn       func(ctx context.Context, deskID, staffID string) (models.Desk, error)
	unassignFn     func(ctx context.Context, deskID string) (models.Desk, error)
	isAssignedFn   func(ctx context.Context, staffID string) (bool, error)
	historyFn      func(ctx context.Context, deskID string, limit int) ([]models.HistoryEntry, error)
	resetSystemFn  func(ctx context.Context) error
	outboxFn       func(ctx context.Context, after time.Time, limit int) ([]store.OutboxEvent, error)
}

func (f fakeDeskStore) CreateDesk(ctx context.Context) (models.Desk, bool, error) {
	if f.createDeskFn == nil {
		return models.Desk{}, false, nil
	}
	return f.createDeskFn(ctx)
}

func (f fakeDeskStore) GetDesk(ctx context.Context, deskID string) (models.Desk, error) {
	if f.getDeskFn == nil {
		return models.Desk{}, nil
	}
	return f.getDeskFn(ctx, deskID)
}

func (f fakeDeskStore) ToggleDeskActive(ctx context.Context, deskID string) (models.Desk, error) {
	if f.toggleFn == nil {
		return models.Desk{}, nil
	}
	return f.toggleFn(ctx, deskID)
}

func (f fakeDeskStore) SoftDeleteDesk(ctx context.Context, deskID string) (models.Desk, error) {
	if f.softDeleteFn == nil {
		return models.Desk{}, nil
	}
	return f.softDeleteFn(ctx, deskID)
}

func (f fakeDeskStore) RecoverDesk(ctx context.Context, deskID string) (models.Desk, error) {
	if f.recoverFn == nil {
		return models.Desk{}, nil
	}
	return f.recoverFn(ctx, deskID)
}

func (f fakeDeskStore) ListActiveDesks(ctx context.Context) ([]models.Desk, error) {
	if f.listActiveFn == nil {
		return nil, nil
	}
	return f.listActiveFn(ctx)
}

func (f fakeDeskStore) ListDesks(ctx context.Context) ([]models.Desk, error) {
	if f.listDesksFn == nil {
		return nil, nil
	}
	return f.listDesksFn(ctx)
}

func (f fakeDeskStore) ListDeletedDesks(ctx context.Context) ([]models.Desk, error) {
	if f.listDeletedFn == nil {
		return nil, nil
	}
	return f.listDeletedFn(ctx)
}

func (f fakeDeskStore) ResetDeskTicket(ctx context.Context, deskID string) (models.Desk, error) {
	if f.resetDeskFn == nil {
		return models.Desk{}, nil
	}
	return f.resetDeskFn(ctx, deskID)
}

func (f fakeDeskStore) ClaimTicket(ctx context.Context, input store.ClaimTicketInput) (models.Ticket, bool, error) {
	if f.claimFn == nil {
		return models.Ticket{}, false, nil
	}
	return f.claimFn(ctx, input)
}

func (f fakeDeskStore) NextTicketNumber(ctx context.Context) (int64, error) {
	if f.nextNumberFn == nil {
		return 1, nil
	}
	return f.nextNumberFn(ctx)
}

func (f fakeDeskStore) LatestTicket(ctx context.Context) (models.Ticket, bool, error) {
	if f.latestFn == nil {
		return models.Ticket{}, false, nil
	}
	return f.latestFn(ctx)
}

func (f fakeDeskStore) LastAdvanced() (models.Ticket, bool) {
	if f.lastAdvancedFn == nil {
		return models.Ticket{}, false
	}
	return f.lastAdvancedFn()
}

func (f fakeDeskStore) ListRecentTickets(ctx context.Context, limit int) ([]models.Ticket, error) {
	if f.listRecentFn == nil {
		return nil, nil
	}
	return f.listRecentFn(ctx, limit)
}

func (f fakeDeskStore) CountTickets(ctx context.Context) (int64, error) {
	if f.countFn == nil {
		return 0, nil
	}
	return f.countFn(ctx)
}

func (f fakeDeskStore) AssignStaff(ctx context.Context, deskID, staffID string) (models.Desk, error) {
	if f.assignFn == nil {
		return models.Desk{}, nil
	}
	return f.assignFn(ctx, deskID, staffID)
}

func (f fakeDeskStore) UnassignStaff(ctx context.Context, deskID string) (models.Desk, error) {
	if f.unassignFn == nil {
		return models.Desk{}, nil
	}
	return f.unassignFn(ctx, deskID)
}

func (f fakeDeskStore) IsStaffAssigned(ctx context.Context, staffID string) (bool, error) {
	if f.isAssignedFn == nil {
		return false, nil
	}
	return f.isAssignedFn(ctx, staffID)
}

func (f fakeDeskStore) ListDeskHistory(ctx context.Context, deskID string, limit int) ([]models.HistoryEntry, error) {
	if f.historyFn == nil {
		return nil, nil
	}
	return f.historyFn(ctx, deskID, limit)
}

func (f fakeDeskStore) ResetSystem(ctx context.Context) error {
	if f.resetSystemFn == nil {
		return nil
	}
	return f.resetSystemFn(ctx)
}

func (f fakeDeskStore) ListOutboxEvents(ctx context.Context, after time.Time, limit int) ([]store.OutboxEvent, error) {
	if f.outboxFn == nil {
		return nil, nil
	}
	return f.outboxFn(ctx, after, limit)
}

type fakeUserStore struct {
	createUserFn func(ctx context.Context, input store.CreateUserInput) (models.User, error)
	updateUserFn func(ctx context.Context, input store.UpdateUserInput) (models.User, error)
	deactivateFn func(ctx context.Context, userID string) error
	getUserFn    func(ctx context.Context, userID string) (models.User, error)
	listUsersFn  func(ctx context.Context) ([]models.User, error)
	loginFn      func(ctx context.Context, input store.LoginInput) (store.LoginResult, error)
	getSessionFn func(ctx context.Context, sessionID string) (models.Session, error)
}

func (f fakeUserStore) CreateUser(ctx context.Context, input store.CreateUserInput) (models.User, error) {
	if f.createUserFn == nil {
		return models.User{}, nil
	}
	return f.createUserFn(ctx, input)
}

func (f fakeUserStore) UpdateUser(ctx context.Context, input store.UpdateUserInput) (models.User, error) {
	if f.updateUserFn == nil {
		return models.User{}, nil
	}
	return f.updateUserFn(ctx, input)
}

func (f fakeUserStore) DeactivateUser(ctx context.Context, userID string) error {
	if f.deactivateFn == nil {
		return nil
	}
	return f.deactivateFn(ctx, userID)
}

func (f fakeUserStore) GetUser(ctx context.Context, userID string) (models.User, error) {
	if f.getUserFn == nil {
		return models.User{}, nil
	}
	return f.getUserFn(ctx, userID)
}

func (f fakeUserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	if f.listUsersFn == nil {
		return nil, nil
	}
	return f.listUsersFn(ctx)
}

func (f fakeUserStore) Login(ctx context.Context, input store.LoginInput) (store.LoginResult, error) {
	if f.loginFn == nil {
		return store.LoginResult{}, nil
	}
	return f.loginFn(ctx, input)
}

func (f fakeUserStore) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	if f.getSessionFn == nil {
		return models.Session{}, store.ErrSessionNotFound
	}
	return f.getSessionFn(ctx, sessionID)
}

const testDeskID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"

func TestCreateDeskSuccess(t *testing.T) {
	st := fakeDeskStore{
		createDeskFn: func(ctx context.Context) (models.Desk, bool, error) {
			return models.Desk{DeskID: testDeskID, Number: 1, Active: true}, false, nil
		},
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/desks", nil)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var result createDeskResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Desk.Number != 1 || result.Recycled {
		t.Fatalf("unexpected response: %+v", result)
	}
}

func TestCreateDeskRecyclesSlot(t *testing.T) {
	st := fakeDeskStore{
		createDeskFn: func(ctx context.Context) (models.Desk, bool, error) {
			return models.Desk{DeskID: testDeskID, Number: 2, Active: true}, true, nil
		},
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/desks", nil)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var result createDeskResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Recycled {
		t.Fatalf("expected recycled desk, got %+v", result)
	}
}

func TestCreateDeskNumbersExhausted(t *testing.T) {
	st := fakeDeskStore{
		createDeskFn: func(ctx context.Context) (models.Desk, bool, error) {
			return models.Desk{}, false, store.ErrDeskNumbersExhausted
		},
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/desks", nil)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
	var result errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Error.Code != "desk_numbers_exhausted" {
		t.Fatalf("unexpected error code %q", result.Error.Code)
	}
}

func TestClaimTicketSuccess(t *testing.T) {
	requestID := "11111111-1111-1111-1111-111111111111"
	st := fakeDeskStore{
		claimFn: func(ctx context.Context, input store.ClaimTicketInput) (models.Ticket, bool, error) {
			if input.DeskID != testDeskID {
				t.Fatalf("unexpected desk id %q", input.DeskID)
			}
			if input.RequestID != requestID {
				t.Fatalf("unexpected request id %q", input.RequestID)
			}
			return models.Ticket{TicketID: "ticket-1", TicketNumber: 7, Status: models.StatusServing, DeskNumber: 3}, true, nil
		},
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	body, _ := json.Marshal(map[string]string{"request_id": requestID})
	req := httptest.NewRequest(http.MethodPost, "/api/desks/"+testDeskID+"/claim", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var ticket models.Ticket
	if err := json.NewDecoder(resp.Body).Decode(&ticket); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if ticket.TicketNumber != 7 || ticket.Status != models.StatusServing {
		t.Fatalf("unexpected ticket: %+v", ticket)
	}
}

func TestClaimTicketGeneratesRequestID(t *testing.T) {
	var captured string
	st := fakeDeskStore{
		claimFn: func(ctx context.Context, input store.ClaimTicketInput) (models.Ticket, bool, error) {
			captured = input.RequestID
			return models.Ticket{TicketNumber: 1}, true, nil
		},
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/desks/"+testDeskID+"/claim", strings.NewReader("{}"))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if _, err := uuid.Parse(captured); err != nil {
		t.Fatalf("expected generated UUID request id, got %q", captured)
	}
}

func TestClaimTicketDeskInactive(t *testing.T) {
	st := fakeDeskStore{
		claimFn: func(ctx context.Context, input store.ClaimTicketInput) (models.Ticket, bool, error) {
			return models.Ticket{}, false, store.ErrDeskInactive
		},
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/desks/"+testDeskID+"/claim", strings.NewReader("{}"))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestClaimTicketInvalidDeskID(t *testing.T) {
	h := NewHandler(fakeDeskStore{}, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/desks/not-a-uuid/claim", strings.NewReader("{}"))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestAssignStaffConflict(t *testing.T) {
	st := fakeDeskStore{
		assignFn: func(ctx context.Context, deskID, staffID string) (models.Desk, error) {
			return models.Desk{}, &store.StaffAssignedError{DeskNumber: 3}
		},
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	body, _ := json.Marshal(map[string]string{"staff_id": "22222222-2222-2222-2222-222222222222"})
	req := httptest.NewRequest(http.MethodPost, "/api/desks/"+testDeskID+"/assign", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
	var result errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Error.Code != "staff_assigned" {
		t.Fatalf("unexpected error code %q", result.Error.Code)
	}
	if !strings.Contains(result.Error.Message, "desk 3") {
		t.Fatalf("expected desk number in message, got %q", result.Error.Message)
	}
}

func TestAssignStaffEmptyUnassigns(t *testing.T) {
	var captured string
	st := fakeDeskStore{
		assignFn: func(ctx context.Context, deskID, staffID string) (models.Desk, error) {
			captured = staffID
			return models.Desk{DeskID: deskID, Number: 1}, nil
		},
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/desks/"+testDeskID+"/assign", strings.NewReader(`{"staff_id":""}`))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if captured != "" {
		t.Fatalf("expected empty staff id, got %q", captured)
	}
}

func TestAssignStaffNotStaffRole(t *testing.T) {
	st := fakeDeskStore{
		assignFn: func(ctx context.Context, deskID, staffID string) (models.Desk, error) {
			return models.Desk{}, store.ErrNotStaffRole
		},
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	body, _ := json.Marshal(map[string]string{"staff_id": "22222222-2222-2222-2222-222222222222"})
	req := httptest.NewRequest(http.MethodPost, "/api/desks/"+testDeskID+"/assign", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestDeleteDeskNotFound(t *testing.T) {
	st := fakeDeskStore{
		softDeleteFn: func(ctx context.Context, deskID string) (models.Desk, error) {
			return models.Desk{}, store.ErrDeskNotFound
		},
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodDelete, "/api/desks/"+testDeskID, nil)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestRecoverDeskNotDeleted(t *testing.T) {
	st := fakeDeskStore{
		recoverFn: func(ctx context.Context, deskID string) (models.Desk, error) {
			return models.Desk{}, store.ErrDeskNotDeleted
		},
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/desks/"+testDeskID+"/recover", nil)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestBoardLatestWaiting(t *testing.T) {
	h := NewHandler(fakeDeskStore{}, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/board/latest", nil)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var result latestTicketResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Ticket != nil || result.Message != "waiting for first ticket" {
		t.Fatalf("unexpected response: %+v", result)
	}
}

func TestBoardIncludesLastAdvanced(t *testing.T) {
	st := fakeDeskStore{
		listActiveFn: func(ctx context.Context) ([]models.Desk, error) {
			return []models.Desk{{DeskID: testDeskID, Number: 1, Active: true, CurrentTicket: 5}}, nil
		},
		nextNumberFn: func(ctx context.Context) (int64, error) { return 6, nil },
		lastAdvancedFn: func() (models.Ticket, bool) {
			return models.Ticket{TicketNumber: 5, DeskNumber: 1}, true
		},
		countFn: func(ctx context.Context) (int64, error) { return 5, nil },
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/board", nil)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var result boardResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.NextTicket != 6 || result.TotalTickets != 5 {
		t.Fatalf("unexpected board: %+v", result)
	}
	if result.LastAdvanced == nil || result.LastAdvanced.TicketNumber != 5 {
		t.Fatalf("expected last advanced ticket, got %+v", result.LastAdvanced)
	}
}

func TestDeskHistoryLimitValidation(t *testing.T) {
	h := NewHandler(fakeDeskStore{}, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/desks/"+testDeskID+"/history?limit=0", nil)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestDeskHistoryDefaultLimit(t *testing.T) {
	var captured int
	st := fakeDeskStore{
		historyFn: func(ctx context.Context, deskID string, limit int) ([]models.HistoryEntry, error) {
			captured = limit
			return []models.HistoryEntry{{DeskID: deskID, TicketNumber: 4, Action: models.ActionAdvance}}, nil
		},
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/desks/"+testDeskID+"/history", nil)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if captured != 20 {
		t.Fatalf("expected default limit 20, got %d", captured)
	}
}

func TestSystemReset(t *testing.T) {
	called := false
	st := fakeDeskStore{
		resetSystemFn: func(ctx context.Context) error {
			called = true
			return nil
		},
	}
	h := NewHandler(st, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/system/reset", nil)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !called {
		t.Fatal("expected reset to be called")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	us := fakeUserStore{
		loginFn: func(ctx context.Context, input store.LoginInput) (store.LoginResult, error) {
			return store.LoginResult{}, store.ErrInvalidCredentials
		},
	}
	h := NewHandler(fakeDeskStore{}, us, Options{})

	body, _ := json.Marshal(map[string]string{"email": "staff@example.com", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestLoginMissingFields(t *testing.T) {
	h := NewHandler(fakeDeskStore{}, fakeUserStore{}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"a@b.c"}`))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestCreateUserInvalidRole(t *testing.T) {
	h := NewHandler(fakeDeskStore{}, fakeUserStore{}, Options{})

	body, _ := json.Marshal(map[string]string{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "secret",
		"role":     "superuser",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestCreateUserEmailTaken(t *testing.T) {
	us := fakeUserStore{
		createUserFn: func(ctx context.Context, input store.CreateUserInput) (models.User, error) {
			return models.User{}, store.ErrEmailTaken
		},
	}
	h := NewHandler(fakeDeskStore{}, us, Options{})

	body, _ := json.Marshal(map[string]string{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "secret",
		"role":     models.RoleStaff,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}
