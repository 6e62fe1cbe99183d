package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/EneyderGarcia/turnerov2/internal/models"
)

type ClaimTicketInput struct {
	RequestID string
	DeskID    string
	CreatedAt time.Time
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UpdateUserInput struct {
	UserID   string
	Name     string
	Email    string
	Password string
	Role     string
	Active   *bool
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	User    models.User
	Session models.Session
}

// DeskStore is the ticket/desk state machine. Every mutation is a single
// transaction: either all of its writes land or none do.
type DeskStore interface {
	CreateDesk(ctx context.Context) (models.Desk, bool, error)
	GetDesk(ctx context.Context, deskID string) (models.Desk, error)
	ToggleDeskActive(ctx context.Context, deskID string) (models.Desk, error)
	SoftDeleteDesk(ctx context.Context, deskID string) (models.Desk, error)
	RecoverDesk(ctx context.Context, deskID string) (models.Desk, error)
	ListActiveDesks(ctx context.Context) ([]models.Desk, error)
	ListDesks(ctx context.Context) ([]models.Desk, error)
	ListDeletedDesks(ctx context.Context) ([]models.Desk, error)
	ResetDeskTicket(ctx context.Context, deskID string) (models.Desk, error)

	ClaimTicket(ctx context.Context, input ClaimTicketInput) (models.Ticket, bool, error)
	NextTicketNumber(ctx context.Context) (int64, error)
	LatestTicket(ctx context.Context) (models.Ticket, bool, error)
	LastAdvanced() (models.Ticket, bool)
	ListRecentTickets(ctx context.Context, limit int) ([]models.Ticket, error)
	CountTickets(ctx context.Context) (int64, error)

	AssignStaff(ctx context.Context, deskID, staffID string) (models.Desk, error)
	UnassignStaff(ctx context.Context, deskID string) (models.Desk, error)
	IsStaffAssigned(ctx context.Context, staffID string) (bool, error)

	ListDeskHistory(ctx context.Context, deskID string, limit int) ([]models.HistoryEntry, error)

	ResetSystem(ctx context.Context) error

	ListOutboxEvents(ctx context.Context, after time.Time, limit int) ([]OutboxEvent, error)
}

// UserStore manages accounts and sessions. Kept separate from DeskStore so
// ResetSystem can never touch it by construction.
type UserStore interface {
	CreateUser(ctx context.Context, input CreateUserInput) (models.User, error)
	UpdateUser(ctx context.Context, input UpdateUserInput) (models.User, error)
	DeactivateUser(ctx context.Context, userID string) error
	GetUser(ctx context.Context, userID string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	Login(ctx context.Context, input LoginInput) (LoginResult, error)
	GetSession(ctx context.Context, sessionID string) (models.Session, error)
}

type OutboxEvent struct {
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
