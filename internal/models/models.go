package models

import "time"

const (
	StatusPending   = "pending"
	StatusServing   = "serving"
	StatusCompleted = "completed"
)

const (
	ActionAdvance = "advance"
	ActionReset   = "reset"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Desk is a numbered service counter. Number is unique among non-deleted
// desks; soft-deleted desks keep their number until the slot is recycled.
type Desk struct {
	DeskID          string  `json:"desk_id"`
	Number          int     `json:"number"`
	Active          bool    `json:"active"`
	CurrentTicket   int64   `json:"current_ticket"`
	Deleted         bool    `json:"deleted"`
	AssignedStaffID *string `json:"assigned_staff_id,omitempty"`
	StaffName       string  `json:"staff_name,omitempty"`
}

// Ticket is one globally numbered turn. StaffName is a snapshot taken at
// claim time, not a live reference.
type Ticket struct {
	TicketID     string    `json:"ticket_id"`
	TicketNumber int64     `json:"ticket_number"`
	Status       string    `json:"status"`
	DeskID       *string   `json:"desk_id,omitempty"`
	DeskNumber   int       `json:"desk_number,omitempty"`
	StaffName    string    `json:"staff_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	RequestID    string    `json:"request_id,omitempty"`
}

type HistoryEntry struct {
	HistoryID    string    `json:"history_id"`
	DeskID       string    `json:"desk_id"`
	TicketNumber int64     `json:"ticket_number"`
	StaffName    string    `json:"staff_name,omitempty"`
	Action       string    `json:"action"`
	CreatedAt    time.Time `json:"created_at"`
}

type User struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
