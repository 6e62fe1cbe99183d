package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/EneyderGarcia/turnerov2/internal/models"
	"github.com/EneyderGarcia/turnerov2/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Advisory lock keys serializing the two read-max-add-one counters.
const (
	ticketCounterLockKey = "ticket_counter"
	deskNumberLockKey    = "desk_numbers"
)

type Store struct {
	pool            *pgxpool.Pool
	deskNumberLimit int

	mu           sync.Mutex
	lastAdvanced *models.Ticket
}

type Options struct {
	DeskNumberLimit int
}

func NewStore(pool *pgxpool.Pool, options Options) *Store {
	limit := options.DeskNumberLimit
	if limit <= 0 {
		limit = 999
	}
	return &Store{
		pool:            pool,
		deskNumberLimit: limit,
	}
}

func (s *Store) CreateDesk(ctx context.Context) (models.Desk, bool, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Desk{}, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = acquireCounterLock(ctx, tx, deskNumberLockKey); err != nil {
		return models.Desk{}, false, err
	}

	numbers, err := liveDeskNumbers(ctx, tx)
	if err != nil {
		return models.Desk{}, false, err
	}
	number, err := store.NextDeskNumber(numbers, s.deskNumberLimit)
	if err != nil {
		return models.Desk{}, false, err
	}

	var recycledID string
	row := tx.QueryRow(ctx, `
		SELECT desk_id
		FROM desks
		WHERE number = $1 AND deleted
		LIMIT 1
		FOR UPDATE
	`, number)
	if err = row.Scan(&recycledID); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return models.Desk{}, false, err
		}
		err = nil
	}

	if recycledID != "" {
		_, err = tx.Exec(ctx, `
			UPDATE desks
			SET deleted = FALSE,
				active = TRUE,
				current_ticket = 0,
				assigned_staff_id = NULL
			WHERE desk_id = $1
		`, recycledID)
		if err != nil {
			return models.Desk{}, false, err
		}
		if err = tx.Commit(ctx); err != nil {
			return models.Desk{}, false, err
		}
		return models.Desk{DeskID: recycledID, Number: number, Active: true}, true, nil
	}

	var taken bool
	row = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM desks WHERE number = $1 AND NOT deleted)
	`, number)
	if err = row.Scan(&taken); err != nil {
		return models.Desk{}, false, err
	}
	if taken {
		err = store.ErrDuplicateDeskNumber
		return models.Desk{}, false, err
	}

	deskID := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO desks (desk_id, number, active, current_ticket, deleted)
		VALUES ($1, $2, TRUE, 0, FALSE)
	`, deskID, number)
	if err != nil {
		return models.Desk{}, false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Desk{}, false, err
	}
	return models.Desk{DeskID: deskID, Number: number, Active: true}, false, nil
}

func (s *Store) GetDesk(ctx context.Context, deskID string) (models.Desk, error) {
	row := s.pool.QueryRow(ctx, deskSelect+` WHERE d.desk_id = $1`, deskID)
	return scanDesk(row)
}

func (s *Store) ToggleDeskActive(ctx context.Context, deskID string) (models.Desk, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Desk{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	desk, err := lockDesk(ctx, tx, deskID)
	if err != nil {
		return models.Desk{}, err
	}
	if desk.Deleted {
		err = store.ErrDeskDeleted
		return models.Desk{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE desks SET active = NOT active WHERE desk_id = $1
	`, deskID)
	if err != nil {
		return models.Desk{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.Desk{}, err
	}
	desk.Active = !desk.Active
	return desk, nil
}

func (s *Store) SoftDeleteDesk(ctx context.Context, deskID string) (models.Desk, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE desks
		SET deleted = TRUE,
			active = FALSE,
			assigned_staff_id = NULL
		WHERE desk_id = $1
		RETURNING desk_id, number, active, current_ticket, deleted
	`, deskID)
	var desk models.Desk
	if err := row.Scan(&desk.DeskID, &desk.Number, &desk.Active, &desk.CurrentTicket, &desk.Deleted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Desk{}, store.ErrDeskNotFound
		}
		return models.Desk{}, err
	}
	return desk, nil
}

func (s *Store) RecoverDesk(ctx context.Context, deskID string) (models.Desk, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Desk{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = acquireCounterLock(ctx, tx, deskNumberLockKey); err != nil {
		return models.Desk{}, err
	}

	desk, err := lockDesk(ctx, tx, deskID)
	if err != nil {
		return models.Desk{}, err
	}
	if !desk.Deleted {
		err = store.ErrDeskNotDeleted
		return models.Desk{}, err
	}

	var taken bool
	row := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM desks WHERE number = $1 AND NOT deleted AND desk_id <> $2)
	`, desk.Number, deskID)
	if err = row.Scan(&taken); err != nil {
		return models.Desk{}, err
	}
	if taken {
		err = store.ErrDuplicateDeskNumber
		return models.Desk{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE desks SET deleted = FALSE, active = TRUE WHERE desk_id = $1
	`, deskID)
	if err != nil {
		return models.Desk{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.Desk{}, err
	}
	desk.Deleted = false
	desk.Active = true
	return desk, nil
}

func (s *Store) ListActiveDesks(ctx context.Context) ([]models.Desk, error) {
	return s.listDesks(ctx, deskSelect+` WHERE d.active AND NOT d.deleted ORDER BY d.number ASC`)
}

func (s *Store) ListDesks(ctx context.Context) ([]models.Desk, error) {
	return s.listDesks(ctx, deskSelect+` WHERE NOT d.deleted ORDER BY d.number ASC`)
}

func (s *Store) ListDeletedDesks(ctx context.Context) ([]models.Desk, error) {
	return s.listDesks(ctx, deskSelect+` WHERE d.deleted ORDER BY d.number ASC`)
}

func (s *Store) ResetDeskTicket(ctx context.Context, deskID string) (models.Desk, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Desk{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	desk, err := lockDesk(ctx, tx, deskID)
	if err != nil {
		return models.Desk{}, err
	}
	if desk.Deleted {
		err = store.ErrDeskDeleted
		return models.Desk{}, err
	}

	if err = insertHistory(ctx, tx, deskID, desk.CurrentTicket, desk.StaffName, models.ActionReset); err != nil {
		return models.Desk{}, err
	}
	_, err = tx.Exec(ctx, `
		UPDATE desks SET current_ticket = 0 WHERE desk_id = $1
	`, deskID)
	if err != nil {
		return models.Desk{}, err
	}

	if err = insertOutboxEvent(ctx, tx, "desk.reset", map[string]interface{}{
		"desk_id":     deskID,
		"desk_number": desk.Number,
		"staff_name":  desk.StaffName,
	}); err != nil {
		return models.Desk{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Desk{}, err
	}
	desk.CurrentTicket = 0
	return desk, nil
}

func (s *Store) ClaimTicket(ctx context.Context, input store.ClaimTicketInput) (models.Ticket, bool, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Ticket{}, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = acquireCounterLock(ctx, tx, ticketCounterLockKey); err != nil {
		return models.Ticket{}, false, err
	}

	existing, found, err := findTicketByRequestID(ctx, tx, input.RequestID)
	if err != nil {
		return models.Ticket{}, false, err
	}
	if found {
		if err = tx.Commit(ctx); err != nil {
			return models.Ticket{}, false, err
		}
		return existing, false, nil
	}

	desk, err := lockDesk(ctx, tx, input.DeskID)
	if err != nil {
		return models.Ticket{}, false, err
	}
	if desk.Deleted {
		err = store.ErrDeskDeleted
		return models.Ticket{}, false, err
	}
	if !desk.Active {
		err = store.ErrDeskInactive
		return models.Ticket{}, false, err
	}

	var next int64
	row := tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(ticket_number), 0) + 1 FROM tickets
	`)
	if err = row.Scan(&next); err != nil {
		return models.Ticket{}, false, err
	}

	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	ticket := models.Ticket{
		TicketID:     uuid.NewString(),
		TicketNumber: next,
		Status:       models.StatusServing,
		DeskID:       &desk.DeskID,
		DeskNumber:   desk.Number,
		StaffName:    desk.StaffName,
		CreatedAt:    createdAt,
		RequestID:    input.RequestID,
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO tickets (ticket_id, ticket_number, status, desk_id, staff_name, created_at, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ticket.TicketID, ticket.TicketNumber, ticket.Status, desk.DeskID, ticket.StaffName, ticket.CreatedAt, input.RequestID)
	if err != nil {
		return models.Ticket{}, false, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE desks SET current_ticket = $1 WHERE desk_id = $2
	`, next, desk.DeskID)
	if err != nil {
		return models.Ticket{}, false, err
	}

	if err = insertHistory(ctx, tx, desk.DeskID, next, desk.StaffName, models.ActionAdvance); err != nil {
		return models.Ticket{}, false, err
	}

	if err = insertOutboxEvent(ctx, tx, "ticket.advanced", map[string]interface{}{
		"ticket_id":     ticket.TicketID,
		"ticket_number": next,
		"desk_id":       desk.DeskID,
		"desk_number":   desk.Number,
		"staff_name":    desk.StaffName,
		"created_at":    createdAt,
	}); err != nil {
		return models.Ticket{}, false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Ticket{}, false, err
	}

	s.mu.Lock()
	cached := ticket
	s.lastAdvanced = &cached
	s.mu.Unlock()

	return ticket, true, nil
}

func (s *Store) NextTicketNumber(ctx context.Context) (int64, error) {
	var next int64
	row := s.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(ticket_number), 0) + 1 FROM tickets
	`)
	if err := row.Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *Store) LatestTicket(ctx context.Context) (models.Ticket, bool, error) {
	row := s.pool.QueryRow(ctx, ticketSelect+`
		ORDER BY t.ticket_number DESC
		LIMIT 1
	`)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ticket{}, false, nil
		}
		return models.Ticket{}, false, err
	}
	return ticket, true, nil
}

// LastAdvanced returns the claim cache. Display-only: numbering always comes
// from the tickets table, and ResetSystem clears this along with everything
// else.
func (s *Store) LastAdvanced() (models.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastAdvanced == nil {
		return models.Ticket{}, false
	}
	return *s.lastAdvanced, true
}

func (s *Store) ListRecentTickets(ctx context.Context, limit int) ([]models.Ticket, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, ticketSelect+`
		ORDER BY t.ticket_number DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *Store) CountTickets(ctx context.Context) (int64, error) {
	var count int64
	row := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) AssignStaff(ctx context.Context, deskID, staffID string) (models.Desk, error) {
	if staffID == "" {
		return s.UnassignStaff(ctx, deskID)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Desk{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = acquireCounterLock(ctx, tx, staffID); err != nil {
		return models.Desk{}, err
	}

	desk, err := lockDesk(ctx, tx, deskID)
	if err != nil {
		return models.Desk{}, err
	}
	if desk.Deleted {
		err = store.ErrDeskDeleted
		return models.Desk{}, err
	}

	var name, role string
	var active bool
	row := tx.QueryRow(ctx, `
		SELECT name, role, active FROM users WHERE user_id = $1
	`, staffID)
	if err = row.Scan(&name, &role, &active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = store.ErrUserNotFound
		}
		return models.Desk{}, err
	}
	if !active {
		err = store.ErrUserNotFound
		return models.Desk{}, err
	}
	if role != models.RoleStaff {
		err = store.ErrNotStaffRole
		return models.Desk{}, err
	}

	var conflictNumber int
	row = tx.QueryRow(ctx, `
		SELECT number
		FROM desks
		WHERE assigned_staff_id = $1 AND active AND NOT deleted AND desk_id <> $2
		LIMIT 1
	`, staffID, deskID)
	if err = row.Scan(&conflictNumber); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return models.Desk{}, err
		}
		err = nil
	}
	if conflictNumber != 0 {
		err = &store.StaffAssignedError{DeskNumber: conflictNumber}
		return models.Desk{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE desks SET assigned_staff_id = $1 WHERE desk_id = $2
	`, staffID, deskID)
	if err != nil {
		return models.Desk{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.Desk{}, err
	}
	desk.AssignedStaffID = &staffID
	desk.StaffName = name
	return desk, nil
}

func (s *Store) UnassignStaff(ctx context.Context, deskID string) (models.Desk, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE desks
		SET assigned_staff_id = NULL
		WHERE desk_id = $1
		RETURNING desk_id, number, active, current_ticket, deleted
	`, deskID)
	var desk models.Desk
	if err := row.Scan(&desk.DeskID, &desk.Number, &desk.Active, &desk.CurrentTicket, &desk.Deleted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Desk{}, store.ErrDeskNotFound
		}
		return models.Desk{}, err
	}
	return desk, nil
}

func (s *Store) IsStaffAssigned(ctx context.Context, staffID string) (bool, error) {
	var assigned bool
	row := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM desks
			WHERE assigned_staff_id = $1 AND active AND NOT deleted
		)
	`, staffID)
	if err := row.Scan(&assigned); err != nil {
		return false, err
	}
	return assigned, nil
}

func (s *Store) ListDeskHistory(ctx context.Context, deskID string, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT history_id, desk_id, ticket_number, staff_name, action, created_at
		FROM turn_history
		WHERE desk_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, deskID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		if err := rows.Scan(&entry.HistoryID, &entry.DeskID, &entry.TicketNumber, &entry.StaffName, &entry.Action, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ResetSystem wipes desks, tickets, history, and pending outbox events in one
// transaction. User accounts survive. Safe to call on an empty system.
func (s *Store) ResetSystem(ctx context.Context) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, table := range []string{"turn_history", "tickets", "outbox_events", "desks"} {
		if _, err = tx.Exec(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastAdvanced = nil
	s.mu.Unlock()
	return nil
}

func (s *Store) ListOutboxEvents(ctx context.Context, after time.Time, limit int) ([]store.OutboxEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT event_id, type, payload, created_at
		FROM outbox_events
		WHERE created_at > $1
		ORDER BY created_at ASC
		LIMIT $2
	`, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []store.OutboxEvent
	for rows.Next() {
		var event store.OutboxEvent
		if err := rows.Scan(&event.EventID, &event.Type, &event.Payload, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

const deskSelect = `
	SELECT d.desk_id, d.number, d.active, d.current_ticket, d.deleted, d.assigned_staff_id, COALESCE(u.name, '')
	FROM desks d
	LEFT JOIN users u ON u.user_id = d.assigned_staff_id`

const ticketSelect = `
	SELECT t.ticket_id, t.ticket_number, t.status, t.desk_id, COALESCE(d.number, 0), t.staff_name, t.created_at, t.request_id
	FROM tickets t
	LEFT JOIN desks d ON d.desk_id = t.desk_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDesk(row rowScanner) (models.Desk, error) {
	var desk models.Desk
	var staffIDNull sql.NullString
	if err := row.Scan(&desk.DeskID, &desk.Number, &desk.Active, &desk.CurrentTicket, &desk.Deleted, &staffIDNull, &desk.StaffName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Desk{}, store.ErrDeskNotFound
		}
		return models.Desk{}, err
	}
	desk.AssignedStaffID = nullStringPtr(staffIDNull)
	return desk, nil
}

func scanTicket(row rowScanner) (models.Ticket, error) {
	var ticket models.Ticket
	var deskIDNull sql.NullString
	if err := row.Scan(&ticket.TicketID, &ticket.TicketNumber, &ticket.Status, &deskIDNull, &ticket.DeskNumber, &ticket.StaffName, &ticket.CreatedAt, &ticket.RequestID); err != nil {
		return models.Ticket{}, err
	}
	ticket.DeskID = nullStringPtr(deskIDNull)
	return ticket, nil
}

func (s *Store) listDesks(ctx context.Context, query string) ([]models.Desk, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var desks []models.Desk
	for rows.Next() {
		desk, err := scanDesk(rows)
		if err != nil {
			return nil, err
		}
		desks = append(desks, desk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return desks, nil
}

func acquireCounterLock(ctx context.Context, tx pgx.Tx, key string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key)
	return err
}

// lockDesk loads a desk row under FOR UPDATE so state checks and the writes
// that follow see the same row version.
func lockDesk(ctx context.Context, tx pgx.Tx, deskID string) (models.Desk, error) {
	var desk models.Desk
	var staffIDNull sql.NullString
	row := tx.QueryRow(ctx, `
		SELECT desk_id, number, active, current_ticket, deleted, assigned_staff_id
		FROM desks
		WHERE desk_id = $1
		FOR UPDATE
	`, deskID)
	if err := row.Scan(&desk.DeskID, &desk.Number, &desk.Active, &desk.CurrentTicket, &desk.Deleted, &staffIDNull); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Desk{}, store.ErrDeskNotFound
		}
		return models.Desk{}, err
	}
	desk.AssignedStaffID = nullStringPtr(staffIDNull)
	if staffIDNull.Valid {
		row := tx.QueryRow(ctx, `SELECT name FROM users WHERE user_id = $1`, staffIDNull.String)
		if err := row.Scan(&desk.StaffName); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return models.Desk{}, err
		}
	}
	return desk, nil
}

func liveDeskNumbers(ctx context.Context, tx pgx.Tx) ([]int, error) {
	rows, err := tx.Query(ctx, `
		SELECT number FROM desks WHERE NOT deleted ORDER BY number ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []int
	for rows.Next() {
		var number int
		if err := rows.Scan(&number); err != nil {
			return nil, err
		}
		numbers = append(numbers, number)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return numbers, nil
}

func findTicketByRequestID(ctx context.Context, tx pgx.Tx, requestID string) (models.Ticket, bool, error) {
	row := tx.QueryRow(ctx, ticketSelect+` WHERE t.request_id = $1`, requestID)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ticket{}, false, nil
		}
		return models.Ticket{}, false, err
	}
	return ticket, true, nil
}

func insertHistory(ctx context.Context, tx pgx.Tx, deskID string, ticketNumber int64, staffName, action string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO turn_history (history_id, desk_id, ticket_number, staff_name, action, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), deskID, ticketNumber, staffName, action, time.Now().UTC())
	return err
}

func insertOutboxEvent(ctx context.Context, tx pgx.Tx, eventType string, payload map[string]interface{}) error {
	data, err := jsonBytes(payload)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO outbox_events (event_id, type, payload, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), eventType, data, time.Now().UTC())
	return err
}

func jsonBytes(value interface{}) ([]byte, error) {
	return json.Marshal(value)
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	result := value.String
	return &result
}
