package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/EneyderGarcia/turnerov2/internal/models"
	"github.com/EneyderGarcia/turnerov2/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type UserStore struct {
	pool       *pgxpool.Pool
	sessionTTL time.Duration
}

type UserOptions struct {
	SessionTTL time.Duration
}

func NewUserStore(pool *pgxpool.Pool, options UserOptions) *UserStore {
	ttl := options.SessionTTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &UserStore{pool: pool, sessionTTL: ttl}
}

func (s *UserStore) CreateUser(ctx context.Context, input store.CreateUserInput) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	var taken bool
	row := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))
	`, input.Email)
	if err := row.Scan(&taken); err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, store.ErrEmailTaken
	}

	user := models.User{
		UserID:    uuid.NewString(),
		Name:      input.Name,
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Role:      input.Role,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO users (user_id, name, email, password_hash, role, active, created_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
	`, user.UserID, user.Name, user.Email, string(hash), user.Role, user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *UserStore) UpdateUser(ctx context.Context, input store.UpdateUserInput) (models.User, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.User{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	user, err := lockUser(ctx, tx, input.UserID)
	if err != nil {
		return models.User{}, err
	}

	if input.Email != "" && !strings.EqualFold(input.Email, user.Email) {
		var taken bool
		row := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1) AND user_id <> $2)
		`, input.Email, input.UserID)
		if err = row.Scan(&taken); err != nil {
			return models.User{}, err
		}
		if taken {
			err = store.ErrEmailTaken
			return models.User{}, err
		}
		user.Email = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Role == models.RoleAdmin || input.Role == models.RoleStaff {
		user.Role = input.Role
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET name = $1, email = $2, role = $3, active = $4 WHERE user_id = $5
	`, user.Name, user.Email, user.Role, user.Active, user.UserID)
	if err != nil {
		return models.User{}, err
	}

	if input.Password != "" {
		var hash []byte
		hash, err = bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		_, err = tx.Exec(ctx, `
			UPDATE users SET password_hash = $1 WHERE user_id = $2
		`, string(hash), user.UserID)
		if err != nil {
			return models.User{}, err
		}
	}

	// A deactivated staff member no longer blocks desk assignment.
	if input.Active != nil && !*input.Active {
		if err = clearStaffAssignments(ctx, tx, user.UserID); err != nil {
			return models.User{}, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *UserStore) DeactivateUser(ctx context.Context, userID string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE users SET active = FALSE WHERE user_id = $1
	`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		err = store.ErrUserNotFound
		return err
	}
	if err = clearStaffAssignments(ctx, tx, userID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *UserStore) GetUser(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, name, email, role, active, created_at
		FROM users
		WHERE user_id = $1
	`, userID)
	if err := row.Scan(&user.UserID, &user.Name, &user.Email, &user.Role, &user.Active, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, store.ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, name, email, role, active, created_at
		FROM users
		WHERE active
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.UserID, &user.Name, &user.Email, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) Login(ctx context.Context, input store.LoginInput) (store.LoginResult, error) {
	var user models.User
	var passwordHash string
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, name, email, password_hash, role, active, created_at
		FROM users
		WHERE lower(email) = lower($1) AND active
	`, input.Email)
	if err := row.Scan(&user.UserID, &user.Name, &user.Email, &passwordHash, &user.Role, &user.Active, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.LoginResult{}, store.ErrInvalidCredentials
		}
		return store.LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(input.Password)); err != nil {
		return store.LoginResult{}, store.ErrInvalidCredentials
	}

	session := models.Session{
		SessionID: uuid.NewString(),
		UserID:    user.UserID,
		Role:      user.Role,
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (session_id, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, session.SessionID, session.UserID, session.ExpiresAt)
	if err != nil {
		return store.LoginResult{}, err
	}

	return store.LoginResult{User: user, Session: session}, nil
}

func (s *UserStore) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	var session models.Session
	row := s.pool.QueryRow(ctx, `
		SELECT s.session_id, s.user_id, u.role, s.expires_at
		FROM sessions s
		JOIN users u ON u.user_id = s.user_id
		WHERE s.session_id = $1 AND s.expires_at > NOW() AND u.active
	`, sessionID)
	if err := row.Scan(&session.SessionID, &session.UserID, &session.Role, &session.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, store.ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}

func lockUser(ctx context.Context, tx pgx.Tx, userID string) (models.User, error) {
	var user models.User
	row := tx.QueryRow(ctx, `
		SELECT user_id, name, email, role, active, created_at
		FROM users
		WHERE user_id = $1
		FOR UPDATE
	`, userID)
	if err := row.Scan(&user.UserID, &user.Name, &user.Email, &user.Role, &user.Active, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, store.ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func clearStaffAssignments(ctx context.Context, tx pgx.Tx, staffID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE desks SET assigned_staff_id = NULL WHERE assigned_staff_id = $1
	`, staffID)
	return err
}
