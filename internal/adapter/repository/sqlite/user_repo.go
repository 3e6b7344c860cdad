package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/triazov/torcalc/internal/domain"
)

// UserRepository persists user accounts. Passwords are stored as salted
// sha256 digests; these are test accounts, not a hardened credential store.
type UserRepository struct {
	db   *sql.DB
	salt string
}

// NewUserRepository creates a UserRepository using salt for password hashing.
func NewUserRepository(db *sql.DB, salt string) *UserRepository {
	return &UserRepository{db: db, salt: salt}
}

// Authenticate checks the credentials against the user table.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return domain.User{}, domain.ErrEmptyCredentials
	}

	var (
		user domain.User
		hash string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT username, password_hash, status FROM users WHERE username = ?`, username).
		Scan(&user.Username, &hash, &user.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("query user: %w", err)
	}

	if r.hashPassword(password) != hash {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

// EnsureAccount inserts an account if it does not exist yet.
func (r *UserRepository) EnsureAccount(ctx context.Context, username, password, status string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (username, password_hash, status) VALUES (?, ?, ?)`,
		strings.ToLower(username), r.hashPassword(password), status)
	if err != nil {
		return fmt.Errorf("ensure account %s: %w", username, err)
	}
	return nil
}

// SeedTestAccounts provisions the built-in development accounts.
func (r *UserRepository) SeedTestAccounts(ctx context.Context) error {
	accounts := []struct {
		username, password, status string
	}{
		{"ettore", "ettore633ytbloger", "media"},
		{"triazov", "winner123234", "developer"},
	}
	for _, a := range accounts {
		if err := r.EnsureAccount(ctx, a.username, a.password, a.status); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepository) hashPassword(password string) string {
	sum := sha256.Sum256([]byte(r.salt + ":" + password))
	return hex.EncodeToString(sum[:])
}
