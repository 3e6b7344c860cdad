package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repo "github.com/triazov/torcalc/internal/adapter/repository/sqlite"
	"github.com/triazov/torcalc/internal/domain"
)

func TestUserRepository_Authenticate(t *testing.T) {
	db := openTestDB(t)
	r := repo.NewUserRepository(db, "torcalc")
	ctx := context.Background()
	require.NoError(t, r.SeedTestAccounts(ctx))

	tests := []struct {
		name     string
		username string
		password string
		want     domain.User
		wantErr  error
	}{
		{
			name:     "known account",
			username: "triazov",
			password: "winner123234",
			want:     domain.User{Username: "triazov", Status: "developer"},
		},
		{
			name:     "username is trimmed and lowercased",
			username: "  TRIAZOV ",
			password: "winner123234",
			want:     domain.User{Username: "triazov", Status: "developer"},
		},
		{
			name:     "wrong password",
			username: "ettore",
			password: "nope",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "whatever",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "empty username",
			username: "   ",
			password: "x",
			wantErr:  domain.ErrEmptyCredentials,
		},
		{
			name:     "empty password",
			username: "ettore",
			wantErr:  domain.ErrEmptyCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := r.Authenticate(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, user)
		})
	}
}

func TestUserRepository_SaltChangesHash(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	seeded := repo.NewUserRepository(db, "torcalc")
	require.NoError(t, seeded.EnsureAccount(ctx, "alice", "secret", "tester"))

	other := repo.NewUserRepository(db, "different-salt")
	_, err := other.Authenticate(ctx, "alice", "secret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	user, err := seeded.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tester", user.Status)
}

func TestUserRepository_EnsureAccountIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	r := repo.NewUserRepository(db, "torcalc")
	ctx := context.Background()

	require.NoError(t, r.EnsureAccount(ctx, "alice", "first", "tester"))
	require.NoError(t, r.EnsureAccount(ctx, "alice", "second", "changed"))

	// The original row wins.
	user, err := r.Authenticate(ctx, "alice", "first")
	require.NoError(t, err)
	assert.Equal(t, "tester", user.Status)
}
