package postgres_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebuddy/internal/auth/adapters/postgres"
	"notebuddy/internal/auth/domain/services"
)

// nolint:gosec
const testToken = "refresh-token-value"

var tokenColumns = []string{"id", "user_id", "token", "expires_at", "created_at", "is_revoked"}

func TestTokenRepository_FindByToken(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC()
	query := regexp.QuoteMeta(`FROM refresh_tokens WHERE token = $1`)

	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(query).WithArgs(testToken).
			WillReturnRows(pgxmock.NewRows(tokenColumns).
				AddRow("token-id", testUserID, testToken, now.Add(time.Hour), now, false))

		token, err := postgres.NewTokenRepository(mock).FindByToken(ctx, testToken)

		require.NoError(t, err)
		assert.Equal(t, "token-id", token.ID)
		assert.Equal(t, testUserID, token.UserID)
		assert.False(t, token.IsRevoked)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(query).WithArgs(testToken).WillReturnError(pgx.ErrNoRows)

		_, err := postgres.NewTokenRepository(mock).FindByToken(ctx, testToken)

		require.ErrorIs(t, err, services.ErrInvalidRefreshToken)
	})

	t.Run("database error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(query).WithArgs(testToken).WillReturnError(errDatabaseConnection)

		_, err := postgres.NewTokenRepository(mock).FindByToken(ctx, testToken)

		require.ErrorIs(t, err, errDatabaseConnection)
		assert.Contains(t, err.Error(), "error querying refresh token")
	})
}

func TestTokenRepository_StoreRefreshToken(t *testing.T) {
	ctx := testContext(t)
	token := &services.RefreshToken{
		UserID:    testUserID,
		Token:     testToken,
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour).Truncate(time.Microsecond),
	}
	query := regexp.QuoteMeta(`INSERT INTO refresh_tokens (user_id, token, expires_at, is_revoked)`)

	t.Run("success", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(query).
			WithArgs(token.UserID, token.Token, token.ExpiresAt, false).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, postgres.NewTokenRepository(mock).StoreRefreshToken(ctx, token))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(query).WillReturnError(errDatabaseConnection)

		err := postgres.NewTokenRepository(mock).StoreRefreshToken(ctx, token)

		require.ErrorIs(t, err, errDatabaseConnection)
		assert.Contains(t, err.Error(), "error storing refresh token")
	})
}

func TestTokenRepository_RevokeToken(t *testing.T) {
	ctx := testContext(t)
	query := regexp.QuoteMeta(`UPDATE refresh_tokens SET is_revoked = true WHERE token = $1 AND NOT is_revoked`)

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "revoked",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(query).WithArgs(testToken).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "unknown token",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(query).WithArgs(testToken).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: services.ErrInvalidRefreshToken,
		},
		{
			name: "database error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(query).WithArgs(testToken).WillReturnError(errDatabaseConnection)
			},
			wantErr: errDatabaseConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setup(mock)

			err := postgres.NewTokenRepository(mock).RevokeToken(ctx, testToken)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTokenRepository_RevokeTokenOnlyOnce(t *testing.T) {
	ctx := testContext(t)
	query := regexp.QuoteMeta(`UPDATE refresh_tokens SET is_revoked = true WHERE token = $1 AND NOT is_revoked`)

	mock := newMock(t)
	mock.ExpectExec(query).WithArgs(testToken).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(query).WithArgs(testToken).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	repo := postgres.NewTokenRepository(mock)

	require.NoError(t, repo.RevokeToken(ctx, testToken))
	require.ErrorIs(t, repo.RevokeToken(ctx, testToken), services.ErrInvalidRefreshToken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_CleanupExpiredTokens(t *testing.T) {
	ctx := testContext(t)
	query := regexp.QuoteMeta(`DELETE FROM refresh_tokens WHERE expires_at < NOW() OR is_revoked = true`)

	t.Run("success", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(query).WillReturnResult(pgxmock.NewResult("DELETE", 3))

		removed, err := postgres.NewTokenRepository(mock).CleanupExpiredTokens(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(3), removed)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(query).WillReturnError(errDatabaseConnection)

		_, err := postgres.NewTokenRepository(mock).CleanupExpiredTokens(ctx)

		require.ErrorIs(t, err, errDatabaseConnection)
	})
}
