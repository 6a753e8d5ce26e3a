package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL or skips the test.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	database, err := New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(database.Close)
	return database
}

func TestSessionLifecycle(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	user := &User{ID: "test-user-" + time.Now().Format("150405.000000"), Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, database.Users().Upsert(ctx, user))
	assert.False(t, user.CreatedAt.IsZero())

	user.Picture = "https://example.com/a.png"
	require.NoError(t, database.Users().Upsert(ctx, user))

	got, err := database.Users().Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.png", got.Picture)

	now := time.Now()
	expiry := now.Add(time.Hour)
	session := &Session{
		ID:           "sess-" + user.ID,
		UserID:       user.ID,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		TokenExpiry:  &expiry,
		CreatedAt:    now,
		ExpiresAt:    now.Add(24 * time.Hour),
	}
	require.NoError(t, database.Sessions().Create(ctx, session))
	t.Cleanup(func() { database.Sessions().Delete(context.Background(), session.ID) })

	newExpiry := now.Add(2 * time.Hour)
	require.NoError(t, database.Sessions().UpdateToken(ctx, session.ID, "access-2", "", &newExpiry))

	sw, err := database.Sessions().GetWithUser(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "access-2", sw.AccessToken)
	assert.Equal(t, "refresh-1", sw.RefreshToken, "empty refresh token keeps the stored one")
	assert.Equal(t, "Ada", sw.User.Name)

	require.NoError(t, database.Sessions().Delete(ctx, session.ID))
	_, err = database.Sessions().GetWithUser(ctx, session.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = database.Sessions().UpdateToken(ctx, session.ID, "x", "", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsersGet_NotFound(t *testing.T) {
	database := openTestDB(t)

	_, err := database.Users().Get(context.Background(), "no-such-user")
	assert.ErrorIs(t, err, ErrNotFound)
}
