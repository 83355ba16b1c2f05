package util

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariebrainware/monorec/config"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisMock(t *testing.T) redismock.ClientMock {
	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTest(rdb)
	t.Cleanup(func() {
		config.ResetRedisClientForTest()
	})
	return mock
}

func TestStoreSession(t *testing.T) {
	mock := setupRedisMock(t)
	mock.ExpectSet("session:jti-1", "user-1", time.Hour).SetVal("OK")
	mock.ExpectSAdd("user_sessions:user-1", "jti-1").SetVal(1)

	require.NoError(t, StoreSession(context.Background(), "jti-1", "user-1", time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSession_SetError(t *testing.T) {
	mock := setupRedisMock(t)
	mock.ExpectSet("session:jti-1", "user-1", time.Hour).SetErr(errors.New("connection refused"))

	assert.Error(t, StoreSession(context.Background(), "jti-1", "user-1", time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupSession(t *testing.T) {
	mock := setupRedisMock(t)
	mock.ExpectGet("session:jti-1").SetVal("user-1")
	mock.ExpectGet("session:jti-2").RedisNil()
	mock.ExpectGet("session:jti-3").SetErr(errors.New("timeout"))

	userID, found, err := LookupSession(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "user-1", userID)

	_, found, err = LookupSession(context.Background(), "jti-2")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = LookupSession(context.Background(), "jti-3")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeSession(t *testing.T) {
	mock := setupRedisMock(t)
	mock.ExpectDel("session:jti-1").SetVal(1)
	mock.ExpectEval(removeFromUserSetScript, []string{"user_sessions:user-1"}, "jti-1").SetVal(int64(1))

	require.NoError(t, RevokeSession(context.Background(), "jti-1", "user-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateUserSessions(t *testing.T) {
	mock := setupRedisMock(t)
	mock.ExpectSMembers("user_sessions:user-1").SetVal([]string{"a", "b"})
	mock.ExpectDel("session:a").SetVal(1)
	mock.ExpectDel("session:b").SetVal(1)
	mock.ExpectDel("user_sessions:user-1").SetVal(1)

	require.NoError(t, InvalidateUserSessions(context.Background(), "user-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessions_NoClient(t *testing.T) {
	config.ResetRedisClientForTest()
	ctx := context.Background()

	assert.NoError(t, StoreSession(ctx, "jti", "user", time.Minute))
	_, found, err := LookupSession(ctx, "jti")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, RevokeSession(ctx, "jti", "user"))
	assert.NoError(t, InvalidateUserSessions(ctx, "user"))
}
