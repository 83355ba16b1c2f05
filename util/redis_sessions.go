package util

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariebrainware/monorec/config"
	"github.com/redis/go-redis/v9"
)

// removeFromUserSetScript removes a jti from the per-user set and drops the
// set once it is empty.
const removeFromUserSetScript = `
	local removed = redis.call('SREM', KEYS[1], ARGV[1])
	if removed > 0 then
		if redis.call('SCARD', KEYS[1]) == 0 then
			redis.call('DEL', KEYS[1])
		end
	end
	return removed
`

func sessionKey(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

func userSessionsKey(userID string) string {
	return fmt.Sprintf("user_sessions:%s", userID)
}

// StoreSession caches an active session under session:<jti> with the user id
// as value and records the jti in the user's session set. No-op without Redis.
func StoreSession(ctx context.Context, jti, userID string, ttl time.Duration) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	if err := rdb.Set(ctx, sessionKey(jti), userID, ttl).Err(); err != nil {
		return err
	}
	return rdb.SAdd(ctx, userSessionsKey(userID), jti).Err()
}

// LookupSession returns the user id cached for jti. found is false when Redis
// is not configured or holds no entry, in which case callers consult the
// sessions table.
func LookupSession(ctx context.Context, jti string) (userID string, found bool, err error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return "", false, nil
	}
	val, err := rdb.Get(ctx, sessionKey(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// RevokeSession deletes the cached session and removes it from the user's set.
func RevokeSession(ctx context.Context, jti, userID string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	if err := rdb.Del(ctx, sessionKey(jti)).Err(); err != nil {
		return err
	}
	return rdb.Eval(ctx, removeFromUserSetScript, []string{userSessionsKey(userID)}, jti).Err()
}

// InvalidateUserSessions deletes every cached session of userID and the
// per-user set itself.
func InvalidateUserSessions(ctx context.Context, userID string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	members, err := rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	for _, jti := range members {
		if err := rdb.Del(ctx, sessionKey(jti)).Err(); err != nil {
			return err
		}
	}
	return rdb.Del(ctx, userSessionsKey(userID)).Err()
}
