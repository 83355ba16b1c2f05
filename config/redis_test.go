package config

import (
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis_SkippedInTestEnv(t *testing.T) {
	withFreshConfig(t)
	ResetRedisClientForTest()
	t.Cleanup(ResetRedisClientForTest)
	t.Setenv("APPENV", "test")

	rdb, err := ConnectRedis()
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestConnectRedis_ConcurrentCalls(t *testing.T) {
	withFreshConfig(t)
	ResetRedisClientForTest()
	t.Cleanup(ResetRedisClientForTest)
	t.Setenv("APPENV", "test")

	type callResult struct {
		rdb interface{}
		err error
	}
	done := make(chan callResult, 5)
	for i := 0; i < 5; i++ {
		go func() {
			rdb, err := ConnectRedis()
			done <- callResult{rdb: rdb, err: err}
		}()
	}

	for i := 0; i < 5; i++ {
		res := <-done
		assert.NoError(t, res.err)
		assert.Nil(t, res.rdb)
	}
}

func TestGetRedisClient_NotInitialized(t *testing.T) {
	ResetRedisClientForTest()
	assert.Nil(t, GetRedisClient())
}

func TestSetRedisClientForTest_SurvivesConnect(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	t.Cleanup(ResetRedisClientForTest)

	SetRedisClientForTest(rdb)
	assert.Same(t, rdb, GetRedisClient())

	got, err := ConnectRedis()
	require.NoError(t, err)
	assert.Same(t, rdb, got, "ConnectRedis must keep the installed client")

	ResetRedisClientForTest()
	assert.Nil(t, GetRedisClient())
}
