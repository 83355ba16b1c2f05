package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFreshConfig(t *testing.T) {
	t.Helper()
	ResetConfigForTest()
	t.Cleanup(ResetConfigForTest)
}

func TestLoadConfig_Defaults(t *testing.T) {
	withFreshConfig(t)
	t.Setenv("APPNAME", "")
	t.Setenv("APPPORT", "")
	t.Setenv("DBDRIVER", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("AUTO_ASSOCIATIONS", "")

	cfg := LoadConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, uint16(8080), cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 60, cfg.TokenTTLMinutes)
	assert.Equal(t, 3, cfg.AutoAssociations)
}

func TestLoadConfig_ReadsEnvironment(t *testing.T) {
	withFreshConfig(t)
	t.Setenv("APPNAME", "MonoRec Test")
	t.Setenv("APPPORT", "9090")
	t.Setenv("DBDRIVER", "Postgres")
	t.Setenv("DBPORT", "5432")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("AUTO_ASSOCIATIONS", "5")

	cfg := LoadConfig()
	assert.Equal(t, "MonoRec Test", cfg.AppName)
	assert.Equal(t, uint16(9090), cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, uint16(5432), cfg.DBPort)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 5, cfg.AutoAssociations)
}

func TestLoadConfig_Singleton(t *testing.T) {
	withFreshConfig(t)
	first := LoadConfig()
	t.Setenv("APPNAME", "changed-after-load")
	second := LoadConfig()
	assert.Same(t, first, second)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBDriver: "mysql", DBUser: "u", DBPass: "p", DBHost: "h", DBPort: 3306, DBName: "monorec"}
	dsn, err := cfg.DSN()
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(h:3306)/monorec?parseTime=true&charset=utf8mb4&loc=UTC", dsn)

	cfg.DBDriver = "postgres"
	dsn, err = cfg.DSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "dbname=monorec")

	cfg.DBDriver = "oracle"
	_, err = cfg.DSN()
	assert.Error(t, err)
}

func TestConnectDatabase_TestEnv(t *testing.T) {
	db, err := ConnectDatabase(&Config{AppEnv: "test"})
	require.NoError(t, err)
	require.NotNil(t, db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestConnectDatabase_UnsupportedDriver(t *testing.T) {
	_, err := ConnectDatabase(&Config{AppEnv: "development", DBDriver: "oracle"})
	assert.Error(t, err)
}
