package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds the application's configuration values.
type Config struct {
	AppName         string   `json:"appname"`
	AppEnv          string   `json:"appenv"`
	AppPort         uint16   `json:"appport"`
	GinMode         string   `json:"ginmode"`
	DBDriver        string   `json:"dbdriver"`
	DBHost          string   `json:"dbhost"`
	DBPort          uint16   `json:"dbport"`
	DBName          string   `json:"dbname"`
	DBUser          string   `json:"dbuser"`
	DBPass          string   `json:"dbpass"`
	JWTSecret       string   `json:"-"`
	TokenTTLMinutes int      `json:"token_ttl_minutes"`
	RedisAddr       string   `json:"redis_addr"`
	RedisPass       string   `json:"-"`
	RedisDB         int      `json:"redis_db"`
	CORSOrigins     []string `json:"cors_origins"`
	GeoIPDBPath     string   `json:"geoip_db_path"`
	// AutoAssociations is how many counterparts first-login linking attaches.
	AutoAssociations int `json:"auto_associations"`
}

var config *Config
var once sync.Once

// IsTest reports whether the service runs against the in-memory test store.
func (c *Config) IsTest() bool {
	return c.AppEnv == "test"
}

// IsProduction reports whether APPENV is production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APPNAME", "MonoRec")
	v.SetDefault("APPENV", "development")
	v.SetDefault("APPPORT", 8080)
	v.SetDefault("GINMODE", "debug")
	v.SetDefault("DBDRIVER", "mysql")
	v.SetDefault("DBHOST", "localhost")
	v.SetDefault("DBPORT", 3306)
	v.SetDefault("DBNAME", "monorec")
	v.SetDefault("TOKEN_TTL_MINUTES", 60)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("AUTO_ASSOCIATIONS", 3)
	return v
}

// readConfig builds a Config from the process environment. A .env file, when
// present, is loaded into the environment first.
func readConfig() *Config {
	_ = godotenv.Load()
	v := newViper()

	var origins []string
	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		AppName:          v.GetString("APPNAME"),
		AppEnv:           v.GetString("APPENV"),
		AppPort:          uint16(v.GetUint("APPPORT")),
		GinMode:          v.GetString("GINMODE"),
		DBDriver:         strings.ToLower(v.GetString("DBDRIVER")),
		DBHost:           v.GetString("DBHOST"),
		DBPort:           uint16(v.GetUint("DBPORT")),
		DBName:           v.GetString("DBNAME"),
		DBUser:           v.GetString("DBUSER"),
		DBPass:           v.GetString("DBPASS"),
		JWTSecret:        v.GetString("JWTSECRET"),
		TokenTTLMinutes:  v.GetInt("TOKEN_TTL_MINUTES"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPass:        v.GetString("REDIS_PASS"),
		RedisDB:          v.GetInt("REDIS_DB"),
		CORSOrigins:      origins,
		GeoIPDBPath:      v.GetString("GEOIP_DB_PATH"),
		AutoAssociations: v.GetInt("AUTO_ASSOCIATIONS"),
	}
}

// LoadConfig loads the environment (and .env file if any) once and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		config = readConfig()
	})
	return config
}

// ResetConfigForTest drops the cached Config so the next LoadConfig re-reads the environment.
func ResetConfigForTest() {
	config = nil
	once = sync.Once{}
}

// DSN builds the driver specific data source name.
func (c *Config) DSN() (string, error) {
	switch c.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC", c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName), nil
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC", c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName), nil
	case "sqlite":
		if c.DBName == "" {
			return "monorec.db", nil
		}
		return c.DBName, nil
	default:
		return "", fmt.Errorf("unsupported DBDRIVER %q", c.DBDriver)
	}
}

// ConnectDatabase opens the gorm connection described by cfg. APPENV=test
// always uses a shared in-memory sqlite database.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	if cfg.IsTest() {
		return gorm.Open(sqlite.Open("file::memory:?cache=shared"), gormCfg)
	}

	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}
	return db, nil
}
