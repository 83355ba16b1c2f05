package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ariebrainware/monorec/config"
	"github.com/ariebrainware/monorec/model"
	"github.com/ariebrainware/monorec/util"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "middleware-test-secret"

var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
}

// newInMemoryDB creates a private sqlite database with the sessions table.
func newInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:mw_%d_%d?mode=memory&cache=shared", dbCounter.Add(1), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Session{}))
	return db
}

func setupRedisMock(t *testing.T) redismock.ClientMock {
	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTest(rdb)
	t.Cleanup(func() {
		config.ResetRedisClientForTest()
	})
	return mock
}

type issuedToken struct {
	token  string
	claims util.AccessClaims
}

// issueToken mints a token for subject and, when db is not nil, records its session.
func issueToken(t *testing.T, db *gorm.DB, subject string, roles ...string) issuedToken {
	t.Helper()
	util.SetJWTSecret(testSecret)
	token, claims, err := util.IssueAccessToken(util.TokenRequest{
		Subject: subject,
		Email:   subject + "@monorec.com",
		Name:    "Test " + subject,
		Roles:   roles,
		TTL:     time.Hour,
	})
	require.NoError(t, err)
	if db != nil {
		require.NoError(t, db.Create(&model.Session{
			SessionID: claims.ID,
			UserID:    subject,
			ExpiresAt: claims.ExpiresAt.Time,
		}).Error)
	}
	return issuedToken{token: token, claims: claims}
}

// newAuthRouter wires the middleware chain used by the service around a
// handler that echoes the principal.
func newAuthRouter(db *gorm.DB, guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	if db != nil {
		r.Use(DatabaseMiddleware(db))
	}
	r.Use(Authenticate())
	handlers := append(guards, func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": true, "subject": p.Subject, "roles": p.RoleList()})
	})
	r.GET("/test", handlers...)
	return r
}

func doGet(r http.Handler, mutate func(*http.Request)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if mutate != nil {
		mutate(req)
	}
	r.ServeHTTP(w, req)
	return w
}

func withBearer(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
