package endpoint_test

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ariebrainware/monorec/config"
	"github.com/ariebrainware/monorec/endpoint"
	"github.com/ariebrainware/monorec/model"
	"github.com/ariebrainware/monorec/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// SetupTestServer returns the full router over a private in-memory database
// with the schema migrated and the roles seeded.
func SetupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:endpoint_%d_%d?mode=memory&cache=shared", dbCounter.Add(1), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	r, err := endpoint.NewRouter(db, config.LoadConfig())
	require.NoError(t, err)
	return r, db
}

// issueToken mints an access token for subject and records its session so
// the authentication middleware accepts it.
func issueToken(t *testing.T, db *gorm.DB, subject string, roles ...string) string {
	t.Helper()
	token, claims, err := util.IssueAccessToken(util.TokenRequest{
		Subject: subject,
		Email:   subject + "@monorec.com",
		Name:    "Test " + subject,
		Roles:   roles,
		TTL:     time.Hour,
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Session{
		SessionID: claims.ID,
		UserID:    subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}).Error)
	return token
}

func seedDoctor(t *testing.T, db *gorm.DB, name string) model.Doctor {
	t.Helper()
	d := model.Doctor{DoctorName: name}
	require.NoError(t, db.Create(&d).Error)
	return d
}

func seedPatient(t *testing.T, db *gorm.DB, name string) model.Patient {
	t.Helper()
	p := model.Patient{PatientName: name}
	require.NoError(t, db.Create(&p).Error)
	return p
}

type SignupCreds struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// signupUser registers creds and fails the test unless the server answers 200.
func signupUser(t *testing.T, r http.Handler, creds SignupCreds) {
	t.Helper()
	w, resp := performRequest(t, r, requestSpec{
		method: http.MethodPost,
		path:   "/signup",
		body: map[string]string{
			"name":     creds.Name,
			"email":    creds.Email,
			"password": creds.Password,
			"role":     creds.Role,
		},
	})
	require.Equal(t, http.StatusOK, w.Code, "signup %s: %s", creds.Email, resp.Msg)
}

// CreateAndLoginUser signs up and logs in a user, returning the login payload.
func CreateAndLoginUser(t *testing.T, r http.Handler, creds SignupCreds) endpoint.LoginResponse {
	t.Helper()
	signupUser(t, r, creds)

	w, resp := performRequest(t, r, requestSpec{
		method: http.MethodPost,
		path:   "/login",
		body:   map[string]string{"email": creds.Email, "password": creds.Password},
	})
	require.Equal(t, http.StatusOK, w.Code, "login %s: %s", creds.Email, resp.Msg)

	var data endpoint.LoginResponse
	decodeData(t, resp, &data)
	require.NotEmpty(t, data.Token)
	return data
}
