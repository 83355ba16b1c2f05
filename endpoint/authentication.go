package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ariebrainware/monorec/config"
	"github.com/ariebrainware/monorec/middleware"
	"github.com/ariebrainware/monorec/model"
	"github.com/ariebrainware/monorec/repository"
	"github.com/ariebrainware/monorec/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"doctor@monorec.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type LoginResponse struct {
	Token     string                  `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	UserID    string                  `json:"userId" example:"5b0e6f0e-3c38-4a53-9a58-1f0f3c8d1a11"`
	Email     string                  `json:"email" example:"doctor@monorec.com"`
	Name      string                  `json:"name" example:"Dr. X"`
	Roles     []string                `json:"roles" example:"Doctor"`
	ExpiresAt time.Time               `json:"expiresAt"`
	Linked    []repository.LinkResult `json:"linked"`
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with email and password. On success the token is returned and set
// @Description  as the monorec_token cookie, and the caller's Doctor/Patient records are linked.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid credentials or account locked"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /login [post]
func Login(c *gin.Context) {
	var req LoginRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	ci := clientInfo{IP: c.ClientIP(), Agent: c.Request.UserAgent()}
	ctx := loginContext{C: c, DB: db, Email: req.Email, CI: ci}

	user, ok := loadUserForLogin(ctx)
	if !ok {
		return
	}

	if !ensureAccountNotLocked(ctx, &user) {
		return
	}

	if !verifyPasswordOrRespond(ctx, &user, req.Password) {
		return
	}

	finalizeLogin(ctx, &user)
}

type clientInfo struct {
	IP    string
	Agent string
}

type loginContext struct {
	C     *gin.Context
	DB    *gorm.DB
	Email string
	CI    clientInfo
}

func loadUserForLogin(ctx loginContext) (model.User, bool) {
	user, err := loadUserByEmail(ctx.DB, ctx.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "user not found")
		util.CallUserError(ctx.C, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("user not found")})
		return model.User{}, false
	}
	if err != nil {
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "database error")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Database error", Err: err})
		return model.User{}, false
	}
	return user, true
}

func ensureAccountNotLocked(ctx loginContext, user *model.User) bool {
	if locked, expiry := isAccountLocked(user); locked {
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "account locked")
		util.CallUserError(ctx.C, util.APIErrorParams{
			Msg: fmt.Sprintf("Account is locked until %s due to multiple failed login attempts", expiry.Format(time.RFC3339)),
			Err: fmt.Errorf("account locked"),
		})
		return false
	}
	return true
}

func verifyPasswordOrRespond(ctx loginContext, user *model.User, plain string) bool {
	match, err := util.VerifyPassword(plain, user.Password, user.PasswordSalt)
	if err != nil {
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "password verification error")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Password verification failed", Err: err})
		return false
	}
	if !match {
		incrementFailedAttempts(ctx.DB, user, ctx.CI)
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "invalid password")
		util.CallUserError(ctx.C, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("invalid password")})
		return false
	}
	return true
}

func finalizeLogin(ctx loginContext, user *model.User) {
	if err := resetFailedAttempts(ctx.DB, user); err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventSuspiciousActivity,
			UserID:    user.ID,
			Email:     user.Email,
			IP:        ctx.CI.IP,
			Message:   fmt.Sprintf("Failed to reset failed attempts: %v", err),
		})
	}

	cfg := config.LoadConfig()
	ttl := time.Duration(cfg.TokenTTLMinutes) * time.Minute
	roles := user.RoleNames()

	tokenString, claims, err := util.IssueAccessToken(util.TokenRequest{
		Subject: user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Roles:   roles,
		TTL:     ttl,
	})
	if err != nil {
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "token generation failed")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	session := model.Session{
		SessionID: claims.ID,
		UserID:    user.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		ClientIP:  ctx.CI.IP,
		Browser:   ctx.CI.Agent,
	}
	if err := ctx.DB.Create(&session).Error; err != nil {
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "session creation failed")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Failed to record session", Err: err})
		return
	}

	// Redis is a cache in front of the sessions table, so a failed write is only logged.
	if err := util.StoreSession(ctx.C.Request.Context(), claims.ID, user.ID, time.Until(session.ExpiresAt)); err != nil {
		l := util.Logger()
		l.Warn().Err(err).Str("user_id", user.ID).Msg("failed to cache session in redis")
	}

	if config.GetRedisClient() != nil {
		if err := middleware.ResetRateLimit(ctx.C.Request.Context(), ctx.CI.IP, ctx.C.FullPath()); err != nil {
			l := util.Logger()
			l.Warn().Err(err).Str("ip", ctx.CI.IP).Msg("failed to reset login rate limit")
		}
	}

	linked := linkDirectoryRecords(ctx, user, roles)

	setTokenCookie(ctx.C, tokenString, int(time.Until(session.ExpiresAt).Seconds()), cfg.IsProduction())
	util.LogLoginSuccess(user.ID, user.Email, ctx.CI.IP, ctx.CI.Agent)
	util.CallSuccessOK(ctx.C, util.APISuccessParams{
		Msg: "Login successful",
		Data: LoginResponse{
			Token:     tokenString,
			UserID:    user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Roles:     roles,
			ExpiresAt: session.ExpiresAt,
			Linked:    linked,
		},
	})
}

// linkDirectoryRecords runs first-login linking for every role the user holds.
// A failure is logged and does not fail the login.
func linkDirectoryRecords(ctx loginContext, user *model.User, roles []string) []repository.LinkResult {
	linker := repository.NewDirectoryLinker(ctx.DB,
		repository.WithAutoAssociations(config.LoadConfig().AutoAssociations))
	identity := repository.Identity{UserID: user.ID, Name: user.Name, Email: user.Email}

	linked := make([]repository.LinkResult, 0, len(roles))
	for _, role := range roles {
		if !model.IsKnownRole(role) {
			continue
		}
		res, err := linker.Link(ctx.C.Request.Context(), identity, role)
		if err != nil {
			l := util.Logger()
			l.Error().Err(err).Str("user_id", user.ID).Str("role", role).Msg("first-login linking failed")
			continue
		}
		linked = append(linked, res)
	}
	return linked
}

func setTokenCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, token, maxAge, "/", "", secure, true)
}

func loadUserByEmail(db *gorm.DB, email string) (model.User, error) {
	var user model.User
	err := db.Preload("Roles").Where("email = ?", email).First(&user).Error
	return user, err
}

func isAccountLocked(user *model.User) (bool, time.Time) {
	if user.LockedUntil != nil && *user.LockedUntil > time.Now().Unix() {
		return true, time.Unix(*user.LockedUntil, 0)
	}
	return false, time.Time{}
}

func incrementFailedAttempts(db *gorm.DB, user *model.User, ci clientInfo) {
	user.FailedAttempts++
	updates := map[string]interface{}{"failed_attempts": user.FailedAttempts}
	if user.FailedAttempts >= maxFailedAttempts {
		lockUntil := time.Now().Add(lockoutDuration).Unix()
		user.LockedUntil = &lockUntil
		updates["locked_until"] = lockUntil
		util.LogAccountLocked(user.ID, user.Email, ci.IP, "too many failed login attempts")
	}
	if err := db.Model(&model.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		util.LogLoginFailure(user.Email, ci.IP, ci.Agent, "failed to update failed attempts")
	}
}

func resetFailedAttempts(db *gorm.DB, user *model.User) error {
	if user.FailedAttempts == 0 && user.LockedUntil == nil {
		return nil
	}
	user.FailedAttempts = 0
	user.LockedUntil = nil
	return db.Model(&model.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{"failed_attempts": 0, "locked_until": nil}).Error
}

// Logout godoc
// @Summary      User logout
// @Description  Revoke the current session. With all=true every session of the caller is revoked.
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Param        all query bool false "Revoke every session of the caller"
// @Success      200 {object} util.APIResponse "Logout successful"
// @Failure      400 {object} util.APIResponse "Invalid all value"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /logout [delete]
func Logout(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Authentication required", Err: fmt.Errorf("no principal")})
		return
	}

	all := false
	if raw := c.Query("all"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid all value", Err: err})
			return
		}
		all = v
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	// The cache is revoked first: a cached session authenticates without a
	// database check, so the row must not go while the cache entry lives.
	ctx := c.Request.Context()
	var cacheErr error
	if all {
		cacheErr = util.InvalidateUserSessions(ctx, principal.Subject)
	} else {
		cacheErr = util.RevokeSession(ctx, principal.SessionID, principal.Subject)
	}
	if cacheErr != nil {
		l := util.Logger()
		l.Error().Err(cacheErr).Str("user_id", principal.Subject).Msg("failed to revoke session in redis")
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to revoke session", Err: cacheErr})
		return
	}

	query := db.Where("user_id = ?", principal.Subject)
	if !all {
		query = query.Where("session_id = ?", principal.SessionID)
	}
	if err := query.Delete(&model.Session{}).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete session", Err: err})
		return
	}

	setTokenCookie(c, "", -1, config.LoadConfig().IsProduction())
	util.LogLogout(principal.Subject, principal.Email, c.ClientIP(), c.Request.UserAgent())
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Logout successful"})
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required" example:"Dr. X"`
	Email    string `json:"email" binding:"required,email,emaildomain" example:"doctor@monorec.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
	Role     string `json:"role" binding:"required,oneof=Doctor Patient" example:"Doctor"`
}

// Signup godoc
// @Summary      User signup
// @Description  Register a new account with one role, Doctor or Patient.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup details"
// @Success      200 {object} util.APIResponse{data=model.User} "Signup successful"
// @Failure      400 {object} util.APIResponse "Invalid request or email already exists"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /signup [post]
func Signup(c *gin.Context) {
	var req SignupRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	if !ensureEmailAvailable(c, db, req.Email) {
		return
	}

	var role model.Role
	if err := db.Where("name = ?", req.Role).First(&role).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Role not available", Err: err})
		return
	}

	hashedPassword, salt, ok := hashPasswordForSignup(c, req.Password)
	if !ok {
		return
	}

	newUser := model.User{
		Name:         util.NormalizeName(req.Name),
		Email:        req.Email,
		Password:     hashedPassword,
		PasswordSalt: salt,
		Roles:        []model.Role{role},
	}

	if err := db.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.CallUserError(c, util.APIErrorParams{Msg: "Email already exists", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create new user", Err: err})
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventSignupSuccess,
		UserID:    newUser.ID,
		Email:     newUser.Email,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   "User signed up successfully",
	})

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Signup successful", Data: newUser})
}

func ensureEmailAvailable(c *gin.Context, db *gorm.DB, email string) bool {
	var existing model.User
	err := db.Select("id").Where("email = ?", email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true
	}
	if err == nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Email already exists", Err: fmt.Errorf("email already exists")})
		return false
	}
	util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
	return false
}

func hashPasswordForSignup(c *gin.Context, plain string) (string, string, bool) {
	salt, err := util.GenerateSalt()
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to generate password salt", Err: err})
		return "", "", false
	}
	hashedPassword, err := util.HashPasswordArgon2(plain, salt)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to hash password", Err: err})
		return "", "", false
	}
	return hashedPassword, salt, true
}
