package middleware

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ariebrainware/monorec/model"
	"github.com/ariebrainware/monorec/util"
	"github.com/gin-gonic/gin"
)

const (
	// TokenCookieName is the cookie that carries the access token for browser clients.
	TokenCookieName = "monorec_token"

	principalContextKey = "principal"
	authErrorContextKey = "auth_error"
)

var (
	errNoCredentials  = errors.New("no credentials provided")
	errSessionRevoked = errors.New("session revoked or expired")
	errSessionStore   = errors.New("session store unavailable")
)

// Principal is the authenticated caller, resolved once per request.
type Principal struct {
	Subject   string
	Email     string
	Name      string
	Roles     map[string]struct{}
	SessionID string
	ExpiresAt time.Time
}

// HasRole reports whether the caller holds role.
func (p *Principal) HasRole(role string) bool {
	_, ok := p.Roles[role]
	return ok
}

// HasAnyRole reports whether the caller holds at least one of roles.
func (p *Principal) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}

// RoleList returns the caller's roles in a stable order.
func (p *Principal) RoleList() []string {
	roles := make([]string, 0, len(p.Roles))
	for r := range p.Roles {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

func newPrincipal(claims *util.AccessClaims) *Principal {
	roles := make(map[string]struct{}, len(claims.Roles))
	for _, r := range claims.Roles {
		roles[r] = struct{}{}
	}
	p := &Principal{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Roles:     roles,
		SessionID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p
}

// extractToken reads a bearer token from the Authorization header, falling
// back to the token cookie.
func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(TokenCookieName); err == nil {
		return cookie
	}
	return ""
}

// sessionActive checks that the token's session has not been revoked. Redis
// answers first; the sessions table is consulted on a miss or a Redis error.
func sessionActive(c *gin.Context, claims *util.AccessClaims) (bool, error) {
	ctx := c.Request.Context()
	userID, found, err := util.LookupSession(ctx, claims.ID)
	if err != nil {
		l := util.Logger()
		l.Warn().Err(err).Str("jti", claims.ID).Msg("redis session lookup failed, using database")
	} else if found {
		return userID == claims.Subject, nil
	}

	db := GetDB(c)
	if db == nil {
		return false, errSessionStore
	}
	var count int64
	err = db.Model(&model.Session{}).
		Where("session_id = ? AND user_id = ? AND expires_at > ?", claims.ID, claims.Subject, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: check session: %v", errSessionStore, err)
	}
	return count > 0, nil
}

// Authenticate resolves the caller's Principal from the access token. It
// never rejects a request; RequireAuth and RequireRole do that.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Set(authErrorContextKey, errNoCredentials)
			c.Next()
			return
		}

		claims, err := util.ParseAccessToken(token)
		if err != nil {
			c.Set(authErrorContextKey, err)
			c.Next()
			return
		}

		active, err := sessionActive(c, claims)
		if err != nil {
			c.Set(authErrorContextKey, err)
			c.Next()
			return
		}
		if !active {
			c.Set(authErrorContextKey, errSessionRevoked)
			c.Next()
			return
		}

		c.Set(principalContextKey, newPrincipal(claims))
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, if any.
func GetPrincipal(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalContextKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}

func authFailureReason(c *gin.Context) string {
	if v, ok := c.Get(authErrorContextKey); ok {
		if err, ok := v.(error); ok {
			return err.Error()
		}
	}
	return errNoCredentials.Error()
}

func rejectUnauthenticated(c *gin.Context) {
	reason := authFailureReason(c)
	if v, ok := c.Get(authErrorContextKey); ok {
		if err, ok := v.(error); ok && errors.Is(err, errSessionStore) {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Failed to verify session",
				Err: err,
			})
			c.Abort()
			return
		}
	}
	util.LogUnauthorizedAccess(c.ClientIP(), c.FullPath(), reason)
	util.CallUserNotAuthorized(c, util.APIErrorParams{
		Msg: "Authentication required",
		Err: errors.New(reason),
	})
	c.Abort()
}

// RequireAuth rejects requests without a valid Principal with 401, or 500
// when the session could not be checked.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c); !ok {
			rejectUnauthenticated(c)
			return
		}
		c.Next()
	}
}

// RequireRole rejects anonymous callers with 401 and callers holding none of
// roles with 403. A session store failure answers 500.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			rejectUnauthenticated(c)
			return
		}
		if !p.HasAnyRole(roles...) {
			util.LogForbiddenAccess(p.Subject, p.Email, c.ClientIP(), c.FullPath(), roles)
			util.CallForbidden(c, util.APIErrorParams{
				Msg: "You do not have permission to access this resource",
				Err: fmt.Errorf("requires role %s", strings.Join(roles, " or ")),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
