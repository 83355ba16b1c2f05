package endpoint

import (
	"fmt"
	"time"

	"github.com/ariebrainware/monorec/middleware"
	"github.com/ariebrainware/monorec/util"
	"github.com/gin-gonic/gin"
)

// TokenInfo describes the session behind a valid token.
type TokenInfo struct {
	UserID    string    `json:"userId" example:"5b0e6f0e-3c38-4a53-9a58-1f0f3c8d1a11"`
	Email     string    `json:"email" example:"doctor@monorec.com"`
	Name      string    `json:"name" example:"Dr. X"`
	Roles     []string  `json:"roles" example:"Doctor"`
	SessionID string    `json:"sessionId" example:"0b8f8a36-7d62-4a2e-8d0c-6f0f3b1d8e21"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ValidateToken godoc
// @Summary      Validate access token
// @Description  Report the identity behind a valid, unrevoked token
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=TokenInfo} "Valid token"
// @Failure      401 {object} util.APIResponse "Invalid, expired or revoked token"
// @Router       /token/validate [get]
func ValidateToken(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Invalid token", Err: fmt.Errorf("no principal")})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Valid token",
		Data: TokenInfo{
			UserID:    principal.Subject,
			Email:     principal.Email,
			Name:      principal.Name,
			Roles:     principal.RoleList(),
			SessionID: principal.SessionID,
			ExpiresAt: principal.ExpiresAt,
		},
	})
}
