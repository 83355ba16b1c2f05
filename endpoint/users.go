package endpoint

import (
	"github.com/ariebrainware/monorec/middleware"
	"github.com/ariebrainware/monorec/util"
	"github.com/gin-gonic/gin"
)

// CurrentUserResponse is the caller's identity as seen by the service.
type CurrentUserResponse struct {
	Authenticated bool     `json:"authenticated" example:"true"`
	Message       string   `json:"message,omitempty" example:"Not signed in"`
	UserID        string   `json:"userId,omitempty" example:"5b0e6f0e-3c38-4a53-9a58-1f0f3c8d1a11"`
	Email         string   `json:"email,omitempty" example:"doctor@monorec.com"`
	Name          string   `json:"name,omitempty" example:"Dr. X"`
	Roles         []string `json:"roles,omitempty" example:"Doctor"`
}

// CurrentUser godoc
// @Summary      Current user profile
// @Description  Anonymous callers get authenticated=false instead of an error
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=CurrentUserResponse} "Current user"
// @Router       /api/users/me [get]
func CurrentUser(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		util.CallSuccessOK(c, util.APISuccessParams{
			Msg: "Anonymous",
			Data: CurrentUserResponse{
				Authenticated: false,
				Message:       "Not signed in",
			},
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Current user",
		Data: CurrentUserResponse{
			Authenticated: true,
			UserID:        principal.Subject,
			Email:         principal.Email,
			Name:          principal.Name,
			Roles:         principal.RoleList(),
		},
	})
}
