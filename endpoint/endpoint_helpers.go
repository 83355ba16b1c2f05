package endpoint

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ariebrainware/monorec/middleware"
	"github.com/ariebrainware/monorec/repository"
	"github.com/ariebrainware/monorec/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

// parseIDParam reads a positive integer path parameter, answering 400 otherwise.
func parseIDParam(c *gin.Context, name, label string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Invalid %s ID", label),
			Err: fmt.Errorf("%s id %q is not a positive integer", label, raw),
		})
		return 0, false
	}
	return uint(id), true
}

// respondRepositoryError maps repository errors onto the response envelope.
func respondRepositoryError(c *gin.Context, err error, msg string) {
	params := util.APIErrorParams{Msg: msg, Err: err}
	switch {
	case errors.Is(err, repository.ErrAssociationExists):
		util.CallConflict(c, params)
	case repository.IsNotFound(err):
		util.CallErrorNotFound(c, params)
	case errors.Is(err, repository.ErrInvalidInput):
		util.CallUserError(c, params)
	default:
		l := util.Logger()
		l.Error().Err(err).Str("route", c.FullPath()).Msg(msg)
		util.CallServerError(c, params)
	}
}
