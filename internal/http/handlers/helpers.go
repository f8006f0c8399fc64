package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/altruvue/fundraiser-backend/internal/http/response"
)

// orgID pulls and validates the :orgID path segment shared by every
// tenant-scoped route. On failure it writes the error response and returns
// false; handlers just bail out.
func orgID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("orgID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_org_id", errors.New("orgID is not a valid uuid"))
		return uuid.Nil, false
	}
	return id, true
}

func pathUUID(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, code, errors.New(name+" is not a valid uuid"))
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func queryBool(c *gin.Context, name string) bool {
	v := c.Query(name)
	return v == "1" || v == "true"
}
