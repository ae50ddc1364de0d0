package servehttp

import (
	"errors"
	"net/http"

	"testhub/authority"
	"testhub/common"
	"testhub/domain"
	"testhub/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterPermissionsHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/organizations/:orgId/permissions", middleWares...)

	handler := &permissionsHandler{validator: validator.New()}
	g.GET("", handler.handleQuery)
	g.PUT("", handler.handleUpsert)
}

type permissionsHandler struct {
	validator *validator.Validate
}

func (h *permissionsHandler) handleQuery(c *gin.Context) {
	orgId, err := types.ParseID(c.Param("orgId"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("orgId") + "'")})
	}

	entries, err := authority.QueryPermissionsFunc(orgId, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, entries)
}

func (h *permissionsHandler) handleUpsert(c *gin.Context) {
	orgId, err := types.ParseID(c.Param("orgId"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("orgId") + "'")})
	}

	updating := domain.PermissionEntryUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	updating.OrgID = orgId
	if err := h.validator.Struct(&updating); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	entry, err := authority.UpsertPermissionEntryFunc(&updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, entry)
}
