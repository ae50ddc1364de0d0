package servehttp

import (
	"errors"
	"net/http"

	"testhub/common"
	"testhub/domain"
	"testhub/domain/namespace"
	"testhub/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterOrganizationsHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/organizations", middleWares...)

	handler := &organizationsHandler{validator: validator.New()}
	g.POST("", handler.handleCreate)
	g.GET("", handler.handleQuery)
	g.GET(":orgId/members", handler.handleQueryMembers)
	g.POST(":orgId/members", handler.handleGrantMember)
	g.DELETE(":orgId/members/:memberId", handler.handleRevokeMember)
}

type organizationsHandler struct {
	validator *validator.Validate
}

func (h *organizationsHandler) handleCreate(c *gin.Context) {
	creation := domain.OrganizationCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(&creation); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	org, err := namespace.CreateOrganizationFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, org)
}

func (h *organizationsHandler) handleQuery(c *gin.Context) {
	orgs, err := namespace.QueryOrganizationsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, orgs)
}

func (h *organizationsHandler) handleQueryMembers(c *gin.Context) {
	orgId, err := types.ParseID(c.Param("orgId"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("orgId") + "'")})
	}

	details, err := namespace.QueryOrgMemberDetails(orgId, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, details)
}

func (h *organizationsHandler) handleGrantMember(c *gin.Context) {
	orgId, err := types.ParseID(c.Param("orgId"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("orgId") + "'")})
	}

	grant := domain.OrgMemberGrant{}
	if err := c.ShouldBindBodyWith(&grant, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	grant.OrgID = orgId
	if err := h.validator.Struct(&grant); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	if err := namespace.GrantOrgMember(&grant, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}

func (h *organizationsHandler) handleRevokeMember(c *gin.Context) {
	orgId, err := types.ParseID(c.Param("orgId"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("orgId") + "'")})
	}
	memberId, err := types.ParseID(c.Param("memberId"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("memberId") + "'")})
	}

	deletion := domain.OrgMemberDeletion{OrgID: orgId, MemberID: memberId}
	if err := namespace.RevokeOrgMember(&deletion, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}
