package servehttp

import (
	"errors"
	"net/http"

	"testhub/common"
	"testhub/domain"
	"testhub/domain/testcase"
	"testhub/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterTestCasesHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/test-cases", middleWares...)

	handler := &testCasesHandler{validator: validator.New()}
	g.POST("", handler.handleCreate)
	g.GET("", handler.handleQuery)
	g.GET(":id", handler.handleDetail)
	g.PUT(":id", handler.handleUpdate)
	g.PUT(":id/debug", handler.handleUpdateDebug)
	g.DELETE(":id", handler.handleDelete)
}

type testCasesHandler struct {
	validator *validator.Validate
}

type debugUpdating struct {
	Debug *bool `json:"debug" validate:"required"`
}

func (h *testCasesHandler) handleCreate(c *gin.Context) {
	creation := domain.TestCaseCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(&creation); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	detail, err := testcase.CreateTestCaseFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *testCasesHandler) handleQuery(c *gin.Context) {
	query := domain.TestCaseQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(&query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	testCases, err := testcase.QueryTestCases(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, testCases)
}

func (h *testCasesHandler) handleDetail(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	detail, err := testcase.DetailTestCaseFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func (h *testCasesHandler) handleUpdate(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	updating := domain.TestCaseUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(&updating); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	updated, err := testcase.UpdateTestCase(id, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updated)
}

func (h *testCasesHandler) handleUpdateDebug(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	updating := debugUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(&updating); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	if err := testcase.UpdateTestCaseDebug(id, *updating.Debug, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}

func (h *testCasesHandler) handleDelete(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	if err := testcase.DeleteTestCase(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}
