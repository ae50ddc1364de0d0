package servehttp

import (
	"errors"
	"net/http"

	"testhub/common"
	"testhub/domain"
	"testhub/domain/run"
	"testhub/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterTestRunsHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/test-runs", middleWares...)

	handler := &testRunsHandler{validator: validator.New()}
	g.POST("", handler.handleStart)
	g.GET("", handler.handleQuery)
	g.POST(":id/completion", handler.handleComplete)
	g.DELETE(":id", handler.handleDiscard)
}

type testRunsHandler struct {
	validator *validator.Validate
}

func (h *testRunsHandler) handleStart(c *gin.Context) {
	starting := domain.TestRunStarting{}
	if err := c.ShouldBindBodyWith(&starting, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(&starting); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	started, err := run.StartRunFunc(&starting, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, started)
}

func (h *testRunsHandler) handleQuery(c *gin.Context) {
	query := domain.TestRunQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(&query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	runs, err := run.QueryRuns(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, runs)
}

func (h *testRunsHandler) handleComplete(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	completion := domain.TestRunCompletion{}
	if err := c.ShouldBindBodyWith(&completion, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(&completion); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	completed, err := run.CompleteRunFunc(id, &completion, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, completed)
}

func (h *testRunsHandler) handleDiscard(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	if err := run.DiscardRunFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}
