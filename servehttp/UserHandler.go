package servehttp

import (
	"net/http"

	"testhub/account"
	"testhub/common"
	"testhub/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	UpdateBasicAuthSecretFunc = account.UpdateBasicAuthSecret
)

func RegisterUsersHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	// sign-up carries no session
	r.POST("/v1/users", HandleCreateUser)

	u := r.Group("/v1/session-users", middleWares...)
	u.PUT("basic-auths", HandleUpdateBasicAuth)
}

type userHandler struct {
	validator *validator.Validate
}

var usersHandler = &userHandler{validator: validator.New()}

func HandleCreateUser(c *gin.Context) {
	creation := account.UserCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := usersHandler.validator.Struct(&creation); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	info, err := account.CreateUserFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, info)
}

func HandleUpdateBasicAuth(c *gin.Context) {
	payload := account.BasicAuthUpdating{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := usersHandler.validator.Struct(&payload); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	if err := UpdateBasicAuthSecretFunc(&payload, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}
