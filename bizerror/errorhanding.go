package bizerror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testhub/common"
	"testhub/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"
)

func ErrorHandling() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handle(c)
		c.Next()
	}
}

func handle(c *gin.Context) {
	if ret := recover(); ret != nil {
		err, ok := ret.(error)
		if !ok {
			err = errors.New(fmt.Sprintf("%s", ret))
		}
		HandleError(c, err)
	} else {
		if err := c.Errors.Last(); err != nil {
			HandleError(c, err)
		}
	}
}

func HandleError(c *gin.Context, err error) {
	common.Log.Error(err)

	genericErr := err
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		genericErr = ginErr.Err
	}

	if bizErr, ok := genericErr.(common.BizError); ok {
		respond := bizErr.Respond()
		c.JSON(respond.Status, &common.ErrorBody{Code: respond.Code, Message: respond.Message, Data: respond.Data})
		c.Abort()
		return
	}

	// bad request: io.EOF (no body).
	if errors.Is(genericErr, io.EOF) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.body_not_found", Message: "body not found"})
		c.Abort()
		return
	}
	// bad request: json syntax Error
	if syntaxErr, ok := genericErr.(*json.SyntaxError); ok {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.invalid_body_format", Message: "invalid body format", Data: syntaxErr.Error()})
		c.Abort()
		return
	}
	// validation failed
	if validationErr, ok := genericErr.(validator.ValidationErrors); ok {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.validation_failed", Message: "validation failed", Data: validationErr.Error()})
		c.Abort()
		return
	}

	if errors.Is(genericErr, ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, &common.ErrorBody{Code: "common.unauthenticated", Message: "unauthenticated"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrNotAMember) {
		c.JSON(http.StatusForbidden, &common.ErrorBody{Code: "security.not_a_member", Message: "not a member of the organization"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrForbidden) {
		c.JSON(http.StatusForbidden, &common.ErrorBody{Code: "security.forbidden", Message: "access forbidden"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrInvalidPassword) {
		c.JSON(http.StatusUnauthorized, &common.ErrorBody{Code: "session.invalid_credential", Message: "invalid credential"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrTooManyAttempts) {
		c.JSON(http.StatusTooManyRequests, &common.ErrorBody{Code: "session.too_many_attempts", Message: "too many attempts"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrInvalidStatus) || errors.Is(genericErr, ErrInvalidDuration) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "run.invalid_status", Message: genericErr.Error()})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrNotActive) {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: "run.not_active", Message: "run is not in progress"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrNotOwner) {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: "run.not_owner", Message: "run belongs to another executor"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrConcurrentUpdate) {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: "common.concurrent_update", Message: "concurrent update conflict, retry later"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrSelfGrant) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "member.self_grant", Message: "can not grant role for self"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrLastOrgManager) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "member.last_manager", Message: "the last manager of an organization can not be removed"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, gorm.ErrRecordNotFound) || errors.Is(genericErr, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, &common.ErrorBody{Code: "common.record_not_found", Message: "record not found"})
		c.Abort()
		return
	}

	c.JSON(http.StatusInternalServerError, &common.ErrorBody{Code: "common.internal_server_error", Message: err.Error()})
	c.Abort()
}
