package testinfra

import (
	"context"
	"net/http"
	"net/http/httptest"

	"testhub/domain"
	"testhub/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// BuildSession builds a session for tests, carrying the given org memberships.
func BuildSession(uid types.ID, orgRoles ...domain.OrgRole) *session.Session {
	return &session.Session{
		Token:    "test-token",
		Identity: session.Identity{ID: uid, Name: "user" + uid.String()},
		OrgRoles: orgRoles,
		Context:  context.TODO(),
	}
}

func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, http.Header) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code, w.Body.String(), w.Header()
}
