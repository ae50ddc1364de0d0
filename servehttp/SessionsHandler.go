package servehttp

import (
	"net/http"
	"time"

	"testhub/account"
	"testhub/bizerror"
	"testhub/common"
	"testhub/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var (
	CheckBasicAuthFunc = account.CheckBasicAuth
	LoadOrgRolesFunc   = account.LoadOrgRoles
)

func RegisterSessionsHandler(r *gin.Engine) {
	g := r.Group("/v1/sessions")
	g.POST("", SimpleLoginHandler)
	g.DELETE("", SimpleLogoutHandler)
}

func SimpleLogoutHandler(c *gin.Context) {
	token, _ := c.Cookie(session.KeySecToken) // ErrNoCookie
	if token != "" {
		session.TokenCache.Delete(token)
	}
	c.SetCookie(session.KeySecToken, "", -1, "/", "", false, false)
	c.AbortWithStatus(http.StatusNoContent)
}

func SimpleLoginHandler(c *gin.Context) {
	login := session.LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "common.bad_param", Message: err.Error()})
		return
	}

	user, err := CheckBasicAuthFunc(login.Name, login.Password, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	orgRoles, err := LoadOrgRolesFunc(user.ID)
	if err != nil {
		panic(err)
	}

	token := uuid.New().String()
	s := session.Session{
		Token:       token,
		Identity:    session.Identity{ID: user.ID, Name: user.Name, Nickname: user.Nickname},
		OrgRoles:    orgRoles,
		SigningTime: time.Now(),
	}
	session.TokenCache.Set(token, &s, cache.DefaultExpiration)

	c.SetCookie(session.KeySecToken, token, int(session.TokenExpiration/time.Second), "/", "", false, false)
	c.JSON(http.StatusOK, &s)
}

// DetailSessionHandler refreshes and returns the live session, re-reading the
// holder's memberships so a role change shows up without re-login.
func DetailSessionHandler(c *gin.Context) {
	s := session.ExtractSessionFromGinContext(c)

	now := time.Now()
	ttl := session.TokenExpiration - now.Sub(s.SigningTime)
	if ttl <= 0 {
		panic(bizerror.ErrUnauthenticated)
	}

	orgRoles, err := LoadOrgRolesFunc(s.Identity.ID)
	if err != nil {
		panic(err)
	}
	refreshed := session.Session{Token: s.Token, Identity: s.Identity, OrgRoles: orgRoles, SigningTime: s.SigningTime}
	session.TokenCache.Set(s.Token, &refreshed, ttl)
	c.JSON(http.StatusOK, &refreshed)
}

func RegisterSessionHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/session", middleWares...)
	g.GET("", DetailSessionHandler)
}
