// Package webserver owns the echo instance, the bearer-token middleware,
// and the route registration helpers used by the api handler files.
package webserver

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/emprendia/emprendia/internal/app"
	"github.com/emprendia/emprendia/internal/domain"
)

const apiPrefix = "/api/v1"

// Context keys set by the middleware chain.
const (
	ContextKeyActor   = "actor"
	ContextKeyTokenID = "token_id"
)

var server *WebServer

type WebServer struct {
	root   *echo.Echo
	appCtx app.AppContext
	public *echo.Group
	authed *echo.Group
}

// Init builds the global web server. Route registration helpers are usable
// after this call.
func Init(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = newValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("32M"))

	cfg := appCtx.Config()
	// Uploaded media is served straight from the store root.
	e.Static(cfg.Media.BaseURL, appCtx.MediaStore().Root())

	s := &WebServer{
		root:   e,
		appCtx: appCtx,
		public: e.Group(apiPrefix),
	}

	authed := e.Group(apiPrefix)
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.JwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(TokenClaims)
		},
	}))
	authed.Use(s.resolveActor)
	s.authed = authed

	server = s
	return s
}

// resolveActor turns verified JWT claims into a domain.Actor, rejecting
// tokens whose revocable row is gone or expired. The role comes from the
// actor row, not the claims, so role changes take effect immediately.
func (s *WebServer) resolveActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := ClaimsFrom(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		ctx := c.Request().Context()
		tokens := s.appCtx.Tokens()
		row, err := tokens.FindByID(ctx, claims.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
		}
		if row.Expired(timeNow()) {
			return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
		}

		actors := s.appCtx.Actors()
		var actor domain.Actor
		switch claims.Kind {
		case domain.ActorKindEntrepreneur:
			e, err := actors.FindEntrepreneurByID(ctx, row.ActorID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown actor")
			}
			actor = e.Actor()
		case domain.ActorKindUser:
			u, err := actors.FindUserByID(ctx, row.ActorID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown actor")
			}
			actor = u.Actor()
		default:
			return echo.NewHTTPError(http.StatusUnauthorized, "unknown actor kind")
		}

		if err := tokens.TouchLastUsed(ctx, row.ID); err != nil {
			zap.L().Warn("token touch failed", zap.Error(err))
		}
		c.Set(ContextKeyActor, actor)
		c.Set(ContextKeyTokenID, row.ID)
		return next(c)
	}
}

// Listen blocks serving HTTP until the listener fails.
func Listen() error {
	cfg := server.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	return server.root.Start(addr)
}

// Root exposes the echo instance for tests.
func Root() *echo.Echo {
	return server.root
}

// AppCtx returns the application context behind the server.
func AppCtx() app.AppContext {
	return server.appCtx
}

// Public route helpers.

func PubGET(path string, h echo.HandlerFunc)  { server.public.GET(path, h) }
func PubPOST(path string, h echo.HandlerFunc) { server.public.POST(path, h) }

// Authenticated route helpers.

func ApiGET(path string, h echo.HandlerFunc)    { server.authed.GET(path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { server.authed.POST(path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { server.authed.PUT(path, h) }
func ApiPATCH(path string, h echo.HandlerFunc)  { server.authed.PATCH(path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { server.authed.DELETE(path, h) }
