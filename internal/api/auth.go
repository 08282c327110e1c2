package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"
	"golang.org/x/crypto/bcrypt"

	"github.com/emprendia/emprendia/internal/domain"
	"github.com/emprendia/emprendia/internal/lifecycle"
	"github.com/emprendia/emprendia/internal/webserver"
	"github.com/emprendia/emprendia/pkg/common"
)

func registerAuthRoutes() {
	webserver.PubPOST("/auth/register", register)
	webserver.PubPOST("/auth/register/user", registerUser)
	webserver.PubPOST("/auth/register/entrepreneur", registerEntrepreneur)
	webserver.PubPOST("/auth/login", login)

	webserver.ApiGET("/auth/me", me)
	webserver.ApiPOST("/auth/logout", logout)
	webserver.ApiPOST("/auth/logout-all", logoutAll)
}

type registerUserPayload struct {
	Name     string `json:"name" form:"name" validate:"required,max=150"`
	Username string `json:"username" form:"username" validate:"required,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
	Phone    string `json:"phone" form:"phone" validate:"max=20"`
	City     string `json:"city" form:"city" validate:"max=100"`
}

type registerEntrepreneurPayload struct {
	FirstName    string `json:"first_name" form:"first_name" validate:"required,max=100"`
	LastName     string `json:"last_name" form:"last_name" validate:"required,max=100"`
	BusinessName string `json:"business_name" form:"business_name" validate:"required,max=255"`
	BusinessType string `json:"business_type" form:"business_type" validate:"max=100"`
	Email        string `json:"email" form:"email" validate:"required,email,max=255"`
	Password     string `json:"password" form:"password" validate:"required,min=8"`
	Phone        string `json:"phone" form:"phone" validate:"max=20"`
	City         string `json:"city" form:"city" validate:"max=100"`
}

type loginPayload struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	// Kind selects the identity space: "user" (default) or "entrepreneur".
	Kind string `json:"kind" form:"kind"`
}

// validationErrors flattens validator tag failures into the same 422 shape
// the lifecycle validators produce.
func validationErrors(c echo.Context, err error) error {
	fe := lifecycle.FieldErrors{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, v := range verrs {
			fe.Add(v.Field(), "failed the "+v.Tag()+" rule")
		}
	} else {
		fe.Add("payload", "invalid request payload")
	}
	return validationFail(c, fe)
}

func hashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(h), err
}

// issueToken signs a JWT and persists its revocable row.
func issueToken(c echo.Context, actor domain.Actor, name string) (string, time.Time, error) {
	cfg := webserver.AppCtx().Config()
	ttl := time.Duration(cfg.Web.TokenTTLHours) * time.Hour
	tokenID := common.UUID()

	signed, expires, err := webserver.IssueToken(cfg.Web.JwtSecret, tokenID, actor.Kind, actor.Role, actor.ID, ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	row := &domain.AuthToken{
		ID:        tokenID,
		ActorKind: actor.Kind,
		ActorID:   actor.ID,
		Name:      name,
		TokenHash: common.Sha256Hash(signed),
		ExpiresAt: expires,
	}
	if err := webserver.AppCtx().Tokens().Create(c.Request().Context(), row); err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func authResponse(c echo.Context, actor domain.Actor, profile interface{}) error {
	name := c.Request().UserAgent()
	if name == "" {
		name = "token-" + random.String(8)
	}
	token, expires, err := issueToken(c, actor, name)
	if err != nil {
		return handleError(c, err)
	}
	return created(c, map[string]interface{}{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": expires,
		"profile":    profile,
	})
}

// register dispatches on the kind field; the default identity space is user.
func register(c echo.Context) error {
	if c.FormValue("kind") == domain.ActorKindEntrepreneur ||
		c.QueryParam("kind") == domain.ActorKindEntrepreneur {
		return registerEntrepreneur(c)
	}
	return registerUser(c)
}

func registerUser(c echo.Context) error {
	var payload registerUserPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unable to parse registration", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return validationErrors(c, err)
	}
	hashed, err := hashPassword(payload.Password)
	if err != nil {
		return handleError(c, err)
	}
	u := &domain.User{
		Name:     payload.Name,
		Username: payload.Username,
		Email:    payload.Email,
		Password: hashed,
		Phone:    payload.Phone,
		City:     payload.City,
	}
	if err := webserver.AppCtx().Actors().CreateUser(c.Request().Context(), u); err != nil {
		fe := lifecycle.FieldErrors{}
		fe.Add("email", "email or username already taken")
		return validationFail(c, fe)
	}
	return authResponse(c, u.Actor(), u)
}

func registerEntrepreneur(c echo.Context) error {
	var payload registerEntrepreneurPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unable to parse registration", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return validationErrors(c, err)
	}
	hashed, err := hashPassword(payload.Password)
	if err != nil {
		return handleError(c, err)
	}
	e := &domain.Entrepreneur{
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		BusinessName: payload.BusinessName,
		BusinessType: payload.BusinessType,
		Email:        payload.Email,
		Password:     hashed,
		Phone:        payload.Phone,
		City:         payload.City,
	}
	if err := webserver.AppCtx().Actors().CreateEntrepreneur(c.Request().Context(), e); err != nil {
		fe := lifecycle.FieldErrors{}
		fe.Add("email", "email already taken")
		return validationFail(c, fe)
	}
	return authResponse(c, e.Actor(), e)
}

func validationFail(c echo.Context, fe lifecycle.FieldErrors) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
		"success": false,
		"code":    "VALIDATION_FAILED",
		"message": "the given data was invalid",
		"errors":  fe,
	})
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unable to parse login", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return validationErrors(c, err)
	}

	ctx := c.Request().Context()
	actors := webserver.AppCtx().Actors()

	var (
		actor   domain.Actor
		profile interface{}
		stored  string
		status  string
	)
	if payload.Kind == domain.ActorKindEntrepreneur {
		e, err := actors.FindEntrepreneurByEmail(ctx, payload.Email)
		if err != nil {
			return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
		}
		actor, profile, stored, status = e.Actor(), e, e.Password, e.Status
	} else {
		u, err := actors.FindUserByEmail(ctx, payload.Email)
		if err != nil {
			return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
		}
		actor, profile, stored, status = u.Actor(), u, u.Password, u.Status
	}

	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
	}
	if status != common.ENABLED {
		return fail(c, http.StatusForbidden, "ACCOUNT_DISABLED", "account is disabled", nil)
	}
	return authResponse(c, actor, profile)
}

func me(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	actors := webserver.AppCtx().Actors()
	if actor.Kind == domain.ActorKindEntrepreneur {
		e, err := actors.FindEntrepreneurByID(ctx, actor.ID)
		if err != nil {
			return handleError(c, err)
		}
		return ok(c, e)
	}
	u, err := actors.FindUserByID(ctx, actor.ID)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, u)
}

// logout revokes the presented token only.
func logout(c echo.Context) error {
	tokenID, _ := c.Get(webserver.ContextKeyTokenID).(string)
	if tokenID == "" {
		return fail(c, http.StatusUnauthorized, "NOT_AUTHENTICATED", "not authenticated", nil)
	}
	if err := webserver.AppCtx().Tokens().Revoke(c.Request().Context(), tokenID); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"logged_out": true})
}

// logoutAll revokes every token of the acting identity across devices.
func logoutAll(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	if err := webserver.AppCtx().Tokens().RevokeAll(c.Request().Context(), actor.Kind, actor.ID); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"logged_out": true})
}
