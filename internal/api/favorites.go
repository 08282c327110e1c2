package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/emprendia/emprendia/internal/domain"
	"github.com/emprendia/emprendia/internal/webserver"
)

func registerFavoriteRoutes() {
	webserver.ApiGET("/favorites", listFavorites)
	webserver.ApiPOST("/favorites", addFavorite)
	webserver.ApiDELETE("/favorites", removeFavorite)
}

type favoritePayload struct {
	Kind     string `json:"kind" form:"kind"`
	TargetID string `json:"target_id" form:"target_id"`
}

func bindFavoriteTarget(c echo.Context) (domain.FavoriteTarget, error) {
	var payload favoritePayload
	if err := c.Bind(&payload); err != nil {
		return domain.FavoriteTarget{}, echo.NewHTTPError(http.StatusBadRequest, "unable to parse favorite")
	}
	target := domain.FavoriteTarget{
		Kind:     payload.Kind,
		TargetID: cast.ToInt64(payload.TargetID),
	}
	if !target.Valid() {
		return domain.FavoriteTarget{}, echo.NewHTTPError(http.StatusBadRequest, "kind must be product or service with a target_id")
	}
	return target, nil
}

// resolveTarget verifies the favorited resource exists and is visible.
func resolveTarget(c echo.Context, target domain.FavoriteTarget) error {
	ctx := c.Request().Context()
	if target.Kind == domain.FavoriteProduct {
		_, err := webserver.AppCtx().Products().FindByID(ctx, target.TargetID)
		return err
	}
	_, err := webserver.AppCtx().Services().FindByID(ctx, target.TargetID)
	return err
}

func addFavorite(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	target, err := bindFavoriteTarget(c)
	if err != nil {
		return err
	}
	if err := resolveTarget(c, target); err != nil {
		return handleError(c, err)
	}
	if err := webserver.AppCtx().Favorites().Add(c.Request().Context(), actor.ID, target); err != nil {
		return handleError(c, err)
	}
	return created(c, map[string]interface{}{"favorited": true})
}

func removeFavorite(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	target, err := bindFavoriteTarget(c)
	if err != nil {
		return err
	}
	if err := webserver.AppCtx().Favorites().Remove(c.Request().Context(), actor.ID, target); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"favorited": false})
}

func listFavorites(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	rows, err := webserver.AppCtx().Favorites().ListByUser(c.Request().Context(), actor.ID)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, rows)
}
