package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/emprendia/emprendia/internal/domain"
	"github.com/emprendia/emprendia/internal/lifecycle"
	"github.com/emprendia/emprendia/internal/presenter"
	"github.com/emprendia/emprendia/internal/webserver"
)

// Service routes keep the original Spanish wire contract.
func registerServiceRoutes() {
	webserver.PubGET("/servicios", listServices)
	webserver.PubGET("/servicios/:id", getService)

	webserver.ApiPOST("/servicios", createService)
	webserver.ApiPUT("/servicios/:id", updateService)
	webserver.ApiDELETE("/servicios/:id", deleteService)
	webserver.ApiPATCH("/servicios/:id/toggle-status", toggleServiceStatus)
	webserver.ApiGET("/my/servicios", listMyServices)
}

func serviceViews(c echo.Context, rows []domain.Service) []presenter.ServiceView {
	ids := make([]int64, 0, len(rows))
	seen := map[int64]bool{}
	for i := range rows {
		if !seen[rows[i].EntrepreneurID] {
			seen[rows[i].EntrepreneurID] = true
			ids = append(ids, rows[i].EntrepreneurID)
		}
	}
	owners := loadOwners(c, ids)
	urls := webserver.AppCtx().MediaStore()
	now := time.Now()
	views := make([]presenter.ServiceView, 0, len(rows))
	for i := range rows {
		views = append(views, presenter.PublicService(&rows[i], owners[rows[i].EntrepreneurID], urls, now))
	}
	return views
}

func listServices(c echo.Context) error {
	q := buildPublicQuery(c)
	q.Status = domain.StatusActive
	if v := c.QueryParam("categoria"); v != "" {
		q.Category = v
	}
	rows, total, err := webserver.AppCtx().Services().ListPublic(c.Request().Context(), q)
	if err != nil {
		return handleError(c, err)
	}
	return paged(c, serviceViews(c, rows), total, q.Page, q.PerPage)
}

func getService(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	s, err := webserver.AppCtx().Services().FindByID(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err)
	}
	var owner *domain.Entrepreneur
	if o, err := webserver.AppCtx().Actors().FindEntrepreneurByID(c.Request().Context(), s.EntrepreneurID); err == nil {
		owner = o
	}
	return ok(c, presenter.PublicService(s, owner, webserver.AppCtx().MediaStore(), time.Now()))
}

func bindServiceInput(c echo.Context) (lifecycle.ServiceInput, error) {
	in := lifecycle.ServiceInput{
		Name:           c.FormValue("nombre_servicio"),
		Category:       c.FormValue("categoria"),
		Description:    c.FormValue("descripcion"),
		Address:        c.FormValue("direccion"),
		Phone:          c.FormValue("telefono"),
		BusinessHours:  c.FormValue("horario_atencion"),
		EntrepreneurID: cast.ToInt64(c.FormValue("entrepreneur_id")),
	}
	if v := c.FormValue("precio_base"); v != "" {
		p := cast.ToFloat64(v)
		in.BasePrice = &p
	}
	main, err := formUpload(c, "imagen_principal")
	if err != nil {
		return in, err
	}
	in.MainImage = main
	gallery, err := formUploads(c, "galeria_imagenes")
	if err != nil {
		return in, err
	}
	in.Gallery = gallery
	return in, nil
}

func createService(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	in, err := bindServiceInput(c)
	if err != nil {
		return handleError(c, err)
	}
	s, err := webserver.AppCtx().Lifecycle().CreateService(c.Request().Context(), actor, in)
	if err != nil {
		return handleError(c, err)
	}
	return created(c, presenter.PublicService(s, nil, webserver.AppCtx().MediaStore(), time.Now()))
}

func bindServicePatch(c echo.Context) (lifecycle.ServicePatch, error) {
	var patch lifecycle.ServicePatch
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		has := func(field string) (string, bool) {
			vals, ok := form.Value[field]
			if !ok || len(vals) == 0 {
				return "", false
			}
			return vals[0], true
		}
		if v, ok := has("nombre_servicio"); ok {
			patch.Name = &v
		}
		if v, ok := has("categoria"); ok {
			patch.Category = &v
		}
		if v, ok := has("descripcion"); ok {
			patch.Description = &v
		}
		if v, ok := has("direccion"); ok {
			patch.Address = &v
		}
		if v, ok := has("telefono"); ok {
			patch.Phone = &v
		}
		if v, ok := has("precio_base"); ok {
			p := cast.ToFloat64(v)
			patch.BasePrice = &p
		}
		if v, ok := has("horario_atencion"); ok {
			patch.BusinessHours = &v
		}
		if v, ok := has("status"); ok {
			patch.Status = &v
		}
	}
	main, err := formUpload(c, "imagen_principal")
	if err != nil {
		return patch, err
	}
	patch.MainImage = main
	gallery, err := formUploads(c, "galeria_imagenes")
	if err != nil {
		return patch, err
	}
	patch.Gallery = gallery
	return patch, nil
}

func updateService(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	patch, err := bindServicePatch(c)
	if err != nil {
		return handleError(c, err)
	}
	s, err := webserver.AppCtx().Lifecycle().UpdateService(c.Request().Context(), actor, id, patch)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, presenter.PublicService(s, nil, webserver.AppCtx().MediaStore(), time.Now()))
}

func deleteService(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := webserver.AppCtx().Lifecycle().DeleteService(c.Request().Context(), actor, id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"deleted": true})
}

func toggleServiceStatus(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	s, err := webserver.AppCtx().Lifecycle().ToggleServiceStatus(c.Request().Context(), actor, id)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, presenter.PublicService(s, nil, webserver.AppCtx().MediaStore(), time.Now()))
}

func listMyServices(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	rows, err := webserver.AppCtx().Services().ListByOwner(c.Request().Context(), actor.ID)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, serviceViews(c, rows))
}
