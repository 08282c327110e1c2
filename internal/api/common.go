// Package api holds the HTTP handlers for the marketplace surface. Handlers
// parse and respond; all lifecycle semantics live in the lifecycle manager.
package api

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emprendia/emprendia/internal/authz"
	"github.com/emprendia/emprendia/internal/domain"
	"github.com/emprendia/emprendia/internal/lifecycle"
	"github.com/emprendia/emprendia/internal/repository"
	"github.com/emprendia/emprendia/internal/webserver"
)

// Init registers every route. Call after webserver.Init.
func Init() {
	registerAuthRoutes()
	registerProductRoutes()
	registerServiceRoutes()
	registerFavoriteRoutes()
}

func GetDB(c echo.Context) *gorm.DB {
	return webserver.AppCtx().DB().WithContext(c.Request().Context())
}

// GetActor returns the authenticated actor set by the token middleware.
func GetActor(c echo.Context) (domain.Actor, error) {
	actor, ok := c.Get(webserver.ContextKeyActor).(domain.Actor)
	if !ok {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return actor, nil
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"success": false,
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

func paged(c echo.Context, rows interface{}, total int64, page, perPage int) error {
	lastPage := int(total) / perPage
	if int(total)%perPage != 0 || lastPage == 0 {
		lastPage++
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    rows,
		"meta": map[string]interface{}{
			"page":      page,
			"per_page":  perPage,
			"total":     total,
			"last_page": lastPage,
		},
	})
}

// handleError maps domain errors onto the response taxonomy. Anything
// unmapped is a logged 500.
func handleError(c echo.Context, err error) error {
	if fe, isValidation := lifecycle.AsFieldErrors(err); isValidation {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"success": false,
			"code":    "VALIDATION_FAILED",
			"message": "the given data was invalid",
			"errors":  fe,
		})
	}
	switch {
	case errors.Is(err, authz.ErrForbidden):
		return fail(c, http.StatusForbidden, "FORBIDDEN", "you do not own this resource", nil)
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	}
	zap.L().Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	// Internal error text leaks operational detail; expose it in debug only.
	var detail interface{}
	if webserver.AppCtx().Config().System.Debug {
		detail = err.Error()
	}
	return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", detail)
}

func parseIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func parsePagination(c echo.Context) (page, perPage int) {
	page = cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	perPage = cast.ToInt(c.QueryParam("per_page"))
	if perPage < 1 {
		perPage = repository.DefaultPageSize
	}
	if perPage > repository.MaxPageSize {
		perPage = repository.MaxPageSize
	}
	return page, perPage
}

// buildPublicQuery parses the shared listing filters.
func buildPublicQuery(c echo.Context) repository.PublicQuery {
	q := repository.PublicQuery{
		Search:    strings.TrimSpace(c.QueryParam("search")),
		Category:  strings.TrimSpace(c.QueryParam("category")),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
	if v := c.QueryParam("min_price"); v != "" {
		p := cast.ToFloat64(v)
		q.MinPrice = &p
	}
	if v := c.QueryParam("max_price"); v != "" {
		p := cast.ToFloat64(v)
		q.MaxPrice = &p
	}
	if v := c.QueryParam("entrepreneur_id"); v != "" {
		q.EntrepreneurID = cast.ToInt64(v)
	}
	if v := c.QueryParam("min_stock"); v != "" {
		s := cast.ToInt(v)
		q.MinStock = &s
	} else if cast.ToBool(c.QueryParam("in_stock")) {
		one := 1
		q.MinStock = &one
	}
	if v := c.QueryParam("featured"); v != "" {
		f := cast.ToBool(v)
		q.Featured = &f
	}
	q.Page, q.PerPage = parsePagination(c)
	return q
}

// maxUploadBytes bounds the in-memory copy of one multipart file. The store
// enforces the configured limit; this only guards the read itself.
const maxUploadBytes = 8 << 20

func readUpload(fh *multipart.FileHeader) (*lifecycle.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return nil, err
	}
	return &lifecycle.Upload{
		Data: data,
		Mime: fh.Header.Get("Content-Type"),
		Name: fh.Filename,
	}, nil
}

// formUpload returns the single file sent under field, nil when absent.
func formUpload(c echo.Context, field string) (*lifecycle.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return readUpload(fh)
}

// formUploads returns every file sent under field, in submission order. A
// nil result means the field was absent entirely.
func formUploads(c echo.Context, field string) ([]lifecycle.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	headers := form.File[field]
	if headers == nil {
		headers = form.File[field+"[]"]
	}
	if headers == nil {
		return nil, nil
	}
	uploads := make([]lifecycle.Upload, 0, len(headers))
	for _, fh := range headers {
		u, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, *u)
	}
	return uploads, nil
}

// loadOwners batch-loads the entrepreneurs behind a set of resources for
// eager owner embedding in public views.
func loadOwners(c echo.Context, ids []int64) map[int64]*domain.Entrepreneur {
	owners := make(map[int64]*domain.Entrepreneur)
	if len(ids) == 0 {
		return owners
	}
	var rows []domain.Entrepreneur
	if err := GetDB(c).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		zap.L().Error("owner batch load failed", zap.Error(err))
		return owners
	}
	for i := range rows {
		owners[rows[i].ID] = &rows[i]
	}
	return owners
}
