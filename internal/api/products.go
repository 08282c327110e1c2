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

func registerProductRoutes() {
	webserver.PubGET("/products", listProducts)
	webserver.PubGET("/products/popular", listPopularProducts)
	webserver.PubGET("/products/featured", listFeaturedProducts)
	webserver.PubGET("/products/:id", getProduct)
	webserver.PubGET("/products/:id/related", listRelatedProducts)

	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
	webserver.ApiPATCH("/products/:id/toggle-status", toggleProductStatus)
	webserver.ApiPATCH("/products/:id/toggle-featured", toggleProductFeatured)
	webserver.ApiGET("/my/products", listMyProducts)
}

// productViews projects rows into public views with owners eagerly loaded.
func productViews(c echo.Context, rows []domain.Product) []presenter.ProductView {
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
	views := make([]presenter.ProductView, 0, len(rows))
	for i := range rows {
		views = append(views, presenter.PublicProduct(&rows[i], owners[rows[i].EntrepreneurID], urls, now))
	}
	return views
}

func listProducts(c echo.Context) error {
	q := buildPublicQuery(c)
	q.Status = domain.StatusActive
	rows, total, err := webserver.AppCtx().Products().ListPublic(c.Request().Context(), q)
	if err != nil {
		return handleError(c, err)
	}
	page, perPage := q.Page, q.PerPage
	return paged(c, productViews(c, rows), total, page, perPage)
}

func listPopularProducts(c echo.Context) error {
	q := buildPublicQuery(c)
	q.Status = domain.StatusActive
	q.SortBy = "sales"
	q.SortOrder = "desc"
	one := 1
	q.MinStock = &one
	if c.QueryParam("per_page") == "" {
		q.PerPage = 10
	}
	rows, total, err := webserver.AppCtx().Products().ListPublic(c.Request().Context(), q)
	if err != nil {
		return handleError(c, err)
	}
	return paged(c, productViews(c, rows), total, q.Page, q.PerPage)
}

func listFeaturedProducts(c echo.Context) error {
	q := buildPublicQuery(c)
	q.Status = domain.StatusActive
	featured := true
	q.Featured = &featured
	one := 1
	q.MinStock = &one
	if c.QueryParam("per_page") == "" {
		q.PerPage = 8
	}
	rows, total, err := webserver.AppCtx().Products().ListPublic(c.Request().Context(), q)
	if err != nil {
		return handleError(c, err)
	}
	return paged(c, productViews(c, rows), total, q.Page, q.PerPage)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	p, err := webserver.AppCtx().Products().FindByID(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err)
	}

	// View counting happens off the request path.
	webserver.AppCtx().Bus().Publish(lifecycle.TopicProductViewed, p.ID)

	var owner *domain.Entrepreneur
	if o, err := webserver.AppCtx().Actors().FindEntrepreneurByID(c.Request().Context(), p.EntrepreneurID); err == nil {
		owner = o
	}
	return ok(c, presenter.PublicProduct(p, owner, webserver.AppCtx().MediaStore(), time.Now()))
}

func listRelatedProducts(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	p, err := webserver.AppCtx().Products().FindByID(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err)
	}
	// Related means more from the same seller that can actually be bought.
	q := buildPublicQuery(c)
	q.Status = domain.StatusActive
	q.EntrepreneurID = p.EntrepreneurID
	q.ExcludeID = p.ID
	one := 1
	q.MinStock = &one
	if c.QueryParam("per_page") == "" {
		q.PerPage = 6
	}
	rows, total, err := webserver.AppCtx().Products().ListPublic(c.Request().Context(), q)
	if err != nil {
		return handleError(c, err)
	}
	return paged(c, productViews(c, rows), total, q.Page, q.PerPage)
}

// bindProductInput parses the multipart create form.
func bindProductInput(c echo.Context) (lifecycle.ProductInput, error) {
	in := lifecycle.ProductInput{
		Name:           c.FormValue("name"),
		Category:       c.FormValue("category"),
		Description:    c.FormValue("description"),
		Price:          cast.ToFloat64(c.FormValue("price")),
		Stock:          cast.ToInt(c.FormValue("stock")),
		EntrepreneurID: cast.ToInt64(c.FormValue("entrepreneur_id")),
	}
	main, err := formUpload(c, "main_image")
	if err != nil {
		return in, err
	}
	in.MainImage = main
	gallery, err := formUploads(c, "gallery_images")
	if err != nil {
		return in, err
	}
	in.Gallery = gallery
	return in, nil
}

func createProduct(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	in, err := bindProductInput(c)
	if err != nil {
		return handleError(c, err)
	}
	p, err := webserver.AppCtx().Lifecycle().CreateProduct(c.Request().Context(), actor, in)
	if err != nil {
		return handleError(c, err)
	}
	return created(c, presenter.PublicProduct(p, nil, webserver.AppCtx().MediaStore(), time.Now()))
}

// bindProductPatch parses the multipart update form. Only submitted fields
// are patched; absent ones stay untouched.
func bindProductPatch(c echo.Context) (lifecycle.ProductPatch, error) {
	var patch lifecycle.ProductPatch
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		has := func(field string) (string, bool) {
			vals, ok := form.Value[field]
			if !ok || len(vals) == 0 {
				return "", false
			}
			return vals[0], true
		}
		if v, ok := has("name"); ok {
			patch.Name = &v
		}
		if v, ok := has("category"); ok {
			patch.Category = &v
		}
		if v, ok := has("description"); ok {
			patch.Description = &v
		}
		if v, ok := has("price"); ok {
			p := cast.ToFloat64(v)
			patch.Price = &p
		}
		if v, ok := has("stock"); ok {
			s := cast.ToInt(v)
			patch.Stock = &s
		}
		if v, ok := has("status"); ok {
			patch.Status = &v
		}
		if v, ok := has("discount_percentage"); ok {
			d := cast.ToFloat64(v)
			patch.DiscountPercentage = &d
		}
	}
	main, err := formUpload(c, "main_image")
	if err != nil {
		return patch, err
	}
	patch.MainImage = main
	gallery, err := formUploads(c, "gallery_images")
	if err != nil {
		return patch, err
	}
	patch.Gallery = gallery
	return patch, nil
}

func updateProduct(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	patch, err := bindProductPatch(c)
	if err != nil {
		return handleError(c, err)
	}
	p, err := webserver.AppCtx().Lifecycle().UpdateProduct(c.Request().Context(), actor, id, patch)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, presenter.PublicProduct(p, nil, webserver.AppCtx().MediaStore(), time.Now()))
}

func deleteProduct(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := webserver.AppCtx().Lifecycle().DeleteProduct(c.Request().Context(), actor, id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"deleted": true})
}

func toggleProductStatus(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	p, err := webserver.AppCtx().Lifecycle().ToggleProductStatus(c.Request().Context(), actor, id)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, presenter.PublicProduct(p, nil, webserver.AppCtx().MediaStore(), time.Now()))
}

func toggleProductFeatured(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	p, err := webserver.AppCtx().Lifecycle().ToggleProductFeatured(c.Request().Context(), actor, id)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, presenter.PublicProduct(p, nil, webserver.AppCtx().MediaStore(), time.Now()))
}

// listMyProducts returns the acting entrepreneur's own products, drafts and
// inactive ones included.
func listMyProducts(c echo.Context) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}
	rows, err := webserver.AppCtx().Products().ListByOwner(c.Request().Context(), actor.ID)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, productViews(c, rows))
}
