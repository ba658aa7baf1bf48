package storeapi

import (
	"strings"

	"github.com/avignatattva/storefront/internal/webserver"
	"github.com/labstack/echo/v4"
)

func registerBlogRoutes() {
	webserver.ApiGET("/blog", listBlog)
	webserver.ApiGET("/blog/:id", getBlogPost)
}

func listBlog(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("category"))
	q := strings.TrimSpace(c.QueryParam("q"))
	page, err := appCtx(c).Storefront().Blog(c.Request().Context(), category, q)
	if err != nil {
		return catalogFail(c, err, "blog posts")
	}
	return ok(c, page)
}

func getBlogPost(c echo.Context) error {
	p, err := appCtx(c).Storefront().BlogPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return catalogFail(c, err, "Post")
	}
	return ok(c, p)
}
