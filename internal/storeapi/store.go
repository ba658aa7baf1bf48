package storeapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/avignatattva/storefront/internal/storefront"
	"github.com/avignatattva/storefront/internal/webserver"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func registerStoreRoutes() {
	webserver.ApiGET("/store", searchStore)
	webserver.ApiGET("/store/current", currentStore)
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiGET("/therapies", listTherapies)
	webserver.ApiGET("/therapies/:id", getTherapy)
	webserver.ApiGET("/consultation", getConsultation)
}

// searchStore runs the visitor's store search. A search overtaken by a newer
// one still answers its own request but does not become the displayed state.
func searchStore(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	cartStore, err := visitorCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Unable to start session", err.Error())
	}
	view := appCtx(c).Views().Get(cartStore.ID())
	page, err := view.Search(c.Request().Context(), q)
	if errors.Is(err, storefront.ErrSuperseded) {
		return ok(c, page)
	}
	if err != nil {
		zap.L().Warn("store search failed", zap.String("query", q), zap.Error(err))
		return catalogFail(c, err, "the store")
	}
	return ok(c, page)
}

func currentStore(c echo.Context) error {
	cartStore, err := visitorCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Unable to start session", err.Error())
	}
	return ok(c, appCtx(c).Views().Get(cartStore.ID()).Current())
}

func listProducts(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	rows, err := appCtx(c).Gateway().GetProducts(c.Request().Context(), q)
	if err != nil {
		return catalogFail(c, err, "products")
	}
	return ok(c, rows)
}

func getProduct(c echo.Context) error {
	p, err := appCtx(c).Storefront().Product(c.Request().Context(), c.Param("id"))
	if err != nil {
		return catalogFail(c, err, "Product")
	}
	return ok(c, p)
}

func listTherapies(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	rows, err := appCtx(c).Gateway().GetTherapies(c.Request().Context(), q)
	if err != nil {
		return catalogFail(c, err, "therapies")
	}
	return ok(c, rows)
}

func getTherapy(c echo.Context) error {
	t, err := appCtx(c).Storefront().Therapy(c.Request().Context(), c.Param("id"))
	if err != nil {
		return catalogFail(c, err, "Therapy")
	}
	return ok(c, t)
}

func getConsultation(c echo.Context) error {
	page, err := appCtx(c).Storefront().Consultation(c.Request().Context())
	if err != nil {
		return catalogFail(c, err, "consultation services")
	}
	return ok(c, page)
}
