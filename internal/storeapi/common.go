package storeapi

import (
	"errors"
	"net/http"

	"github.com/avignatattva/storefront/internal/app"
	"github.com/avignatattva/storefront/internal/catalog"
	"github.com/avignatattva/storefront/internal/webserver"
	"github.com/labstack/echo/v4"
)

// Response success envelope
type Response struct {
	Code int         `json:"code"`
	Data interface{} `json:"data"`
}

// ErrorResponse failure envelope
type ErrorResponse struct {
	Code   string      `json:"code"`
	Msg    string      `json:"msg"`
	Detail interface{} `json:"detail,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Code: 0, Data: data})
}

func fail(c echo.Context, status int, code, msg string, detail interface{}) error {
	return c.JSON(status, ErrorResponse{Code: code, Msg: msg, Detail: detail})
}

// catalogFail maps gateway errors to responses. Remote failures are 502 so the
// client knows a retry may help.
func catalogFail(c echo.Context, err error, what string) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", what+" not found", nil)
	case catalog.IsTransport(err):
		return fail(c, http.StatusBadGateway, "REMOTE_UNAVAILABLE", "Could not load "+what+", please retry", err.Error())
	case catalog.IsParse(err):
		return fail(c, http.StatusBadGateway, "REMOTE_INVALID", "Could not load "+what+", please retry", err.Error())
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not load "+what, err.Error())
	}
}

func appCtx(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

// Init registers every storefront route on the api group
func Init() {
	registerStoreRoutes()
	registerBlogRoutes()
	registerBookingRoutes()
	registerCartRoutes()
}
