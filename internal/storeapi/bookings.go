package storeapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/avignatattva/storefront/internal/catalog"
	"github.com/avignatattva/storefront/internal/webserver"
	"github.com/labstack/echo/v4"
)

type bookingPayload struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Details string `json:"details" validate:"max=5000"`
}

func registerBookingRoutes() {
	webserver.ApiPOST("/bookings", createBooking)
}

func createBooking(c echo.Context) error {
	var payload bookingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse booking", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name and a valid email are required", err.Error())
	}

	booking := catalog.NewBooking(payload.Name, payload.Email, strings.TrimSpace(payload.Phone), payload.Details, time.Now())
	if !appCtx(c).Gateway().SubmitBooking(c.Request().Context(), booking) {
		return fail(c, http.StatusBadGateway, "BOOKING_FAILED", "Your request could not be sent. Please try again later.", nil)
	}
	return ok(c, booking)
}
