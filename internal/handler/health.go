package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness probes with a bare 200 "ok".  It deliberately
// skips the database and Redis so a degraded dependency does not take the
// whole service out of rotation.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
