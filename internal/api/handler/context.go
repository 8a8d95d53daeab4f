package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ledgerbook/finance-tracker/internal/api/middleware"
	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

// currentUser returns the user resolved by the Session middleware. Handlers
// on private routes also sit behind RequireUser, so a miss here means the
// route was wired without it; fail closed anyway.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	return user, nil
}

// pathID parses the :id parameter. A non-numeric id names nothing that can
// exist, so it is a 404 rather than a 400.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}
