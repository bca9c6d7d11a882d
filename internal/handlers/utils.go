package handlers

import (
	"fmt"
	"strconv"

	"finance-app/internal/dto"

	"github.com/labstack/echo/v4"
)

const defaultPageLimit = 100

func getIntParam(c echo.Context, name string, defaultValue int) int {
	param := c.QueryParam(name)
	if param == "" {
		return defaultValue
	}

	var value int
	if _, err := fmt.Sscanf(param, "%d", &value); err != nil {
		return defaultValue
	}

	return value
}

// getPagination reads offset/limit, accepting skip as an alias of offset.
// Range clamping is left to the services.
func getPagination(c echo.Context) dto.PaginationParams {
	return dto.PaginationParams{
		Offset: getIntParam(c, "offset", getIntParam(c, "skip", 0)),
		Limit:  getIntParam(c, "limit", defaultPageLimit),
	}
}

// parseIDParam parses a positive numeric path parameter
func parseIDParam(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return uint(id), nil
}
