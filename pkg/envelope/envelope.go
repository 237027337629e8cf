// Package envelope implements the uniform {success, message, ...} JSON
// response contract. Domain failures are reported inside the envelope with
// HTTP 200; real HTTP status codes are reserved for transport-level
// problems (authentication, rate limiting, panics).
package envelope

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// M is a convenience alias for envelope payloads.
type M map[string]interface{}

// OK writes a success envelope. Extra payload keys are merged at the top
// level next to "success" and "message".
func OK(c echo.Context, message string, data M) error {
	body := M{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range data {
		body[k] = v
	}
	return c.JSON(http.StatusOK, body)
}

// Fail writes a failure envelope. Business errors intentionally ride on
// HTTP 200 to preserve the client contract.
func Fail(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, M{
		"success": false,
		"message": message,
	})
}
