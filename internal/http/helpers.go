package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/avolkov/libtrack/internal/database"
)

// Flash levels, matching the bootstrap alert classes in the templates.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with a 400 error and returns false on bad input.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid %s", paramName)
		return 0, false
	}
	return uint(id), true
}

// parseQueryUint parses an unsigned integer query value.
func parseQueryUint(raw string) (uint, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// formUint parses an optional numeric form value, returning 0 when the
// field is empty or malformed.
func formUint(c *gin.Context, field string) uint {
	v, err := strconv.ParseUint(strings.TrimSpace(c.PostForm(field)), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// formInt parses a numeric form value with a fallback default.
func formInt(c *gin.Context, field string, fallback int) int {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// formOptional returns a trimmed form value as a nullable string, so
// blank inputs land as NULL instead of empty strings.
func formOptional(c *gin.Context, field string) *string {
	v := strings.TrimSpace(c.PostForm(field))
	if v == "" {
		return nil
	}
	return &v
}

// flashError translates a failed operation into a flash message and logs
// it. Busy-database failures get a retryable wording instead of the raw
// driver error.
func flashError(sm *SessionManager, c *gin.Context, err error, fallback string) {
	log.Error().
		Err(err).
		Str("request_id", c.GetString(contextKeyRequestID)).
		Str("path", c.Request.URL.Path).
		Msg("request failed")

	if errors.Is(err, database.ErrStorageBusy) {
		addFlash(sm, c, FlashDanger, "The database is busy, please try again.")
		return
	}
	addFlash(sm, c, FlashDanger, fallback)
}

// render wraps c.HTML, injecting the flash messages and CSRF field every
// page needs.
func render(sm *SessionManager, c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = popFlashes(sm, c)
	data["CSRFField"] = csrfField(c)
	c.HTML(status, name, data)
}
