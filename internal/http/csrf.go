package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const contextKeyCSRFField = "csrf_field"

// CSRFMiddleware creates a Gin middleware for CSRF protection on form
// submissions. Safe methods (GET, HEAD, OPTIONS, TRACE) pass through
// unchecked per the underlying gorilla/csrf implementation.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Stash the hidden input for templates and propagate the
			// CSRF-annotated request to the rest of the chain.
			c.Set(contextKeyCSRFField, csrf.TemplateField(r))
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Form Expired</title></head>
<body style="font-family: system-ui; max-width: 400px; margin: 100px auto; text-align: center;">
<h1>Form Expired</h1>
<p>The form token has expired or is invalid.</p>
<p><a href="javascript:history.back()">Go back and try again</a></p>
</body>
</html>`))
}

// csrfField returns the hidden form field for the current request, or an
// empty string when CSRF protection is disabled.
func csrfField(c *gin.Context) template.HTML {
	if field, exists := c.Get(contextKeyCSRFField); exists {
		if f, ok := field.(template.HTML); ok {
			return f
		}
	}
	return ""
}
