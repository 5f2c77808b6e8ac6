package middleware

import (
	"errors"

	"document-storage-server/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func ErrorHandler(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Execute the handler first

		// detect any errors
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			var apiErr *apperr.APIError

			// If it's a raw error we didn't wrap, treat as Internal
			if !errors.As(err, &apiErr) {
				apiErr = apperr.Internal(err)
			}

			ev := log.Info()
			if apiErr.Status >= 500 {
				ev = log.Error()
			}
			ev.Err(apiErr.Internal).
				Int("status", apiErr.Status).
				Str("path", c.Request.URL.Path).
				Msg(apiErr.Message)

			// Respond with JSON
			c.AbortWithStatusJSON(apiErr.Status, apiErr)
		}
	}
}
