package middleware

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/florist/internal/common/errors"
	commonHttp "github.com/Alturino/florist/internal/common/http"
	"github.com/Alturino/florist/internal/log"
	"github.com/Alturino/florist/internal/otel"
)

func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, span := otel.Tracer.Start(r.Context(), "middleware RecoverPanic")
		defer span.End()

		logger := zerolog.Ctx(c).With().Str(log.KeyTag, "middleware RecoverPanic").Logger()
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			err, ok := recovered.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", recovered)
			}
			logger.Error().Err(err).Stack().Msg("recovered from panic")
			commonErrors.HandleError(err, span)
			commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusInternalServerError,
				"message":    "Internal Server Error",
			})
		}()

		next.ServeHTTP(w, r.WithContext(c))
	})
}
