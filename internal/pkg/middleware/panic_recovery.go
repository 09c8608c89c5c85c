package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/utils"
)

// PanicRecoveryWithZapMiddleware recovers handler panics, logs the stack and answers 500.
// Register it before every other middleware.
func PanicRecoveryWithZapMiddleware(zapLogger *logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				panicErr, ok := r.(error)
				if !ok {
					panicErr = fmt.Errorf("%v", r)
				}

				userID := "anonymous"
				if uid := c.Get("user_id"); uid != nil {
					userID = fmt.Sprintf("%v", uid)
				}

				zapLogger.Error("Panic recovered",
					logger.Err(panicErr),
					logger.String("method", c.Request().Method),
					logger.String("path", c.Request().URL.Path),
					logger.String("client_ip", c.RealIP()),
					logger.String("user_id", userID),
					logger.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
					logger.String("stack", string(debug.Stack())))

				if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
					txn.NoticeError(panicErr)
				}

				if c.Response().Committed {
					return
				}
				err = utils.InternalServerErrorResponse(c, "")
			}()

			return next(c)
		}
	}
}
