package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/services/schoolapi"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errTokenExpired = echo.NewHTTPError(http.StatusUnauthorized, "token has expired")
	errSuperseded   = echo.NewHTTPError(http.StatusConflict, "superseded by a newer request")
	errCanceled     = echo.NewHTTPError(http.StatusServiceUnavailable, "request canceled")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch {
		case errors.Is(err, dashboard.ErrStale):
			err = errSuperseded
		case errors.Is(err, context.Canceled):
			err = errCanceled
		}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = core.TranslateErrors(origErr, translator)
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *schoolapi.Error:
			code = upstreamStatus(origErr)
			message = origErr.Message
			if origErr.Kind == schoolapi.KindNetwork || origErr.Kind == schoolapi.KindUnknown {
				logger.Error(origErr.Message, errors.WithStack(origErr), contextIdentity(ctx), echo.Map{
					"upstream": origErr.Method + " " + origErr.Path,
				})
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			logger.Error(msg, errors.Wrap(err, msg), contextIdentity(ctx))
		}

		if ctx.Echo().Debug && code >= http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// upstreamStatus maps a records backend failure to the status answered to our own caller.
func upstreamStatus(err *schoolapi.Error) int {
	switch err.Kind {
	case schoolapi.KindUnauthorized:
		return http.StatusUnauthorized
	case schoolapi.KindServer:
		if err.Status >= 400 && err.Status < 500 {
			return err.Status
		}
		return http.StatusBadGateway
	case schoolapi.KindNetwork:
		return http.StatusBadGateway
	case schoolapi.KindCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
