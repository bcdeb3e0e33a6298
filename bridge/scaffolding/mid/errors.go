package mid

import (
	"context"
	"net/http"
	"path"

	"github.com/jrazmi/todokeeper/bridge/scaffolding/errs"
	"github.com/jrazmi/todokeeper/infrastructure/web"
	"github.com/jrazmi/todokeeper/sdk/logger"
)

const internalMessage = "Internal server error"

// Errors handles errors coming out of the call chain. Anything that is not
// an *errs.Error is treated as internal. Internal messages are replaced by a
// generic one unless debug is set.
func Errors(log *logger.Logger, debug bool) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			resp := next(ctx, r)
			err := isError(resp)
			if err == nil {
				return resp
			}

			appErr := errs.GetError(err)
			if appErr == nil {
				appErr = errs.New(errs.Internal, err)
			}

			if appErr.HTTPStatus() < http.StatusInternalServerError {
				log.WarnContext(ctx, "request rejected",
					"err", err,
					"status", appErr.HTTPStatus())
				return appErr
			}

			log.ErrorContext(ctx, "handled error during request",
				"err", err,
				"source_err_file", path.Base(appErr.FileName),
				"source_err_func", path.Base(appErr.FuncName))

			if appErr.Code == errs.InternalOnlyLog || !debug {
				return errs.Newf(errs.Internal, internalMessage)
			}

			return appErr
		}
	}
}
