package tasksrepobridge

import (
	"errors"
	"net/http"

	"github.com/jrazmi/todokeeper/bridge/scaffolding/errs"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo"
	"github.com/jrazmi/todokeeper/infrastructure/web"
)

// taskID returns the raw id path segment. The case layer validates it.
func taskID(r *http.Request) string {
	return web.Param(r, "id")
}

// decodeInput reads a JSON object body. A missing body decodes to an empty
// input so the field rules report what is missing.
func decodeInput(r *http.Request) (tasksrepo.Input, *errs.Error) {
	input := tasksrepo.Input{}

	err := web.Decode(r, &input)
	switch {
	case err == nil, errors.Is(err, web.ErrEmptyBody):
		return input, nil
	case errors.Is(err, web.ErrUnsupportedMedia):
		return nil, errs.Newf(errs.InvalidArgument, "Invalid content type").WithDetails("Content-Type must be application/json")
	case errors.Is(err, web.ErrBodyTooLarge):
		return nil, errs.Newf(errs.InvalidArgument, "Request too large")
	case errors.Is(err, web.ErrInvalidJSON):
		return nil, errs.Newf(errs.InvalidArgument, "Invalid JSON").WithDetails("Request body must be a valid JSON object")
	default:
		return nil, errs.New(errs.Internal, err)
	}
}
