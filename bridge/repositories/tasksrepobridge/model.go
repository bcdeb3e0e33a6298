package tasksrepobridge

import (
	"errors"

	"github.com/jrazmi/todokeeper/bridge/scaffolding/errs"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo"
)

// TaskList is the body of the overdue listing.
type TaskList struct {
	Tasks []tasksrepo.Task `json:"tasks"`
}

// toAppError maps core errors onto their HTTP shape. Unrecognized errors
// stay internal so the error middleware hides them.
func toAppError(err error) *errs.Error {
	var verr *tasksrepo.ValidationError
	switch {
	case errors.As(err, &verr):
		return errs.Newf(errs.InvalidArgument, "Validation failed").WithDetails(verr.Messages...)
	case errors.Is(err, tasksrepo.ErrTaskNotFound):
		return errs.Newf(errs.NotFound, "Task not found")
	case errors.Is(err, tasksrepo.ErrConstraint):
		return errs.Newf(errs.InvalidArgument, "Data validation failed").WithDetails("Data violates a storage constraint")
	default:
		return errs.New(errs.Internal, err)
	}
}
