package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/shellhunt/pkg/logger"
)

// WrapKind annotates err with an operation and a sentinel kind so
// callers can classify with errors.Is while keeping the cause.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// Fixed fault copy. Internal details never reach the client; they go to
// the log instead.
const serverErrorMessage = "Server error. Please try again later."

// writeBadRequest logs the rejected input at debug and reports a 400
// with fixed copy. The cause stays out of the response body.
func writeBadRequest(w http.ResponseWriter, op, message string, err error) {
	logger.Get().Debug(context.Background(), "request rejected",
		logger.String("op", op),
		logger.Error(WrapKind(op, ErrBadRequest, err)),
	)
	writeError(w, http.StatusBadRequest, message)
}

// writeServerError logs the cause and reports a generic 500 body.
func writeServerError(w http.ResponseWriter, op string, err error) {
	logger.Get().Error(context.Background(), "request failed",
		logger.String("op", op),
		logger.Error(WrapKind(op, ErrInternal, err)),
	)
	writeError(w, http.StatusInternalServerError, serverErrorMessage)
}
