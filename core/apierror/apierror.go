/*Package apierror defines the closed error taxonomy of the jobster API.

Repositories and middleware raise one of the five kinds below; the route
layer translates each kind into an HTTP status and writes the uniform
{"error":{"status","message"}} envelope. An unclassified error collapses
to a generic server error, the underlying cause is only logged.
*/
package apierror

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/jobster/jobster/core/logger"
)

// Kind discriminates the closed set of API failure classes.
type Kind int

// all failure classes
const (
	KindNotFound Kind = iota + 1
	KindDuplicate
	KindInvalidParameters
	KindUnauthorized
	KindServer
)

// messages shared across the route layer
const (
	MessageUnauthorized = "Unauthorized"
	MessageServerError  = "Server error occured."
	MessageInvalidJobID = "Please provide a valid job ID."
)

// Error is a typed API failure. The status is presentation detail; the
// kind is what callers discriminate on.
type Error struct {
	Kind    Kind
	Message string
	status  int
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// Status returns the HTTP status for this error.
func (e *Error) Status() int {
	if e.status != 0 {
		return e.status
	}
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	case KindInvalidParameters:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// NotFound returns a typed not-found failure.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Duplicate returns a typed uniqueness-violation failure.
func Duplicate(message string) *Error {
	return &Error{Kind: KindDuplicate, Message: message}
}

// InvalidParameters returns a typed invalid-parameters failure.
func InvalidParameters(message string) *Error {
	return &Error{Kind: KindInvalidParameters, Message: message}
}

// InvalidJobID returns the invalid-parameters failure for a non-numeric
// job id. It responds with 422 instead of the generic 400.
func InvalidJobID() *Error {
	return &Error{Kind: KindInvalidParameters, Message: MessageInvalidJobID, status: http.StatusUnprocessableEntity}
}

// Unauthorized returns the uniform unauthorized failure. The message is
// always the same so callers cannot probe which check failed.
func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Message: MessageUnauthorized}
}

// Server wraps an unclassified error. The cause never reaches the
// response body.
func Server(cause error) *Error {
	return &Error{Kind: KindServer, Message: MessageServerError, cause: cause}
}

// From returns err as *Error, wrapping unclassified errors as server
// errors.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Server(err)
}

// IsKind reports whether err is a typed failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

type envelope struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// Write translates err into its HTTP status and writes the error
// envelope. Server-error causes are logged with the request logger.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	e := From(err)
	if e.Kind == KindServer {
		rlog := logger.FromContext(r.Context())
		rlog.WithError(e.cause).Errorln("server error on", r.Method, r.URL.Path)
	}
	var body envelope
	body.Error.Status = e.Status()
	body.Error.Message = e.Message
	jsonData, _ := json.Marshal(body)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Status())
	w.Write(jsonData)
}
