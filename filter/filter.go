// Package filter maps errors (errorsx's hard kinds in particular) onto
// diag.Issue values and, for the httpserver, onto JSON error bodies
// with the right status code. Soft ResolvedBindings misses are not
// errors and are not handled here. Filters form a flat,
// ordered chain of ExceptionFilter values tried in registration order.
package filter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bindgraph/diag"
	"bindgraph/errorsx"
)

// HttpException pairs a status code with a message, the shape every
// ExceptionFilter is expected to translate an error into before it
// reaches an HTTP response.
type HttpException struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	ErrorType  string      `json:"error,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *HttpException) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.ErrorType, e.Message)
}

// NewHttpException constructs an HttpException, deriving ErrorType
// from the standard library's status text table.
func NewHttpException(statusCode int, message string, details ...interface{}) *HttpException {
	var d interface{}
	if len(details) > 0 {
		d = details[0]
	}
	return &HttpException{StatusCode: statusCode, Message: message, ErrorType: http.StatusText(statusCode), Details: d}
}

// ExceptionFilter translates one class of error into an HttpException.
type ExceptionFilter interface {
	CanHandle(err error) bool
	Catch(err error) *HttpException
}

// ErrorsxFilter maps errorsx's two hard error kinds onto HTTP status
// codes: NotYetAvailableError is retryable (503), InternalError is a
// programmer-bug invariant violation (500).
type ErrorsxFilter struct{}

func (ErrorsxFilter) CanHandle(err error) bool {
	var notYet *errorsx.NotYetAvailableError
	var internal *errorsx.InternalError
	return errors.As(err, &notYet) || errors.As(err, &internal)
}

func (ErrorsxFilter) Catch(err error) *HttpException {
	var notYet *errorsx.NotYetAvailableError
	if errors.As(err, &notYet) {
		return NewHttpException(http.StatusServiceUnavailable, notYet.Error())
	}
	var internal *errorsx.InternalError
	if errors.As(err, &internal) {
		return NewHttpException(http.StatusInternalServerError, internal.Error())
	}
	return NewHttpException(http.StatusInternalServerError, err.Error())
}

// Manager runs a chain of ExceptionFilters in registration order,
// falling back to a generic 500 if none can handle the error.
type Manager struct {
	filters []ExceptionFilter
}

// NewManager creates a Manager pre-seeded with ErrorsxFilter, the way
// every httpserver route is expected to be protected regardless of
// what else is registered.
func NewManager() *Manager {
	return &Manager{filters: []ExceptionFilter{ErrorsxFilter{}}}
}

// Register appends a filter to the chain.
func (m *Manager) Register(f ExceptionFilter) {
	m.filters = append(m.filters, f)
}

// Translate runs err through the registered filters in order and
// returns the first HttpException produced.
func (m *Manager) Translate(err error) *HttpException {
	for _, f := range m.filters {
		if f.CanHandle(err) {
			return f.Catch(err)
		}
	}
	return NewHttpException(http.StatusInternalServerError, "Internal Server Error")
}

// IssueFromError converts err into a diag.Issue for collection
// alongside the soft (non-error) diagnostics the resolver/graph
// packages already produce as data.
func IssueFromError(anchor string, err error) diag.Issue {
	return diag.Issue{Severity: diag.SeverityError, Anchor: anchor, Message: err.Error()}
}

// GinHandler returns a gin middleware that recovers panics and
// converts any error attached to the gin.Context into a JSON
// HttpException response via Translate.
func (m *Manager) GinHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				exc := m.Translate(err)
				c.JSON(exc.StatusCode, exc)
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			exc := m.Translate(c.Errors.Last().Err)
			c.JSON(exc.StatusCode, exc)
		}
	}
}
