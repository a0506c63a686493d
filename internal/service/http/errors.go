package httpsvc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
)

// ErrorResponse — тело ответа с ошибкой.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Issues []IssueEntry `json:"issues,omitempty"`
}

// IssueEntry — нарушение ограничения конкретного поля.
type IssueEntry struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// requestError — ошибка разбора запроса (тело, query-параметры).
type requestError struct {
	msg string
	err error
}

func (e *requestError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *requestError) Unwrap() error { return e.err }

func badRequest(msg string, err error) error {
	return &requestError{msg: msg, err: err}
}

// handlerFunc — обработчик, который возвращает ошибку вместо записи ответа.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// forward перехватывает ошибки и паники обработчика и передаёт их в WriteError.
func forward(logger *log.Entry, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("panic: %v", rec)
				logger.WithError(err).WithField("path", r.URL.Path).Error("handler panicked")
				WriteError(w, err)
			}
		}()

		if err := h(w, r); err != nil {
			status, _ := toHTTPResponse(err)
			entry := logger.WithError(err).WithFields(log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"status": status,
			})
			if status >= http.StatusInternalServerError {
				entry.Error("request failed")
			} else {
				entry.Debug("request rejected")
			}
			WriteError(w, err)
		}
	}
}

// toHTTPResponse отображает ошибку на статус и тело ответа.
func toHTTPResponse(err error) (int, ErrorResponse) {
	var (
		verr *domain.ValidationError
		rerr *requestError
	)
	switch {
	case errors.As(err, &verr):
		issues := make([]IssueEntry, 0, len(verr.Issues))
		for _, issue := range verr.Issues {
			issues = append(issues, IssueEntry{Field: issue.Field, Message: issue.Err.Error()})
		}
		return http.StatusBadRequest, ErrorResponse{Error: "validation failed", Issues: issues}
	case errors.As(err, &rerr):
		return http.StatusBadRequest, ErrorResponse{Error: rerr.Error()}
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Product not found"}
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Order not found"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Not found"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
	}
}

// WriteError пишет JSON-ответ с ошибкой.
func WriteError(w http.ResponseWriter, err error) {
	status, body := toHTTPResponse(err)
	WriteSuccess(w, status, body)
}

// WriteSuccess пишет JSON-ответ.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
