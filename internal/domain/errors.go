package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound — общий признак отсутствующей записи.
	ErrNotFound = errors.New("not found")
	// ErrProductNotFound возвращается, если товар не найден в хранилище.
	ErrProductNotFound = &notFoundError{entity: "product"}
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = &notFoundError{entity: "order"}
	// ErrAlreadyExists сигнализирует о коллизии идентификатора при вставке.
	ErrAlreadyExists = errors.New("record already exists")

	// Ошибки валидации полей.
	ErrBuyerEmailRequired = errors.New("buyerEmail is required")
	ErrProductsRequired   = errors.New("order must reference at least one product")
	ErrProductIDInvalid   = errors.New("product id must be a non-empty string")
	ErrStatusInvalid      = errors.New("status must be one of CREATED, PENDING, COMPLETED")
	ErrProductNameMissing = errors.New("name is required")
	ErrPriceNegative      = errors.New("price must be non-negative")
	ErrOffsetNegative     = errors.New("offset must be non-negative")
	ErrLimitNegative      = errors.New("limit must be non-negative")
)

type notFoundError struct {
	entity string
}

func (e *notFoundError) Error() string {
	return e.entity + " not found"
}

// Is позволяет сравнивать конкретные ошибки с общим ErrNotFound.
func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// FieldIssue описывает одно нарушение ограничения поля.
type FieldIssue struct {
	Field string `json:"field"`
	Err   error  `json:"-"`
}

// ValidationError собирает все нарушения, найденные при проверке входных данных.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Err.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap отдаёт исходные ошибки полей для errors.Is.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Issues))
	for _, issue := range e.Issues {
		errs = append(errs, issue.Err)
	}
	return errs
}

func (e *ValidationError) add(field string, err error) {
	e.Issues = append(e.Issues, FieldIssue{Field: field, Err: err})
}

// orNil возвращает nil, если замечаний нет, чтобы не получить typed-nil в error.
func (e *ValidationError) orNil() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}

// IsNotFound проверяет, означает ли ошибка отсутствие записи.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation проверяет, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
