package domain

import "strings"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusCreated — статус по умолчанию для нового заказа.
	OrderStatusCreated OrderStatus = "CREATED"
	// OrderStatusPending — заказ в обработке.
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusCompleted — заказ выполнен.
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

// Имена полей заказа, по которым допускается фильтрация.
const (
	OrderFieldProducts = "products"
	OrderFieldStatus   = "status"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusPending, OrderStatusCompleted:
		return true
	default:
		return false
	}
}

// Order хранит ссылки на товары только по идентификаторам.
type Order struct {
	ID         string      `json:"id"`
	BuyerEmail string      `json:"buyerEmail"`
	Products   []string    `json:"products"`
	Status     OrderStatus `json:"status"`
}

// Values возвращает значения поля для in-memory вычисления фильтров.
func (o Order) Values(field string) []string {
	switch field {
	case OrderFieldProducts:
		return o.Products
	case OrderFieldStatus:
		return []string{string(o.Status)}
	default:
		return nil
	}
}

// ResolvedOrder — заказ с развёрнутыми товарами. Порядок и длина Products
// совпадают с исходным списком ID; ссылка на удалённый товар даёт nil.
type ResolvedOrder struct {
	ID         string      `json:"id"`
	BuyerEmail string      `json:"buyerEmail"`
	Products   []*Product  `json:"products"`
	Status     OrderStatus `json:"status"`
}

// OrderFields — входные данные для создания заказа.
type OrderFields struct {
	BuyerEmail string      `json:"buyerEmail"`
	Products   []string    `json:"products"`
	Status     OrderStatus `json:"status,omitempty"`
}

// Validate проверяет обязательные поля и перечисление статуса.
// Пустой статус допустим: при создании подставится CREATED.
func (f OrderFields) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(f.BuyerEmail) == "" {
		verr.add("buyerEmail", ErrBuyerEmailRequired)
	}
	validateProductIDs(verr, f.Products)
	if f.Status != "" && !f.Status.Valid() {
		verr.add("status", ErrStatusInvalid)
	}
	return verr.orNil()
}

// Build собирает заказ с выданным идентификатором и статусом по умолчанию.
func (f OrderFields) Build(id string) Order {
	status := f.Status
	if status == "" {
		status = OrderStatusCreated
	}
	return Order{
		ID:         id,
		BuyerEmail: f.BuyerEmail,
		Products:   cloneStrings(f.Products),
		Status:     status,
	}
}

// OrderChange — частичное изменение заказа по явному списку полей.
// Переход статуса не проверяется: любое допустимое значение принимается.
type OrderChange struct {
	BuyerEmail *string      `json:"buyerEmail,omitempty"`
	Products   *[]string    `json:"products,omitempty"`
	Status     *OrderStatus `json:"status,omitempty"`
}

// Validate проверяет только переданные поля.
func (c OrderChange) Validate() error {
	verr := &ValidationError{}
	if c.BuyerEmail != nil && strings.TrimSpace(*c.BuyerEmail) == "" {
		verr.add("buyerEmail", ErrBuyerEmailRequired)
	}
	if c.Products != nil {
		validateProductIDs(verr, *c.Products)
	}
	if c.Status != nil && !c.Status.Valid() {
		verr.add("status", ErrStatusInvalid)
	}
	return verr.orNil()
}

// Apply перезаписывает переданные поля поверх существующего заказа.
func (c OrderChange) Apply(o *Order) {
	if c.BuyerEmail != nil {
		o.BuyerEmail = *c.BuyerEmail
	}
	if c.Products != nil {
		o.Products = cloneStrings(*c.Products)
	}
	if c.Status != nil {
		o.Status = *c.Status
	}
}

func validateProductIDs(verr *ValidationError, ids []string) {
	if len(ids) == 0 {
		verr.add("products", ErrProductsRequired)
		return
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			verr.add("products", ErrProductIDInvalid)
			return
		}
	}
}
