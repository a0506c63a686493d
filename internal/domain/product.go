package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Имена полей товара, по которым допускается фильтрация.
const (
	ProductFieldTags = "tags"
)

// Product — запись каталога. Заказы ссылаются на неё по ID и не владеют ею.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Tags        []string        `json:"tags"`
	Image       string          `json:"image,omitempty"`
}

// Values возвращает значения поля для in-memory вычисления фильтров.
func (p Product) Values(field string) []string {
	switch field {
	case ProductFieldTags:
		return p.Tags
	default:
		return nil
	}
}

// ProductFields — входные данные для создания товара.
type ProductFields struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Tags        []string        `json:"tags"`
	Image       string          `json:"image,omitempty"`
}

// Validate проверяет поля нового товара.
func (f ProductFields) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(f.Name) == "" {
		verr.add("name", ErrProductNameMissing)
	}
	if f.Price.IsNegative() {
		verr.add("price", ErrPriceNegative)
	}
	return verr.orNil()
}

// Build собирает товар с уже выданным идентификатором.
func (f ProductFields) Build(id string) Product {
	return Product{
		ID:          id,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Tags:        cloneStrings(f.Tags),
		Image:       f.Image,
	}
}

// ProductChange — частичное изменение товара. Поля, которых нет в структуре
// (в первую очередь id), изменить нельзя.
type ProductChange struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Tags        *[]string        `json:"tags,omitempty"`
	Image       *string          `json:"image,omitempty"`
}

// Validate проверяет только переданные поля.
func (c ProductChange) Validate() error {
	verr := &ValidationError{}
	if c.Name != nil && strings.TrimSpace(*c.Name) == "" {
		verr.add("name", ErrProductNameMissing)
	}
	if c.Price != nil && c.Price.IsNegative() {
		verr.add("price", ErrPriceNegative)
	}
	return verr.orNil()
}

// Apply перезаписывает переданные поля поверх существующей записи.
func (c ProductChange) Apply(p *Product) {
	if c.Name != nil {
		p.Name = *c.Name
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.Price != nil {
		p.Price = *c.Price
	}
	if c.Tags != nil {
		p.Tags = cloneStrings(*c.Tags)
	}
	if c.Image != nil {
		p.Image = *c.Image
	}
}

// DeletionResult сообщает, была ли запись действительно удалена.
type DeletionResult struct {
	DeletedCount int `json:"deletedCount"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
