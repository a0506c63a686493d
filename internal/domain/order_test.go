package domain_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
)

// helper для создания корректных полей заказа.
func makeOrderFields() domain.OrderFields {
	return domain.OrderFields{
		BuyerEmail: "a@b.com",
		Products:   []string{"p1", "p2"},
	}
}

func TestOrderFieldsValidate_Ok(t *testing.T) {
	fields := makeOrderFields()
	if err := fields.Validate(); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

func TestOrderFieldsValidate_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(f *domain.OrderFields)
		want error
	}{
		{
			name: "no buyer email",
			mut:  func(f *domain.OrderFields) { f.BuyerEmail = "  " },
			want: domain.ErrBuyerEmailRequired,
		},
		{
			name: "no products",
			mut:  func(f *domain.OrderFields) { f.Products = nil },
			want: domain.ErrProductsRequired,
		},
		{
			name: "blank product id",
			mut:  func(f *domain.OrderFields) { f.Products = []string{"p1", ""} },
			want: domain.ErrProductIDInvalid,
		},
		{
			name: "unknown status",
			mut:  func(f *domain.OrderFields) { f.Status = "SHIPPED" },
			want: domain.ErrStatusInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := makeOrderFields()
			tc.mut(&fields)

			err := fields.Validate()
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v inside %v", tc.want, err)
			}
		})
	}
}

func TestOrderFieldsBuild_DefaultsStatus(t *testing.T) {
	order := makeOrderFields().Build("order-1")
	if order.Status != domain.OrderStatusCreated {
		t.Fatalf("expected status %s, got %s", domain.OrderStatusCreated, order.Status)
	}

	fields := makeOrderFields()
	fields.Status = domain.OrderStatusPending
	if got := fields.Build("order-2").Status; got != domain.OrderStatusPending {
		t.Fatalf("explicit status must be kept, got %s", got)
	}
}

func TestOrderChange_ApplyOnlyGivenFields(t *testing.T) {
	order := makeOrderFields().Build("order-1")
	completed := domain.OrderStatusCompleted

	change := domain.OrderChange{Status: &completed}
	if err := change.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	change.Apply(&order)

	if order.Status != domain.OrderStatusCompleted {
		t.Fatalf("status not applied: %s", order.Status)
	}
	if order.BuyerEmail != "a@b.com" || len(order.Products) != 2 {
		t.Fatalf("untouched fields changed: %+v", order)
	}
}

func TestOrderChange_AnyTransitionAllowed(t *testing.T) {
	created := domain.OrderStatusCreated
	order := makeOrderFields().Build("order-1")
	order.Status = domain.OrderStatusCompleted

	change := domain.OrderChange{Status: &created}
	if err := change.Validate(); err != nil {
		t.Fatalf("backward transition must be accepted, got %v", err)
	}
}

func TestOrderChange_ValidateErrors(t *testing.T) {
	empty := []string{}
	bad := domain.OrderStatus("LOST")
	blank := ""

	cases := map[string]domain.OrderChange{
		"empty products": {Products: &empty},
		"bad status":     {Status: &bad},
		"blank email":    {BuyerEmail: &blank},
	}
	for name, change := range cases {
		t.Run(name, func(t *testing.T) {
			if err := change.Validate(); !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestOrderStatusValid(t *testing.T) {
	tests := []struct {
		status domain.OrderStatus
		want   bool
	}{
		{domain.OrderStatusCreated, true},
		{domain.OrderStatusPending, true},
		{domain.OrderStatusCompleted, true},
		{"created", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := tc.status.Valid(); got != tc.want {
			t.Fatalf("status %q valid=%v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestOrderValues(t *testing.T) {
	order := makeOrderFields().Build("order-1")
	if got := order.Values(domain.OrderFieldStatus); len(got) != 1 || got[0] != "CREATED" {
		t.Fatalf("unexpected status values: %v", got)
	}
	if got := order.Values(domain.OrderFieldProducts); len(got) != 2 {
		t.Fatalf("unexpected products values: %v", got)
	}
}
