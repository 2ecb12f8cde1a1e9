package order

import (
	"strings"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethodComplimentary marks an order given away at no charge
const PaymentMethodComplimentary = "complimentary"

// FulfillmentType is how the order reaches the customer
type FulfillmentType string

const (
	FulfillmentPickup   FulfillmentType = "pickup"
	FulfillmentDelivery FulfillmentType = "delivery"
)

// IsValid checks if the fulfillment type is known
func (f FulfillmentType) IsValid() bool {
	return f == FulfillmentPickup || f == FulfillmentDelivery
}

// DateField names the order date used to filter and bucket reports
type DateField string

const (
	DateFieldDue         DateField = "dueDate"
	DateFieldPayment     DateField = "paymentDate"
	DateFieldPreparation DateField = "preparationDate"
)

// IsValid checks if the date field is one an order carries
func (d DateField) IsValid() bool {
	switch d {
	case DateFieldDue, DateFieldPayment, DateFieldPreparation:
		return true
	}
	return false
}

// String returns the string representation
func (d DateField) String() string {
	return string(d)
}

// OrderInput carries the raw fields of an order
type OrderInput struct {
	ID              string
	BakeryID        string
	CustomerID      string
	Items           []LineItem
	FulfillmentType FulfillmentType
	DeliveryFee     valueobject.Money
	DeliveryCost    valueobject.Money
	PaymentMethod   string
	DiscountType    DiscountType
	DiscountValue   decimal.Decimal
	IsPaid          bool
	DueDate         *time.Time
	PaymentDate     *time.Time
	PreparationDate *time.Time
}

// Order is an immutable snapshot of a customer order used for reporting
type Order struct {
	ID              string
	BakeryID        string
	CustomerID      string
	Items           []LineItem
	FulfillmentType FulfillmentType
	DeliveryFee     valueobject.Money
	DeliveryCost    valueobject.Money
	PaymentMethod   string
	DiscountType    DiscountType
	DiscountValue   decimal.Decimal
	IsPaid          bool
	DueDate         *time.Time
	PaymentDate     *time.Time
	PreparationDate *time.Time
}

// NewOrder validates the input and creates an order.
// Discount configuration is not validated here; Totals ignores what it cannot apply.
func NewOrder(in OrderInput) (Order, error) {
	if in.ID == "" {
		return Order{}, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if in.BakeryID == "" {
		return Order{}, shared.ErrInvalidBakery
	}
	fulfillment := in.FulfillmentType
	if fulfillment == "" {
		fulfillment = FulfillmentPickup
	}
	if !fulfillment.IsValid() {
		return Order{}, shared.NewDomainError("INVALID_FULFILLMENT", "Fulfillment type must be pickup or delivery")
	}
	if in.DeliveryFee.IsNegative() {
		return Order{}, shared.NewDomainError("INVALID_DELIVERY_FEE", "Delivery fee cannot be negative")
	}
	if in.DeliveryCost.IsNegative() {
		return Order{}, shared.NewDomainError("INVALID_DELIVERY_COST", "Delivery cost cannot be negative")
	}

	items := make([]LineItem, len(in.Items))
	copy(items, in.Items)

	return Order{
		ID:              in.ID,
		BakeryID:        in.BakeryID,
		CustomerID:      in.CustomerID,
		Items:           items,
		FulfillmentType: fulfillment,
		DeliveryFee:     in.DeliveryFee,
		DeliveryCost:    in.DeliveryCost,
		PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
		DiscountType:    in.DiscountType,
		DiscountValue:   in.DiscountValue,
		IsPaid:          in.IsPaid,
		DueDate:         in.DueDate,
		PaymentDate:     in.PaymentDate,
		PreparationDate: in.PreparationDate,
	}, nil
}

// IsComplimentary reports whether the whole order was given away
func (o Order) IsComplimentary() bool {
	return o.PaymentMethod == PaymentMethodComplimentary
}

// IsDelivery reports whether the order is delivered
func (o Order) IsDelivery() bool {
	return o.FulfillmentType == FulfillmentDelivery
}

// Date returns the value of the given date field, nil when unset or unknown
func (o Order) Date(field DateField) *time.Time {
	switch field {
	case DateFieldDue:
		return o.DueDate
	case DateFieldPayment:
		return o.PaymentDate
	case DateFieldPreparation:
		return o.PreparationDate
	}
	return nil
}

