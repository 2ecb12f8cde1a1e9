package order

import (
	"github.com/bakery/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var maxDiscountPercentage = decimal.NewFromInt(100)

// DiscountIgnoredReason explains why an order discount resolved to zero
type DiscountIgnoredReason string

const (
	DiscountNoType           DiscountIgnoredReason = "no_discount_type"
	DiscountUnknownType      DiscountIgnoredReason = "unknown_discount_type"
	DiscountNonPositiveValue DiscountIgnoredReason = "non_positive_value"
	DiscountComplimentary    DiscountIgnoredReason = "complimentary"
	DiscountEmptySubtotal    DiscountIgnoredReason = "empty_subtotal"
)

// Discount is the resolved order-level discount.
// IgnoredReason is empty when the discount was applied.
type Discount struct {
	Type          DiscountType
	Value         decimal.Decimal
	Amount        valueobject.Money
	IgnoredReason DiscountIgnoredReason
}

// Totals holds every derived money figure of an order
type Totals struct {
	Subtotal            valueobject.Money
	TaxableSubtotal     valueobject.Money
	NonTaxableSubtotal  valueobject.Money
	TotalTaxAmount      valueobject.Money
	PreTaxTotal         valueobject.Money
	OrderDiscountAmount valueobject.Money
	DeliveryFee         valueobject.Money
	Total               valueobject.Money
	Discount            Discount
}

// Totals folds the line items into order figures.
// Complimentary orders short-circuit to zero before any discount logic runs.
func (o Order) Totals() Totals {
	if o.IsComplimentary() {
		zero := valueobject.Zero()
		return Totals{
			Subtotal:            zero,
			TaxableSubtotal:     zero,
			NonTaxableSubtotal:  zero,
			TotalTaxAmount:      zero,
			PreTaxTotal:         zero,
			OrderDiscountAmount: zero,
			DeliveryFee:         zero,
			Total:               zero,
			Discount: Discount{
				Type:          o.DiscountType,
				Value:         o.DiscountValue,
				Amount:        zero,
				IgnoredReason: DiscountComplimentary,
			},
		}
	}

	taxable := valueobject.Zero()
	nonTaxable := valueobject.Zero()
	tax := valueobject.Zero()
	for _, item := range o.Items {
		amounts := item.Amounts()
		if item.IsTaxable() {
			taxable = taxable.Add(amounts.Subtotal)
			tax = tax.Add(amounts.TaxAmount.MultiplyByInt(item.Quantity))
		} else {
			nonTaxable = nonTaxable.Add(amounts.Subtotal)
		}
	}
	subtotal := taxable.Add(nonTaxable)
	preTax := subtotal.Subtract(tax)

	discount := o.resolveDiscount(subtotal)
	if discount.Amount.IsPositive() {
		// remaining share = (subtotal - discount) / subtotal
		remaining := subtotal.Subtract(discount.Amount).Amount()
		tax = shrink(tax, remaining, subtotal.Amount())
		preTax = shrink(preTax, remaining, subtotal.Amount())
	}

	deliveryFee := valueobject.Zero()
	if o.IsDelivery() {
		deliveryFee = o.DeliveryFee
	}
	total := subtotal.Subtract(discount.Amount).ClampZero().Add(deliveryFee)

	return Totals{
		Subtotal:            subtotal,
		TaxableSubtotal:     taxable,
		NonTaxableSubtotal:  nonTaxable,
		TotalTaxAmount:      tax,
		PreTaxTotal:         preTax,
		OrderDiscountAmount: discount.Amount,
		DeliveryFee:         deliveryFee,
		Total:               total,
		Discount:            discount,
	}
}

// resolveDiscount computes the order discount, never failing on bad configuration
func (o Order) resolveDiscount(subtotal valueobject.Money) Discount {
	d := Discount{Type: o.DiscountType, Value: o.DiscountValue, Amount: valueobject.Zero()}
	switch {
	case o.DiscountType == "" || o.DiscountType == DiscountTypeNone:
		d.IgnoredReason = DiscountNoType
	case !o.DiscountType.IsRecognized():
		d.IgnoredReason = DiscountUnknownType
	case !o.DiscountValue.IsPositive():
		d.IgnoredReason = DiscountNonPositiveValue
	case subtotal.IsZero():
		d.IgnoredReason = DiscountEmptySubtotal
	case o.DiscountType == DiscountTypePercentage:
		percent := decimal.Min(o.DiscountValue, maxDiscountPercentage)
		d.Amount = subtotal.Percentage(percent)
	default:
		d.Amount = valueobject.NewMoney(o.DiscountValue).Min(subtotal)
	}
	return d
}

// shrink scales amount by num/den, rounded half-up to whole units
func shrink(amount valueobject.Money, num, den decimal.Decimal) valueobject.Money {
	return valueobject.NewMoney(amount.Amount().Mul(num).Div(den)).RoundUnits()
}
