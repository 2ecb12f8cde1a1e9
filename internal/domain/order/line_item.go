package order

import (
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var maxTaxPercentage = decimal.NewFromInt(100)

// DiscountType identifies how a discount value is interpreted
type DiscountType string

const (
	DiscountTypeNone       DiscountType = "none"
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// IsRecognized reports whether the type is one the order aggregator applies
func (t DiscountType) IsRecognized() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// LineItemInput carries the raw fields of one order line
type LineItemInput struct {
	ProductID       string
	ProductName     string
	CategoryID      string
	CategoryName    string
	Quantity        int64
	UnitPrice       valueobject.Money
	ReferencePrice  *valueobject.Money
	TaxPercentage   decimal.Decimal
	DiscountType    DiscountType
	DiscountValue   decimal.Decimal
	IsComplimentary bool
	DisplayOrder    int
	UnitCost        *valueobject.Money
}

// LineItem is one line of an order. UnitPrice is inclusive of tax.
// Derived money figures are computed on demand and never stored.
type LineItem struct {
	ProductID       string
	ProductName     string
	CategoryID      string
	CategoryName    string
	Quantity        int64
	UnitPrice       valueobject.Money
	ReferencePrice  valueobject.Money
	TaxPercentage   decimal.Decimal
	DiscountType    DiscountType
	DiscountValue   decimal.Decimal
	IsComplimentary bool
	DisplayOrder    int
	// UnitCost is the cost snapshot taken at sale time; nil when none was recorded
	UnitCost *valueobject.Money
}

// LineAmounts holds the derived figures of a line item.
// TaxAmount and PreTaxAmount are per unit; Subtotal covers the whole quantity.
type LineAmounts struct {
	TaxAmount    valueobject.Money
	PreTaxAmount valueobject.Money
	Subtotal     valueobject.Money
}

// NewLineItem validates the input and creates a line item
func NewLineItem(in LineItemInput) (LineItem, error) {
	if in.ProductID == "" {
		return LineItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if in.Quantity <= 0 {
		return LineItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if in.ReferencePrice != nil && in.ReferencePrice.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_PRICE", "Reference price cannot be negative")
	}
	if in.TaxPercentage.IsNegative() || in.TaxPercentage.GreaterThan(maxTaxPercentage) {
		return LineItem{}, shared.NewDomainError("INVALID_TAX_RATE", "Tax percentage must be between 0 and 100")
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	reference := in.UnitPrice
	if in.ReferencePrice != nil {
		reference = *in.ReferencePrice
	}
	discountType := in.DiscountType
	if discountType == "" {
		discountType = DiscountTypeNone
	}

	return LineItem{
		ProductID:       in.ProductID,
		ProductName:     in.ProductName,
		CategoryID:      in.CategoryID,
		CategoryName:    in.CategoryName,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		ReferencePrice:  reference,
		TaxPercentage:   in.TaxPercentage,
		DiscountType:    discountType,
		DiscountValue:   in.DiscountValue,
		IsComplimentary: in.IsComplimentary,
		DisplayOrder:    in.DisplayOrder,
		UnitCost:        in.UnitCost,
	}, nil
}

// IsTaxable reports whether the item carries a positive tax rate
func (li LineItem) IsTaxable() bool {
	return li.TaxPercentage.IsPositive()
}

// Amounts returns the per-unit tax and pre-tax split and the line subtotal.
// Complimentary items derive zero for every figure.
func (li LineItem) Amounts() LineAmounts {
	if li.IsComplimentary {
		return LineAmounts{
			TaxAmount:    valueobject.Zero(),
			PreTaxAmount: valueobject.Zero(),
			Subtotal:     valueobject.Zero(),
		}
	}
	tax, preTax := li.UnitPrice.SplitInclusiveTax(li.TaxPercentage)
	return LineAmounts{
		TaxAmount:    tax,
		PreTaxAmount: preTax,
		Subtotal:     li.UnitPrice.MultiplyByInt(li.Quantity),
	}
}

// TotalTax returns the per-unit tax multiplied by quantity
func (li LineItem) TotalTax() valueobject.Money {
	return li.Amounts().TaxAmount.MultiplyByInt(li.Quantity)
}

// TotalPreTax returns the per-unit pre-tax amount multiplied by quantity
func (li LineItem) TotalPreTax() valueobject.Money {
	return li.Amounts().PreTaxAmount.MultiplyByInt(li.Quantity)
}

// ItemDiscountPerUnit is how far below its reference price the item was sold
func (li LineItem) ItemDiscountPerUnit() valueobject.Money {
	if li.IsComplimentary {
		return valueobject.Zero()
	}
	return li.ReferencePrice.Subtract(li.UnitPrice).ClampZero()
}

// TotalItemDiscount returns ItemDiscountPerUnit multiplied by quantity
func (li LineItem) TotalItemDiscount() valueobject.Money {
	return li.ItemDiscountPerUnit().MultiplyByInt(li.Quantity)
}
