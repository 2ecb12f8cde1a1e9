package models

import (
	"time"

	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for a customer order
type OrderModel struct {
	BakeryModel
	CustomerID      string           `gorm:"type:varchar(64);index"`
	FulfillmentType string           `gorm:"type:varchar(20);not null;default:'pickup'"`
	DeliveryFee     decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	DeliveryCost    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod   string           `gorm:"type:varchar(50)"`
	DiscountType    string           `gorm:"type:varchar(20)"`
	DiscountValue   decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	IsPaid          bool             `gorm:"not null;default:false"`
	DueDate         *time.Time       `gorm:"index"`
	PaymentDate     *time.Time       `gorm:"index"`
	PreparationDate *time.Time       `gorm:"index"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for one order line.
// Lines are keyed by their position within the order.
type OrderItemModel struct {
	OrderID         string              `gorm:"type:varchar(64);primaryKey"`
	Position        int                 `gorm:"primaryKey;autoIncrement:false"`
	ProductID       string              `gorm:"type:varchar(64);not null;index"`
	ProductName     string              `gorm:"type:varchar(200)"`
	CategoryID      string              `gorm:"type:varchar(64)"`
	CategoryName    string              `gorm:"type:varchar(200)"`
	Quantity        int64               `gorm:"not null"`
	UnitPrice       decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ReferencePrice  decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	TaxPercentage   decimal.Decimal     `gorm:"type:decimal(7,4);not null;default:0"`
	DiscountType    string              `gorm:"type:varchar(20)"`
	DiscountValue   decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	IsComplimentary bool                `gorm:"not null;default:false"`
	DisplayOrder    int                 `gorm:"not null;default:0"`
	UnitCost        decimal.NullDecimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to an order snapshot
func (m *OrderModel) ToDomain() (order.Order, error) {
	items := make([]order.LineItem, 0, len(m.Items))
	for i := range m.Items {
		item, err := m.Items[i].ToDomain()
		if err != nil {
			return order.Order{}, err
		}
		items = append(items, item)
	}
	return order.NewOrder(order.OrderInput{
		ID:              m.ID,
		BakeryID:        m.BakeryID,
		CustomerID:      m.CustomerID,
		Items:           items,
		FulfillmentType: order.FulfillmentType(m.FulfillmentType),
		DeliveryFee:     valueobject.NewMoney(m.DeliveryFee),
		DeliveryCost:    valueobject.NewMoney(m.DeliveryCost),
		PaymentMethod:   m.PaymentMethod,
		DiscountType:    order.DiscountType(m.DiscountType),
		DiscountValue:   m.DiscountValue,
		IsPaid:          m.IsPaid,
		DueDate:         m.DueDate,
		PaymentDate:     m.PaymentDate,
		PreparationDate: m.PreparationDate,
	})
}

// FromDomain populates the persistence model from an order snapshot
func (m *OrderModel) FromDomain(o order.Order) {
	m.ID = o.ID
	m.BakeryID = o.BakeryID
	m.CustomerID = o.CustomerID
	m.FulfillmentType = string(o.FulfillmentType)
	m.DeliveryFee = o.DeliveryFee.Amount()
	m.DeliveryCost = o.DeliveryCost.Amount()
	m.PaymentMethod = o.PaymentMethod
	m.DiscountType = string(o.DiscountType)
	m.DiscountValue = o.DiscountValue
	m.IsPaid = o.IsPaid
	m.DueDate = o.DueDate
	m.PaymentDate = o.PaymentDate
	m.PreparationDate = o.PreparationDate
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i].FromDomain(o.ID, i+1, item)
	}
}

// ToDomain converts the persistence model to a line item
func (m *OrderItemModel) ToDomain() (order.LineItem, error) {
	return order.NewLineItem(order.LineItemInput{
		ProductID:       m.ProductID,
		ProductName:     m.ProductName,
		CategoryID:      m.CategoryID,
		CategoryName:    m.CategoryName,
		Quantity:        m.Quantity,
		UnitPrice:       valueobject.NewMoney(m.UnitPrice),
		ReferencePrice:  moneyPtr(m.ReferencePrice),
		TaxPercentage:   m.TaxPercentage,
		DiscountType:    order.DiscountType(m.DiscountType),
		DiscountValue:   m.DiscountValue,
		IsComplimentary: m.IsComplimentary,
		DisplayOrder:    m.DisplayOrder,
		UnitCost:        moneyPtr(m.UnitCost),
	})
}

// FromDomain populates the persistence model from a line item
func (m *OrderItemModel) FromDomain(orderID string, position int, li order.LineItem) {
	ref := li.ReferencePrice
	m.OrderID = orderID
	m.Position = position
	m.ProductID = li.ProductID
	m.ProductName = li.ProductName
	m.CategoryID = li.CategoryID
	m.CategoryName = li.CategoryName
	m.Quantity = li.Quantity
	m.UnitPrice = li.UnitPrice.Amount()
	m.ReferencePrice = nullDecimal(&ref)
	m.TaxPercentage = li.TaxPercentage
	m.DiscountType = string(li.DiscountType)
	m.DiscountValue = li.DiscountValue
	m.IsComplimentary = li.IsComplimentary
	m.DisplayOrder = li.DisplayOrder
	m.UnitCost = nullDecimal(li.UnitCost)
}
