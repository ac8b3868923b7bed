package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusReturned  = "RETURNED"

	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

var OrderStatuses = []string{
	OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
	OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned,
}

var PaymentStatuses = []string{
	PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded,
}

type Order struct {
	gorm.Model
	OrderNumber     string          `json:"orderNumber" gorm:"uniqueIndex;not null"`
	UserID          uint            `json:"userId" gorm:"index;not null"`
	TotalAmount     decimal.Decimal `json:"totalAmount" gorm:"type:decimal(10,2)"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"paymentStatus"`
	ShippingAddress string          `json:"shippingAddress"`
	BillingAddress  string          `json:"billingAddress"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	Notes           string          `json:"notes"`
	OrderItems      []OrderItem     `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is an immutable snapshot of a cart line taken at order time.
// Price and TotalPrice never change, even if the product is repriced later.
type OrderItem struct {
	gorm.Model
	OrderID    uint            `json:"orderId" gorm:"index;not null"`
	ProductID  uint            `json:"productId" gorm:"not null"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(10,2)"`
}

type PlaceOrderData struct {
	ShippingAddress string `json:"shippingAddress" binding:"required"`
	BillingAddress  string `json:"billingAddress"`
	Phone           string `json:"phone" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Notes           string `json:"notes"`
}

func ValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func ValidPaymentStatus(status string) bool {
	for _, s := range PaymentStatuses {
		if s == status {
			return true
		}
	}
	return false
}
