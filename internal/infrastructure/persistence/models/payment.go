package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for a gateway transaction
type PaymentModel struct {
	BaseModel
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	CheckoutToken     string          `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_payments_pending_checkout,where:status = 'pending'"`
	OrderID           *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	Reference         string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency          string          `gorm:"type:varchar(3);not null"`
	Status            payment.Status  `gorm:"type:varchar(20);not null;default:'pending';index"`
	AccessCode        string          `gorm:"type:varchar(100)"`
	AuthorizationURL  string          `gorm:"type:varchar(500)"`
	TransactionID     string          `gorm:"type:varchar(100)"`
	AuthorizationCode string          `gorm:"type:varchar(100)"`
	RawResponse       string          `gorm:"type:text"`
	VerifiedAt        *time.Time
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *payment.Payment {
	return &payment.Payment{
		BaseEntity:        m.Entity(),
		UserID:            m.UserID,
		CheckoutToken:     m.CheckoutToken,
		OrderID:           m.OrderID,
		Reference:         m.Reference,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Status:            m.Status,
		AccessCode:        m.AccessCode,
		AuthorizationURL:  m.AuthorizationURL,
		TransactionID:     m.TransactionID,
		AuthorizationCode: m.AuthorizationCode,
		RawResponse:       m.RawResponse,
		VerifiedAt:        m.VerifiedAt,
	}
}

// PaymentModelFromDomain creates a persistence model from a domain Payment.
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	m := &PaymentModel{
		UserID:            p.UserID,
		CheckoutToken:     p.CheckoutToken,
		OrderID:           p.OrderID,
		Reference:         p.Reference,
		Amount:            p.Amount,
		Currency:          p.Currency,
		Status:            p.Status,
		AccessCode:        p.AccessCode,
		AuthorizationURL:  p.AuthorizationURL,
		TransactionID:     p.TransactionID,
		AuthorizationCode: p.AuthorizationCode,
		RawResponse:       p.RawResponse,
		VerifiedAt:        p.VerifiedAt,
	}
	m.SetEntity(p.BaseEntity)
	return m
}
