// Package notification e-mails customers about their orders.
package notification

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*
var templateFS embed.FS

// statusMessages are the headlines of status update mails
var statusMessages = map[order.Status]string{
	order.StatusProcessing: "Your order is now being processed.",
	order.StatusShipped:    "Your order has been shipped!",
	order.StatusDelivered:  "Your order has been delivered!",
	order.StatusCancelled:  "Your order has been cancelled.",
}

// Message is one outgoing e-mail
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Composer renders notification e-mails
type Composer struct {
	storeName string
	currency  valueobject.Currency
	html      *htmltemplate.Template
	text      *texttemplate.Template
}

// NewComposer parses the embedded templates
func NewComposer(storeName, currency string) (*Composer, error) {
	if storeName == "" {
		storeName = "MB Vogue"
	}
	c := &Composer{storeName: storeName, currency: valueobject.Currency(currency)}
	if c.currency == "" {
		c.currency = valueobject.DefaultCurrency
	}
	funcs := map[string]any{"money": c.money}

	var err error
	c.html, err = htmltemplate.New("mail").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	c.text, err = texttemplate.New("mail").Funcs(funcs).ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return c, nil
}

type orderData struct {
	StoreName string
	Order     *order.Order
	Reference string
}

type statusData struct {
	StoreName   string
	FullName    string
	OrderNumber string
	Status      string
	Message     string
}

// OrderConfirmation is sent once an order exists
func (c *Composer) OrderConfirmation(o *order.Order) (Message, error) {
	return c.render("order_confirmation", o.Shipping.Email,
		"Order Confirmation - "+o.OrderNumber,
		orderData{StoreName: c.storeName, Order: o})
}

// PaymentConfirmation is sent after the payment for an order is verified
func (c *Composer) PaymentConfirmation(o *order.Order, reference string) (Message, error) {
	return c.render("payment_confirmation", o.Shipping.Email,
		"Payment Confirmed - Order "+o.OrderNumber,
		orderData{StoreName: c.storeName, Order: o, Reference: reference})
}

// StatusUpdate is sent when staff move an order along
func (c *Composer) StatusUpdate(e *order.StatusChangedEvent) (Message, error) {
	msg, ok := statusMessages[e.To]
	if !ok {
		msg = fmt.Sprintf("Your order status has been updated to %s.", e.To)
	}
	return c.render("status_update", e.Email,
		"Order Status Update - "+e.OrderNumber,
		statusData{
			StoreName:   c.storeName,
			FullName:    e.FullName,
			OrderNumber: e.OrderNumber,
			Status:      cases.Title(language.English).String(string(e.To)),
			Message:     msg,
		})
}

func (c *Composer) render(name, to, subject string, data any) (Message, error) {
	var text, html bytes.Buffer
	if err := c.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", name, err)
	}
	if err := c.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", name, err)
	}
	return Message{
		To:      to,
		Subject: subject,
		Text:    strings.TrimSpace(text.String()),
		HTML:    html.String(),
	}, nil
}

func (c *Composer) money(d decimal.Decimal) string {
	m, err := valueobject.NewMoney(d, c.currency)
	if err != nil {
		return d.StringFixed(2)
	}
	return m.Format(language.English)
}
