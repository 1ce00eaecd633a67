// Package receipt renders PDF receipts for paid orders.
package receipt

import (
	"bytes"
	"fmt"

	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const qrSize = 256

// Renderer draws A4 receipts with a QR code of the order number
type Renderer struct {
	storeName string
	siteURL   string
	unit      currency.Unit
	printer   *message.Printer
}

// NewRenderer creates a Renderer. currencyCode falls back to GHS when unknown.
func NewRenderer(storeName, siteURL, currencyCode string) *Renderer {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		unit = currency.MustParseISO("GHS")
	}
	if storeName == "" {
		storeName = "MB Vogue"
	}
	return &Renderer{
		storeName: storeName,
		siteURL:   siteURL,
		unit:      unit,
		printer:   message.NewPrinter(language.English),
	}
}

// Render returns the PDF bytes for o
func (r *Renderer) Render(o *order.Order) ([]byte, error) {
	qrPNG, err := qrcode.Encode(r.qrPayload(o), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Receipt "+o.OrderNumber, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, tr(r.storeName))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, "Payment receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	for _, row := range [][2]string{
		{"Order number", o.OrderNumber},
		{"Date", o.CreatedAt.Format("02 Jan 2006 15:04")},
		{"Status", string(o.Status)},
		{"Customer", o.Shipping.FullName},
		{"E-mail", o.Shipping.Email},
		{"Phone", o.Shipping.Phone},
	} {
		pdf.CellFormat(35, 6, row[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 20, 35, 35, false, opts, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(95, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Unit price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, it := range o.Items {
		label := fmt.Sprintf("%s (%s, %s)", it.ProductName, it.Size, it.Color)
		pdf.CellFormat(95, 7, tr(label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprint(it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, r.money(it.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, r.money(it.Subtotal()), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(150, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, r.money(o.TotalPrice), "1", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	s := o.Shipping
	pdf.MultiCell(0, 5, tr(fmt.Sprintf("Ship to:\n%s\n%s\n%s %s %s\n%s",
		s.FullName, s.Address, s.City, s.State, s.PostalCode, s.Country)), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) qrPayload(o *order.Order) string {
	if r.siteURL == "" {
		return o.OrderNumber
	}
	return r.siteURL + "/orders/" + o.OrderNumber
}

// money uses the ISO code; the core PDF fonts cannot draw most currency symbols
func (r *Renderer) money(d decimal.Decimal) string {
	return r.printer.Sprint(currency.ISO(r.unit.Amount(d.InexactFloat64())))
}
