package domain

import "errors"

var (
	// ErrInvalidInvoiceImage means the upload is not base64 image data.
	ErrInvalidInvoiceImage = errors.New("invoice image is not valid base64 image data")
	// ErrUnreadableInvoice means the parser could not extract the merchant,
	// date and total from the image.
	ErrUnreadableInvoice = errors.New("invoice could not be read")
)

// InvoiceItem is one line of a parsed invoice. Amounts are in cents.
type InvoiceItem struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity,omitempty"`
	PriceCents  *int64   `json:"price_cents,omitempty"`
	CategoryID  string   `json:"category_id,omitempty"`
}

// ParsedInvoice is what an invoice parser read from a receipt image. It is
// a draft for the client to confirm; nothing is stored. Date is YYYY-MM-DD.
type ParsedInvoice struct {
	Merchant            string        `json:"merchant"`
	Date                string        `json:"date"`
	TotalCents          int64         `json:"total_cents"`
	TaxCents            *int64        `json:"tax_cents,omitempty"`
	SubtotalCents       *int64        `json:"subtotal_cents,omitempty"`
	InvoiceNumber       string        `json:"invoice_number,omitempty"`
	Items               []InvoiceItem `json:"items,omitempty"`
	PaymentMethod       string        `json:"payment_method,omitempty"`
	SuggestedCategory   string        `json:"suggested_category,omitempty"`
	SuggestedCategoryID string        `json:"suggested_category_id,omitempty"`
	Description         string        `json:"description,omitempty"`
	Confidence          float64       `json:"confidence"`
}
