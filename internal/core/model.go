package core

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Quantities and amounts travel as JSON numbers, as the backend sends them.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// PaymentType is the sign of a party's running balance.
type PaymentType string

const (
	Credit PaymentType = "Credit"
	Debit  PaymentType = "Debit"
)

// InventoryItem is a product master record.
// The backend carries stock under three near-synonymous names (openingStock,
// stock, quantity). The canonical form keeps a single Stock value and always
// writes all three back.
type InventoryItem struct {
	ID                string          `json:"_id,omitempty"`
	ItemName          string          `json:"itemName"`
	Category          string          `json:"category,omitempty"`
	SalesRate         decimal.Decimal `json:"salesRate"`
	Stock             decimal.Decimal `json:"stock"`
	MinimumStockLevel decimal.Decimal `json:"minimumStockLevel"`
	Brand             string          `json:"brand,omitempty"`
	Description       string          `json:"description,omitempty"`
}

// MarshalJSON writes the stock value under all three backend field names.
func (i InventoryItem) MarshalJSON() ([]byte, error) {
	type alias InventoryItem
	return json.Marshal(struct {
		alias
		OpeningStock decimal.Decimal `json:"openingStock"`
		Quantity     decimal.Decimal `json:"quantity"`
	}{alias: alias(i), OpeningStock: i.Stock, Quantity: i.Stock})
}

// IsLowStock reports whether the item is at or below its minimum level.
// Items without a minimum level are never low.
func (i InventoryItem) IsLowStock() bool {
	return i.MinimumStockLevel.IsPositive() && i.Stock.LessThanOrEqual(i.MinimumStockLevel)
}

// Party is a customer or supplier master record.
type Party struct {
	ID            string          `json:"_id,omitempty"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone,omitempty"`
	Email         string          `json:"email,omitempty"`
	Address       string          `json:"address,omitempty"`
	OpeningAmount decimal.Decimal `json:"openingAmount"`
	PaymentType   PaymentType     `json:"paymentType,omitempty"`
}

// Balance returns the signed running balance: Credit is positive, Debit negative.
func (p Party) Balance() decimal.Decimal {
	if p.PaymentType == Debit {
		return p.OpeningAmount.Neg()
	}
	return p.OpeningAmount
}

// WithBalance returns a copy of p carrying the signed balance b.
func (p Party) WithBalance(b decimal.Decimal) Party {
	if b.IsNegative() {
		p.OpeningAmount = b.Neg()
		p.PaymentType = Debit
		return p
	}
	p.OpeningAmount = b
	p.PaymentType = Credit
	return p
}

// Ref returns the denormalized snapshot documents carry for this party.
func (p Party) Ref() PartyRef {
	return PartyRef{ID: p.ID, Name: p.Name}
}

// PartyRef is the counterparty snapshot embedded in a document.
type PartyRef struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
}

// IsZero reports whether the reference carries neither id nor name.
func (r PartyRef) IsZero() bool {
	return r.ID == "" && r.Name == ""
}

// Category is a product category.
type Category struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
}

// LineItem is the line shape shared by every document.
type LineItem struct {
	ProductID      string          `json:"productId,omitempty"`
	ProductName    string          `json:"productName"`
	SKU            string          `json:"sku,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Rate           decimal.Decimal `json:"rate"`
	Length         decimal.Decimal `json:"length"`
	Percent        decimal.Decimal `json:"percent"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	GrossAmount    decimal.Decimal `json:"grossAmount"`
	NetAmount      decimal.Decimal `json:"netAmount"`
	Amount         decimal.Decimal `json:"amount"`
	Received       decimal.Decimal `json:"received"`
}

// Totals are the document-level sums of the line items.
type Totals struct {
	SubTotal         decimal.Decimal `json:"subTotal"`
	TotalGrossAmount decimal.Decimal `json:"totalGrossAmount"`
	TotalDiscount    decimal.Decimal `json:"totalDiscount"`
	TotalNetAmount   decimal.Decimal `json:"totalNetAmount"`
}

// QuotationStatus values.
const (
	QuotationOpen      = "Open"
	QuotationConverted = "Converted"
)

// Sale is a sale invoice.
type Sale struct {
	ID              string     `json:"_id,omitempty"`
	InvoiceNumber   string     `json:"invoiceNumber"`
	Date            string     `json:"date"`
	Customer        PartyRef   `json:"-"`
	Items           []LineItem `json:"items"`
	QuotationNumber string     `json:"quotationNumber,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Totals
}

// MarshalJSON writes the customer as an array of one object plus the
// customerName and customerId siblings the backend expects.
func (s Sale) MarshalJSON() ([]byte, error) {
	type alias Sale
	return json.Marshal(struct {
		alias
		Customer     []PartyRef `json:"customer"`
		CustomerName string     `json:"customerName"`
		CustomerID   string     `json:"customerId,omitempty"`
	}{alias: alias(s), Customer: partyArray(s.Customer), CustomerName: s.Customer.Name, CustomerID: s.Customer.ID})
}

// Quotation is a sales quotation that can be imported into a Sale.
type Quotation struct {
	ID              string     `json:"_id,omitempty"`
	QuotationNumber string     `json:"quotationNumber"`
	Date            string     `json:"date"`
	Customer        PartyRef   `json:"-"`
	Items           []LineItem `json:"items"`
	Status          string     `json:"status,omitempty"`
	ConvertedTo     string     `json:"convertedTo,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Totals
}

func (q Quotation) MarshalJSON() ([]byte, error) {
	type alias Quotation
	return json.Marshal(struct {
		alias
		Customer     []PartyRef `json:"customer"`
		CustomerName string     `json:"customerName"`
		CustomerID   string     `json:"customerId,omitempty"`
	}{alias: alias(q), Customer: partyArray(q.Customer), CustomerName: q.Customer.Name, CustomerID: q.Customer.ID})
}

// PurchaseOrder is a purchase order; its lines track received quantities.
type PurchaseOrder struct {
	ID       string     `json:"_id,omitempty"`
	PONumber string     `json:"poNumber"`
	Date     string     `json:"date"`
	Supplier PartyRef   `json:"-"`
	Items    []LineItem `json:"items"`
	Status   string     `json:"status,omitempty"`
	Notes    string     `json:"notes,omitempty"`
	Totals
}

func (p PurchaseOrder) MarshalJSON() ([]byte, error) {
	type alias PurchaseOrder
	return json.Marshal(supplierWire[alias]{doc: alias(p), ref: p.Supplier})
}

// PurchaseInvoice is a supplier invoice, optionally linked to a purchase order.
type PurchaseInvoice struct {
	ID            string     `json:"_id,omitempty"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Date          string     `json:"date"`
	Supplier      PartyRef   `json:"-"`
	LinkedPOID    string     `json:"linkedPoId,omitempty"`
	Items         []LineItem `json:"items"`
	Notes         string     `json:"notes,omitempty"`
	Totals
}

func (p PurchaseInvoice) MarshalJSON() ([]byte, error) {
	type alias PurchaseInvoice
	return json.Marshal(supplierWire[alias]{doc: alias(p), ref: p.Supplier})
}

// GRN is a goods received note. Line Quantity is the received quantity.
type GRN struct {
	ID         string     `json:"_id,omitempty"`
	GRNNumber  string     `json:"grnNumber"`
	Date       string     `json:"date"`
	Supplier   PartyRef   `json:"-"`
	LinkedPOID string     `json:"linkedPoId,omitempty"`
	Items      []LineItem `json:"items"`
	Notes      string     `json:"notes,omitempty"`
	Totals
}

func (g GRN) MarshalJSON() ([]byte, error) {
	type alias GRN
	return json.Marshal(supplierWire[alias]{doc: alias(g), ref: g.Supplier})
}

// PurchaseReturn returns goods to a supplier, optionally against a purchase order.
type PurchaseReturn struct {
	ID           string     `json:"_id,omitempty"`
	ReturnNumber string     `json:"returnNumber"`
	Date         string     `json:"date"`
	Supplier     PartyRef   `json:"-"`
	LinkedPOID   string     `json:"linkedPoId,omitempty"`
	Items        []LineItem `json:"items"`
	Reason       string     `json:"reason,omitempty"`
	Totals
}

func (r PurchaseReturn) MarshalJSON() ([]byte, error) {
	type alias PurchaseReturn
	return json.Marshal(supplierWire[alias]{doc: alias(r), ref: r.Supplier})
}

// Expense is a flat accounting entry.
type Expense struct {
	ID            string          `json:"_id,omitempty"`
	ExpenseNumber string          `json:"expenseNumber"`
	Date          string          `json:"date"`
	Category      string          `json:"category,omitempty"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// VoucherKind distinguishes receipt and payment vouchers.
type VoucherKind string

const (
	ReceiptVoucher VoucherKind = "receipt"
	PaymentVoucher VoucherKind = "payment"
)

// Voucher is a receipt or payment against a party.
type Voucher struct {
	ID            string          `json:"_id,omitempty"`
	Kind          VoucherKind     `json:"-"`
	VoucherNumber string          `json:"voucherNumber"`
	Date          string          `json:"date"`
	Party         PartyRef        `json:"party"`
	Amount        decimal.Decimal `json:"amount"`
	Mode          string          `json:"mode,omitempty"`
	Remarks       string          `json:"remarks,omitempty"`
}

// supplierWire serializes a buy-side document with its supplier written as
// an embedded object plus supplierId and supplierName siblings.
type supplierWire[T any] struct {
	doc T
	ref PartyRef
}

func (w supplierWire[T]) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(w.doc)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	for k, v := range map[string]any{
		"supplier":     w.ref,
		"supplierId":   w.ref.ID,
		"supplierName": w.ref.Name,
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}

func partyArray(r PartyRef) []PartyRef {
	if r.IsZero() {
		return []PartyRef{}
	}
	return []PartyRef{r}
}
