package core

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// FieldTable maps a canonical field to the backend field paths tried in
// order. Paths use gjson syntax, so "product.name" reads a nested value.
type FieldTable map[string][]string

// With returns a copy of t with field's paths replaced.
func (t FieldTable) With(field string, paths ...string) FieldTable {
	out := make(FieldTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	out[field] = paths
	return out
}

// Lookup returns the first present, non-null value for field.
func (t FieldTable) Lookup(doc gjson.Result, field string) gjson.Result {
	for _, path := range t[field] {
		if v := doc.Get(path); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

// String returns field as a trimmed string. Object ids of the form
// {"$oid": "..."} are unwrapped.
func (t FieldTable) String(doc gjson.Result, field string) string {
	return stringOf(t.Lookup(doc, field))
}

// Decimal returns field as a decimal; unparsable values read as zero.
func (t FieldTable) Decimal(doc gjson.Result, field string) decimal.Decimal {
	return decimalOf(t.Lookup(doc, field))
}

func stringOf(v gjson.Result) string {
	if v.IsObject() {
		if oid := v.Get("$oid"); oid.Exists() {
			return strings.TrimSpace(oid.String())
		}
		return ""
	}
	if v.IsArray() {
		return ""
	}
	return strings.TrimSpace(v.String())
}

func decimalOf(v gjson.Result) decimal.Decimal {
	var raw string
	switch v.Type {
	case gjson.Number:
		raw = v.Raw
	case gjson.String:
		raw = strings.TrimSpace(strings.ReplaceAll(v.Str, ",", ""))
	default:
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Field tables for every backend resource. These are the documented
// fallback lists the adapters read through.
var (
	IDFields = FieldTable{
		"id": {"_id", "id"},
	}

	InventoryFields = FieldTable{
		"id":                {"_id", "id"},
		"name":              {"itemName", "name", "productName", "title"},
		"category":          {"category.name", "category", "categoryName"},
		"salesRate":         {"salesRate", "rate", "price", "salePrice"},
		"stock":             {"stock", "openingStock", "quantity", "qty"},
		"minimumStockLevel": {"minimumStockLevel", "minStock", "reorderLevel"},
		"brand":             {"brand"},
		"description":       {"description"},
	}

	PartyFields = FieldTable{
		"id":            {"_id", "id"},
		"name":          {"name", "customerName", "supplierName", "companyName", "title"},
		"phone":         {"phone", "mobile", "contact"},
		"email":         {"email"},
		"address":       {"address"},
		"openingAmount": {"openingAmount", "openingBalance", "balance"},
		"paymentType":   {"paymentType", "balanceType"},
	}

	CategoryFields = FieldTable{
		"id":   {"_id", "id"},
		"name": {"name", "title", "category"},
	}

	LineFields = FieldTable{
		"productId":      {"productId", "product._id", "product.id", "itemId"},
		"productName":    {"productName", "itemName", "name", "product.itemName", "product.name"},
		"sku":            {"sku", "itemCode", "code"},
		"quantity":       {"quantity", "qty"},
		"rate":           {"rate", "price", "salesRate", "unitPrice"},
		"length":         {"length"},
		"percent":        {"percent", "discountPercent"},
		"discountAmount": {"discountAmount", "discountAmt", "discount"},
		"grossAmount":    {"grossAmount", "gross"},
		"amount":         {"amount", "total"},
		"received":       {"received", "receivedQty"},
	}

	// GRNLineFields reads the received quantity first.
	GRNLineFields = LineFields.With("quantity", "receivedQty", "received", "quantity", "qty")

	DocumentFields = FieldTable{
		"id":         {"_id", "id"},
		"date":       {"date", "invoiceDate", "createdAt"},
		"notes":      {"notes", "remarks", "description"},
		"items":      {"items", "products", "lineItems", "lines"},
		"status":     {"status"},
		"linkedPoId": {"linkedPoId", "poId", "purchaseOrderId"},
		"reason":     {"reason", "returnReason"},
	}

	ExpenseFields = FieldTable{
		"id":          {"_id", "id"},
		"number":      {"expenseNumber", "expenseNo", "number"},
		"date":        {"date", "createdAt"},
		"category":    {"category.name", "category", "expenseType"},
		"description": {"description", "remarks", "notes"},
		"amount":      {"amount", "total"},
	}

	VoucherFields = FieldTable{
		"id":      {"_id", "id"},
		"number":  {"voucherNumber", "voucherNo", "number"},
		"date":    {"date", "createdAt"},
		"amount":  {"amount", "total"},
		"mode":    {"mode", "paymentMode", "paymentMethod"},
		"remarks": {"remarks", "description", "notes"},
	}
)

// Business-key paths per document series.
var numberFields = map[string][]string{
	SeriesSale.Name:            {"invoiceNumber", "invoiceNo", "number"},
	SeriesQuotation.Name:       {"quotationNumber", "quotationNo", "number"},
	SeriesPurchaseOrder.Name:   {"poNumber", "purchaseOrderNumber", "number"},
	SeriesPurchaseInvoice.Name: {"invoiceNumber", "purchaseInvoiceNumber", "number"},
	SeriesGRN.Name:             {"grnNumber", "grnNo", "number"},
	SeriesPurchaseReturn.Name:  {"returnNumber", "purchaseReturnNumber", "number"},
}

// NumberField returns the primary backend field holding the business key of
// series, e.g. "poNumber".
func NumberField(series Series) string {
	if paths, ok := numberFields[series.Name]; ok {
		return paths[0]
	}
	switch series.Name {
	case SeriesExpense.Name:
		return "expenseNumber"
	case SeriesReceiptVoucher.Name, SeriesPaymentVoucher.Name:
		return "voucherNumber"
	}
	return "number"
}

func documentNumber(doc gjson.Result, series Series) string {
	return DocumentFields.With("number", numberFields[series.Name]...).String(doc, "number")
}
