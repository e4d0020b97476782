package core

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Adapters turn one backend record, in whatever shape the endpoint returned
// it, into the canonical type. Documents are recalculated on decode so
// totals read from the backend are never passed through stale.

func DecodeInventoryItem(r gjson.Result) InventoryItem {
	return InventoryItem{
		ID:                InventoryFields.String(r, "id"),
		ItemName:          InventoryFields.String(r, "name"),
		Category:          InventoryFields.String(r, "category"),
		SalesRate:         InventoryFields.Decimal(r, "salesRate"),
		Stock:             InventoryFields.Decimal(r, "stock"),
		MinimumStockLevel: InventoryFields.Decimal(r, "minimumStockLevel"),
		Brand:             InventoryFields.String(r, "brand"),
		Description:       InventoryFields.String(r, "description"),
	}
}

func DecodeParty(r gjson.Result) Party {
	p := Party{
		ID:            PartyFields.String(r, "id"),
		Name:          PartyFields.String(r, "name"),
		Phone:         PartyFields.String(r, "phone"),
		Email:         PartyFields.String(r, "email"),
		Address:       PartyFields.String(r, "address"),
		OpeningAmount: PartyFields.Decimal(r, "openingAmount"),
	}
	switch strings.ToLower(PartyFields.String(r, "paymentType")) {
	case "debit":
		p.PaymentType = Debit
	case "credit":
		p.PaymentType = Credit
	}
	return p
}

func DecodeCategory(r gjson.Result) Category {
	return Category{
		ID:   CategoryFields.String(r, "id"),
		Name: CategoryFields.String(r, "name"),
	}
}

func decodeLines(r gjson.Result, fields FieldTable) []LineItem {
	items := DocumentFields.Lookup(r, "items")
	if !items.IsArray() {
		return []LineItem{}
	}
	var out []LineItem
	items.ForEach(func(_, v gjson.Result) bool {
		out = append(out, decodeLine(v, fields))
		return true
	})
	if out == nil {
		out = []LineItem{}
	}
	return out
}

func decodeLine(v gjson.Result, fields FieldTable) LineItem {
	l := LineItem{
		ProductID:      fields.String(v, "productId"),
		ProductName:    fields.String(v, "productName"),
		SKU:            fields.String(v, "sku"),
		Quantity:       fields.Decimal(v, "quantity"),
		Rate:           fields.Decimal(v, "rate"),
		Length:         fields.Decimal(v, "length"),
		Percent:        fields.Decimal(v, "percent"),
		DiscountAmount: fields.Decimal(v, "discountAmount"),
		Received:       fields.Decimal(v, "received"),
	}
	// Some endpoints only send the line amount; recover the rate from it so
	// the recalculation does not zero the line.
	if l.Rate.IsZero() && l.Quantity.IsPositive() {
		gross := fields.Decimal(v, "grossAmount")
		if gross.IsZero() {
			gross = grossFromNet(fields.Decimal(v, "amount"), l)
		}
		if gross.IsPositive() {
			l.Rate = gross.Div(l.Quantity)
			if l.Length.IsPositive() {
				l.Rate = l.Rate.Div(l.Length)
			}
		}
	}
	return l
}

// grossFromNet backs the line discount out of a net amount.
func grossFromNet(net decimal.Decimal, l LineItem) decimal.Decimal {
	switch {
	case !net.IsPositive():
		return net
	case l.DiscountAmount.IsPositive():
		return net.Add(l.DiscountAmount)
	case l.Percent.IsPositive() && l.Percent.LessThan(hundred):
		return net.Mul(hundred).Div(hundred.Sub(l.Percent))
	}
	return net
}

func DecodeSale(r gjson.Result) Sale {
	s := Sale{
		ID:              DocumentFields.String(r, "id"),
		InvoiceNumber:   documentNumber(r, SeriesSale),
		Date:            DocumentFields.String(r, "date"),
		Customer:        ExtractRef(r, CustomerRef),
		Items:           decodeLines(r, LineFields),
		QuotationNumber: stringOf(r.Get("quotationNumber")),
		Notes:           DocumentFields.String(r, "notes"),
	}
	s.Recalculate()
	return s
}

func DecodeQuotation(r gjson.Result) Quotation {
	q := Quotation{
		ID:              DocumentFields.String(r, "id"),
		QuotationNumber: documentNumber(r, SeriesQuotation),
		Date:            DocumentFields.String(r, "date"),
		Customer:        ExtractRef(r, CustomerRef),
		Items:           decodeLines(r, LineFields),
		Status:          DocumentFields.String(r, "status"),
		ConvertedTo:     stringOf(r.Get("convertedTo")),
		Notes:           DocumentFields.String(r, "notes"),
	}
	if q.Status == "" {
		q.Status = QuotationOpen
	}
	if r.Get("converted").Bool() {
		q.Status = QuotationConverted
	}
	q.Recalculate()
	return q
}

func DecodePurchaseOrder(r gjson.Result) PurchaseOrder {
	p := PurchaseOrder{
		ID:       DocumentFields.String(r, "id"),
		PONumber: documentNumber(r, SeriesPurchaseOrder),
		Date:     DocumentFields.String(r, "date"),
		Supplier: ExtractRef(r, SupplierRef),
		Items:    decodeLines(r, LineFields),
		Status:   DocumentFields.String(r, "status"),
		Notes:    DocumentFields.String(r, "notes"),
	}
	p.Recalculate()
	return p
}

func DecodePurchaseInvoice(r gjson.Result) PurchaseInvoice {
	p := PurchaseInvoice{
		ID:            DocumentFields.String(r, "id"),
		InvoiceNumber: documentNumber(r, SeriesPurchaseInvoice),
		Date:          DocumentFields.String(r, "date"),
		Supplier:      ExtractRef(r, SupplierRef),
		LinkedPOID:    DocumentFields.String(r, "linkedPoId"),
		Items:         decodeLines(r, LineFields),
		Notes:         DocumentFields.String(r, "notes"),
	}
	p.Recalculate()
	return p
}

func DecodeGRN(r gjson.Result) GRN {
	g := GRN{
		ID:         DocumentFields.String(r, "id"),
		GRNNumber:  documentNumber(r, SeriesGRN),
		Date:       DocumentFields.String(r, "date"),
		Supplier:   ExtractRef(r, SupplierRef),
		LinkedPOID: DocumentFields.String(r, "linkedPoId"),
		Items:      decodeLines(r, GRNLineFields),
		Notes:      DocumentFields.String(r, "notes"),
	}
	g.Recalculate()
	return g
}

func DecodePurchaseReturn(r gjson.Result) PurchaseReturn {
	p := PurchaseReturn{
		ID:           DocumentFields.String(r, "id"),
		ReturnNumber: documentNumber(r, SeriesPurchaseReturn),
		Date:         DocumentFields.String(r, "date"),
		Supplier:     ExtractRef(r, SupplierRef),
		LinkedPOID:   DocumentFields.String(r, "linkedPoId"),
		Items:        decodeLines(r, LineFields),
		Reason:       DocumentFields.String(r, "reason"),
	}
	p.Recalculate()
	return p
}

func DecodeExpense(r gjson.Result) Expense {
	return Expense{
		ID:            ExpenseFields.String(r, "id"),
		ExpenseNumber: ExpenseFields.String(r, "number"),
		Date:          ExpenseFields.String(r, "date"),
		Category:      ExpenseFields.String(r, "category"),
		Description:   ExpenseFields.String(r, "description"),
		Amount:        ExpenseFields.Decimal(r, "amount"),
	}
}

// DecodeVoucher returns a decoder for receipt or payment vouchers.
func DecodeVoucher(kind VoucherKind) func(gjson.Result) Voucher {
	ref := VoucherPartyRef
	if kind == ReceiptVoucher {
		ref = RefField{Field: "party", IDField: "customerId", NameField: "customerName"}
	} else if kind == PaymentVoucher {
		ref = RefField{Field: "party", IDField: "supplierId", NameField: "supplierName"}
	}
	return func(r gjson.Result) Voucher {
		v := Voucher{
			ID:            VoucherFields.String(r, "id"),
			Kind:          kind,
			VoucherNumber: VoucherFields.String(r, "number"),
			Date:          VoucherFields.String(r, "date"),
			Party:         ExtractRef(r, ref),
			Amount:        VoucherFields.Decimal(r, "amount"),
			Mode:          VoucherFields.String(r, "mode"),
			Remarks:       VoucherFields.String(r, "remarks"),
		}
		if v.Party.IsZero() {
			v.Party = ExtractRef(r, VoucherPartyRef)
		}
		return v
	}
}
