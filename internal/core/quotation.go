package core

// ConvertQuotation copies q into a new sale numbered invoiceNumber and
// returns the quotation tagged as converted. A quotation that was already
// converted is refused.
func ConvertQuotation(q Quotation, invoiceNumber, date string) (Sale, Quotation, error) {
	if q.Status == QuotationConverted {
		return Sale{}, q, ErrQuotationConverted
	}
	if len(q.Items) == 0 {
		return Sale{}, q, ErrEmptyDocument
	}
	if date == "" {
		date = q.Date
	}
	items := make([]LineItem, len(q.Items))
	copy(items, q.Items)

	sale := Sale{
		InvoiceNumber:   invoiceNumber,
		Date:            date,
		Customer:        q.Customer,
		Items:           items,
		QuotationNumber: q.QuotationNumber,
		Notes:           q.Notes,
	}
	sale.Recalculate()

	q.Status = QuotationConverted
	q.ConvertedTo = invoiceNumber
	return sale, q, nil
}
