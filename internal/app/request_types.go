package app

// ImportQuotationRequest is the input for ImportQuotation.
type ImportQuotationRequest struct {
	QuotationNumber string
	Date            string // YYYY-MM-DD; empty keeps the quotation date
}

// ProfitAndLossRequest bounds a P&L report by document date.
type ProfitAndLossRequest struct {
	From string // YYYY-MM-DD, inclusive; empty is open
	To   string // YYYY-MM-DD, inclusive; empty is open
}
