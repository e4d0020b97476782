package app

import (
	"context"
	"fmt"
	"strings"

	"erp-sync/internal/core"
)

// ImportQuotation converts an open quotation into a sale numbered from the
// sale series. The sale is the primary change: once it is saved, failing to
// mark the quotation converted is reported through QuotationSynced.
func (s *appService) ImportQuotation(ctx context.Context, req ImportQuotationRequest) (*ImportResult, error) {
	key := strings.TrimSpace(req.QuotationNumber)
	if key == "" {
		err := &core.ValidationError{Err: core.ErrMissingIdentifier, Field: "quotation"}
		s.fail("Could not import quotation", err)
		return nil, err
	}

	s.LoadQuotations(ctx)
	q, ok := s.store.Quotations.Find(key)
	if !ok {
		err := fmt.Errorf("quotation %s: %w", key, core.ErrRecordNotFound)
		s.fail("Could not import quotation", err)
		return nil, err
	}

	sale, converted, err := core.ConvertQuotation(q, s.NextNumber(ctx, core.SeriesSale), req.Date)
	if err != nil {
		s.fail("Could not import quotation", err)
		return nil, err
	}

	created, err := s.CreateSale(ctx, sale)
	if err != nil {
		return nil, err
	}
	res := &ImportResult{Sale: created.Sale, Stock: created.Stock, Quotation: converted}

	updated, err := s.UpdateQuotation(ctx, key, converted)
	if err != nil {
		s.log.Warn().Err(err).Str("quotation", key).Str("sale", created.Sale.InvoiceNumber).
			Msg("sale created but quotation not marked converted")
		return res, nil
	}
	res.Quotation = updated
	res.QuotationSynced = true
	return res, nil
}
