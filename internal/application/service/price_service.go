package service

import (
	"context"
	"strings"
	"time"

	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/internal/domain/enum"
	"github.com/wicara/warungpos-api/internal/domain/repository"
)

// priceLookback bounds how far back the historian searches for a prior sale
const priceLookback = 90 * 24 * time.Hour

// PriceService suggests prices for items by mining recent sales history.
// Suggestions feed the price confirmation stage and carry a confidence
// grade so the caller can decide how prominently to surface them.
type PriceService struct {
	txRepo repository.TransactionRepository
	now    func() time.Time
}

// NewPriceService creates a new price history service
func NewPriceService(txRepo repository.TransactionRepository) *PriceService {
	return &PriceService{
		txRepo: txRepo,
		now:    time.Now,
	}
}

// Suggest returns the most recent sale price for a matching item, or nil when
// nothing in the lookback window matches. An exact identity match is graded
// by how often and how recently the item sold; a substring match is always
// low confidence.
func (s *PriceService) Suggest(ctx context.Context, name string) (*int64, enum.PriceConfidence) {
	key := entity.NameKey(name)
	if key == "" {
		return nil, enum.PriceConfidenceNone
	}

	end := s.now()
	start := end.Add(-priceLookback)
	transactions, err := s.txRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, enum.PriceConfidenceNone
	}

	var (
		price      *int64
		priceAt    time.Time
		exactCount int
	)
	// Exact pass first: the item under its canonical name.
	for _, tx := range transactions {
		for _, item := range tx.Items {
			if entity.NameKey(item.Name) != key {
				continue
			}
			exactCount++
			if price == nil || tx.TransactionDate.After(priceAt) {
				p := item.Price
				price = &p
				priceAt = tx.TransactionDate
			}
		}
	}
	if price != nil {
		return price, gradeConfidence(exactCount, end.Sub(priceAt))
	}

	// Substring fallback catches partial phrasings ("es teh" for
	// "es teh manis"). Too loose to trust beyond low confidence.
	for _, tx := range transactions {
		for _, item := range tx.Items {
			itemKey := entity.NameKey(item.Name)
			if !strings.Contains(itemKey, key) && !strings.Contains(key, itemKey) {
				continue
			}
			if price == nil || tx.TransactionDate.After(priceAt) {
				p := item.Price
				price = &p
				priceAt = tx.TransactionDate
			}
		}
	}
	if price != nil {
		return price, enum.PriceConfidenceLow
	}

	return nil, enum.PriceConfidenceNone
}

// gradeConfidence grades an exact match by sample size and recency
func gradeConfidence(samples int, age time.Duration) enum.PriceConfidence {
	switch {
	case samples >= 5 && age <= 7*24*time.Hour:
		return enum.PriceConfidenceHigh
	case samples >= 2 && age <= 30*24*time.Hour:
		return enum.PriceConfidenceMedium
	default:
		return enum.PriceConfidenceLow
	}
}
