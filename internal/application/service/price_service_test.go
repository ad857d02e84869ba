package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/internal/domain/enum"
)

func newTestPriceService(txRepo *fakeTransactionRepo, now time.Time) *PriceService {
	svc := NewPriceService(txRepo)
	svc.now = func() time.Time { return now }
	return svc
}

func saleAt(txRepo *fakeTransactionRepo, at time.Time, name string, priceCents int64) {
	_ = txRepo.Create(context.Background(), &entity.Transaction{
		Items: entity.TransactionItemList{
			{Name: name, Quantity: 1, Price: priceCents},
		},
		Total:           priceCents,
		PaymentMethod:   enum.PaymentMethodCash,
		TransactionDate: at,
	})
}

func TestSuggestReturnsMostRecentExactPrice(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	txRepo := &fakeTransactionRepo{}
	saleAt(txRepo, now.AddDate(0, 0, -10), "Es Teh Manis", 300)
	saleAt(txRepo, now.AddDate(0, 0, -2), "es teh manis", 350)

	svc := newTestPriceService(txRepo, now)
	price, confidence := svc.Suggest(context.Background(), "Es Teh Manis")

	require.NotNil(t, price)
	assert.Equal(t, int64(350), *price)
	assert.Equal(t, enum.PriceConfidenceMedium, confidence)
}

func TestSuggestConfidenceTiers(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("frequent and recent is high", func(t *testing.T) {
		txRepo := &fakeTransactionRepo{}
		for i := 0; i < 5; i++ {
			saleAt(txRepo, now.AddDate(0, 0, -i-1), "Burger", 899)
		}
		svc := newTestPriceService(txRepo, now)

		_, confidence := svc.Suggest(context.Background(), "burger")
		assert.Equal(t, enum.PriceConfidenceHigh, confidence)
	})

	t.Run("single stale sale is low", func(t *testing.T) {
		txRepo := &fakeTransactionRepo{}
		saleAt(txRepo, now.AddDate(0, 0, -60), "Burger", 899)
		svc := newTestPriceService(txRepo, now)

		_, confidence := svc.Suggest(context.Background(), "burger")
		assert.Equal(t, enum.PriceConfidenceLow, confidence)
	})
}

func TestSuggestSubstringFallbackIsLow(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	txRepo := &fakeTransactionRepo{}
	for i := 0; i < 6; i++ {
		saleAt(txRepo, now.AddDate(0, 0, -i-1), "Es Teh Manis", 350)
	}

	svc := newTestPriceService(txRepo, now)
	price, confidence := svc.Suggest(context.Background(), "es teh")

	require.NotNil(t, price)
	assert.Equal(t, int64(350), *price)
	assert.Equal(t, enum.PriceConfidenceLow, confidence, "partial matches never exceed low confidence")
}

func TestSuggestNoHistory(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	svc := newTestPriceService(&fakeTransactionRepo{}, now)

	price, confidence := svc.Suggest(context.Background(), "Unknown Dish")
	assert.Nil(t, price)
	assert.Equal(t, enum.PriceConfidenceNone, confidence)

	price, confidence = svc.Suggest(context.Background(), "   ")
	assert.Nil(t, price)
	assert.Equal(t, enum.PriceConfidenceNone, confidence)
}

func TestSuggestIgnoresSalesOutsideLookback(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	txRepo := &fakeTransactionRepo{}
	saleAt(txRepo, now.AddDate(0, 0, -120), "Burger", 899)

	svc := newTestPriceService(txRepo, now)
	price, _ := svc.Suggest(context.Background(), "Burger")
	assert.Nil(t, price)
}
