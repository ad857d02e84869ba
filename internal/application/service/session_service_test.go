package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wicara/warungpos-api/internal/domain/enum"
	"github.com/wicara/warungpos-api/internal/domain/extraction"
	"github.com/wicara/warungpos-api/pkg/apperror"
)

func newTestSessionService(knownPrices map[string]int64) (*SessionService, *fakeTransactionRepo) {
	txRepo := &fakeTransactionRepo{}
	committer := NewTransactionService(txRepo, &fakeShiftRepo{}, noopRecomputer{}, 0)
	return NewSessionService(&fixedPrices{prices: knownPrices}, committer), txRepo
}

func flatItem(name string, qty int, price *float64) extraction.RawItem {
	return extraction.RawItem{Name: name, Quantity: qty, Price: price}
}

func TestProcessExtractionMergesPricedItems(t *testing.T) {
	svc, _ := newTestSessionService(nil)

	snap, err := svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		Items: []extraction.RawItem{
			flatItem("Burger", 2, decimalPrice(8.99)),
			flatItem("Fries", 1, decimalPrice(3.50)),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, StateIdle, snap.State)
	require.Len(t, snap.Cart.Lines, 2)
	assert.Equal(t, int64(2148), snap.Cart.SubtotalCents())
}

func TestVagueQuantityBlocksWholeBatch(t *testing.T) {
	svc, _ := newTestSessionService(nil)

	snap, err := svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		Items: []extraction.RawItem{
			flatItem("Burger", 2, decimalPrice(8.99)),
			flatItem("Fries", 0, decimalPrice(3.50)),
		},
		NeedsQuantity: []extraction.RawQuantityFlag{
			{Name: "Fries", SuggestedQuantity: 2, OriginalPhrase: "some fries", Reason: "vague quantity"},
		},
	})
	require.NoError(t, err)

	// Nothing merges until the quantity stage resolves, not even the
	// priced burger.
	assert.Equal(t, StateAwaitingQuantity, snap.State)
	assert.True(t, snap.Cart.IsEmpty())
	require.Len(t, snap.PendingQuantity, 1)
	assert.Equal(t, "Fries", snap.PendingQuantity[0].Name)
	assert.Equal(t, 2, snap.PendingQuantity[0].SuggestedQuantity)

	snap, err = svc.ConfirmQuantities(context.Background(), "reg1", []QuantityConfirmation{
		{Name: "fries", Quantity: 3},
	})
	require.NoError(t, err)

	// Fries carried a price in the batch, so confirmation sends both
	// straight to the cart.
	assert.Equal(t, StateIdle, snap.State)
	require.Len(t, snap.Cart.Lines, 2)
	i := snap.Cart.Find("fries")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, 3, snap.Cart.Lines[i].Quantity)
	assert.Equal(t, int64(350), snap.Cart.Lines[i].UnitPrice)
}

func TestQuantityThenPriceStage(t *testing.T) {
	svc, _ := newTestSessionService(map[string]int64{"fries": 350})

	_, err := svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		NeedsQuantity: []extraction.RawQuantityFlag{
			{Name: "Fries", SuggestedQuantity: 2, OriginalPhrase: "some fries", Reason: "vague quantity"},
		},
	})
	require.NoError(t, err)

	snap, err := svc.ConfirmQuantities(context.Background(), "reg1", []QuantityConfirmation{
		{Name: "Fries", Quantity: 3},
	})
	require.NoError(t, err)

	// No price was extracted, so the confirmed item moves to the price
	// stage with the historian's suggestion attached.
	assert.Equal(t, StateAwaitingPrice, snap.State)
	assert.True(t, snap.Cart.IsEmpty())
	require.Len(t, snap.PendingPrice, 1)
	require.NotNil(t, snap.PendingPrice[0].SuggestedPrice)
	assert.Equal(t, int64(350), *snap.PendingPrice[0].SuggestedPrice)
	assert.Equal(t, enum.PriceConfidenceMedium, snap.PendingPrice[0].Confidence)

	confirmed := 3.50
	snap, err = svc.ConfirmPrices("reg1", []PriceConfirmation{
		{Name: "Fries", Price: &confirmed},
	})
	require.NoError(t, err)

	assert.Equal(t, StateIdle, snap.State)
	require.Len(t, snap.Cart.Lines, 1)
	assert.Equal(t, 3, snap.Cart.Lines[0].Quantity)
	assert.Equal(t, int64(350), snap.Cart.Lines[0].UnitPrice)
}

func TestExtractionRefusedWhilePending(t *testing.T) {
	svc, _ := newTestSessionService(nil)

	_, err := svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		NeedsQuantity: []extraction.RawQuantityFlag{{Name: "Fries", SuggestedQuantity: 2}},
	})
	require.NoError(t, err)

	_, err = svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		Items: []extraction.RawItem{flatItem("Burger", 1, decimalPrice(8.99))},
	})
	assert.ErrorIs(t, err, apperror.ErrConfirmationPending)

	// Other sessions are unaffected
	_, err = svc.ProcessExtraction(context.Background(), "reg2", extraction.RawResult{
		Items: []extraction.RawItem{flatItem("Burger", 1, decimalPrice(8.99))},
	})
	assert.NoError(t, err)
}

func TestSkipQuantitiesAppliesDeferredRemainder(t *testing.T) {
	svc, _ := newTestSessionService(nil)

	_, err := svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		Items: []extraction.RawItem{
			flatItem("Burger", 2, decimalPrice(8.99)),
		},
		NeedsQuantity: []extraction.RawQuantityFlag{{Name: "Fries", SuggestedQuantity: 2}},
	})
	require.NoError(t, err)

	snap, err := svc.SkipQuantities("reg1")
	require.NoError(t, err)

	// Skip discards only the vague items; the burger still merges.
	assert.Equal(t, StateIdle, snap.State)
	require.Len(t, snap.Cart.Lines, 1)
	assert.Equal(t, "Burger", snap.Cart.Lines[0].Name)
}

func TestUnansweredQuantityDropsItem(t *testing.T) {
	svc, _ := newTestSessionService(nil)

	_, err := svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		NeedsQuantity: []extraction.RawQuantityFlag{
			{Name: "Fries", SuggestedQuantity: 2},
			{Name: "Cola", SuggestedQuantity: 1},
		},
	})
	require.NoError(t, err)

	quantity := 0
	snap, err := svc.ConfirmQuantities(context.Background(), "reg1", []QuantityConfirmation{
		{Name: "Fries", Quantity: quantity}, // zero drops it
	})
	require.NoError(t, err)

	assert.Equal(t, StateIdle, snap.State)
	assert.True(t, snap.Cart.IsEmpty())
}

func TestUnpricedAddGoesToPriceStage(t *testing.T) {
	svc, _ := newTestSessionService(nil)

	snap, err := svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		Items: []extraction.RawItem{flatItem("Daily Special", 1, nil)},
	})
	require.NoError(t, err)

	assert.Equal(t, StateAwaitingPrice, snap.State)
	require.Len(t, snap.PendingPrice, 1)
	assert.Equal(t, "Daily Special", snap.PendingPrice[0].Name)
	assert.Nil(t, snap.PendingPrice[0].SuggestedPrice)

	snap, err = svc.SkipPrices("reg1")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, snap.State)
	assert.True(t, snap.Cart.IsEmpty())
}

func TestAmbiguousResultMergesNothing(t *testing.T) {
	svc, _ := newTestSessionService(nil)

	snap, err := svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		Items:          []extraction.RawItem{flatItem("Burger", 1, decimalPrice(8.99))},
		Ambiguous:      true,
		AmbiguousQuery: "which burger?",
	})
	require.NoError(t, err)

	assert.Equal(t, StateIdle, snap.State)
	assert.True(t, snap.Cart.IsEmpty())
	assert.Equal(t, "which burger?", snap.AmbiguousQuery)
}

func TestActionSetUpdateAndRemove(t *testing.T) {
	svc, _ := newTestSessionService(nil)

	_, err := svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		Items: []extraction.RawItem{
			flatItem("Burger", 2, decimalPrice(8.99)),
			flatItem("Fries", 1, decimalPrice(3.50)),
		},
	})
	require.NoError(t, err)

	snap, err := svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		Actions: &extraction.RawActions{
			Update: []extraction.RawItem{{Name: "Burger", Quantity: 3}},
			Remove: []extraction.RawItem{{Name: "Fries"}},
		},
	})
	require.NoError(t, err)

	require.Len(t, snap.Cart.Lines, 1)
	assert.Equal(t, "Burger", snap.Cart.Lines[0].Name)
	assert.Equal(t, 3, snap.Cart.Lines[0].Quantity)
}

func TestManualItemAndRemove(t *testing.T) {
	svc, _ := newTestSessionService(nil)

	snap, err := svc.AddManualItem("reg1", "Kopi", 2, 1.50)
	require.NoError(t, err)
	require.Len(t, snap.Cart.Lines, 1)
	assert.Equal(t, enum.ItemSourceManual, snap.Cart.Lines[0].Source)
	assert.Equal(t, int64(150), snap.Cart.Lines[0].UnitPrice)

	snap, err = svc.RemoveItem("reg1", "kopi")
	require.NoError(t, err)
	assert.True(t, snap.Cart.IsEmpty())

	_, err = svc.AddManualItem("reg1", "", 1, 1.00)
	assert.Error(t, err)
}

func TestCheckoutCommitsAndResets(t *testing.T) {
	svc, txRepo := newTestSessionService(nil)

	_, err := svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		Items: []extraction.RawItem{flatItem("Burger", 2, decimalPrice(8.99))},
	})
	require.NoError(t, err)

	received := 20.00
	tx, err := svc.Checkout(context.Background(), "reg1", enum.PaymentMethodCash, &received)
	require.NoError(t, err)
	assert.Equal(t, int64(1798), tx.Total)
	require.NotNil(t, tx.ChangeGiven)
	assert.Equal(t, int64(202), *tx.ChangeGiven)
	assert.Len(t, txRepo.transactions, 1)

	snap := svc.Snapshot("reg1")
	assert.True(t, snap.Cart.IsEmpty())
}

func TestCheckoutRefusedWhilePending(t *testing.T) {
	svc, _ := newTestSessionService(nil)

	_, err := svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		NeedsQuantity: []extraction.RawQuantityFlag{{Name: "Fries", SuggestedQuantity: 2}},
	})
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), "reg1", enum.PaymentMethodCash, nil)
	assert.ErrorIs(t, err, apperror.ErrConfirmationPending)
}

func TestResetClearsEverything(t *testing.T) {
	svc, _ := newTestSessionService(nil)

	_, err := svc.ProcessExtraction(context.Background(), "reg1", extraction.RawResult{
		NeedsQuantity: []extraction.RawQuantityFlag{{Name: "Fries", SuggestedQuantity: 2}},
	})
	require.NoError(t, err)

	snap := svc.Reset("reg1")
	assert.Equal(t, StateIdle, snap.State)
	assert.True(t, snap.Cart.IsEmpty())
	assert.Empty(t, snap.PendingQuantity)
}

func decimalPrice(v float64) *float64 {
	return &v
}
