package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wicara/warungpos-api/internal/domain/enum"
)

func price(cents int64) *int64 {
	return &cents
}

func TestNameKey(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{"case insensitive", "Nasi Goreng", "nasi goreng", true},
		{"surrounding whitespace", "  es teh ", "es teh", true},
		{"different items", "nasi goreng", "nasi goreng spesial", false},
		{"inner whitespace matters", "esteh", "es teh", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, SameItem(tt.a, tt.b))
		})
	}
}

func TestCartAddItemsIncrementsExisting(t *testing.T) {
	var cart Cart
	cart.AddItems([]LineUpdate{{Name: "Burger", Quantity: 2, Price: price(899), Source: enum.ItemSourceVoice}})
	cart.AddItems([]LineUpdate{{Name: "burger", Quantity: 2, Price: price(899), Source: enum.ItemSourceVoice}})

	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 4, cart.Lines[0].Quantity)
	assert.Equal(t, int64(3596), cart.SubtotalCents())
}

func TestCartAddItemsSkipsUnpriced(t *testing.T) {
	var cart Cart
	cart.AddItems([]LineUpdate{
		{Name: "Burger", Quantity: 1, Price: price(899)},
		{Name: "Mystery Item", Quantity: 1, Price: nil},
	})

	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, "Burger", cart.Lines[0].Name)
}

func TestCartAddItemsSkipsNonPositiveQuantity(t *testing.T) {
	var cart Cart
	cart.AddItems([]LineUpdate{
		{Name: "Burger", Quantity: 0, Price: price(899)},
		{Name: "Fries", Quantity: -2, Price: price(350)},
	})

	assert.True(t, cart.IsEmpty())
}

func TestCartUpdateSetsQuantity(t *testing.T) {
	var cart Cart
	cart.AddItems([]LineUpdate{{Name: "Burger", Quantity: 2, Price: price(899)}})

	// "make that three" twice must still mean three, not six
	cart.ApplyActionSet(nil, []LineUpdate{{Name: "burger", Quantity: 3}}, nil)
	cart.ApplyActionSet(nil, []LineUpdate{{Name: "burger", Quantity: 3}}, nil)

	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, int64(899), cart.Lines[0].UnitPrice)
}

func TestCartUpdateReplacesPrice(t *testing.T) {
	var cart Cart
	cart.AddItems([]LineUpdate{{Name: "Burger", Quantity: 2, Price: price(899)}})

	cart.ApplyActionSet(nil, []LineUpdate{{Name: "burger", Price: price(950)}}, nil)

	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, int64(950), cart.Lines[0].UnitPrice)
}

func TestCartUpdateInsertsUnknownPricedItem(t *testing.T) {
	var cart Cart
	cart.ApplyActionSet(nil, []LineUpdate{
		{Name: "Burger", Quantity: 2, Price: price(899)},
		{Name: "Mystery Item", Quantity: 1}, // no price, nothing sellable
	}, nil)

	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, "Burger", cart.Lines[0].Name)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
}

func TestCartRemove(t *testing.T) {
	var cart Cart
	cart.AddItems([]LineUpdate{
		{Name: "Burger", Quantity: 2, Price: price(899)},
		{Name: "Fries", Quantity: 1, Price: price(350)},
	})

	cart.ApplyActionSet(nil, nil, []LineUpdate{{Name: "BURGER"}})

	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, "Fries", cart.Lines[0].Name)

	// Removing an absent item changes nothing
	cart.ApplyActionSet(nil, nil, []LineUpdate{{Name: "burger"}})
	assert.Len(t, cart.Lines, 1)
}

func TestCartActionSetOrdering(t *testing.T) {
	var cart Cart
	cart.AddItems([]LineUpdate{{Name: "Burger", Quantity: 2, Price: price(899)}})

	// Remove runs before add: the result is a fresh line, not an increment.
	cart.ApplyActionSet(
		[]LineUpdate{{Name: "Burger", Quantity: 1, Price: price(999)}},
		nil,
		[]LineUpdate{{Name: "Burger"}},
	)

	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
	assert.Equal(t, int64(999), cart.Lines[0].UnitPrice)
}

func TestCartReset(t *testing.T) {
	var cart Cart
	cart.AddItems([]LineUpdate{{Name: "Burger", Quantity: 2, Price: price(899)}})
	cart.Reset()

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, int64(0), cart.SubtotalCents())
}
