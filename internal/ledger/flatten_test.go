package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[string]ItemMapping

func (f fakeResolver) Resolve(rawName string) (ItemMapping, bool) {
	m, ok := f[rawName]
	return m, ok
}

func testOrder(id int64, status string, items ...LineItem) Order {
	return Order{
		ID:          id,
		Status:      status,
		DateCreated: "2024-04-01T10:30:00",
		Currency:    "INR",
		Billing:     Billing{FirstName: "Asha", LastName: "Rao", State: "KA"},
		LineItems:   items,
	}
}

func TestFlattenInvoiceSequence(t *testing.T) {
	// Deliberately out of ID order; the flattener must sort ascending.
	orders := []Order{
		testOrder(310, "completed", LineItem{Name: "B"}),
		testOrder(305, "completed", LineItem{Name: "A"}),
		testOrder(307, "completed", LineItem{Name: "C"}),
	}

	rows, next := Flatten(orders, nil, FlattenOptions{
		InvoicePrefix: "ECHE/2526/",
		SequenceStart: 608,
	})

	require.Len(t, rows, 3)
	assert.Equal(t, "ECHE/2526/00608", rows[0].InvoiceNumber)
	assert.Equal(t, int64(305), rows[0].PurchaseOrder)
	assert.Equal(t, "ECHE/2526/00609", rows[1].InvoiceNumber)
	assert.Equal(t, int64(307), rows[1].PurchaseOrder)
	assert.Equal(t, "ECHE/2526/00610", rows[2].InvoiceNumber)
	assert.Equal(t, int64(310), rows[2].PurchaseOrder)
	assert.Equal(t, 611, next)
}

func TestFlattenOneRowPerLineItem(t *testing.T) {
	orders := []Order{
		testOrder(42, "completed",
			LineItem{Name: "Tea", Quantity: 1, Price: 100},
			LineItem{Name: "Coffee", Quantity: 2, Price: 200},
			LineItem{Name: "Sugar", Quantity: 3, Price: 30},
		),
	}

	rows, _ := Flatten(orders, nil, FlattenOptions{InvoicePrefix: "INV/", SequenceStart: 1})

	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, "INV/00001", r.InvoiceNumber)
		assert.Equal(t, int64(42), r.PurchaseOrder)
	}
}

func TestFlattenEmptyOrderConsumesSequenceSlot(t *testing.T) {
	orders := []Order{
		testOrder(1, "completed"), // no line items
		testOrder(2, "completed", LineItem{Name: "Tea"}),
	}

	rows, next := Flatten(orders, nil, FlattenOptions{InvoicePrefix: "INV/", SequenceStart: 1})

	require.Len(t, rows, 1)
	assert.Equal(t, "INV/00002", rows[0].InvoiceNumber)
	assert.Equal(t, 3, next)
}

func TestFlattenResolverOverrides(t *testing.T) {
	res := fakeResolver{
		"Protein Bar": {Canonical: "Protein Bar (50g)", TaxCode: "2106", Unit: "pcs"},
		"Ghee":        {Canonical: "", TaxCode: "", Unit: ""},
	}

	orders := []Order{
		testOrder(1, "completed",
			// empty own tax code, resolver supplies one
			LineItem{Name: "Protein Bar", Quantity: 1, Price: 50},
			// own metadata present, resolver values empty, raw wins
			LineItem{
				Name:     "Ghee",
				Quantity: 1,
				Price:    500,
				Meta: []Meta{
					{Key: "HSN", Value: "0405"},
					{Key: "Usage Unit", Value: "kg"},
				},
			},
			// no resolver entry at all
			LineItem{Name: "Honey", Quantity: 1, Price: 300},
		),
	}

	rows, _ := Flatten(orders, res, FlattenOptions{InvoicePrefix: "INV/", SequenceStart: 1})
	require.Len(t, rows, 3)

	assert.Equal(t, "Protein Bar (50g)", rows[0].ItemName)
	assert.Equal(t, "2106", rows[0].HSNCode)
	assert.Equal(t, "pcs", rows[0].UsageUnit)

	assert.Equal(t, "Ghee", rows[1].ItemName)
	assert.Equal(t, "0405", rows[1].HSNCode)
	assert.Equal(t, "kg", rows[1].UsageUnit)

	assert.Equal(t, "Honey", rows[2].ItemName)
	assert.Equal(t, "", rows[2].HSNCode)
}

func TestFlattenStatusFilter(t *testing.T) {
	orders := []Order{
		testOrder(1, "completed", LineItem{Name: "A"}),
		testOrder(2, "on_hold", LineItem{Name: "B"}),
		testOrder(3, "Completed", LineItem{Name: "C"}),
		testOrder(4, "cancelled", LineItem{Name: "D"}),
	}

	rows, next := Flatten(orders, nil, FlattenOptions{
		InvoicePrefix: "INV/",
		SequenceStart: 1,
		Status:        "completed",
	})

	// Only the two completed orders consume sequence slots.
	require.Len(t, rows, 2)
	assert.Equal(t, "INV/00001", rows[0].InvoiceNumber)
	assert.Equal(t, "INV/00002", rows[1].InvoiceNumber)
	assert.Equal(t, 3, next)
}

func TestFlattenRowDefaults(t *testing.T) {
	orders := []Order{
		{
			ID:            7,
			Status:        "processing",
			DateCreated:   "2024-04-01T10:30:00",
			Currency:      "INR",
			Billing:       Billing{FirstName: "Asha", LastName: "Rao", State: "KA"},
			ShippingTotal: 40,
			DiscountTotal: 15,
			LineItems: []LineItem{
				{Name: "Tea", Quantity: 2, Price: 120.5, TaxClass: ""},
			},
		},
	}

	rows, _ := Flatten(orders, nil, FlattenOptions{InvoicePrefix: "INV/", SequenceStart: 1})
	require.Len(t, rows, 1)
	r := rows[0]

	assert.Equal(t, "2024-04-01 10:30:00", r.InvoiceDate)
	assert.Equal(t, "Processing", r.InvoiceStatus)
	assert.Equal(t, "Asha Rao", r.CustomerName)
	assert.Equal(t, "KA", r.PlaceOfSupply)
	assert.Equal(t, "INR", r.CurrencyCode)
	assert.Equal(t, DefaultItemType, r.ItemType)
	assert.Equal(t, 2.0, r.Quantity)
	assert.Equal(t, 120.5, r.ItemPrice)
	assert.False(t, r.IsInclusiveTax)
	assert.Equal(t, "0", r.ItemTaxPercent)
	assert.Equal(t, DefaultDiscountType, r.DiscountType)
	assert.True(t, r.IsDiscountBeforeTax)
	assert.Equal(t, 15.0, r.EntityDiscountAmount)
	assert.Equal(t, 40.0, r.ShippingCharge)
	assert.Equal(t, DefaultExemptionReason, r.ExemptionReason)
	assert.Equal(t, DefaultSupplyType, r.SupplyType)
	assert.Equal(t, DefaultGSTTreatment, r.GSTTreatment)
}

func TestInvoiceIndex(t *testing.T) {
	orders := []Order{
		testOrder(1, "completed", LineItem{Name: "A"}, LineItem{Name: "B"}),
		testOrder(2, "completed", LineItem{Name: "C"}),
	}
	rows, _ := Flatten(orders, nil, FlattenOptions{InvoicePrefix: "INV/", SequenceStart: 1})

	stubs := InvoiceIndex(rows)
	require.Len(t, stubs, 2)
	assert.Equal(t, "INV/00001", stubs[0].InvoiceNumber)
	assert.Equal(t, int64(1), stubs[0].OrderID)
	assert.Equal(t, "INV/00002", stubs[1].InvoiceNumber)
}
