package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstledger/internal/ledger"
)

func sampleRows() []ledger.LedgerRow {
	orders := []ledger.Order{
		{
			ID:            501,
			Status:        "completed",
			DateCreated:   "2024-04-02T09:00:00",
			Currency:      "INR",
			Billing:       ledger.Billing{FirstName: "Asha", LastName: "Rao", State: "KA"},
			ShippingTotal: 40,
			DiscountTotal: 10,
			Total:         751.5,
			LineItems: []ledger.LineItem{
				{Name: "Tea, Premium", Quantity: 2, Price: 120.5},
				{Name: "Honey \"Raw\"", Quantity: 1, Price: 480.5},
			},
		},
		{
			ID:          502,
			Status:      "completed",
			DateCreated: "2024-04-03T11:15:00",
			Currency:    "INR",
			Billing:     ledger.Billing{FirstName: "Vikram", State: "MH"},
			Total:       300,
			LineItems: []ledger.LineItem{
				{Name: "Ghee", Quantity: 3, Price: 100},
			},
		},
	}
	rows, _ := ledger.Flatten(orders, nil, ledger.FlattenOptions{InvoicePrefix: "INV/", SequenceStart: 1})
	return rows
}

func TestCSVRoundTrip(t *testing.T) {
	rows := sampleRows()

	data, err := CSVBytes(rows)
	require.NoError(t, err)

	parsed, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, len(rows)+1, "header plus one record per row")

	assert.Equal(t, CSVHeader, parsed[0])
	require.Len(t, parsed[0], 22)

	for i, r := range rows {
		record := parsed[i+1]
		assert.Equal(t, r.InvoiceNumber, record[0])
		assert.Equal(t, strconv.FormatInt(r.PurchaseOrder, 10), record[1])
		assert.Equal(t, r.ItemName, record[7])

		qty, err := strconv.ParseFloat(record[10], 64)
		require.NoError(t, err)
		assert.Equal(t, r.Quantity, qty)

		price, err := strconv.ParseFloat(record[12], 64)
		require.NoError(t, err)
		assert.Equal(t, r.ItemPrice, price)
	}
}

func TestCSVBooleanLiterals(t *testing.T) {
	data, err := CSVBytes(sampleRows())
	require.NoError(t, err)

	parsed, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	record := parsed[1]
	assert.Equal(t, "FALSE", record[13], "Is Inclusive Tax")
	assert.Equal(t, "TRUE", record[16], "Is Discount Before Tax")
}

func TestCSVEmptyRowSet(t *testing.T) {
	data, err := CSVBytes(nil)
	require.NoError(t, err)

	parsed, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 1, "header only")
}
