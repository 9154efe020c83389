// Package export serializes ledger rows and summary metrics into the
// artifact formats the accounting side consumes: CSV, a workbook, a
// fixed-layout PDF and a zip bundle. A serialization failure aborts the
// whole export.
package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"gstledger/internal/ledger"
)

// CSVHeader is the fixed 22-column schema, in export order.
var CSVHeader = []string{
	"Invoice Number",
	"PurchaseOrder",
	"Invoice Date",
	"Invoice Status",
	"Customer Name",
	"Place of Supply",
	"Currency Code",
	"Item Name",
	"HSN/SAC",
	"Item Type",
	"Quantity",
	"Usage unit",
	"Item Price",
	"Is Inclusive Tax",
	"Item Tax %",
	"Discount Type",
	"Is Discount Before Tax",
	"Entity Discount Amount",
	"Shipping Charge",
	"Item Tax Exemption Reason",
	"Supply Type",
	"GST Treatment",
}

// WriteCSV writes the header row plus one record per ledger row as UTF-8
// CSV.
func WriteCSV(w io.Writer, rows []ledger.LedgerRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, r := range rows {
		record := []string{
			r.InvoiceNumber,
			strconv.FormatInt(r.PurchaseOrder, 10),
			r.InvoiceDate,
			r.InvoiceStatus,
			r.CustomerName,
			r.PlaceOfSupply,
			r.CurrencyCode,
			r.ItemName,
			r.HSNCode,
			r.ItemType,
			formatFloat(r.Quantity),
			r.UsageUnit,
			formatFloat(r.ItemPrice),
			formatBool(r.IsInclusiveTax),
			r.ItemTaxPercent,
			r.DiscountType,
			formatBool(r.IsDiscountBeforeTax),
			formatFloat(r.EntityDiscountAmount),
			formatFloat(r.ShippingCharge),
			r.ExemptionReason,
			r.SupplyType,
			r.GSTTreatment,
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "write csv record")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// CSVBytes renders the rows to an in-memory CSV artifact.
func CSVBytes(rows []ledger.LedgerRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// The accounting import expects the spreadsheet-style uppercase literals.
func formatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
