package export

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"gstledger/internal/ledger"
)

const (
	summarySheet = "Summary"
	detailSheet  = "Order Details"
)

var detailHeader = []string{
	"Order ID",
	"Date",
	"Status",
	"Customer",
	"Line Items",
	"Shipping",
	"Discount",
	"Refunds",
	"Total",
}

// WorkbookBytes renders a two-sheet workbook: Summary with metric/value
// pairs and Order Details with one row per order plus a grand-total row.
func WorkbookBytes(summary ledger.Summary, orders []ledger.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, errors.Wrap(err, "create detail sheet")
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "create header style")
	}

	if err := writeSummarySheet(f, summary, bold); err != nil {
		return nil, err
	}
	if err := writeDetailSheet(f, orders, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "serialize workbook")
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, summary ledger.Summary, headerStyle int) error {
	if err := setRow(f, summarySheet, 1, []interface{}{"Metric", "Value"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return errors.Wrap(err, "style summary header")
	}
	widths := []int{len("Metric"), len("Value")}
	for i, metric := range summary.Metrics() {
		if err := setRow(f, summarySheet, i+2, []interface{}{metric[0], metric[1]}); err != nil {
			return err
		}
		widths[0] = max(widths[0], len(metric[0]))
		widths[1] = max(widths[1], len(metric[1]))
	}
	return autoWidth(f, summarySheet, widths)
}

func writeDetailSheet(f *excelize.File, orders []ledger.Order, headerStyle int) error {
	header := make([]interface{}, len(detailHeader))
	widths := make([]int, len(detailHeader))
	for i, h := range detailHeader {
		header[i] = h
		widths[i] = len(h)
	}
	if err := setRow(f, detailSheet, 1, header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(detailHeader), 1)
	if err != nil {
		return errors.Wrap(err, "header range")
	}
	if err := f.SetCellStyle(detailSheet, "A1", last, headerStyle); err != nil {
		return errors.Wrap(err, "style detail header")
	}

	sorted := make([]ledger.Order, len(orders))
	copy(sorted, orders)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var shipping, discount, refunds, total float64
	var items int
	for i, o := range sorted {
		shipping += o.ShippingTotal.Float()
		discount += o.DiscountTotal.Float()
		refunds += o.RefundTotal()
		total += o.Total.Float()
		items += len(o.LineItems)

		row := []interface{}{
			o.ID,
			o.DateCreated,
			ledger.NormalizeStatus(o.Status),
			o.Billing.FullName(),
			len(o.LineItems),
			o.ShippingTotal.Float(),
			o.DiscountTotal.Float(),
			o.RefundTotal(),
			o.Total.Float(),
		}
		if err := setRow(f, detailSheet, i+2, row); err != nil {
			return err
		}
		widths[1] = max(widths[1], len(o.DateCreated))
		widths[3] = max(widths[3], len(o.Billing.FullName()))
	}

	grand := []interface{}{"Grand Total", "", "", "", items, shipping, discount, refunds, total}
	grandRow := len(sorted) + 2
	if err := setRow(f, detailSheet, grandRow, grand); err != nil {
		return err
	}
	start, err := excelize.CoordinatesToCellName(1, grandRow)
	if err != nil {
		return errors.Wrap(err, "grand total range")
	}
	end, err := excelize.CoordinatesToCellName(len(detailHeader), grandRow)
	if err != nil {
		return errors.Wrap(err, "grand total range")
	}
	if err := f.SetCellStyle(detailSheet, start, end, headerStyle); err != nil {
		return errors.Wrap(err, "style grand total")
	}
	return autoWidth(f, detailSheet, widths)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return errors.Wrapf(err, "cell %d,%d", col+1, row)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return errors.Wrapf(err, "set %s!%s", sheet, cell)
		}
	}
	return nil
}

// autoWidth sizes each column to its longest content plus padding.
func autoWidth(f *excelize.File, sheet string, widths []int) error {
	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return errors.Wrap(err, "column name")
		}
		if err := f.SetColWidth(sheet, name, name, float64(w)+4); err != nil {
			return errors.Wrapf(err, "set width of %s!%s", sheet, name)
		}
	}
	return nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ArtifactName builds the artifact file name for a date-range label, e.g.
// orders_2024-01-01_2024-01-31.csv.
func ArtifactName(label, ext string) string {
	return fmt.Sprintf("orders_%s.%s", label, ext)
}
