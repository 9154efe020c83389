package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"gstledger/internal/ledger"
)

// PDFBytes renders the fixed-layout invoice document: one A4 page per
// invoiced order carrying the invoice number, order number and customer
// name at fixed positions.
func PDFBytes(stubs []ledger.InvoiceStub) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice Export", false)

	for _, stub := range stubs {
		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", 18)
		pdf.Text(20, 30, fmt.Sprintf("Invoice %s", stub.InvoiceNumber))

		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(20, 45, fmt.Sprintf("Order Number: %d", stub.OrderID))
		pdf.Text(20, 55, fmt.Sprintf("Customer: %s", stub.CustomerName))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "render pdf")
	}
	return buf.Bytes(), nil
}
