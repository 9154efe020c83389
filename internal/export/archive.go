package export

import (
	"archive/zip"
	"bytes"

	"github.com/pkg/errors"

	"gstledger/internal/ledger"
)

// ArchiveBytes bundles the CSV and workbook artifacts for one run into a
// single zip, with entries named after the date-range label.
func ArchiveBytes(rows []ledger.LedgerRow, summary ledger.Summary, orders []ledger.Order, label string) ([]byte, error) {
	csvData, err := CSVBytes(rows)
	if err != nil {
		return nil, err
	}
	xlsxData, err := WorkbookBytes(summary, orders)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct {
		name string
		data []byte
	}{
		{ArtifactName(label, "csv"), csvData},
		{ArtifactName(label, "xlsx"), xlsxData},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return nil, errors.Wrapf(err, "create archive entry %s", e.name)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, errors.Wrapf(err, "write archive entry %s", e.name)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "finalize archive")
	}
	return buf.Bytes(), nil
}
