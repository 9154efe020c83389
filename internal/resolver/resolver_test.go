package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gstledger/internal/config"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapping.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCSVAndResolve(t *testing.T) {
	path := writeTempCSV(t,
		"Raw Name,Canonical Name,Tax Code,Unit\n"+
			"Protein Bar,Protein Bar (50g),2106,pcs\n"+
			"ghee , Pure Ghee ,0405,kg\n")

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	m, ok := table.Resolve("Protein Bar")
	require.True(t, ok)
	assert.Equal(t, "Protein Bar (50g)", m.Canonical)
	assert.Equal(t, "2106", m.TaxCode)
	assert.Equal(t, "pcs", m.Unit)

	// matching is case-insensitive and trimmed
	m, ok = table.Resolve("  PROTEIN BAR ")
	require.True(t, ok)
	assert.Equal(t, "Protein Bar (50g)", m.Canonical)

	m, ok = table.Resolve("GHEE")
	require.True(t, ok)
	assert.Equal(t, "Pure Ghee", m.Canonical)

	_, ok = table.Resolve("Protein")
	assert.False(t, ok, "no partial matching")
}

func TestLoadFirstDuplicateWins(t *testing.T) {
	path := writeTempCSV(t,
		"raw name,canonical name,tax code,unit\n"+
			"Tea,First Tea,0902,kg\n"+
			"tea,Second Tea,9999,g\n")

	table, err := Load(path)
	require.NoError(t, err)

	m, ok := table.Resolve("Tea")
	require.True(t, ok)
	assert.Equal(t, "First Tea", m.Canonical)
}

func TestLoadMissingColumnIsConfigError(t *testing.T) {
	path := writeTempCSV(t,
		"raw name,canonical name,unit\n"+
			"Tea,Nice Tea,kg\n")

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "tax code")
}

func TestLoadEmptyPathIsIdentity(t *testing.T) {
	table, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())

	_, ok := table.Resolve("anything")
	assert.False(t, ok)
}

func TestLoadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Raw Name", "Canonical Name", "Tax Code", "Unit"},
		{"Protein Bar", "Protein Bar (50g)", "2106", "pcs"},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := Load(path)
	require.NoError(t, err)

	m, ok := table.Resolve("protein bar")
	require.True(t, ok)
	assert.Equal(t, "Protein Bar (50g)", m.Canonical)
	assert.Equal(t, "2106", m.TaxCode)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
