package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	cols := []string{"A", "B", "C", "D", "E"}
	for r, row := range rows {
		for c, v := range row {
			f.SetCellValue(sheet, cols[c]+string(rune('1'+r)), v)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParseWorkbookHeaderInsensitive(t *testing.T) {
	data := buildTestWorkbook(t, [][]interface{}{
		{"SKU", "Product Name", "PRICE", "Qty", "Expiry"},
		{"SKU-1", "Rice 5kg", 12.5, 30, "2030-01-15"},
		{"SKU-2", "Beans", 2, 0, ""},
	})

	rows, err := ParseWorkbook(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "SKU-1", rows[0].SKU)
	assert.Equal(t, "Rice 5kg", rows[0].Name)
	assert.Equal(t, 12.5, rows[0].Price)
	assert.Equal(t, 30, rows[0].Quantity)
	require.NotNil(t, rows[0].Expiry)
	assert.Equal(t, 2030, rows[0].Expiry.Year())

	assert.Equal(t, 0, rows[1].Quantity)
	assert.Nil(t, rows[1].Expiry)
}

func TestParseWorkbookSkipsIncompleteRows(t *testing.T) {
	data := buildTestWorkbook(t, [][]interface{}{
		{"sku", "name", "price", "qty"},
		{"", "No SKU", 1, 1},
		{"SKU-3", "", 1, 1},
		{"SKU-4", "Complete", 1, 1},
	})

	rows, err := ParseWorkbook(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SKU-4", rows[0].SKU)
}

func TestParseWorkbookEmpty(t *testing.T) {
	data := buildTestWorkbook(t, [][]interface{}{
		{"sku", "name"},
	})

	_, err := ParseWorkbook(data)
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestParseCSVHeaderVariants(t *testing.T) {
	csv := "SKU,NAME,Price,QUANTITY,date\n" +
		"SKU-1,Sugar,1.2,7,2030/06/01\n"

	rows, err := ParseCSV([]byte(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sugar", rows[0].Name)
	assert.Equal(t, 7, rows[0].Quantity)
	require.NotNil(t, rows[0].Expiry)
}

func TestParseCSVQtyVariantAndFractionalCells(t *testing.T) {
	csv := "sku,product name,price,qty\n" +
		"SKU-1,Flour,3.40,12.0\n"

	rows, err := ParseCSV([]byte(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Flour", rows[0].Name)
	assert.Equal(t, 12, rows[0].Quantity)
	assert.Equal(t, 3.4, rows[0].Price)
}

func TestBuildCSVHeader(t *testing.T) {
	data, err := BuildCSV([]ReportRow{
		{Product: "Rice", SKU: "SKU-1", Price: 2, TotalQty: 5, Value: 10},
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), "Product,SKU,Price,Total Qty,Value")
	assert.Contains(t, string(data), "Rice,SKU-1,2,5,10")
}

func TestAxis(t *testing.T) {
	assert.Equal(t, "A1", axis(0, 1))
	assert.Equal(t, "E3", axis(4, 3))
	assert.Equal(t, "AA2", axis(26, 2))
}
