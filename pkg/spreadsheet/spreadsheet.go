package spreadsheet

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
)

var ErrEmptySheet = errors.New("spreadsheet contains no data rows")

// ImportRow is one parsed line of an inventory import file. Column headers
// are matched case-insensitively; "name"/"product name" and
// "qty"/"quantity" and "expiry"/"date" are accepted interchangeably.
type ImportRow struct {
	SKU      string
	Name     string
	Price    float64
	Quantity int
	Expiry   *time.Time
}

// ReportRow is one line of the inventory export report.
type ReportRow struct {
	Product  string  `csv:"Product"`
	SKU      string  `csv:"SKU"`
	Price    float64 `csv:"Price"`
	TotalQty int     `csv:"Total Qty"`
	Value    float64 `csv:"Value"`
}

func init() {
	gocsv.SetHeaderNormalizer(func(h string) string {
		return strings.ToLower(strings.TrimSpace(h))
	})
}

var expiryLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"01/02/2006",
	time.RFC3339,
}

func parseExpiry(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// Quantity cells sometimes arrive as "12.0" from spreadsheet tools
	return int(parseFloat(s))
}

// ParseWorkbook reads the first sheet of an .xlsx file into import rows.
// Rows missing both SKU and name are skipped.
func ParseWorkbook(data []byte) ([]ImportRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows := f.GetRows(sheet)
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	// Header row, matched case-insensitively
	col := make(map[string]int)
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cell := func(row []string, keys ...string) string {
		for _, key := range keys {
			if i, ok := col[key]; ok && i < len(row) {
				if v := strings.TrimSpace(row[i]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	var out []ImportRow
	for _, row := range rows[1:] {
		r := ImportRow{
			SKU:      cell(row, "sku"),
			Name:     cell(row, "name", "product name"),
			Price:    parseFloat(cell(row, "price")),
			Quantity: parseInt(cell(row, "qty", "quantity")),
			Expiry:   parseExpiry(cell(row, "expiry", "date")),
		}
		if r.SKU == "" || r.Name == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// csvRecord carries every accepted header variant; variants are coalesced
// after unmarshalling.
type csvRecord struct {
	SKU         string `csv:"sku"`
	Name        string `csv:"name"`
	ProductName string `csv:"product name"`
	Price       string `csv:"price"`
	Qty         string `csv:"qty"`
	Quantity    string `csv:"quantity"`
	Expiry      string `csv:"expiry"`
	Date        string `csv:"date"`
}

// ParseCSV reads a CSV export into import rows using the same header rules
// as ParseWorkbook.
func ParseCSV(data []byte) ([]ImportRow, error) {
	var records []csvRecord
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, err
	}

	coalesce := func(values ...string) string {
		for _, v := range values {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
		return ""
	}

	var out []ImportRow
	for _, rec := range records {
		r := ImportRow{
			SKU:      strings.TrimSpace(rec.SKU),
			Name:     coalesce(rec.Name, rec.ProductName),
			Price:    parseFloat(rec.Price),
			Quantity: parseInt(coalesce(rec.Qty, rec.Quantity)),
			Expiry:   parseExpiry(coalesce(rec.Expiry, rec.Date)),
		}
		if r.SKU == "" || r.Name == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

var reportHeader = []string{"Product", "SKU", "Price", "Total Qty", "Value"}

// BuildWorkbook renders report rows into an .xlsx workbook.
func BuildWorkbook(rows []ReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	for i, h := range reportHeader {
		f.SetCellValue(sheet, axis(i, 1), h)
	}
	for i, r := range rows {
		rowIdx := i + 2
		f.SetCellValue(sheet, axis(0, rowIdx), r.Product)
		f.SetCellValue(sheet, axis(1, rowIdx), r.SKU)
		f.SetCellValue(sheet, axis(2, rowIdx), r.Price)
		f.SetCellValue(sheet, axis(3, rowIdx), r.TotalQty)
		f.SetCellValue(sheet, axis(4, rowIdx), r.Value)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildCSV renders report rows as CSV.
func BuildCSV(rows []ReportRow) ([]byte, error) {
	return gocsv.MarshalBytes(&rows)
}

// axis converts a zero-based column and one-based row into an A1 reference.
func axis(col, row int) string {
	name := ""
	col++
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name + strconv.Itoa(row)
}
