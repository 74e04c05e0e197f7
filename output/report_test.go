package output

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func rows() []Row {
	return []Row{
		{Name: "food", Quantity: decimal.RequireFromString("50"), Commodity: "$"},
		{Name: "rent_per_month", Quantity: decimal.RequireFromString("66.5"), Commodity: "$"},
		{Name: "trip", Quantity: decimal.RequireFromString("-120"), Commodity: "EUR"},
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		quantity  string
		commodity string
		want      string
	}{
		{"50", "$", "$50"},
		{"-5.25", "$", "$-5.25"},
		{"100", "EUR", "100 EUR"},
		{"3", "€", "€3"},
		{"7", "", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.quantity), tt.commodity))
		})
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteReport(&buf, rows()))
	assert.Equal(t, "food = 50\nrent_per_month = 66.5\ntrip = -120\n", buf.String())
}

func TestWriteReportAligned(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteReport(&buf, rows(), WithAlignment()))
	assert.Equal(t, ""+
		"food           =   50\n"+
		"rent_per_month = 66.5\n"+
		"trip           = -120\n", buf.String())
}

func TestWriteReportAlignsWideNames(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReport(&buf, []Row{
		{Name: "食費", Quantity: decimal.NewFromInt(1), Commodity: "$"},
		{Name: "rent", Quantity: decimal.NewFromInt(2), Commodity: "$"},
	}, WithAlignment())
	assert.NoError(t, err)
	assert.Equal(t, "食費 = 1\nrent = 2\n", buf.String())
}

func TestWriteReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteReport(&buf, nil, WithAlignment()))
	assert.Equal(t, "", buf.String())
}

func TestWriteReportPlainStyles(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteReport(&buf, rows()[:1], WithStyles(NewPlainStyles(&buf))))
	assert.Equal(t, "food = 50\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteXLSX(&buf, rows()))

	f, err := excelize.OpenReader(&buf)
	assert.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{reportSheet}, f.GetSheetList())

	header, err := f.GetCellValue(reportSheet, "A1")
	assert.NoError(t, err)
	assert.Equal(t, "Variable", header)

	name, err := f.GetCellValue(reportSheet, "A4")
	assert.NoError(t, err)
	assert.Equal(t, "trip", name)

	commodity, err := f.GetCellValue(reportSheet, "C4")
	assert.NoError(t, err)
	assert.Equal(t, "EUR", commodity)

	raw, err := f.GetCellValue(reportSheet, "B3", excelize.Options{RawCellValue: true})
	assert.NoError(t, err)
	value, err := strconv.ParseFloat(raw, 64)
	assert.NoError(t, err)
	assert.Equal(t, 66.5, value)
}
