package output

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Variables"

// WriteXLSX writes the report rows as a spreadsheet with one row per
// variable: name, quantity and commodity.
func WriteXLSX(w io.Writer, rows []Row) error {
	xlsx := excelize.NewFile()
	defer func() { _ = xlsx.Close() }()

	_ = xlsx.SetAppProps(&excelize.AppProperties{
		Application: "ledgercalc",
	})

	sheet := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	if err := xlsx.SetSheetName(sheet, reportSheet); err != nil {
		return err
	}

	_ = xlsx.SetColWidth(reportSheet, "A", "A", 30)
	_ = xlsx.SetColWidth(reportSheet, "B", "C", 15)

	bold, err := xlsx.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := xlsx.SetSheetRow(reportSheet, "A1", &[]any{"Variable", "Amount", "Commodity"}); err != nil {
		return err
	}
	_ = xlsx.SetCellStyle(reportSheet, "A1", "C1", bold)

	number, err := xlsx.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := xlsx.SetSheetRow(reportSheet, cell, &[]any{row.Name, row.Quantity.InexactFloat64(), row.Commodity}); err != nil {
			return err
		}
		amountCell, _ := excelize.CoordinatesToCellName(2, i+2)
		_ = xlsx.SetCellStyle(reportSheet, amountCell, amountCell, number)
	}

	_ = xlsx.SetPanes(reportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	_, err = xlsx.WriteTo(w)
	return err
}
