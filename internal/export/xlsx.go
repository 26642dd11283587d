// Package export writes the quote history as a spreadsheet.
package export

import (
	"fmt"
	"io"

	"github.com/diewo77/workshop-quotes/internal/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single sheet of the workbook.
const SheetName = "Orçamentos"

// ContentType is the XLSX media type.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headings = []interface{}{"Número", "Data", "Cliente", "Telefone", "Veículo", "Placa", "Itens", "Total", "Reenvios"}

// WriteQuotes writes one row per quote, in the given order, after a heading row.
func WriteQuotes(w io.Writer, quotes []models.Quote) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := setRow(f, 1, headings); err != nil {
		return err
	}
	for i := range quotes {
		q := &quotes[i]
		c := q.Client.Data()
		row := []interface{}{
			q.Number, q.Date, c.Name, c.Phone, c.Vehicle, c.Plate,
			len(q.Items.Data()), q.Total, q.ResendCount,
		}
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}
	if len(quotes) > 0 {
		if err := f.SetCellStyle(SheetName, "H2", fmt.Sprintf("H%d", len(quotes)+1), style); err != nil {
			return err
		}
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	return f.Write(w)
}

func setRow(f *excelize.File, rowNo int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	return f.SetSheetRow(SheetName, cell, &values)
}
