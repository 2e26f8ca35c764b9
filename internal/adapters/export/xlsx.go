package export

import (
	"fmt"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName   = "Tablero"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []string{"Grupo", "Tarea", "Avance", "Total", "Porcentaje", "Para el promedio", "Días", "Fecha"}

type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) ContentType() string {
	return ContentType
}

func (r *XLSXRenderer) Extension() string {
	return ".xlsx"
}

// Render writes one row per task, grouped in board order, with the group
// average after each group.
func (r *XLSXRenderer) Render(board *domain.Board) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	row := 1
	if err := writeRow(f, row, toCells(header)); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "H1", bold); err != nil {
		return nil, err
	}

	for _, g := range board.Groups {
		for _, t := range g.Tasks {
			row++
			cells := []interface{}{
				g.Title, t.Text, t.Numerator, t.Denominator,
				fmt.Sprintf("%.1f%%", t.Percentage), t.UnitsNeeded, t.DaysRemaining, t.DueLabel,
			}
			if err := writeRow(f, row, cells); err != nil {
				return nil, err
			}
		}

		row++
		if err := writeRow(f, row, []interface{}{g.Title, "Promedio", nil, nil, fmt.Sprintf("%.1f%%", g.Average)}); err != nil {
			return nil, err
		}
		cell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellStyle(sheetName, cell, cell, bold); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheetName, "B", "B", 32); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func writeRow(f *excelize.File, row int, cells []interface{}) error {
	for i, v := range cells {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("failed to write %s: %w", cell, err)
		}
	}
	return nil
}
