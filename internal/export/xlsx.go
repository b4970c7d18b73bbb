package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/example/sereno-rh/internal/application"
)

// Workbook layout.
const (
	SheetName   = "Asistencias"
	TableName   = "TablaAsistencias"
	TableStyle  = "TableStyleMedium2"
	ColumnWidth = 24
)

// WriteXLSX writes rows as a workbook with a single styled table. The table
// carries the header filter buttons over the whole data range.
func WriteXLSX(w io.Writer, rows []application.ExportRow) (err error) {
	if len(rows) == 0 {
		return ErrNoData
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err = f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, 0, len(columns))
	for _, h := range Headers() {
		header = append(header, h)
	}
	if err = f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, cerr := excelize.CoordinatesToCellName(1, i+2)
		if cerr != nil {
			return cerr
		}
		values := make([]interface{}, 0, len(columns))
		for _, v := range record(row) {
			values = append(values, v)
		}
		if err = f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err = f.SetColWidth(SheetName, "A", lastCol, ColumnWidth); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	stripes := true
	if err = f.AddTable(SheetName, &excelize.Table{
		Range:          fmt.Sprintf("A1:%s%d", lastCol, len(rows)+1),
		Name:           TableName,
		StyleName:      TableStyle,
		ShowRowStripes: &stripes,
	}); err != nil {
		return fmt.Errorf("add table: %w", err)
	}

	if _, err = f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
