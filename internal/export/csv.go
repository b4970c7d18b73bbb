package export

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/example/sereno-rh/internal/application"
)

const utf8BOM = "\ufeff"

// WriteCSV writes rows as UTF-8 CSV preceded by a byte order mark so
// spreadsheet applications detect the encoding. Data cells are always quoted
// and normalized to NFC; lines are separated by "\n".
func WriteCSV(w io.Writer, rows []application.ExportRow) error {
	if len(rows) == 0 {
		return ErrNoData
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}
	if _, err := bw.WriteString(strings.Join(Headers(), ",")); err != nil {
		return err
	}

	for _, row := range rows {
		fields := record(row)
		for i, field := range fields {
			fields[i] = quote(field)
		}
		if _, err := bw.WriteString("\n" + strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(norm.NFC.String(field), `"`, `""`) + `"`
}
