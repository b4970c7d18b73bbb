package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/sereno-rh/internal/application"
	"github.com/example/sereno-rh/internal/export"
)

type exportPayload struct {
	Format string `json:"format"`
	File   string `json:"file"`
	Rows   int    `json:"rows"`
}

func (a *App) export(ctx context.Context, principal application.Principal, args []string) (_ any, err error) {
	fs := newFlagSet(ViewExport, "")
	format := fs.String("format", "csv", "csv or xlsx")
	out := fs.String("out", "", "output file")
	params := searchFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}

	kind := strings.ToLower(strings.TrimSpace(*format))
	var (
		write       func(w io.Writer, rows []application.ExportRow) error
		defaultName string
	)
	switch kind {
	case "csv":
		write, defaultName = export.WriteCSV, export.DefaultCSVFilename
	case "xlsx":
		write, defaultName = export.WriteXLSX, export.DefaultXLSXFilename
	default:
		return nil, usageErrorf("export: unknown format %q, expected csv or xlsx", *format)
	}

	rows, err := a.services.Attendance.ExportRows(ctx, params.build(principal))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, export.ErrNoData
	}

	path := strings.TrimSpace(*out)
	if path == "" {
		path = defaultName
	}
	if !filepath.IsAbs(path) && filepath.Dir(path) == "." && a.exportDir != "" {
		path = filepath.Join(a.exportDir, path)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cli: create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cli: close %s: %w", path, cerr)
		}
	}()
	if err := write(file, rows); err != nil {
		return nil, err
	}

	viewLogger(ctx, a.logger, ViewExport, kind, "file", path, "rows", len(rows)).InfoContext(ctx, "attendance exported")
	return exportPayload{Format: kind, File: path, Rows: len(rows)}, nil
}
