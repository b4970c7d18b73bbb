// Package export writes attendance rows as CSV or XLSX files with bilingual
// Spanish and English headers.
package export

import (
	"errors"

	"github.com/example/sereno-rh/internal/application"
)

// ErrNoData is returned when there are no rows to write.
var ErrNoData = errors.New("export: no data to export")

// Default file names offered to the user.
const (
	DefaultCSVFilename  = "asistencias.csv"
	DefaultXLSXFilename = "asistencias.xlsx"
)

// Column describes one exported field.
type Column struct {
	Key    string
	Header string
	value  func(application.ExportRow) string
}

var columns = []Column{
	{Key: "employeeId", Header: "idEmpleado (employeeId)", value: func(r application.ExportRow) string { return r.EmployeeID }},
	{Key: "date", Header: "fecha (date)", value: func(r application.ExportRow) string { return r.Date }},
	{Key: "checkinTime", Header: "horaEntrada (checkinTime)", value: func(r application.ExportRow) string { return r.CheckinTime }},
	{Key: "checkoutTime", Header: "horaSalida (checkoutTime)", value: func(r application.ExportRow) string { return r.CheckoutTime }},
	{Key: "duration", Header: "duracion (duration)", value: func(r application.ExportRow) string { return r.Duration }},
	{Key: "employeeName", Header: "nombreEmpleado (employeeName)", value: func(r application.ExportRow) string { return r.EmployeeName }},
	{Key: "status", Header: "estado (status)", value: func(r application.ExportRow) string { return string(r.Status) }},
}

// Columns returns the exported columns in output order.
func Columns() []Column {
	out := make([]Column, len(columns))
	copy(out, columns)
	return out
}

// Headers returns the bilingual header of every column.
func Headers() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Header
	}
	return out
}

func record(row application.ExportRow) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.value(row)
	}
	return out
}
