package cli

import (
	"fmt"
	"strings"
)

// View identifies one screen of the application.
type View int

const (
	ViewLogin View = iota + 1
	ViewLogout
	ViewEmployeeDashboard
	ViewAttendance
	ViewProfile
	ViewGoals
	ViewRewards
	ViewReports
	ViewAdminDashboard
	ViewAdminEmployees
	ViewAdminAttendance
	ViewAdminRewards
	ViewAdminGoals
	ViewExport
)

var viewNames = []struct {
	view View
	name string
}{
	{ViewLogin, "login"},
	{ViewLogout, "logout"},
	{ViewEmployeeDashboard, "dashboard"},
	{ViewAttendance, "attendance"},
	{ViewProfile, "profile"},
	{ViewGoals, "goals"},
	{ViewRewards, "rewards"},
	{ViewReports, "reports"},
	{ViewAdminDashboard, "admin-dashboard"},
	{ViewAdminEmployees, "admin-employees"},
	{ViewAdminAttendance, "admin-attendance"},
	{ViewAdminRewards, "admin-rewards"},
	{ViewAdminGoals, "admin-goals"},
	{ViewExport, "export"},
}

// ParseView maps a command name to its View.
func ParseView(name string) (View, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, entry := range viewNames {
		if entry.name == normalized {
			return entry.view, nil
		}
	}
	return 0, usageErrorf("unknown view %q", name)
}

// Views lists every view in menu order.
func Views() []View {
	views := make([]View, 0, len(viewNames))
	for _, entry := range viewNames {
		views = append(views, entry.view)
	}
	return views
}

// String returns the command name of the view.
func (v View) String() string {
	for _, entry := range viewNames {
		if entry.view == v {
			return entry.name
		}
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// RequiresSession reports whether the view needs a logged in principal.
func (v View) RequiresSession() bool {
	return v != ViewLogin && v != ViewLogout
}

// RequiresAdmin reports whether the view is reserved to administrators.
func (v View) RequiresAdmin() bool {
	switch v {
	case ViewAdminDashboard, ViewAdminEmployees, ViewAdminAttendance, ViewAdminRewards, ViewAdminGoals, ViewExport:
		return true
	default:
		return false
	}
}
