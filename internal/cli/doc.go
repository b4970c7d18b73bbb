// Package cli provides the command line presentation layer of Sereno RH.
//
// Invocation is `serenorh [-compact] <view> [action] [flags]`. Every view
// writes one JSON document to stdout; failures write an error document to
// stderr and exit with the code chosen by the responder.
//
//   - login -email -secret: authenticates and stores the session token.
//   - logout: forgets the stored session.
//   - dashboard [-employee]: personal metrics, weekly status and goals.
//   - attendance [today|toggle|history -limit]: the daily check-in flow.
//   - profile [show|update -name -email]: the caller's roster entry.
//   - goals [list|monthly]: goals of the caller.
//   - rewards [list|redeem -id]: catalogue and points balance.
//   - reports [-limit]: attendance history with punctuality summary.
//   - admin-dashboard: roster wide metrics and the punctuality matrix.
//   - admin-employees [list|create|update|toggle|delete]: roster management.
//   - admin-attendance [-q -employee -from -to]: attendance log search.
//   - admin-rewards [list|create|update|toggle|delete]: reward catalogue.
//   - admin-goals [list|create|update|delete]: monthly goals.
//   - export [-format csv|xlsx -out -q -employee -from -to]: attendance export.
//
// Every view except login requires the session stored by login; admin views
// additionally require the admin role.
package cli
