// Package tui implements the full-screen terminal front end of the telemetry
// opt-in wizard.
//
// The TUI is a thin Bubble Tea shell around a wizard.Wizard. It owns no
// business rules: every decision (what is dirty, what is sent, which
// channels a report carries) is made by the wizard, and the model only
// renders its state and forwards keys to it.
//
// # Screens
//
//   - Loading: spinner while options and configuration are fetched
//   - Configure: one row per offered option. Bools toggle with space,
//     ints and strings are edited inline with a text input. Contact fields
//     stay hidden until the ident channel is switched on or i is pressed.
//   - Preview: the report in a scrollable viewport, the pending changes as
//     a diff, and the license checkbox that must be ticked before submit.
//   - Error: a failed load or report fetch with troubleshooting tips
//   - Done: the result of opting in or declining
//
// All screens share RenderApplicationContainer for the header, content and
// context help footer.
//
// # Concurrency
//
// Calls that reach the dashboard run inside a tea.Cmd. While one is in
// flight the model is busy, ignores keys other than ctrl+c, and does not
// read wizard state from View. Notifications raised by the wizard are
// buffered in a Presenter and picked up when the command's result message
// arrives.
//
// # Usage
//
//	outcome, err := tui.Run(ctx, client, tui.Options{Cluster: "prod"})
//	if err != nil {
//	    return err
//	}
//	if outcome.Enabled {
//	    fmt.Println("report", outcome.ReportID)
//	}
package tui
