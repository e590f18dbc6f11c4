// Package wizard implements the telemetry opt-in flow.
//
// A Wizard walks one operator through two steps:
//
//  1. Configure: the telemetry module's options (channels, interval, proxy,
//     contact details) are loaded together with their current values and
//     offered as an editable form.
//  2. Preview: a fresh telemetry report is fetched, its channel list is
//     adjusted to the pending edits, and the operator must accept the data
//     sharing license before submitting.
//
// Submitting enables telemetry and persists the pending edits in one joined
// step. Declining disables the module instead.
//
// The Wizard does no I/O of its own. It talks to the dashboard through the
// OptionsReader, ConfigStore, ReportFetcher and Toggler interfaces and reports
// back through Notifier, Navigator and Downloader, so the same controller
// drives both the terminal UI and the non-interactive commands:
//
//	w := wizard.New(wizard.FromBackend(client, wizard.Presenter{
//	    Notifier:   notifier,
//	    Navigator:  navigator,
//	    Downloader: wizard.FileDownloader{Dir: "."},
//	}))
//	if err := w.Init(ctx); err != nil {
//	    return err
//	}
//	_ = w.SetOption("channel_crash", "true")
//	if err := w.Next(ctx); err != nil {
//	    return err
//	}
//	_ = w.AcceptLicense(true)
//	return w.Submit(ctx)
//
// A Wizard is not safe for concurrent use; callers serialize access the way
// the terminal UI does with its single event loop.
package wizard
