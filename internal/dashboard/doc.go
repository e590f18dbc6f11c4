// Package dashboard provides an HTTP client for the cluster dashboard REST API
// endpoints used to review and configure the telemetry manager module.
//
// The client covers the four collaborators the wizard needs:
//   - Options: the option descriptors of a manager module
//   - Config: the current configuration of a manager module, and updates to it
//   - Report: the telemetry report that would be sent
//   - Enable/disable: the telemetry opt-in switch
//
// # Usage Example
//
//	client := dashboard.NewClient("https://ceph-mgr.example:8443")
//	client.SetAuth("admin", os.Getenv("CEPH_TELEMETRY_PASSWORD"))
//	client.SetInsecure(true) // self-signed dashboard certificate
//
//	cfg, err := client.GetConfig(ctx, dashboard.TelemetryModule)
//	if err != nil {
//	    fmt.Println(dashboard.GetShortErrorMessage(err))
//	    fmt.Println(dashboard.GetTroubleshootingHint(err))
//	    return err
//	}
//
//	report, err := client.GetReport(ctx)
//	fmt.Println(report.ReportID(), report.Channels())
//
// # Authentication
//
// When a username is set the client logs in lazily on the first request and
// sends the returned token as a Bearer header afterwards. A 401 response drops
// the token so the next request logs in again.
//
// # Error Handling
//
// Every call is a single request with no retry. Failures are returned as
// *APIError values classified by Kind (network, timeout, refused, DNS,
// auth, HTTP, parse, validation) so callers can print a short message and a
// troubleshooting hint.
package dashboard
