// Package urls provides centralized constants for the documentation URLs
// shown in hints, the license prompt and the wizard footer.
//
// Usage:
//
//	import "github.com/muurk/ceph-telemetry/internal/urls"
//
//	fmt.Printf("For more information, see: %s\n", urls.TelemetryModule)
package urls
