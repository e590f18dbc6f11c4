package urls

// Documentation URLs for the telemetry module and the dashboard API.
// All URLs point to the upstream documentation at https://docs.ceph.com/

// TelemetryModule describes the telemetry manager module, its channels
// and the data each channel sends.
const TelemetryModule = "https://docs.ceph.com/en/latest/mgr/telemetry/"

// TelemetryLicense is the Community Data License Agreement the report is
// shared under.
const TelemetryLicense = "https://cdla.io/sharing-1-0/"

// DashboardAPI is the dashboard REST API reference.
const DashboardAPI = "https://docs.ceph.com/en/latest/mgr/ceph_api/"

// DashboardSetup covers enabling the dashboard, its SSL certificate and
// user accounts.
const DashboardSetup = "https://docs.ceph.com/en/latest/mgr/dashboard/"

// PublicDashboard shows the aggregated telemetry collected from clusters
// that opted in.
const PublicDashboard = "https://telemetry-public.ceph.com/"
