// Package stub implements an in-memory stand-in for the dashboard REST API
// endpoints the telemetry wizard uses.
//
// It serves the same routes as a real manager's dashboard:
//
//	POST /api/auth                          token login
//	GET  /api/health/minimal                health check
//	GET  /api/mgr/module/{module}/options   option descriptors
//	GET  /api/mgr/module/{module}           current configuration
//	PUT  /api/mgr/module/{module}           {"config": {...}} update
//	GET  /api/telemetry/report              generated report
//	PUT  /api/telemetry                     {"enable": bool, "license_name": "sharing-1-0"}
//
// Option descriptors mirror the telemetry module's real ones. Every report
// gets a fresh UUID and lists the channels currently switched on.
//
// Tests mount the handler on an httptest server:
//
//	state := stub.NewState()
//	srv := httptest.NewServer(stub.NewHandler(state, stub.Credentials{}))
//	defer srv.Close()
//
//	state.FailOn(http.MethodPut, "/api/telemetry", http.StatusInternalServerError)
//
// The dashboard-stub command runs the same handler behind Server, optionally
// over TLS with a self-signed certificate generated in memory.
package stub
