// File: diag/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package diag is the loop host's ambient operability surface: hot-reloadable
// configuration, Prometheus metrics, and a small debug snapshot, adapted
// from the teacher's control package (control/config.go, control/metrics.go,
// control/debug.go) to the fspoll/async domain instead of hioload-ws's
// reactor/session domain.
package diag
