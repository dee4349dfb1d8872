package internaldefs

import (
	goGuard "github.com/MrEthical07/goGuard"
)

// CounterDef defines a public type used by goGuard APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goGuard.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goGuard APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goGuard.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the guard engine.
var CounterDefs = []CounterDef{
	{ID: goGuard.MetricRateLimitHit, Name: "goguard_rate_limit_hit_total", Help: "Rate-limit checks that denied requests."},
	{ID: goGuard.MetricUnauthenticated, Name: "goguard_unauthenticated_total", Help: "Requests rejected for missing or invalid credentials."},
	{ID: goGuard.MetricForbidden, Name: "goguard_forbidden_total", Help: "Requests rejected by role authorization."},
	{ID: goGuard.MetricValidationFailed, Name: "goguard_validation_failed_total", Help: "Requests rejected by input validation."},
	{ID: goGuard.MetricSessionResolved, Name: "goguard_session_resolved_total", Help: "Credentials successfully resolved to active sessions."},
	{ID: goGuard.MetricSessionIssued, Name: "goguard_session_issued_total", Help: "Issued sessions."},
	{ID: goGuard.MetricSessionRevoked, Name: "goguard_session_revoked_total", Help: "Sessions revoked by their owner."},
	{ID: goGuard.MetricSessionRevokedAdmin, Name: "goguard_session_revoked_admin_total", Help: "Sessions revoked through the admin surface."},
	{ID: goGuard.MetricRevokeNotFound, Name: "goguard_revoke_not_found_total", Help: "Revocations targeting missing or already-revoked sessions."},
	{ID: goGuard.MetricListSelf, Name: "goguard_list_self_total", Help: "Self session listings."},
	{ID: goGuard.MetricListAll, Name: "goguard_list_all_total", Help: "Admin session listings."},
}

// HistogramDefs is an exported constant or variable used by the guard engine.
var HistogramDefs = []HistogramDef{
	{ID: goGuard.MetricResolveLatency, Name: "goguard_resolve_latency_seconds", Help: "Session resolution latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the guard engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the guard engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
