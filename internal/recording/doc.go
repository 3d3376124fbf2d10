// Package recording guarantees at most one active recorder per host using a
// PID state file as an advisory claim.
//
// The claim is never trusted on its own: Start and Stop re-probe the
// referenced PID on every call and delete claims whose process is gone.
// Start launches the recorder detached and returns immediately; Stop sends
// one signal and returns without waiting for the recorder to exit. Two
// concurrent invocations can still race between the liveness check and the
// state write; the tools accept that window rather than lock.
package recording
