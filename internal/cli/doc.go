// Package cli assembles the cobra commands shared by the hauski umbrella
// binary and the standalone rec-start, rec-stop, audio-mode and
// validate-ai-context tools.
//
// Commands write results to stdout and diagnostics to stderr. Exit statuses
// follow the appliance convention: 0 on success or dry-run, 1 when an action
// is refused or fails at runtime, 2 for configuration and usage errors.
package cli
