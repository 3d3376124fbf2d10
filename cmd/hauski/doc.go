// Command hauski bundles the appliance host tools behind one binary:
//
//	hauski rec-start [--dry-run] [--json] [--force] [--output PATH] [-- recorder-args...]
//	hauski rec-stop [--dry-run] [--json] [--force]
//	hauski audio-mode show|alsa|pulse
//	hauski validate-ai-context --file PATH --templates-dir DIR
//	hauski status [--json]
//	hauski config init|validate
//
// The standalone rec-start, rec-stop, audio-mode and validate-ai-context
// binaries expose the same commands.
package main
