// Package audiomode switches the Mopidy audio sink between direct ALSA output
// and the PulseAudio/PipeWire bridge.
//
// It edits only the output key of the [audio] section of mopidy.conf,
// leaving every other byte of the file as it was, and optionally toggles the
// PipeWire user units and restarts Mopidy afterwards.
package audiomode
