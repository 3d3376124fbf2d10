// Package process wraps the three operating-system primitives the recording
// lifecycle needs: probing whether a PID exists, launching a detached child,
// and delivering a termination signal.
//
// Nothing here waits for a process to exit. Launch releases the child as soon
// as it is spawned and Signal returns once the kernel accepted the signal.
package process
