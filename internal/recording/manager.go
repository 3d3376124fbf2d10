package recording

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hauski/internal/logging"
	"hauski/internal/process"
)

// Prober reports whether a PID refers to a live process.
type Prober interface {
	Exists(pid int) (bool, error)
}

// Launcher spawns a detached recorder and returns its PID.
type Launcher interface {
	Launch(ctx context.Context, argv []string, logPath string) (int, error)
}

// Signaler delivers a termination signal.
type Signaler interface {
	Signal(pid int, sig process.Signal) error
}

// Store persists the recorder claim.
type Store interface {
	Path() string
	Read() (State, error)
	Write(State) error
	Remove() error
}

// Settings describes how recordings are named and launched.
type Settings struct {
	Dir       string
	Extension string
	Binary    string
	// Args is the fixed invocation template placed between the binary and
	// any passthrough arguments.
	Args []string
	// LogPath receives the recorder's stdout and stderr.
	LogPath string
}

// StartOptions controls a single Start call.
type StartOptions struct {
	Output string
	DryRun bool
	Force  bool
	Args   []string
}

// StopOptions controls a single Stop call.
type StopOptions struct {
	DryRun bool
	Force  bool
}

// Manager implements the start/stop lifecycle on top of a Store.
type Manager struct {
	settings Settings
	store    Store
	prober   Prober
	launcher Launcher
	signaler Signaler
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithProber overrides the process-existence probe.
func WithProber(p Prober) Option { return func(m *Manager) { m.prober = p } }

// WithLauncher overrides the subprocess launcher.
func WithLauncher(l Launcher) Option { return func(m *Manager) { m.launcher = l } }

// WithSignaler overrides the signal sender.
func WithSignaler(s Signaler) Option { return func(m *Manager) { m.signaler = s } }

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logging.NewComponentLogger(logger, "recording") }
}

// WithClock overrides the clock used for default output names.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// NewManager builds a Manager that talks to the real operating system unless
// overridden by options.
func NewManager(settings Settings, store Store, opts ...Option) *Manager {
	sys := System{}
	m := &Manager{
		settings: settings,
		store:    store,
		prober:   sys,
		launcher: sys,
		signaler: sys,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the recorder unless a live claim or an existing output file
// prevents it. Refusals are reported as outcomes with exit code 1, not errors.
func (m *Manager) Start(ctx context.Context, opts StartOptions) (Outcome, error) {
	output, err := m.resolveOutput(opts.Output)
	if err != nil {
		return Outcome{}, err
	}

	if !opts.Force {
		exists, err := fileExists(output)
		if err != nil {
			return Outcome{}, err
		}
		if exists {
			m.logger.Info("output collision", logging.String("output", output))
			return Outcome{Kind: KindOutputExists, Output: output, DryRun: opts.DryRun}, nil
		}
	}

	replaced, refusal, err := m.settleClaim(opts)
	if err != nil {
		return Outcome{}, err
	}
	if refusal != nil {
		return *refusal, nil
	}

	argv := m.command(opts.Args, output)
	outcome := Outcome{
		Kind:     KindStarted,
		DryRun:   opts.DryRun,
		Output:   output,
		Command:  argv,
		Replaced: replaced,
	}
	if opts.DryRun {
		return outcome, nil
	}

	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Outcome{}, fmt.Errorf("create recordings directory %s: %w", dir, err)
		}
	}

	pid, err := m.launcher.Launch(ctx, argv, m.settings.LogPath)
	if err != nil {
		return Outcome{}, fmt.Errorf("launch recorder: %w", err)
	}
	if err := m.store.Write(State{PID: pid}); err != nil {
		// An unclaimed recorder would be invisible to Stop.
		if sigErr := m.signaler.Signal(pid, process.Interrupt); sigErr != nil {
			m.logger.Error("orphaned recorder after state write failure",
				logging.Int(logging.FieldPID, pid), logging.Error(sigErr))
		}
		return Outcome{}, fmt.Errorf("record recorder pid %d: %w", pid, err)
	}

	m.logger.Info("recorder launched",
		logging.Int(logging.FieldPID, pid),
		logging.String("output", output),
		logging.Strings("command", argv),
		logging.String("state_path", m.store.Path()),
		logging.Any("replaced", replaced),
	)
	outcome.PID = pid
	return outcome, nil
}

// settleClaim inspects an existing claim before launch. It returns the claims
// that were (or in dry-run mode would be) cleared, or a refusal outcome when a
// live recorder blocks the start.
func (m *Manager) settleClaim(opts StartOptions) ([]Replacement, *Outcome, error) {
	state, err := m.store.Read()
	switch {
	case errors.Is(err, ErrNoState):
		return nil, nil, nil
	case errors.Is(err, ErrMalformedState) && opts.Force:
		if !opts.DryRun {
			if err := m.store.Remove(); err != nil {
				return nil, nil, err
			}
		}
		logging.WarnWithContext(m.logger, "discarded unreadable recorder state", "state_malformed_cleared",
			logging.String("state_path", m.store.Path()))
		return []Replacement{{}}, nil, nil
	case errors.Is(err, ErrMalformedState):
		return nil, nil, fmt.Errorf("%w (remove %s or rerun with --force)", err, m.store.Path())
	case err != nil:
		return nil, nil, err
	}

	alive, err := m.prober.Exists(state.PID)
	if err != nil {
		return nil, nil, err
	}
	if alive && !opts.Force {
		return nil, &Outcome{Kind: KindAlreadyRunning, PID: state.PID, DryRun: opts.DryRun}, nil
	}

	replacement := Replacement{PID: state.PID, Alive: alive}
	if opts.DryRun {
		return []Replacement{replacement}, nil, nil
	}

	if alive {
		if err := m.signaler.Signal(state.PID, process.Kill); err != nil {
			logging.WarnWithContext(m.logger, "force stop of previous recorder failed", "force_stop_failed",
				logging.Int(logging.FieldPID, state.PID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check for a leftover recorder process"),
			)
		} else {
			replacement.Killed = true
		}
	} else {
		m.logger.Info("clearing stale recorder state", logging.Int(logging.FieldPID, state.PID))
	}
	if err := m.store.Remove(); err != nil {
		return nil, nil, err
	}
	return []Replacement{replacement}, nil, nil
}

// Stop signals the claimed recorder and resolves the claim. A claim whose
// process is already gone is cleared and reported as success.
func (m *Manager) Stop(_ context.Context, opts StopOptions) (Outcome, error) {
	state, err := m.store.Read()
	if errors.Is(err, ErrNoState) {
		return Outcome{Kind: KindNoState, DryRun: opts.DryRun}, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	alive, err := m.prober.Exists(state.PID)
	if err != nil {
		return Outcome{}, err
	}
	if !alive {
		if !opts.DryRun {
			if err := m.store.Remove(); err != nil {
				return Outcome{}, err
			}
			m.logger.Info("cleared stale recorder state", logging.Int(logging.FieldPID, state.PID))
		}
		return Outcome{Kind: KindStaleCleared, PID: state.PID, DryRun: opts.DryRun}, nil
	}

	sig := process.Interrupt
	if opts.Force {
		sig = process.Kill
	}
	outcome := Outcome{Kind: KindStopped, PID: state.PID, Signal: sig, Force: opts.Force, DryRun: opts.DryRun}
	if opts.DryRun {
		return outcome, nil
	}

	sigErr := m.signaler.Signal(state.PID, sig)
	// The claim is resolved either way; a failed signal needs manual attention.
	removeErr := m.store.Remove()
	if sigErr != nil {
		return Outcome{}, errors.Join(fmt.Errorf("stop recorder: %w", sigErr), removeErr)
	}
	if removeErr != nil {
		return Outcome{}, removeErr
	}
	m.logger.Info("recorder signalled", logging.Int(logging.FieldPID, state.PID), logging.String("signal", sig.String()))
	return outcome, nil
}

// Status reports the current claim without modifying anything.
func (m *Manager) Status() (State, bool, error) {
	state, err := m.store.Read()
	if err != nil {
		return State{}, false, err
	}
	alive, err := m.prober.Exists(state.PID)
	if err != nil {
		return state, false, err
	}
	return state, alive, nil
}

func (m *Manager) resolveOutput(requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		name := fmt.Sprintf("recording-%s.%s", m.now().Format("20060102-150405"), m.settings.Extension)
		requested = filepath.Join(m.settings.Dir, name)
	}
	abs, err := filepath.Abs(requested)
	if err != nil {
		return "", fmt.Errorf("resolve output path %q: %w", requested, err)
	}
	return abs, nil
}

func (m *Manager) command(passthrough []string, output string) []string {
	argv := make([]string, 0, len(m.settings.Args)+len(passthrough)+2)
	argv = append(argv, m.settings.Binary)
	argv = append(argv, m.settings.Args...)
	argv = append(argv, passthrough...)
	return append(argv, output)
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("check output path %s: %w", path, err)
	}
}

// System adapts the process package to the Manager collaborator interfaces.
type System struct{}

func (System) Exists(pid int) (bool, error) { return process.Exists(pid) }

func (System) Launch(ctx context.Context, argv []string, logPath string) (int, error) {
	return process.Launch(ctx, argv, logPath)
}

func (System) Signal(pid int, sig process.Signal) error { return process.Send(pid, sig) }
