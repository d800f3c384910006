// Package pacycle cycles and adjusts the default PulseAudio input/output
// device from a short-lived command line process, remembering the selection
// across invocations in a small per-class state file.
package pacycle

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Action is a state-changing operation on the current device class
type Action int

const (
	ActionNext Action = iota
	ActionPrev
	ActionMute
	ActionVolumeUp
	ActionVolumeDown
)

// ParseAction maps an --action flag value onto an Action
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(s) {
	case "next":
		return ActionNext, nil
	case "prev":
		return ActionPrev, nil
	case "mute":
		return ActionMute, nil
	case "inc":
		return ActionVolumeUp, nil
	case "dec":
		return ActionVolumeDown, nil
	}

	return 0, fmt.Errorf("unknown action %q (expected next, prev, mute, inc or dec)", s)
}

// StatusQuery is a read-only attribute query against the current device
type StatusQuery int

const (
	StatusMuted StatusQuery = iota
	StatusVolume
	StatusName
	StatusDescription
)

// ParseStatusQuery maps a --status flag value onto a StatusQuery
func ParseStatusQuery(s string) (StatusQuery, error) {
	switch strings.ToLower(s) {
	case "muted":
		return StatusMuted, nil
	case "volume":
		return StatusVolume, nil
	case "name":
		return StatusName, nil
	case "desc":
		return StatusDescription, nil
	}

	return 0, fmt.Errorf("unknown status query %q (expected muted, volume, name or desc)", s)
}

// Options carry per-run overrides
type Options struct {
	// PrevIndex overrides the persisted index for this run, primarily
	// for testing. The override is still reconciled against the live
	// catalog like any persisted value.
	PrevIndex *uint32
}

// Cycler is the main entity wiring the catalog, selector, store and applier
// for one invocation
type Cycler struct {
	logger   *zap.SugaredLogger
	config   *Config
	ctrl     Controller
	store    *IndexStore
	selector *selector
	applier  *applier

	// status output target, stdout outside of tests
	out io.Writer
}

// NewCycler creates a Cycler instance on top of an established controller
func NewCycler(logger *zap.SugaredLogger, config *Config, ctrl Controller) *Cycler {
	store := NewIndexStore(logger, config.StateDir)

	var notifier Notifier = NewNoopNotifier()
	if config.Notifications {
		notifier = NewToastNotifier(logger)
	}

	return &Cycler{
		logger:   logger,
		config:   config,
		ctrl:     ctrl,
		store:    store,
		selector: newSelector(logger),
		applier:  newApplier(logger, ctrl, store, notifier),
		out:      os.Stdout,
	}
}

// Cycle performs one state-changing action for the class: cycling to the
// next/previous device, toggling mute, or stepping the volume. An empty
// catalog is a normal outcome, reported and exited zero with no side
// effects.
func (c *Cycler) Cycle(class DeviceClass, action Action, opts Options) error {
	devices, err := c.ctrl.ListDevices()
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}

	catalog := NewCatalog(devices)
	if catalog.Empty() {
		c.logger.Info("No devices found")
		return nil
	}

	for _, d := range catalog.Devices() {
		c.logger.Debugw("Found device", "index", d.Index, "name", d.Name)
	}

	persisted, present := c.persistedIndex(class, opts)

	current, ok, healed := c.selector.resolveCurrent(catalog, persisted, present)
	if !ok {
		c.logger.Info("No eligible devices found")
		return nil
	}

	if healed {
		// stale or missing state: the first eligible device becomes the
		// new baseline. For cycling actions it is the applied selection
		// itself; for the rest only the store self-heals.
		if action == ActionNext || action == ActionPrev {
			return c.applier.apply(class, current)
		}

		if err := c.store.Write(class, current.Index); err != nil {
			return fmt.Errorf("persist device index: %w", err)
		}
	}

	switch action {
	case ActionNext, ActionPrev:
		direction := Forward
		if action == ActionPrev {
			direction = Backward
		}

		selection := c.selector.cycle(catalog, current, direction)

		switch selection.Outcome {
		case NoDevices:
			c.logger.Info("No eligible devices found")
			return nil
		case Singleton:
			// logged by the selector; persisted state stays as is
			return nil
		default:
			return c.applier.apply(class, selection.Device)
		}
	case ActionMute:
		return c.applier.toggleMute(current)
	case ActionVolumeUp:
		return c.applier.adjustVolume(current, c.config.VolumeStep)
	case ActionVolumeDown:
		return c.applier.adjustVolume(current, -c.config.VolumeStep)
	}

	return fmt.Errorf("unknown action: %d", action)
}

// Status prints one attribute of the current device to the output, with no
// trailing newline and no state mutation. A persisted index that no longer
// resolves is an error here - status must not silently report wrong data.
func (c *Cycler) Status(class DeviceClass, query StatusQuery, opts Options) error {
	current, err := c.statusDevice(class, opts)
	if err != nil {
		return err
	}

	switch query {
	case StatusMuted:
		fmt.Fprint(c.out, current.Mute)
	case StatusVolume:
		fmt.Fprintf(c.out, "%.2f", current.Volume)
	case StatusName:
		fmt.Fprint(c.out, current.Name)
	case StatusDescription:
		fmt.Fprint(c.out, current.Description)
	default:
		return fmt.Errorf("unknown status query: %d", query)
	}

	return nil
}

// statusDevice resolves the device a status query reports on: the persisted
// index when one is recorded, otherwise the server's reported default
func (c *Cycler) statusDevice(class DeviceClass, opts Options) (Device, error) {
	if persisted, present := c.persistedIndex(class, opts); present {
		device, err := c.ctrl.DeviceByIndex(persisted)
		if err != nil {
			return Device{}, fmt.Errorf("look up persisted device #%d: %w", persisted, err)
		}

		return device, nil
	}

	device, err := c.ctrl.DefaultDevice()
	if err != nil {
		return Device{}, fmt.Errorf("look up default device: %w", err)
	}

	return device, nil
}

func (c *Cycler) persistedIndex(class DeviceClass, opts Options) (uint32, bool) {
	if opts.PrevIndex != nil {
		c.logger.Debugw("Using persisted index override", "index", *opts.PrevIndex)
		return *opts.PrevIndex, true
	}

	return c.store.Read(class)
}
