package pacycle

import (
	"go.uber.org/zap"
)

// Direction of a cycle request
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Outcome classifies the result of a cycle request
type Outcome int

const (
	// NoDevices means the catalog holds no eligible devices at all
	NoDevices Outcome = iota

	// Singleton means exactly one eligible device exists, so cycling has
	// nowhere to go. Explicitly a no-op, even when that device differs
	// from the current one.
	Singleton

	// Resolved means a concrete target device was chosen
	Resolved
)

// Selection is a cycle result. Device is meaningful for Singleton and
// Resolved outcomes.
type Selection struct {
	Outcome Outcome
	Device  Device
}

// selector implements the cycling/reconciliation algorithm over one
// catalog snapshot
type selector struct {
	logger *zap.SugaredLogger
}

func newSelector(logger *zap.SugaredLogger) *selector {
	return &selector{logger: logger.Named("selector")}
}

// resolveCurrent maps the persisted index onto the live catalog. A persisted
// index that still resolves wins, even when it names a monitor device - it
// only anchors the walk. When the index is missing or stale, the first
// eligible device becomes the new baseline and healed reports that the
// store needs a self-healing write.
func (s *selector) resolveCurrent(catalog *Catalog, persisted uint32, present bool) (current Device, ok bool, healed bool) {
	if present {
		if d, found := catalog.ByIndex(persisted); found {
			s.logger.Debugw("Resolved persisted device", "index", persisted, "name", d.Name)
			return d, true, false
		}

		s.logger.Warnw("Persisted device not found, falling back to first eligible device", "index", persisted)
	} else {
		s.logger.Debug("No previous device recorded")
	}

	eligible := catalog.Eligible()
	if len(eligible) == 0 {
		return Device{}, false, false
	}

	return eligible[0], true, true
}

// cycle walks the catalog circularly from the current device, skipping
// monitor devices, and returns the first eligible device with a different
// index. Backward walks the same ring in reverse.
func (s *selector) cycle(catalog *Catalog, current Device, direction Direction) Selection {
	eligible := catalog.Eligible()

	switch len(eligible) {
	case 0:
		return Selection{Outcome: NoDevices}
	case 1:
		s.logger.Infow("Only one eligible device, nothing to cycle to",
			"index", eligible[0].Index,
			"name", eligible[0].Name)

		return Selection{Outcome: Singleton, Device: eligible[0]}
	}

	devices := catalog.Devices()

	start := -1
	for i, d := range devices {
		if d.Index == current.Index {
			start = i
			break
		}
	}

	if start == -1 {
		// current is guaranteed to come from this catalog, but don't
		// walk from a position we never found
		return Selection{Outcome: Resolved, Device: eligible[0]}
	}

	step := 1
	if direction == Backward {
		step = len(devices) - 1
	}

	pos := start
	for i := 0; i < len(devices); i++ {
		pos = (pos + step) % len(devices)
		d := devices[pos]

		if isMonitor(d) || d.Index == current.Index {
			continue
		}

		s.logger.Debugw("Cycled to device", "index", d.Index, "name", d.Name)

		return Selection{Outcome: Resolved, Device: d}
	}

	return Selection{Outcome: Singleton, Device: eligible[0]}
}
