package pacycle

import (
	"fmt"

	"go.uber.org/zap"
)

// applier performs the side effects of a selection: the server default, the
// stream migration, the persisted index and the user notification
type applier struct {
	logger   *zap.SugaredLogger
	ctrl     Controller
	store    *IndexStore
	notifier Notifier
}

func newApplier(logger *zap.SugaredLogger, ctrl Controller, store *IndexStore, notifier Notifier) *applier {
	return &applier{
		logger:   logger.Named("applier"),
		ctrl:     ctrl,
		store:    store,
		notifier: notifier,
	}
}

// apply makes target the class default, migrates running streams to it and
// persists its index
func (a *applier) apply(class DeviceClass, target Device) error {
	a.logger.Infow("Setting default device",
		"class", class,
		"index", target.Index,
		"name", target.Name)

	if err := a.ctrl.SetDefaultDevice(target); err != nil {
		return fmt.Errorf("set default device: %w", err)
	}

	a.migrateStreams(target)

	if err := a.store.Write(class, target.Index); err != nil {
		return fmt.Errorf("persist device index: %w", err)
	}

	a.notifier.DeviceSwitched(class, target)

	return nil
}

// migrateStreams moves every running stream of the class to the target
// device. A failed move is logged and the remaining streams are still
// attempted; a partial migration beats none.
func (a *applier) migrateStreams(target Device) {
	streams, err := a.ctrl.ListStreams()
	if err != nil {
		a.logger.Warnw("Failed to list running streams", "error", err)
		return
	}

	for _, stream := range streams {
		if err := a.ctrl.MoveStream(stream.Index, target.Index); err != nil {
			a.logger.Warnw("Failed to move stream to new default",
				"stream", stream.Name,
				"error", err)

			continue
		}

		a.logger.Debugw("Moved stream to new default", "stream", stream.Name, "device", target.Index)
	}
}

// toggleMute flips the mute state of the current device. The persisted
// index stays untouched.
func (a *applier) toggleMute(current Device) error {
	if err := a.ctrl.SetMute(current.Index, !current.Mute); err != nil {
		return fmt.Errorf("toggle mute: %w", err)
	}

	a.logger.Infow("Toggled mute", "index", current.Index, "muted", !current.Mute)

	return nil
}

// adjustVolume nudges the current device's volume by delta, clamped to [0, 1]
func (a *applier) adjustVolume(current Device, delta float32) error {
	target := current.Volume + delta

	if target < 0 {
		target = 0
	} else if target > 1 {
		target = 1
	}

	if err := a.ctrl.SetVolume(current, target); err != nil {
		return fmt.Errorf("adjust volume: %w", err)
	}

	a.logger.Infow("Adjusted volume",
		"index", current.Index,
		"from", fmt.Sprintf("%.2f", current.Volume),
		"to", fmt.Sprintf("%.2f", target))

	return nil
}
