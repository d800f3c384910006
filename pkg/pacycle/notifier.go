package pacycle

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

// Notifier surfaces device switches to the desktop user
type Notifier interface {
	DeviceSwitched(class DeviceClass, target Device)
}

type toastNotifier struct {
	logger *zap.SugaredLogger
}

// NewToastNotifier returns a Notifier backed by desktop toast notifications
func NewToastNotifier(logger *zap.SugaredLogger) Notifier {
	return &toastNotifier{logger: logger.Named("notifier")}
}

func (n *toastNotifier) DeviceSwitched(class DeviceClass, target Device) {
	body := target.Description
	if body == "" {
		body = target.Name
	}

	if err := beeep.Notify(fmt.Sprintf("Default %s device changed", class), body, ""); err != nil {
		n.logger.Warnw("Failed to send notification", "error", err)
	}
}

type noopNotifier struct{}

// NewNoopNotifier returns a Notifier that does nothing, used when
// notifications are disabled
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) DeviceSwitched(DeviceClass, Device) {}
