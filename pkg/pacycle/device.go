package pacycle

import (
	"fmt"
	"strings"

	"github.com/thoas/go-funk"
)

// DeviceClass selects between capture (input) and playback (output) devices.
// It decides which persisted-state slot and which controller variant to use;
// the two are never mixed within one invocation.
type DeviceClass int

const (
	ClassInput DeviceClass = iota
	ClassOutput
)

func (c DeviceClass) String() string {
	if c == ClassInput {
		return "input"
	}

	return "output"
}

// ParseDeviceClass maps a --target flag value onto a DeviceClass
func ParseDeviceClass(s string) (DeviceClass, error) {
	switch strings.ToLower(s) {
	case "input":
		return ClassInput, nil
	case "output":
		return ClassOutput, nil
	}

	return 0, fmt.Errorf("unknown target %q (expected input or output)", s)
}

// Device is a point-in-time snapshot of a single audio device. Identity is
// the server-assigned index, which is only stable within one server session.
type Device struct {
	Index       uint32
	Name        string
	Description string
	Mute        bool
	Volume      float32

	// channel count is carried along because the PulseAudio volume
	// command is per-channel
	Channels byte
}

// Stream is a running application stream bound to one device class
type Stream struct {
	Index uint32
	Name  string
}

// Catalog wraps the device list returned by the server. It is taken once per
// invocation and never refreshed; ordering is whatever the server returned.
type Catalog struct {
	devices []Device
}

// NewCatalog creates a catalog over the given device snapshot
func NewCatalog(devices []Device) *Catalog {
	return &Catalog{devices: devices}
}

// Devices returns the underlying snapshot in server order
func (c *Catalog) Devices() []Device {
	return c.devices
}

// Empty reports whether the server returned no devices at all
func (c *Catalog) Empty() bool {
	return len(c.devices) == 0
}

// Eligible returns the devices fit for cycling, in catalog order. Monitor
// taps are loopbacks of other devices, not something a user selects.
func (c *Catalog) Eligible() []Device {
	if len(c.devices) == 0 {
		return []Device{}
	}

	return funk.Filter(c.devices, func(d Device) bool {
		return !isMonitor(d)
	}).([]Device)
}

// ByIndex looks up a device by its server index. Monitor devices are
// included, since a persisted index may legitimately point at one.
func (c *Catalog) ByIndex(index uint32) (Device, bool) {
	for _, d := range c.devices {
		if d.Index == index {
			return d, true
		}
	}

	return Device{}, false
}

func isMonitor(d Device) bool {
	return strings.Contains(strings.ToLower(d.Name), "monitor")
}
