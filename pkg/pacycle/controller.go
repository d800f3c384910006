package pacycle

// Controller gives access to one class of audio devices on the server,
// chosen once at startup and never swapped. All calls are blocking; a
// controller that can't be created means the server is unreachable and the
// process should exit non-zero.
type Controller interface {
	// ListDevices returns all devices of the class, monitor taps included,
	// in server order
	ListDevices() ([]Device, error)

	// DeviceByIndex fetches a single device, failing when the index no
	// longer names a live device
	DeviceByIndex(index uint32) (Device, error)

	// DefaultDevice returns the server's currently reported default
	// device for the class
	DefaultDevice() (Device, error)

	// SetDefaultDevice makes the given device the server default
	SetDefaultDevice(d Device) error

	SetMute(index uint32, mute bool) error

	// SetVolume sets an absolute volume fraction in [0, 1] on the device.
	// The device's mute state survives the write.
	SetVolume(d Device, volume float32) error

	// ListStreams returns the running application streams bound to the class
	ListStreams() ([]Stream, error)

	// MoveStream rebinds one running stream to another device
	MoveStream(stream uint32, device uint32) error

	Release() error
}
