package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Device describes an output endpoint the sink can bind to.
// The id is the host device name, which is what the config file stores.
type Device struct {
	ID      string
	Label   string
	Default bool
}

// OutputDevices enumerates output-capable devices. Initialize/Terminate are
// reference counted by portaudio, so this is safe to call while the engine
// holds its own initialization.
func OutputDevices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceBind, err)
	}
	defer portaudio.Terminate()

	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceBind, err)
	}
	def, _ := portaudio.DefaultOutputDevice()

	var out []Device
	for _, d := range devs {
		if d.MaxOutputChannels <= 0 {
			continue
		}
		out = append(out, Device{
			ID:      d.Name,
			Label:   fmt.Sprintf("%s (%s)", d.Name, d.HostApi.Name),
			Default: def != nil && d.Name == def.Name,
		})
	}
	return out, nil
}

// resolveOutputDevice maps a device id to portaudio's device info.
// An empty id resolves to the system default output device.
func resolveOutputDevice(id string) (*portaudio.DeviceInfo, error) {
	if id == "" {
		return portaudio.DefaultOutputDevice()
	}
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, d := range devs {
		if d.Name == id && d.MaxOutputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoOutputDevice, id)
}
