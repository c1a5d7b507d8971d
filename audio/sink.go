package audio

import (
	"log"

	"github.com/gopxl/beep"
	"github.com/gordonklaus/portaudio"
)

// Sink binds the bus to an audio output. Two variants exist: the portaudio
// sink can retarget a physical device by id, the beep/speaker sink only ever
// plays through the system default. The engine picks one at startup and the
// rest of the code never branches on the capability again — an unsupported
// SetDevice simply reports ErrDeviceSelectUnsupported.
type Sink interface {
	// Start begins pulling from src and rendering to hardware.
	Start(format beep.Format, bufferSize int, src beep.Streamer) error

	// SetDevice retargets output to the device with the given id.
	// An empty id means the system default.
	SetDevice(id string) error

	// Device returns the currently bound device id ("" = system default).
	Device() string

	// Resume wakes a suspended backend before scheduling playback.
	Resume() error

	// Close stops rendering and releases the backend.
	Close() error
}

// detectSink selects the output backend once at startup: portaudio when the
// host has a usable output device, beep/speaker otherwise.
func detectSink() Sink {
	if err := portaudio.Initialize(); err != nil {
		log.Printf("audio: portaudio unavailable (%v), using default-only output", err)
		return newSpeakerSink()
	}
	if _, err := portaudio.DefaultOutputDevice(); err != nil {
		portaudio.Terminate()
		log.Printf("audio: no portaudio output device (%v), using default-only output", err)
		return newSpeakerSink()
	}
	return newPortaudioSink()
}
