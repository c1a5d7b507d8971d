package audio

import (
	"fmt"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gordonklaus/portaudio"
)

// portaudioSink renders the bus through a portaudio stream. It is the
// DeviceSelectable variant: SetDevice closes the current stream and opens a
// new one on the requested device. Voices feed the bus, not the stream, so a
// rebind is transparent to audio already scheduled.
//
// The caller is expected to have run portaudio.Initialize (detectSink does);
// the sink terminates portaudio on Close.
type portaudioSink struct {
	mu         sync.Mutex
	format     beep.Format
	bufferSize int
	src        beep.Streamer
	stream     *portaudio.Stream
	deviceID   string
	scratch    [][2]float64
}

func newPortaudioSink() *portaudioSink {
	return &portaudioSink{}
}

func (s *portaudioSink) Start(format beep.Format, bufferSize int, src beep.Streamer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream != nil {
		return nil
	}
	s.format = format
	s.bufferSize = bufferSize
	s.src = src

	dev, err := resolveOutputDevice(s.deviceID)
	if err != nil {
		// A pre-start target that vanished falls back to the default.
		s.deviceID = ""
		dev, err = resolveOutputDevice("")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDeviceBind, err)
		}
	}
	return s.openLocked(dev)
}

// SetDevice rebinds the stream to the named device. On failure the previous
// binding is gone, so the sink restores the system default before reporting
// the error; the engine surfaces it as a status message.
func (s *portaudioSink) SetDevice(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.src == nil {
		// Not started yet; remember the target for Start-time binding.
		s.deviceID = id
		return nil
	}

	dev, err := resolveOutputDevice(id)
	if err != nil {
		return err
	}

	s.closeStreamLocked()
	if err := s.openLocked(dev); err != nil {
		if def, derr := resolveOutputDevice(""); derr == nil {
			if rerr := s.openLocked(def); rerr == nil {
				s.deviceID = ""
			}
		}
		return fmt.Errorf("%w: %v", ErrDeviceBind, err)
	}
	s.deviceID = id
	return nil
}

func (s *portaudioSink) Device() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deviceID
}

// Resume is a no-op: portaudio streams do not auto-suspend.
func (s *portaudioSink) Resume() error {
	return nil
}

func (s *portaudioSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeStreamLocked()
	s.src = nil
	return portaudio.Terminate()
}

// openLocked opens and starts a stereo low-latency stream on dev.
// Caller holds s.mu.
func (s *portaudioSink) openLocked(dev *portaudio.DeviceInfo) error {
	params := portaudio.LowLatencyParameters(nil, dev)
	params.Output.Channels = 2
	if dev.MaxOutputChannels < 2 {
		params.Output.Channels = dev.MaxOutputChannels
	}
	params.SampleRate = float64(s.format.SampleRate)
	params.FramesPerBuffer = s.bufferSize

	stream, err := portaudio.OpenStream(params, s.render)
	if err != nil {
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}
	s.stream = stream
	return nil
}

func (s *portaudioSink) closeStreamLocked() {
	if s.stream == nil {
		return
	}
	s.stream.Stop()
	s.stream.Close()
	s.stream = nil
}

// render is the portaudio callback: pull one buffer from the bus and
// de-interleave into portaudio's channel-major output.
func (s *portaudioSink) render(out [][]float32) {
	if len(out) == 0 {
		return
	}
	frames := len(out[0])
	if len(s.scratch) < frames {
		s.scratch = make([][2]float64, frames)
	}
	buf := s.scratch[:frames]
	s.src.Stream(buf)

	if len(out) == 1 {
		// Mono device: average the channels.
		for i := range buf {
			out[0][i] = float32((buf[i][0] + buf[i][1]) / 2)
		}
		return
	}
	for i := range buf {
		out[0][i] = float32(buf[i][0])
		out[1][i] = float32(buf[i][1])
	}
}
