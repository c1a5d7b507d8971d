package audio

import (
	"fmt"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// speakerSink renders through gopxl/beep's speaker (oto underneath). It is
// the DefaultOnly variant: output always goes to the system default device.
type speakerSink struct {
	started bool
}

func newSpeakerSink() *speakerSink {
	return &speakerSink{}
}

func (s *speakerSink) Start(format beep.Format, bufferSize int, src beep.Streamer) error {
	if s.started {
		return nil
	}
	if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(src)
	s.started = true
	return nil
}

// SetDevice accepts only the system default. Any concrete device id is
// rejected so the engine can fall back and report status.
func (s *speakerSink) SetDevice(id string) error {
	if id == "" {
		return nil
	}
	return ErrDeviceSelectUnsupported
}

func (s *speakerSink) Device() string {
	return ""
}

// Resume wakes the underlying context. Some backends suspend the output
// pipeline until playback is requested; resuming before a trigger keeps the
// first sound from being dropped.
func (s *speakerSink) Resume() error {
	if !s.started {
		return nil
	}
	return speaker.Resume()
}

func (s *speakerSink) Close() error {
	if !s.started {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	s.started = false
	return nil
}
