package audio

import (
	"sync/atomic"

	"github.com/gopxl/beep"
)

// VoiceState tags a voice's position in its lifecycle.
// Transitions: Scheduled → Playing → Completed on the normal path,
// with Stopping inserted between Playing and Completed by StopAll.
type VoiceState int32

const (
	VoiceScheduled VoiceState = iota
	VoicePlaying
	VoiceStopping
	VoiceCompleted
)

func (s VoiceState) String() string {
	switch s {
	case VoiceScheduled:
		return "scheduled"
	case VoicePlaying:
		return "playing"
	case VoiceStopping:
		return "stopping"
	case VoiceCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Voice is one playing instance of a cached buffer. It owns its gain ramp:
// lead-in silence, linear fade-in from the gain floor to the button gain,
// and (on stop) a fade-out ramp followed by a short silent tail.
//
// All fields except state are touched only under the owning bus's lock;
// state is atomic so the UI can poll it without locking the render path.
type Voice struct {
	src    beep.StreamSeeker
	target float64 // button gain, reached at the end of fade-in

	delayLeft  int // lead-in silence remaining, samples
	fadeInLen  int
	fadeInPos  int
	fadeOutLen int
	fadeOutPos int
	tailLeft   int

	stopLevel float64 // gain captured when the stop ramp began

	state atomic.Int32
}

// newVoice builds a voice over the full extent of buf.
// Ramp lengths are derived from cfg at the buffer's sample rate.
func newVoice(buf *beep.Buffer, gain float64, cfg *Config) *Voice {
	if gain <= 0 {
		gain = 1.0
	}
	sr := buf.Format().SampleRate
	v := &Voice{
		src:        buf.Streamer(0, buf.Len()),
		target:     gain,
		delayLeft:  sr.N(cfg.StartDelay),
		fadeInLen:  sr.N(cfg.FadeIn),
		fadeOutLen: sr.N(cfg.FadeOut),
		tailLeft:   sr.N(cfg.StopTail),
	}
	v.state.Store(int32(VoiceScheduled))
	return v
}

// State returns the voice's current lifecycle tag.
func (v *Voice) State() VoiceState {
	return VoiceState(v.state.Load())
}

// gain returns the per-sample gain and advances the ramp positions.
func (v *Voice) gain() float64 {
	g := v.target
	if v.fadeInPos < v.fadeInLen {
		t := float64(v.fadeInPos) / float64(v.fadeInLen)
		g = gainFloor + (v.target-gainFloor)*t
		v.fadeInPos++
	}
	if v.State() == VoiceStopping {
		if v.fadeOutPos >= v.fadeOutLen {
			return gainFloor
		}
		t := float64(v.fadeOutPos) / float64(v.fadeOutLen)
		g = v.stopLevel + (gainFloor-v.stopLevel)*t
		v.fadeOutPos++
	}
	return g
}

// currentLevel reports the gain a stop ramp should start from.
func (v *Voice) currentLevel() float64 {
	if v.fadeInPos < v.fadeInLen {
		t := float64(v.fadeInPos) / float64(v.fadeInLen)
		return gainFloor + (v.target-gainFloor)*t
	}
	return v.target
}

// beginStop starts the declick fade-out. A voice still in its lead-in delay
// has produced no audible samples and completes immediately; a voice already
// stopping or completed is left alone.
func (v *Voice) beginStop() {
	switch v.State() {
	case VoiceScheduled:
		v.state.Store(int32(VoiceCompleted))
	case VoicePlaying:
		v.stopLevel = v.currentLevel()
		v.fadeOutPos = 0
		v.state.Store(int32(VoiceStopping))
	}
}

// forceComplete marks the voice completed regardless of ramp progress.
// Used by the post-StopAll reap sweep.
func (v *Voice) forceComplete() {
	v.state.Store(int32(VoiceCompleted))
}

// Stream implements beep.Streamer. It emits the lead-in silence, then the
// source with the gain ramp applied, then (when stopping) the fade-out and
// silent tail. Once it reports completion the bus sweeps the voice out.
func (v *Voice) Stream(samples [][2]float64) (int, bool) {
	if v.State() == VoiceCompleted {
		return 0, false
	}

	filled := 0
	for filled < len(samples) {
		switch {
		case v.delayLeft > 0:
			n := min(v.delayLeft, len(samples)-filled)
			for i := 0; i < n; i++ {
				samples[filled+i] = [2]float64{}
			}
			v.delayLeft -= n
			filled += n

		case v.State() == VoiceStopping && v.fadeOutPos >= v.fadeOutLen:
			// Ramp done: emit the silent tail, then complete.
			n := min(v.tailLeft, len(samples)-filled)
			for i := 0; i < n; i++ {
				samples[filled+i] = [2]float64{}
			}
			v.tailLeft -= n
			filled += n
			if v.tailLeft == 0 {
				v.state.Store(int32(VoiceCompleted))
				return filled, filled > 0
			}

		default:
			// The voice becomes audible with its first source sample, not when
			// the delay countdown hits zero: a zero StartDelay must still yield
			// a Playing voice so a stop gets its declick ramp.
			if v.State() == VoiceScheduled {
				v.state.Store(int32(VoicePlaying))
			}
			n, ok := v.src.Stream(samples[filled:])
			for i := 0; i < n; i++ {
				g := v.gain()
				samples[filled+i][0] *= g
				samples[filled+i][1] *= g
			}
			filled += n
			if !ok || n == 0 {
				// End of buffer: natural completion.
				v.state.Store(int32(VoiceCompleted))
				return filled, filled > 0
			}
		}
	}
	return filled, true
}

// Err implements beep.Streamer.
func (v *Voice) Err() error {
	return nil
}
