package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
)

// Bus is the single shared mixing point. Every voice feeds the bus; the sink
// pulls from the bus. The sink's render goroutine and the UI goroutine both
// touch the voice set, so all access goes through the bus mutex.
//
// A voice is registered under the lock before the sink can pull a single
// sample from it, so a voice can never complete before it is tracked.
type Bus struct {
	mu     sync.Mutex
	mixer  beep.Mixer
	volume float64
	voices []*Voice
}

func newBus(volume float64) *Bus {
	if volume <= 0 {
		volume = 1.0
	}
	return &Bus{volume: volume}
}

// Stream implements beep.Streamer. The bus never drains: with no voices the
// mixer renders silence, which keeps the sink primed between triggers.
func (b *Bus) Stream(samples [][2]float64) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n, _ := b.mixer.Stream(samples)
	if b.volume != 1.0 {
		for i := range samples[:n] {
			samples[i][0] *= b.volume
			samples[i][1] *= b.volume
		}
	}
	b.sweepLocked()
	return len(samples), true
}

// Err implements beep.Streamer.
func (b *Bus) Err() error {
	return nil
}

// Play registers a voice and connects it to the mixer.
func (b *Bus) Play(v *Voice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.voices = append(b.voices, v)
	b.mixer.Add(v)
}

// Warmup connects a short silent streamer so the first real trigger does not
// pay the pipeline's spin-up cost.
func (b *Bus) Warmup(numSamples int) {
	if numSamples <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mixer.Add(beep.Take(numSamples, beep.Silence(-1)))
}

// StopAll ramps every active voice down and schedules a reap sweep that
// force-clears anything that has not completed on its own by reapDelay.
// The sweep is a pragmatic bound, not a completion guarantee per voice.
// With no active voices it is a no-op.
func (b *Bus) StopAll(reapDelay time.Duration) {
	b.mu.Lock()
	stopped := 0
	for _, v := range b.voices {
		if v.State() != VoiceCompleted {
			v.beginStop()
			stopped++
		}
	}
	b.mu.Unlock()

	if stopped == 0 {
		return
	}

	time.AfterFunc(reapDelay, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, v := range b.voices {
			if v.State() != VoiceCompleted {
				v.forceComplete()
			}
		}
		b.sweepLocked()
	})
}

// ActiveCount returns the number of voices not yet completed.
func (b *Bus) ActiveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, v := range b.voices {
		if v.State() != VoiceCompleted {
			n++
		}
	}
	return n
}

// SetVolume updates the master volume.
func (b *Bus) SetVolume(vol float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if vol < 0 {
		vol = 0
	}
	b.volume = vol
}

// Clear drops every voice immediately. Used on engine teardown, where a
// declick fade does not matter.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, v := range b.voices {
		v.forceComplete()
	}
	b.voices = b.voices[:0]
	b.mixer.Clear()
}

// sweepLocked drops completed voices from the registry. The mixer drops its
// own reference as soon as a voice reports drained, so this is the only
// cleanup the bus owes. Caller holds b.mu.
func (b *Bus) sweepLocked() {
	remaining := b.voices[:0]
	for _, v := range b.voices {
		if v.State() != VoiceCompleted {
			remaining = append(remaining, v)
		}
	}
	b.voices = remaining
}
