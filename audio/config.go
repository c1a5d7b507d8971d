package audio

import (
	"os"
	"strconv"
	"time"
)

// Config holds engine tuning parameters.
// The declick timings are empirical values; they are exposed here (and via
// environment overrides) for tuning against real hardware rather than being
// hard-coded at the call sites.
type Config struct {
	// SampleRate is the bus sample rate. Decoded buffers are resampled to
	// this rate once, at decode time, so voices mix without conversion.
	SampleRate int

	// BufferDuration sizes the hardware buffer handed to the sink.
	BufferDuration time.Duration

	// MasterVolume is the bus-wide linear gain multiplier.
	MasterVolume float64

	// StartDelay is the lead-in silence before a voice's first sample,
	// giving the pipeline scheduling headroom.
	StartDelay time.Duration

	// FadeIn is the anti-click ramp from the gain floor to the button gain.
	FadeIn time.Duration

	// FadeOut is the StopAll ramp from the current level down to the floor.
	FadeOut time.Duration

	// StopTail is the silence emitted after the fade-out before the voice
	// completes, so the source never cuts off mid-ramp.
	StopTail time.Duration

	// ReapDelay bounds how long StopAll waits before force-clearing voices
	// that have not signaled completion on their own.
	ReapDelay time.Duration

	// WarmupDuration is the length of the silent render issued right after
	// sink construction to reduce first-trigger stutter. Best-effort.
	WarmupDuration time.Duration

	// ResampleQuality is passed to beep.Resample at decode time.
	ResampleQuality int
}

// gainFloor is the near-zero level ramps start from and end at.
// Not exactly zero: some backends mishandle ramps that touch zero.
const gainFloor = 1e-4

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		SampleRate:      48000,
		BufferDuration:  50 * time.Millisecond,
		MasterVolume:    1.0,
		StartDelay:      5 * time.Millisecond,
		FadeIn:          10 * time.Millisecond,
		FadeOut:         30 * time.Millisecond,
		StopTail:        5 * time.Millisecond,
		ReapDelay:       50 * time.Millisecond,
		WarmupDuration:  20 * time.Millisecond,
		ResampleQuality: 4,
	}
}

// LoadConfig builds a Config from defaults plus environment overrides.
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CUECAST_SAMPLE_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SampleRate = n
		}
	}

	// Master volume as 0-100
	if v := os.Getenv("CUECAST_MASTER_VOLUME"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			vol := float64(n) / 100.0
			if vol < 0 {
				vol = 0
			}
			if vol > 1 {
				vol = 1
			}
			cfg.MasterVolume = vol
		}
	}

	loadMs := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				*dst = time.Duration(n) * time.Millisecond
			}
		}
	}

	loadMs("CUECAST_BUFFER_MS", &cfg.BufferDuration)
	loadMs("CUECAST_START_DELAY_MS", &cfg.StartDelay)
	loadMs("CUECAST_FADE_IN_MS", &cfg.FadeIn)
	loadMs("CUECAST_FADE_OUT_MS", &cfg.FadeOut)
	loadMs("CUECAST_STOP_TAIL_MS", &cfg.StopTail)
	loadMs("CUECAST_REAP_DELAY_MS", &cfg.ReapDelay)

	return cfg
}
