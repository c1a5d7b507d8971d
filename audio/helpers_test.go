package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// constStreamer emits a fixed number of frames at a constant level.
type constStreamer struct {
	n   int
	val float64
}

func (c *constStreamer) Stream(samples [][2]float64) (int, bool) {
	if c.n <= 0 {
		return 0, false
	}
	n := min(c.n, len(samples))
	for i := 0; i < n; i++ {
		samples[i] = [2]float64{c.val, c.val}
	}
	c.n -= n
	return n, true
}

func (c *constStreamer) Err() error { return nil }

// makeTestBuffer builds a bus-format buffer holding frames of constant val.
func makeTestBuffer(cfg *Config, frames int, val float64) *beep.Buffer {
	buf := beep.NewBuffer(busFormat(cfg.SampleRate))
	buf.Append(&constStreamer{n: frames, val: val})
	return buf
}

// testConfig returns a config with short, sample-exact ramp windows so tests
// can stream through full lifecycles quickly.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.SampleRate = 48000
	cfg.StartDelay = 1 * time.Millisecond // 48 samples
	cfg.FadeIn = 2 * time.Millisecond     // 96 samples
	cfg.FadeOut = 2 * time.Millisecond    // 96 samples
	cfg.StopTail = 1 * time.Millisecond   // 48 samples
	cfg.ReapDelay = 10 * time.Millisecond
	cfg.WarmupDuration = 0
	return cfg
}

// drain pulls from a streamer in chunks until it reports completion or the
// frame budget runs out. Returns the number of frames pulled.
func drain(s beep.Streamer, budget int) int {
	buf := make([][2]float64, 256)
	total := 0
	for total < budget {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
	return total
}
