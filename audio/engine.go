package audio

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/cuecast/status"
)

// Button is the slice of button configuration the engine consumes.
// An empty Path marks the button unassigned; triggering it is a no-op.
type Button struct {
	Label string
	Path  string
	Gain  float64
}

// Engine is the soundboard composition root: it owns the decode cache, the
// bus, the output sink and the set of active voices, and exposes the
// trigger/preload/output/stop surface the UI layer drives.
//
// There is exactly one bus and one sink per engine, created on the first
// Init call; re-initializing retargets the output device at most and never
// constructs a second audio graph.
type Engine struct {
	cfg   *Config
	cache *BufferCache
	bus   *Bus
	sink  Sink

	mu          sync.Mutex // guards sink binding and init/close transitions
	initialized atomic.Bool

	// Cached status pointers; see status.Registry.
	message         *status.AtomicString
	outputDevice    *status.AtomicString
	voicesStarted   *atomic.Int64
	deviceFallbacks *atomic.Int64
	decodes         *atomic.Int64
	reg             *status.Registry
}

// NewEngine creates an engine. The registry may be shared with the UI; pass
// nil to let the engine own a private one.
func NewEngine(cfg *Config, reg *status.Registry) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Engine{
		cfg:             cfg,
		cache:           NewBufferCache(cfg),
		reg:             reg,
		message:         reg.Strings.Get(status.KeyMessage),
		outputDevice:    reg.Strings.Get(status.KeyOutputDevice),
		voicesStarted:   reg.Ints.Get(status.KeyVoicesStarted),
		deviceFallbacks: reg.Ints.Get(status.KeyDeviceFallbacks),
		decodes:         reg.Ints.Get(status.KeyDecodes),
	}
}

// Init constructs the audio graph and starts the sink. Idempotent: when the
// graph already exists only the output device retarget is attempted. The
// device bind itself is best-effort; Init fails only when no output backend
// can start at all.
func (e *Engine) Init(outputDeviceID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized.Load() {
		if outputDeviceID != e.sink.Device() {
			e.setOutputLocked(outputDeviceID)
		}
		return nil
	}

	e.bus = newBus(e.cfg.MasterVolume)
	if e.sink == nil {
		e.sink = detectSink()
	}

	format := busFormat(e.cfg.SampleRate)
	bufferSize := format.SampleRate.N(e.cfg.BufferDuration)
	if err := e.sink.Start(format, bufferSize, e.bus); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}

	// Silent warm-up reduces first-trigger stutter on some backends.
	e.bus.Warmup(format.SampleRate.N(e.cfg.WarmupDuration))

	e.initialized.Store(true)

	if outputDeviceID != "" {
		e.setOutputLocked(outputDeviceID)
	}
	return nil
}

// Trigger plays a button's sound as a new independent voice. Unassigned
// buttons no-op. The first play of a path pays the decode; cached paths play
// immediately. Decode failures come back as errors for the caller to surface
// and are also posted to the status registry.
func (e *Engine) Trigger(btn Button) error {
	if btn.Path == "" {
		return nil
	}

	// Snapshot the graph under the lock; Close nils the sink concurrently.
	e.mu.Lock()
	if !e.initialized.Load() {
		e.mu.Unlock()
		return ErrNotInitialized
	}
	sink, bus := e.sink, e.bus
	e.mu.Unlock()

	// Some backends suspend the output pipeline when idle; wake it before
	// scheduling so the first trigger after a quiet period is not dropped.
	if err := sink.Resume(); err != nil {
		log.Printf("audio: resume: %v", err)
	}

	buf, err := e.cache.GetOrDecode(btn.Path)
	if err != nil {
		e.setStatus(fmt.Sprintf("can't play %s: %v", btn.Label, err))
		return err
	}
	e.decodes.Store(int64(e.cache.Decodes()))

	v := newVoice(buf, btn.Gain, e.cfg)
	bus.Play(v)
	e.voicesStarted.Add(1)
	return nil
}

// Preload warms the decode cache for path; failures are swallowed.
func (e *Engine) Preload(path string) {
	e.cache.Preload(path)
}

// Invalidate drops the cached decode for path. The UI calls this when a
// button's file assignment changes so the next trigger decodes the new file.
func (e *Engine) Invalidate(path string) {
	e.cache.Invalidate(path)
}

// SetOutput retargets the sink to the given device id ("" = system default).
// Best-effort: failures fall back to the default device and are reported
// through the status registry, never returned.
func (e *Engine) SetOutput(deviceID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized.Load() {
		return
	}
	e.setOutputLocked(deviceID)
}

// setOutputLocked performs the bind and the fallback bookkeeping.
// Caller holds e.mu.
func (e *Engine) setOutputLocked(deviceID string) {
	err := e.sink.SetDevice(deviceID)
	if err == nil {
		e.outputDevice.Store(deviceID)
		if deviceID == "" {
			e.setStatus("output: system default")
		} else {
			e.setStatus("output: " + deviceID)
		}
		return
	}

	e.deviceFallbacks.Add(1)
	// Restore the default binding where the sink supports rebinding at all.
	if serr := e.sink.SetDevice(""); serr == nil {
		e.outputDevice.Store("")
	}
	e.setStatus(fmt.Sprintf("output device %q unavailable, using default (%v)", deviceID, err))
}

// StopAll ramps down and releases every active voice. A deliberate emergency
// control: the UI exposes one stop-all affordance, not per-button stop.
// With no active voices it is a no-op.
func (e *Engine) StopAll() {
	if !e.initialized.Load() {
		return
	}
	e.bus.StopAll(e.cfg.ReapDelay)
}

// ActiveVoices returns the number of voices not yet completed.
func (e *Engine) ActiveVoices() int {
	if !e.initialized.Load() {
		return 0
	}
	return e.bus.ActiveCount()
}

// Initialized reports whether the audio graph exists.
func (e *Engine) Initialized() bool {
	return e.initialized.Load()
}

// Registry exposes the status registry the engine writes to.
func (e *Engine) Registry() *status.Registry {
	return e.reg
}

// Close tears the graph down. The engine can be re-initialized afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized.CompareAndSwap(true, false) {
		return
	}
	e.bus.Clear()
	if err := e.sink.Close(); err != nil {
		log.Printf("audio: sink close: %v", err)
	}
	e.sink = nil
}

func (e *Engine) setStatus(msg string) {
	e.message.Store(msg)
	log.Printf("audio: %s", msg)
}
