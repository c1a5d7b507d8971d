package status

import "sync/atomic"

// Well-known keys written by the audio engine and read by the UI footer.
const (
	KeyMessage         = "audio.message"          // last status message
	KeyOutputDevice    = "audio.output_device"    // bound device id, "" = default
	KeyVoicesActive    = "audio.voices_active"    // voices not yet completed
	KeyVoicesStarted   = "audio.voices_started"   // triggers that produced a voice
	KeyDecodes         = "audio.decodes"          // cache decode count
	KeyDeviceFallbacks = "audio.device_fallbacks" // failed binds that fell back
)

// Registry is the central status facade. Writers cache pointers during init
// and update atomics directly; readers poll without locks. Device-bind
// failures and other best-effort degradations surface here instead of as
// errors thrown through the engine API.
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry.
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Message returns the last status message, for UI display.
func (r *Registry) Message() string {
	return r.Strings.Get(KeyMessage).Load()
}
