package audio

import (
	"errors"
)

// Sentinel errors
var (
	// ErrDecode wraps any failure to read or decode an audio file.
	ErrDecode = errors.New("audio decode failed")

	// ErrUnsupportedFormat is returned for file types outside wav/mp3/ogg/flac.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrDeviceBind is reported when binding to a requested output device fails.
	ErrDeviceBind = errors.New("output device bind failed")

	// ErrDeviceSelectUnsupported is returned by sinks that can only target the
	// system default device.
	ErrDeviceSelectUnsupported = errors.New("output device selection not supported")

	// ErrNotInitialized is returned by Trigger before Init has run.
	ErrNotInitialized = errors.New("audio engine not initialized")

	// ErrNoOutputDevice indicates a requested device id matched nothing.
	ErrNoOutputDevice = errors.New("no matching output device")
)
