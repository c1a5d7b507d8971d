package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// busFormat is the format every cached buffer is normalized to.
func busFormat(sampleRate int) beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   2,
	}
}

// decodeFile reads and decodes an audio file into a bus-format buffer.
// Supported formats are selected by extension: wav, mp3, ogg, flac.
// The source is resampled to the bus rate at decode time so playback
// never converts per-voice.
func decodeFile(path string, cfg *Config) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	defer streamer.Close()

	target := busFormat(cfg.SampleRate)

	var src beep.Streamer = streamer
	if format.SampleRate != target.SampleRate {
		src = beep.Resample(cfg.ResampleQuality, format.SampleRate, target.SampleRate, streamer)
	}

	buf := beep.NewBuffer(target)
	buf.Append(src)

	if streamer.Err() != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, streamer.Err())
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: %s: empty stream", ErrDecode, path)
	}
	return buf, nil
}
