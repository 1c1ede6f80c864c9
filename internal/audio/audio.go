// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package audio loads short audio clips from disk for transcription.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// ErrUnsupportedFormat means the file extension is not a known audio type.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

var mimeTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".webm": "audio/webm",
}

// Clip is an in-memory audio file.
type Clip struct {
	// Name is the file's base name, used for export naming.
	Name     string
	MimeType string
	Data     []byte
}

// Format returns the short format name derived from the MIME type, such as
// "mp3" or "wav".
func (c Clip) Format() string {
	switch c.MimeType {
	case "audio/mpeg":
		return "mp3"
	case "audio/mp4":
		return "m4a"
	}
	return strings.TrimPrefix(c.MimeType, "audio/")
}

// MimeType returns the MIME type for name's extension.
func MimeType(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	mt, ok := mimeTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return mt, nil
}

// Load reads the clip at path.
func Load(path string) (Clip, error) {
	mt, err := MimeType(path)
	if err != nil {
		return Clip{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Clip{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Clip{Name: filepath.Base(path), MimeType: mt, Data: data}, nil
}

// Duration returns the playing time of an MP3 clip. For other formats ok
// is false.
func Duration(c Clip) (d time.Duration, ok bool, err error) {
	if c.MimeType != "audio/mpeg" {
		return 0, false, nil
	}
	dec, err := mp3.NewDecoder(bytes.NewReader(c.Data))
	if err != nil {
		return 0, false, fmt.Errorf("decoding %s: %w", c.Name, err)
	}
	// Decoded output is 16-bit stereo: four bytes per sample frame.
	frames := dec.Length() / 4
	if frames < 0 || dec.SampleRate() == 0 {
		return 0, false, nil
	}
	return time.Duration(frames) * time.Second / time.Duration(dec.SampleRate()), true, nil
}
