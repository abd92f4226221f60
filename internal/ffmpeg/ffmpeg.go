// Package ffmpeg wraps the ffprobe binary for audio metadata.
package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// ErrUnavailable is returned when ffprobe is not installed.
var ErrUnavailable = errors.New("ffprobe not found in PATH")

// FFProbeOutput defines the structure for ffprobe JSON output relevant to duration.
type FFProbeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Prober reads the duration of media files with ffprobe.
type Prober struct {
	binary string
}

// NewProber locates ffprobe on PATH. It returns ErrUnavailable if it is missing.
func NewProber() (*Prober, error) {
	path, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, ErrUnavailable
	}
	return &Prober{binary: path}, nil
}

// Duration returns the duration of the media file at filePath.
func (p *Prober) Duration(ctx context.Context, filePath string) (time.Duration, error) {
	// ffprobe -v quiet -print_format json -show_format <input_file>
	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w (stderr: %s)", err, stderr.String())
	}
	return ParseDuration(out.Bytes())
}

// ParseDuration extracts format.duration from ffprobe JSON output.
func ParseDuration(output []byte) (time.Duration, error) {
	var probe FFProbeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return 0, fmt.Errorf("unmarshal ffprobe output: %w", err)
	}

	if probe.Format.Duration == "" {
		return 0, errors.New("ffprobe output has no format.duration")
	}

	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", probe.Format.Duration, err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
