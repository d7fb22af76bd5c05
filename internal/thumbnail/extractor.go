package thumbnail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"strconv"
)

const (
	// Frame is grabbed at 2s in, backed off to just before the end for
	// shorter clips.
	targetSeconds = 2.0
	seekBackoff   = 0.1

	fallbackWidth  = 1280
	fallbackHeight = 720

	jpegQuality    = 85
	previewQuality = 40
)

// Media is the metadata probe result: duration plus native dimensions.
// Width/Height are zero when the container does not report them.
type Media struct {
	Duration float64
	Width    int
	Height   int
}

// Frame is one extracted video frame: the full-quality JPEG staged for
// upload and a lower-fidelity preview for inline display.
type Frame struct {
	JPEG    []byte
	Preview []byte
	Width   int
	Height  int
}

// Extractor grabs a representative frame from a local video file using
// ffprobe and ffmpeg.
type Extractor struct {
	ffmpegPath  string
	ffprobePath string
}

func NewExtractor(ffmpegPath, ffprobePath string) *Extractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Extractor{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

type probeOutput struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads just enough of the file for duration and dimensions; no
// full decode happens.
func (e *Extractor) Probe(ctx context.Context, path string) (Media, error) {
	cmd := exec.CommandContext(ctx, e.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "format=duration:stream=width,height",
		"-of", "json",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return Media{}, fmt.Errorf("ffprobe: %w", err)
	}

	var probed probeOutput
	if err := json.Unmarshal(output, &probed); err != nil {
		return Media{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	var media Media
	if d, err := strconv.ParseFloat(probed.Format.Duration, 64); err == nil {
		media.Duration = d
	}
	if len(probed.Streams) > 0 {
		media.Width = probed.Streams[0].Width
		media.Height = probed.Streams[0].Height
	}
	return media, nil
}

// targetTimestamp picks the seek position: 2 seconds, or just before the
// end of anything shorter, clamped to zero.
func targetTimestamp(duration float64) float64 {
	t := duration - seekBackoff
	if t < 0 {
		t = 0
	}
	if t > targetSeconds {
		t = targetSeconds
	}
	return t
}

// Extract probes the video, seeks to the target timestamp and renders
// that frame as JPEG at native dimensions (1280x720 when the probe
// reports none). Failures are expected for exotic codecs; callers treat
// them as "no thumbnail", never as fatal.
func (e *Extractor) Extract(ctx context.Context, videoPath string) (*Frame, error) {
	media, err := e.Probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	tmpFrame, err := os.CreateTemp("", "clipdeck-frame-*.png")
	if err != nil {
		return nil, fmt.Errorf("create temp frame file: %w", err)
	}
	tmpPath := tmpFrame.Name()
	_ = tmpFrame.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	width, height := media.Width, media.Height
	args := []string{
		"-ss", strconv.FormatFloat(targetTimestamp(media.Duration), 'f', 3, 64),
		"-i", videoPath,
		"-frames:v", "1",
	}
	if width <= 0 || height <= 0 {
		width, height = fallbackWidth, fallbackHeight
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", width, height))
	}
	args = append(args, "-y", tmpPath)

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, string(output))
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	var full bytes.Buffer
	if err := jpeg.Encode(&full, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	var preview bytes.Buffer
	if err := jpeg.Encode(&preview, img, &jpeg.Options{Quality: previewQuality}); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}

	return &Frame{JPEG: full.Bytes(), Preview: preview.Bytes(), Width: width, Height: height}, nil
}
