package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/clipdeck/clipdeck/internal/api"
	"github.com/clipdeck/clipdeck/internal/session"
	"github.com/clipdeck/clipdeck/internal/thumbnail"
)

// ErrNotAuthenticated is returned before any network traffic when the
// upload is attempted without an active session.
var ErrNotAuthenticated = errors.New("upload: active session required")

const defaultDuration = 60

// SessionSource exposes the current session; satisfied by
// *session.Manager.
type SessionSource interface {
	Current() session.Session
}

// Form is the upload dialog's state at submission time.
type Form struct {
	VideoPath string
	// ThumbnailPath is the user's explicit choice; it always wins over a
	// staged auto frame.
	ThumbnailPath string
	Title         string
	Description   string
	AccessLevel   string
	Category      string
	Tags          string
}

// Flow submits the upload form as one multipart request with progress
// reporting.
type Flow struct {
	client    *api.Client
	sessions  SessionSource
	pending   *thumbnail.Pending
	extractor *thumbnail.Extractor
}

func New(client *api.Client, sessions SessionSource, pending *thumbnail.Pending, extractor *thumbnail.Extractor) *Flow {
	return &Flow{client: client, sessions: sessions, pending: pending, extractor: extractor}
}

// Submit resolves the thumbnail, requires a session, probes the video
// duration and streams the multipart request. Progress is a percentage of
// file bytes transferred. On success the pending thumbnail slot is reset.
func (f *Flow) Submit(ctx context.Context, form Form, progress func(percent int)) (*api.Video, error) {
	if !f.sessions.Current().Authenticated() {
		return nil, ErrNotAuthenticated
	}

	video, err := os.Open(form.VideoPath)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}
	defer video.Close()
	info, err := video.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat video: %w", err)
	}

	up := api.VideoUpload{
		File: api.FilePart{
			Name:   filepath.Base(form.VideoPath),
			Reader: video,
			Size:   info.Size(),
		},
		Title:       form.Title,
		Description: form.Description,
		Duration:    f.probeDuration(ctx, form.VideoPath),
		AccessLevel: form.AccessLevel,
		Category:    form.Category,
		Tags:        form.Tags,
	}

	thumb, closeThumb, err := f.resolveThumbnail(form)
	if err != nil {
		return nil, err
	}
	if closeThumb != nil {
		defer closeThumb()
	}
	up.Thumbnail = thumb

	var report api.ProgressFunc
	if progress != nil {
		report = func(sent, total int64) {
			progress(int(sent * 100 / total))
		}
	}

	created, err := f.client.CreateVideo(ctx, up, report)
	if err != nil {
		return nil, err
	}

	// Form reset: the staged frame belongs to the submitted video.
	f.pending.Clear()
	return created, nil
}

// resolveThumbnail applies the precedence rule at submission time: the
// user's file if one was chosen, else a staged auto frame, else nothing.
func (f *Flow) resolveThumbnail(form Form) (*api.FilePart, func(), error) {
	if form.ThumbnailPath != "" {
		file, err := os.Open(form.ThumbnailPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open thumbnail: %w", err)
		}
		info, err := file.Stat()
		if err != nil {
			file.Close()
			return nil, nil, fmt.Errorf("stat thumbnail: %w", err)
		}
		part := &api.FilePart{
			Name:   filepath.Base(form.ThumbnailPath),
			Reader: file,
			Size:   info.Size(),
		}
		return part, func() { file.Close() }, nil
	}

	if blob, name, ok := f.pending.Auto(); ok {
		return &api.FilePart{
			Name:   name,
			Reader: bytes.NewReader(blob),
			Size:   int64(len(blob)),
		}, nil, nil
	}
	return nil, nil, nil
}

// probeDuration reads the clip length for the duration form field; the
// original client defaulted to 60 when metadata was unreadable.
func (f *Flow) probeDuration(ctx context.Context, path string) int {
	if f.extractor == nil {
		return defaultDuration
	}
	media, err := f.extractor.Probe(ctx, path)
	if err != nil || media.Duration <= 0 {
		if err != nil {
			log.Printf("upload: duration probe failed: %v", err)
		}
		return defaultDuration
	}
	return int(media.Duration)
}
