package app

import (
	"context"
	"errors"
	"log"

	"github.com/clipdeck/clipdeck/internal/locale"
	"github.com/clipdeck/clipdeck/internal/thumbnail"
	"github.com/clipdeck/clipdeck/internal/ui"
	"github.com/clipdeck/clipdeck/internal/upload"
	"github.com/clipdeck/clipdeck/internal/validate"
)

// Upload submits the upload form. Progress receives the transfer
// percentage. A nil return means the dialog was closed, a success toast
// shown and a view reload scheduled; a non-nil return is the inline error
// for the upload form.
func (c *Controller) Upload(ctx context.Context, form upload.Form, progress func(percent int)) error {
	if msg := validate.Title(form.Title); msg != "" {
		return &InlineError{Message: msg}
	}
	if msg := validate.Description(form.Description); msg != "" {
		return &InlineError{Message: msg}
	}

	_, err := c.uploads.Submit(ctx, form, progress)
	if err != nil {
		if errors.Is(err, upload.ErrNotAuthenticated) {
			c.toasts.Show(locale.T(locale.LoginRequired), ui.Error)
			return err
		}
		return inline(err, locale.UploadConnection)
	}

	c.modals.Close(ui.ModalUpload)
	c.toasts.Show(locale.T(locale.UploadSuccess), ui.Success)
	c.scheduleReload()
	return nil
}

// VideoSelected runs when a video file is chosen in the upload dialog.
// Unless a manual thumbnail already stands, a frame is extracted and
// staged; the returned preview bytes feed the inline preview, nil when
// extraction failed or was skipped. Extraction failure is non-fatal and
// never surfaced as an error.
func (c *Controller) VideoSelected(ctx context.Context, videoPath string, hasManualThumbnail bool) []byte {
	if hasManualThumbnail {
		return nil
	}

	frame, err := c.extractor.Extract(ctx, videoPath)
	if err != nil {
		log.Printf("app: auto-thumbnail extraction failed: %v", err)
		c.pending.Clear()
		return nil
	}
	if !c.pending.SetAuto(frame.JPEG, thumbnail.DefaultFilename) {
		// A manual choice arrived while we were extracting; it wins.
		return nil
	}
	return frame.Preview
}

// ThumbnailSelected runs when the user picks their own thumbnail file; it
// overrides any auto-extracted frame regardless of timing.
func (c *Controller) ThumbnailSelected() {
	c.pending.SetUser()
}

// ThumbnailCleared resets the slot when the manual selection is removed.
func (c *Controller) ThumbnailCleared() {
	c.pending.Clear()
}
