package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync/atomic"
)

// FilePart is one file attached to a multipart upload.
type FilePart struct {
	Name   string
	Reader io.Reader
	Size   int64
}

// VideoUpload carries the upload form. Thumbnail is optional; the flow
// layer decides whether it is the user's file or an auto-extracted frame.
type VideoUpload struct {
	File        FilePart
	Thumbnail   *FilePart
	Title       string
	Description string
	Duration    int
	AccessLevel string
	Category    string
	Tags        string
}

// ProgressFunc receives the number of file bytes handed to the transport
// so far and the total file bytes of the upload.
type ProgressFunc func(sent, total int64)

// CreateVideo submits a multipart upload to POST /api/videos. The server
// signals success with 201 Created and the stored video record.
func (c *Client) CreateVideo(ctx context.Context, up VideoUpload, progress ProgressFunc) (*Video, error) {
	total := up.File.Size
	if up.Thumbnail != nil {
		total += up.Thumbnail.Size
	}

	var sent int64
	report := func(n int) {
		if progress != nil && total > 0 {
			progress(atomic.AddInt64(&sent, int64(n)), total)
		}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		if err := writeUploadBody(mw, up, report); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/videos", pr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setCommonHeaders(req)

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send upload: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp.StatusCode, respBody)
	}

	var video Video
	if err := json.Unmarshal(respBody, &video); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &video, nil
}

func writeUploadBody(mw *multipart.Writer, up VideoUpload, report func(int)) error {
	fields := map[string]string{
		"title":        up.Title,
		"description":  up.Description,
		"access_level": up.AccessLevel,
		"category":     up.Category,
		"tags":         up.Tags,
	}
	if up.Duration > 0 {
		fields["duration"] = strconv.Itoa(up.Duration)
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := mw.WriteField(name, value); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}

	part, err := mw.CreateFormFile("file", up.File.Name)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, &countingReader{r: up.File.Reader, report: report}); err != nil {
		return fmt.Errorf("copy video: %w", err)
	}

	if up.Thumbnail != nil {
		part, err := mw.CreateFormFile("thumbnail", up.Thumbnail.Name)
		if err != nil {
			return fmt.Errorf("create thumbnail part: %w", err)
		}
		if _, err := io.Copy(part, &countingReader{r: up.Thumbnail.Reader, report: report}); err != nil {
			return fmt.Errorf("copy thumbnail: %w", err)
		}
	}
	return nil
}

type countingReader struct {
	r      io.Reader
	report func(int)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 && c.report != nil {
		c.report(n)
	}
	return n, err
}
