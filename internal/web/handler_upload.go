package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/folio/internal/admin"
	"github.com/vbonduro/folio/internal/session"
	"github.com/vbonduro/folio/internal/upload"
)

// multipartOverhead is the slack allowed on top of the image for the other
// form fields and multipart framing.
const multipartOverhead = 64 * 1024

// uploadData feeds the "upload" partial: a file picker when Key is empty, a
// preview with a remove control otherwise.
type uploadData struct {
	Key   string
	Error string
}

type titleData struct {
	Title string
	OOB   bool
}

func (s *Server) maxRequestBytes() int64 {
	return s.opts.MaxUploadBytes + multipartOverhead
}

func (s *Server) handleStageUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes())
	if err := r.ParseMultipartForm(s.maxRequestBytes()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.renderUploadError(w, s.tooLargeMessage())
			return
		}
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file required", http.StatusBadRequest)
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	imageData, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		s.logger.Error("read upload failed", "error", err)
		return
	}
	if int64(len(imageData)) > s.opts.MaxUploadBytes {
		s.renderUploadError(w, s.tooLargeMessage())
		return
	}

	mimeType, ok := upload.DetectImageMIME(imageData)
	if !ok {
		s.renderUploadError(w, "Unsupported image format. Use JPEG, PNG, GIF or WebP.")
		return
	}

	key, err := s.uploads.Save(r.Context(), session.ID(r), mimeType, bytes.NewReader(imageData))
	if err != nil {
		http.Error(w, "failed to store image", http.StatusInternalServerError)
		s.logger.Error("stage upload failed", "error", err)
		return
	}
	s.logger.Info("upload staged", "key", key, "mime_type", mimeType, "bytes", len(imageData))

	form := admin.ParseForm(r.FormValue("title"), r.FormValue("category"), key)
	frags := []fragment{{name: tmplUpload, data: uploadData{Key: key}}}
	if form.Title == "" {
		if title := s.suggestTitle(r, imageData, mimeType); title != "" {
			form.Title = title
			frags = append(frags, fragment{name: tmplTitleInput, data: titleData{Title: title, OOB: true}})
		}
	}
	frags = append(frags, fragment{name: tmplSubmit, data: submitData{Complete: form.Complete(), OOB: true}})

	if err := s.renderPartials(w, frags...); err != nil {
		// The client never learns the key, so nothing else would remove it.
		s.logger.Error("render partial failed", "error", err)
		s.discardUpload(r, key)
	}
}

// suggestTitle asks the vision backend for a title. Failures only cost the
// suggestion.
func (s *Server) suggestTitle(r *http.Request, data []byte, mimeType string) string {
	if s.suggester == nil {
		return ""
	}
	title, err := s.suggester.SuggestTitle(r.Context(), bytes.NewReader(data), mimeType)
	if err != nil {
		s.logger.Warn("title suggestion failed", "error", err)
		return ""
	}
	return title
}

func (s *Server) tooLargeMessage() string {
	return fmt.Sprintf("Image is too large (max %d KB).", s.opts.MaxUploadBytes/1024)
}

// renderUploadError shows msg in the upload slot. The status stays 200 so
// htmx swaps it in.
func (s *Server) renderUploadError(w http.ResponseWriter, msg string) {
	if err := s.renderPartial(w, tmplUpload, uploadData{Error: msg}); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	reader, mimeType, err := s.uploads.Get(r.Context(), session.ID(r), key)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "upload reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "no-store")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write upload failed", "key", key, "error", err)
	}
}

func (s *Server) handleRemoveUpload(w http.ResponseWriter, r *http.Request) {
	s.discardUpload(r, r.PathValue("key"))
	if err := s.renderPartials(w,
		fragment{name: tmplUpload, data: uploadData{}},
		fragment{name: tmplSubmit, data: submitData{OOB: true}},
	); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

// discardUpload deletes a staged image, logging anything but a missing key.
func (s *Server) discardUpload(r *http.Request, key string) {
	if err := s.uploads.Delete(r.Context(), session.ID(r), key); err != nil && !errors.Is(err, upload.ErrNotFound) {
		s.logger.Error("discard upload failed", "key", key, "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
