package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/vbonduro/folio/internal/admin"
	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gallery"
	"github.com/vbonduro/folio/internal/session"
	"github.com/vbonduro/folio/internal/upload"
)

const msgDeleteFailed = "Could not delete this work. Please try again."

// modalData feeds the "modal" partial.
type modalData struct {
	View       admin.View
	Works      []domain.Work
	Categories []domain.Category
	Form       admin.Form
	Complete   bool
	Error      string
}

func (m modalData) UploadSlot() uploadData { return uploadData{Key: m.Form.UploadKey} }
func (m modalData) TitleInput() titleData  { return titleData{Title: m.Form.Title} }
func (m modalData) SubmitButton() submitData {
	return submitData{Complete: m.Complete}
}

type submitData struct {
	Complete bool
	OOB      bool
}

func (s *Server) handleModal(w http.ResponseWriter, r *http.Request) {
	s.gallery.EnsureLoaded(r.Context())
	from, err := admin.ParseView(r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := admin.Transition(from, admin.Event(r.URL.Query().Get("event")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Leaving the add form drops whatever image was staged in it.
	if from == admin.ViewAddForm {
		if key := r.FormValue("upload_key"); key != "" {
			s.discardUpload(r, key)
		}
	}

	if err := s.renderPartial(w, tmplModal, modalFor(s.gallery.Snapshot(), to, admin.Form{}, "")); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

func modalFor(snap gallery.Snapshot, view admin.View, form admin.Form, errMsg string) modalData {
	return modalData{
		View:       view,
		Works:      snap.Works,
		Categories: snap.Categories,
		Form:       form,
		Complete:   form.Complete(),
		Error:      errMsg,
	}
}

func formFromRequest(r *http.Request) admin.Form {
	return admin.ParseForm(r.FormValue("title"), r.FormValue("category"), r.FormValue("upload_key"))
}

func (s *Server) handleValidateForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes())
	form := formFromRequest(r)
	if err := s.renderPartial(w, tmplSubmit, submitData{Complete: form.Complete()}); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

func (s *Server) handleCreateWork(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes())
	form := formFromRequest(r)
	if !form.Complete() {
		http.Error(w, "title, category and image are required", http.StatusUnprocessableEntity)
		return
	}
	s.gallery.EnsureLoaded(r.Context())
	if _, ok := s.gallery.Category(form.CategoryID); !ok {
		http.Error(w, "unknown category", http.StatusUnprocessableEntity)
		return
	}

	nw, err := s.stagedWork(r, form)
	if errors.Is(err, upload.ErrNotFound) {
		http.Error(w, "selected image is no longer available", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		http.Error(w, "failed to read image", http.StatusInternalServerError)
		s.logger.Error("read staged upload failed", "key", form.UploadKey, "error", err)
		return
	}

	if _, err := s.gallery.CreateWork(r.Context(), s.token(r), nw); err != nil {
		s.logger.Error("create work failed", "title", form.Title, "error", err)
		if err := s.renderPartial(w, tmplModal, modalFor(s.gallery.Snapshot(), admin.ViewAddForm, form, "")); err != nil {
			s.logger.Error("render partial failed", "error", err)
		}
		return
	}
	s.discardUpload(r, form.UploadKey)

	view, err := admin.Transition(admin.ViewAddForm, admin.EventSubmitted)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	snap := s.gallery.Snapshot()
	if err := s.renderPartials(w,
		fragment{name: tmplModal, data: modalFor(snap, view, admin.Form{}, "")},
		fragment{name: tmplGallery, data: adminGallery(snap, "", true)},
	); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

// stagedWork reads the staged image named by form into a NewWork.
func (s *Server) stagedWork(r *http.Request, form admin.Form) (domain.NewWork, error) {
	rc, mimeType, err := s.uploads.Get(r.Context(), session.ID(r), form.UploadKey)
	if err != nil {
		return domain.NewWork{}, err
	}
	defer closeWithLog(rc, "staged upload", s.logger)

	data, err := io.ReadAll(io.LimitReader(rc, s.opts.MaxUploadBytes+1))
	if err != nil {
		return domain.NewWork{}, fmt.Errorf("read staged upload: %w", err)
	}
	return domain.NewWork{
		Title:      form.Title,
		CategoryID: form.CategoryID,
		Filename:   form.UploadKey,
		MimeType:   mimeType,
		Image:      data,
	}, nil
}

func (s *Server) handleDeleteWork(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid work id", http.StatusBadRequest)
		return
	}

	s.gallery.EnsureLoaded(r.Context())
	var errMsg string
	if err := s.gallery.DeleteWork(r.Context(), s.token(r), id); err != nil {
		s.logger.Error("delete work failed", "work_id", id, "error", err)
		errMsg = msgDeleteFailed
	}

	// Both fragments come from one snapshot. Errors are shown inline, so the
	// status stays 200 for htmx to swap.
	snap := s.gallery.Snapshot()
	var frags []fragment
	if r.URL.Query().Get("from") == tmplModal {
		frags = []fragment{
			{name: tmplModal, data: modalFor(snap, admin.ViewManage, admin.Form{}, errMsg)},
			{name: tmplGallery, data: adminGallery(snap, "", true)},
		}
	} else {
		frags = []fragment{{name: tmplGallery, data: adminGallery(snap, errMsg, false)}}
	}
	if err := s.renderPartials(w, frags...); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

// adminGallery is the unfiltered gallery with delete controls.
func adminGallery(snap gallery.Snapshot, errMsg string, oob bool) galleryData {
	return galleryData{
		View:  gallery.NewView(snap, domain.NoCategory, true),
		Error: errMsg,
		OOB:   oob,
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
