package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gallery"
)

type galleryPage struct {
	Admin   bool
	Gallery galleryData
}

// galleryData feeds the "gallery" partial. OOB marks it as an out-of-band
// swap riding along another fragment.
type galleryData struct {
	View  gallery.View
	Error string
	OOB   bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderGallery(w, r, domain.NoCategory, false)
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	categoryID := domain.NoCategory
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			http.Error(w, "invalid category", http.StatusBadRequest)
			return
		}
		categoryID = id
	}
	s.renderGallery(w, r, categoryID, isHTMX(r))
}

func (s *Server) renderGallery(w http.ResponseWriter, r *http.Request, categoryID int64, partial bool) {
	s.gallery.EnsureLoaded(r.Context())
	admin := s.isAdmin(r)
	data := galleryData{View: gallery.NewView(s.gallery.Snapshot(), categoryID, admin)}

	if partial {
		if err := s.renderPartial(w, tmplGallery, data); err != nil {
			s.logger.Error("render partial failed", "error", err)
		}
		return
	}
	if err := s.renderPage(w, http.StatusOK, galleryPage{Admin: admin, Gallery: data}, "pages/gallery.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	GalleryLoaded bool   `json:"gallery_loaded"`
	Works         int    `json:"works"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, healthResponse{
		Status:        "ok",
		GalleryLoaded: s.gallery.Loaded(),
		Works:         len(s.gallery.Snapshot().Works),
	})
}
