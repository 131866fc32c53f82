package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/model"
	"github.com/sakif/studio-site/internal/service"
)

// Multipart field names, shared with the client gateway.
const (
	fieldMainImage   = "mainImage"
	fieldOtherImages = "otherImages"
)

// formMemory is how much of a multipart body is held in memory; the rest
// spills to temporary files.
const formMemory = 32 << 20

// ProjectService is what ProjectHandler needs from the service layer.
type ProjectService interface {
	List(ctx context.Context) ([]model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	Create(ctx context.Context, in service.ProjectInput, mainImage *service.ImageUpload, gallery []service.ImageUpload) (*model.Project, error)
	Update(ctx context.Context, id string, in service.ProjectInput, mainImage *service.ImageUpload, gallery []service.ImageUpload) (*model.Project, error)
	Delete(ctx context.Context, id string) error
}

var _ ProjectService = (*service.ProjectService)(nil)

// ProjectHandler serves /api/projects.
//
// ROUTES:
//   - GET    /api/projects       → HandleList   (public)
//   - GET    /api/projects/{id}  → HandleGet    (public)
//   - POST   /api/projects       → HandleCreate (admin, multipart)
//   - PUT    /api/projects/{id}  → HandleUpdate (admin, multipart)
//   - DELETE /api/projects/{id}  → HandleDelete (admin)
type ProjectHandler struct {
	projects ProjectService
	maxBody  int64
	logger   *slog.Logger
}

// NewProjectHandler creates a ProjectHandler. maxBody bounds a whole
// create/update request, files included.
func NewProjectHandler(projects ProjectService, maxBody int64, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		maxBody:  maxBody,
		logger:   logger,
	}
}

// MaxUploadBody returns a request body limit large enough for a main image
// plus a full gallery at the per-file cap, with room for the text fields.
func MaxUploadBody(maxFileSize int64, maxGallery int) int64 {
	return maxFileSize*int64(maxGallery+1) + 1<<20
}

func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list projects", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, projects)
}

func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// HandleCreate stores a new project from a multipart form.
//
// HTTP: POST /api/projects
// FORM: title, description1, description2, projectType, projectArea,
// projectLocation, status, mainImage (file), otherImages (files)
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in, mainImage, gallery, err := h.parseForm(w, r)
	if err != nil {
		h.logger.Warn("invalid project form", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	p, err := h.projects.Create(r.Context(), in, mainImage, gallery)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

// HandleUpdate replaces the text fields of a project. A sent mainImage
// replaces the current one; sent otherImages are appended to the gallery.
//
// HTTP: PUT /api/projects/{id}
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	in, mainImage, gallery, err := h.parseForm(w, r)
	if err != nil {
		h.logger.Warn("invalid project form", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	p, err := h.projects.Update(r.Context(), chi.URLParam(r, "id"), in, mainImage, gallery)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// HandleDelete removes a project and its images.
//
// HTTP: DELETE /api/projects/{id} → 204 No Content
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseForm reads the multipart body. On success r.MultipartForm is set and
// the caller must RemoveAll it.
func (h *ProjectHandler) parseForm(w http.ResponseWriter, r *http.Request) (service.ProjectInput, *service.ImageUpload, []service.ImageUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.ProjectInput{}, nil, nil, tooLarge
		}
		return service.ProjectInput{}, nil, nil, apperror.ValidationFailed("form", "Request must be a multipart form")
	}

	in := service.ProjectInput{
		Title:           r.FormValue("title"),
		Description1:    r.FormValue("description1"),
		Description2:    r.FormValue("description2"),
		ProjectType:     r.FormValue("projectType"),
		ProjectArea:     r.FormValue("projectArea"),
		ProjectLocation: r.FormValue("projectLocation"),
		Status:          r.FormValue("status"),
	}

	var mainImage *service.ImageUpload
	if files := r.MultipartForm.File[fieldMainImage]; len(files) > 0 {
		u := toUpload(files[0])
		mainImage = &u
	}
	var gallery []service.ImageUpload
	for _, fh := range r.MultipartForm.File[fieldOtherImages] {
		gallery = append(gallery, toUpload(fh))
	}
	return in, mainImage, gallery, nil
}

func toUpload(fh *multipart.FileHeader) service.ImageUpload {
	return service.ImageUpload{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}
