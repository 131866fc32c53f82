// Package service holds the business rules of the reference API.
//
// LAYERS:
//
//	Handler (HTTP)  → parses multipart forms, writes JSON
//	Service         → validates, sanitises, stores images, orchestrates
//	Repository      → SQL
//
// Services take interfaces (ProjectRepository, ImageStore) so tests run
// against in-memory fakes and never touch disk or SQLite.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/model"
	"github.com/sakif/studio-site/internal/repository"
	"github.com/sakif/studio-site/internal/sanitize"
)

// ImageStore persists uploaded image files and returns their references.
type ImageStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Remove(ref string) error
}

// Limits bound what a single project may carry.
type Limits struct {
	MaxFileSize     int64
	MaxGalleryCount int
}

// ProjectInput is the text part of a create/update form.
type ProjectInput struct {
	Title           string
	Description1    string
	Description2    string
	ProjectType     string
	ProjectArea     string
	ProjectLocation string
	Status          string
}

// ImageUpload is one uploaded file as the handler received it.
type ImageUpload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// ProjectService manages portfolio projects.
type ProjectService struct {
	repo   repository.ProjectRepository
	images ImageStore
	limits Limits
	logger *slog.Logger
}

func NewProjectService(repo repository.ProjectRepository, images ImageStore, limits Limits, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		repo:   repo,
		images: images,
		limits: limits,
		logger: logger,
	}
}

// List returns every project, newest first.
func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) GetByID(ctx context.Context, id string) (*model.Project, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "project ID is required")
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return p, nil
}

// Create validates the form, stores the images and then the project. If
// anything fails after images were written, they are removed again.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput, mainImage *ImageUpload, gallery []ImageUpload) (*model.Project, error) {
	in, err := cleanInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkImages(mainImage, gallery, 0); err != nil {
		return nil, err
	}

	p := &model.Project{
		Title:           in.Title,
		Description1:    in.Description1,
		Description2:    in.Description2,
		ProjectType:     in.ProjectType,
		ProjectArea:     in.ProjectArea,
		ProjectLocation: in.ProjectLocation,
		Status:          in.Status,
	}

	saved, err := s.saveImages(mainImage, gallery)
	if err != nil {
		return nil, err
	}
	p.MainImage = saved.main
	p.OtherImages = saved.gallery

	if err := s.repo.Create(ctx, p); err != nil {
		s.discard(saved.all())
		s.logger.Error("failed to create project",
			slog.String("title", p.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created",
		slog.String("id", p.ID),
		slog.String("title", p.Title),
		slog.Int("images", len(saved.all())),
	)
	return p, nil
}

// Update replaces every text field, swaps the main image when a new one is
// sent, and appends new gallery images after the existing ones.
func (s *ProjectService) Update(ctx context.Context, id string, in ProjectInput, mainImage *ImageUpload, gallery []ImageUpload) (*model.Project, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err = cleanInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkImages(mainImage, gallery, len(p.OtherImages)); err != nil {
		return nil, err
	}

	saved, err := s.saveImages(mainImage, gallery)
	if err != nil {
		return nil, err
	}

	oldMain := p.MainImage
	p.Title = in.Title
	p.Description1 = in.Description1
	p.Description2 = in.Description2
	p.ProjectType = in.ProjectType
	p.ProjectArea = in.ProjectArea
	p.ProjectLocation = in.ProjectLocation
	p.Status = in.Status
	if saved.main != "" {
		p.MainImage = saved.main
	}
	p.OtherImages = append(p.OtherImages, saved.gallery...)

	if err := s.repo.Update(ctx, p); err != nil {
		s.discard(saved.all())
		return nil, fmt.Errorf("updating project: %w", err)
	}
	if saved.main != "" && oldMain != "" {
		s.discard([]string{oldMain})
	}

	s.logger.Info("project updated",
		slog.String("id", p.ID),
		slog.Int("new_images", len(saved.all())),
	)
	return p, nil
}

// Delete removes the project and then its image files.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	s.discard(append([]string{p.MainImage}, p.OtherImages...))
	s.logger.Info("project deleted", slog.String("id", id))
	return nil
}

// cleanInput strips markup and enforces the field rules.
func cleanInput(in ProjectInput) (ProjectInput, error) {
	out := ProjectInput{
		Title:           sanitize.Text(in.Title),
		Description1:    sanitize.Text(in.Description1),
		Description2:    sanitize.Text(in.Description2),
		ProjectType:     sanitize.Text(in.ProjectType),
		ProjectArea:     sanitize.Text(in.ProjectArea),
		ProjectLocation: sanitize.Text(in.ProjectLocation),
		Status:          strings.ToLower(sanitize.Text(in.Status)),
	}

	if out.Title == "" {
		return ProjectInput{}, apperror.ValidationFailed("title", "Title is required")
	}
	if utf8.RuneCountInString(out.Title) > model.MaxTitleLength {
		return ProjectInput{}, apperror.ValidationFailed("title",
			fmt.Sprintf("Title must be at most %d characters", model.MaxTitleLength))
	}
	if out.Description1 == "" {
		return ProjectInput{}, apperror.ValidationFailed("description1", "Description is required")
	}
	if utf8.RuneCountInString(out.Description1) > model.MaxDescriptionLength ||
		utf8.RuneCountInString(out.Description2) > model.MaxDescriptionLength {
		return ProjectInput{}, apperror.ValidationFailed("description",
			fmt.Sprintf("Descriptions must be at most %d characters", model.MaxDescriptionLength))
	}
	if !model.ValidStatus(out.Status) {
		return ProjectInput{}, apperror.ValidationFailed("status",
			fmt.Sprintf("Status must be %q or %q", model.StatusActive, model.StatusInactive))
	}
	return out, nil
}

// checkImages enforces the size cap per file and the gallery cap including
// the existing images.
func (s *ProjectService) checkImages(mainImage *ImageUpload, gallery []ImageUpload, existing int) error {
	if existing+len(gallery) > s.limits.MaxGalleryCount {
		return apperror.ValidationFailed("otherImages",
			fmt.Sprintf("You can upload a maximum of %d images", s.limits.MaxGalleryCount))
	}

	files := gallery
	if mainImage != nil {
		files = append([]ImageUpload{*mainImage}, gallery...)
	}
	for _, f := range files {
		if f.Size > s.limits.MaxFileSize {
			return apperror.ValidationFailed("image", fmt.Sprintf(
				"Each image should be less than %s (%s is %s)",
				humanize.IBytes(uint64(s.limits.MaxFileSize)), f.Name, humanize.IBytes(uint64(f.Size)),
			))
		}
	}
	return nil
}

type savedImages struct {
	main    string
	gallery []string
}

func (s savedImages) all() []string {
	out := make([]string, 0, 1+len(s.gallery))
	if s.main != "" {
		out = append(out, s.main)
	}
	return append(out, s.gallery...)
}

func (s *ProjectService) saveImages(mainImage *ImageUpload, gallery []ImageUpload) (savedImages, error) {
	var saved savedImages
	if mainImage != nil {
		ref, err := s.saveOne(*mainImage)
		if err != nil {
			return savedImages{}, err
		}
		saved.main = ref
	}
	for _, img := range gallery {
		ref, err := s.saveOne(img)
		if err != nil {
			s.discard(saved.all())
			return savedImages{}, err
		}
		saved.gallery = append(saved.gallery, ref)
	}
	return saved, nil
}

func (s *ProjectService) saveOne(img ImageUpload) (string, error) {
	src, err := img.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload %s: %w", img.Name, err)
	}
	defer src.Close()

	ref, err := s.images.Save(img.Name, src)
	if err != nil {
		return "", fmt.Errorf("saving upload %s: %w", img.Name, err)
	}
	return ref, nil
}

// discard removes stored files, logging failures; an orphaned file is not
// worth failing a request over.
func (s *ProjectService) discard(refs []string) {
	for _, ref := range refs {
		if err := s.images.Remove(ref); err != nil {
			s.logger.Warn("failed to remove image",
				slog.String("ref", ref),
				slog.String("error", err.Error()),
			)
		}
	}
}
