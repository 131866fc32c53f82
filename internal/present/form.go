package present

import (
	"fmt"
	"unicode/utf8"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/gateway"
	"github.com/sakif/studio-site/internal/model"
	"github.com/sakif/studio-site/internal/sanitize"
)

// ProjectForm is the admin create/edit form as the user filled it in.
type ProjectForm struct {
	Title           string
	Description1    string
	Description2    string
	ProjectType     string
	ProjectArea     string
	ProjectLocation string
	Status          string
	MainImage       *gateway.Upload
	OtherImages     []gateway.Upload
}

// FormFromProject prefills the edit form. Existing images stay on the
// server and are not part of the form.
func FormFromProject(p model.Project) ProjectForm {
	return ProjectForm{
		Title:           p.Title,
		Description1:    p.Description1,
		Description2:    p.Description2,
		ProjectType:     p.ProjectType,
		ProjectArea:     p.ProjectArea,
		ProjectLocation: p.ProjectLocation,
		Status:          p.Status,
	}
}

// Payload validates the form and returns what the gateway should send.
// Markup is stripped from every text field first, so the caps apply to the
// text that will actually be stored. requireMainImage is set on create.
func (f ProjectForm) Payload(v UploadValidator, requireMainImage bool) (gateway.ProjectPayload, error) {
	p := gateway.ProjectPayload{
		Title:           sanitize.Text(f.Title),
		Description1:    sanitize.Text(f.Description1),
		Description2:    sanitize.Text(f.Description2),
		ProjectType:     sanitize.Text(f.ProjectType),
		ProjectArea:     sanitize.Text(f.ProjectArea),
		ProjectLocation: sanitize.Text(f.ProjectLocation),
		Status:          sanitize.Text(f.Status),
		MainImage:       f.MainImage,
		OtherImages:     f.OtherImages,
	}

	switch {
	case p.Title == "":
		return gateway.ProjectPayload{}, apperror.ValidationFailed("title", "Title is required")
	case utf8.RuneCountInString(p.Title) > model.MaxTitleLength:
		return gateway.ProjectPayload{}, apperror.ValidationFailed("title",
			fmt.Sprintf("Title must be at most %d characters", model.MaxTitleLength))
	case p.Description1 == "":
		return gateway.ProjectPayload{}, apperror.ValidationFailed("description1", "Description is required")
	}
	for _, d := range []struct{ field, text string }{
		{"description1", p.Description1},
		{"description2", p.Description2},
	} {
		if utf8.RuneCountInString(d.text) > model.MaxDescriptionLength {
			return gateway.ProjectPayload{}, apperror.ValidationFailed(d.field,
				fmt.Sprintf("Description must be at most %d characters", model.MaxDescriptionLength))
		}
	}
	if !model.ValidStatus(p.Status) {
		return gateway.ProjectPayload{}, apperror.ValidationFailed("status",
			fmt.Sprintf("Status must be %q or %q", model.StatusActive, model.StatusInactive))
	}

	if p.MainImage == nil && requireMainImage {
		return gateway.ProjectPayload{}, apperror.ValidationFailed("mainImage", "Main image is required")
	}
	if p.MainImage != nil {
		if err := v.ValidateMain(FileInfo{Name: p.MainImage.Name, Size: p.MainImage.Size}); err != nil {
			return gateway.ProjectPayload{}, err
		}
	}
	infos := make([]FileInfo, len(p.OtherImages))
	for i, u := range p.OtherImages {
		infos[i] = FileInfo{Name: u.Name, Size: u.Size}
	}
	if err := v.ValidateGallery(infos); err != nil {
		return gateway.ProjectPayload{}, err
	}
	return p, nil
}
