package present

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/config"
)

// FileInfo is what the validator needs to know about a selected file.
type FileInfo struct {
	Name string
	Size int64
}

// UploadValidator checks image selections before anything is sent.
// A selection is accepted or rejected as a whole.
type UploadValidator struct {
	MaxFileSize int64
	MaxCount    int
}

// NewUploadValidator reads the limits from the client configuration.
func NewUploadValidator(cfg config.ClientConfig) UploadValidator {
	return UploadValidator{
		MaxFileSize: cfg.MaxFileSizeBytes,
		MaxCount:    cfg.MaxGalleryCount,
	}
}

// ValidateMain checks the single main image.
func (v UploadValidator) ValidateMain(f FileInfo) error {
	return v.checkSize("mainImage", f)
}

// ValidateGallery checks a gallery selection: at most MaxCount files, none
// larger than MaxFileSize.
func (v UploadValidator) ValidateGallery(files []FileInfo) error {
	if len(files) > v.MaxCount {
		return apperror.ValidationFailed("otherImages",
			fmt.Sprintf("You can upload a maximum of %d images", v.MaxCount))
	}
	for _, f := range files {
		if err := v.checkSize("otherImages", f); err != nil {
			return err
		}
	}
	return nil
}

func (v UploadValidator) checkSize(field string, f FileInfo) error {
	if f.Size <= v.MaxFileSize {
		return nil
	}
	return apperror.ValidationFailed(field, fmt.Sprintf(
		"Each image should be less than %s (%s is %s)",
		humanize.IBytes(uint64(v.MaxFileSize)), f.Name, humanize.IBytes(uint64(f.Size)),
	))
}
