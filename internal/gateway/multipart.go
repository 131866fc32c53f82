package gateway

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
)

// Upload is a file selected for a project image field.
//
// Open is called once, while the request body is being streamed; the
// returned reader is closed by the encoder.
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FileUpload describes a file on disk.
func FileUpload(path string) (Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Upload{}, err
	}
	if info.IsDir() {
		return Upload{}, fmt.Errorf("%s is a directory", path)
	}
	return Upload{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// ProjectPayload is the form submitted to create or update a project.
type ProjectPayload struct {
	Title           string
	Description1    string
	Description2    string
	ProjectType     string
	ProjectArea     string
	ProjectLocation string
	Status          string
	MainImage       *Upload
	OtherImages     []Upload
}

func (p ProjectPayload) fields() [][2]string {
	return [][2]string{
		{"title", p.Title},
		{"description1", p.Description1},
		{"description2", p.Description2},
		{"projectType", p.ProjectType},
		{"projectArea", p.ProjectArea},
		{"projectLocation", p.ProjectLocation},
		{"status", p.Status},
	}
}

// encodeMultipart streams payload as multipart/form-data.
//
// The form is written by a goroutine into an io.Pipe, so image bytes go
// straight from disk to the socket. If the HTTP client abandons the body
// (error, cancelled context) it closes the read side and the writer
// goroutine exits on its next write.
func encodeMultipart(payload ProjectPayload, includeEmpty bool) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeForm(mw, payload, includeEmpty)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

func writeForm(mw *multipart.Writer, payload ProjectPayload, includeEmpty bool) error {
	for _, f := range payload.fields() {
		if f[1] == "" && !includeEmpty {
			continue
		}
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}

	if payload.MainImage != nil {
		if err := writeFile(mw, "mainImage", *payload.MainImage); err != nil {
			return err
		}
	}
	for _, u := range payload.OtherImages {
		if err := writeFile(mw, "otherImages", u); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(mw *multipart.Writer, field string, u Upload) error {
	if u.Open == nil {
		return fmt.Errorf("gateway: upload %q has no content", u.Name)
	}
	src, err := u.Open()
	if err != nil {
		return fmt.Errorf("gateway: opening %s: %w", u.Name, err)
	}
	defer src.Close()

	contentType := mime.TypeByExtension(filepath.Ext(u.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, u.Name))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, src)
	return err
}
