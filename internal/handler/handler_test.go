package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/handler"
	"github.com/sakif/studio-site/internal/model"
	"github.com/sakif/studio-site/internal/service"
)

// MockProjects records what the handler passed through and returns canned
// results.
type MockProjects struct {
	CapturedID      string
	CapturedInput   service.ProjectInput
	CapturedMain    *service.ImageUpload
	CapturedGallery []service.ImageUpload
	CapturedBytes   []string

	ReturnList    []model.Project
	ReturnProject *model.Project
	ReturnErr     error
}

func (m *MockProjects) List(context.Context) ([]model.Project, error) {
	return m.ReturnList, m.ReturnErr
}

func (m *MockProjects) GetByID(_ context.Context, id string) (*model.Project, error) {
	m.CapturedID = id
	return m.ReturnProject, m.ReturnErr
}

func (m *MockProjects) Create(_ context.Context, in service.ProjectInput, mainImage *service.ImageUpload, gallery []service.ImageUpload) (*model.Project, error) {
	m.capture(in, mainImage, gallery)
	return m.ReturnProject, m.ReturnErr
}

func (m *MockProjects) Update(_ context.Context, id string, in service.ProjectInput, mainImage *service.ImageUpload, gallery []service.ImageUpload) (*model.Project, error) {
	m.CapturedID = id
	m.capture(in, mainImage, gallery)
	return m.ReturnProject, m.ReturnErr
}

func (m *MockProjects) Delete(_ context.Context, id string) error {
	m.CapturedID = id
	return m.ReturnErr
}

// capture reads the uploads while the multipart form still exists.
func (m *MockProjects) capture(in service.ProjectInput, mainImage *service.ImageUpload, gallery []service.ImageUpload) {
	m.CapturedInput = in
	m.CapturedMain = mainImage
	m.CapturedGallery = gallery
	for _, u := range gallery {
		rc, err := u.Open()
		if err != nil {
			continue
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		m.CapturedBytes = append(m.CapturedBytes, string(b))
	}
}

type MockAuth struct {
	Token string
	Err   error
	User  string
}

func (m *MockAuth) Login(_ context.Context, username, _ string) (string, error) {
	m.User = username
	return m.Token, m.Err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func projectRouter(h *handler.ProjectHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/projects", h.HandleList)
	r.Get("/api/projects/{id}", h.HandleGet)
	r.Post("/api/projects", h.HandleCreate)
	r.Put("/api/projects/{id}", h.HandleUpdate)
	r.Delete("/api/projects/{id}", h.HandleDelete)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, names := range files {
		for _, name := range names {
			fw, err := mw.CreateFormFile(field, name)
			require.NoError(t, err)
			_, err = fw.Write([]byte("bytes of " + name))
			require.NoError(t, err)
		}
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeError(t *testing.T, body io.Reader) handler.ErrorResponse {
	t.Helper()
	var e handler.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&e))
	return e
}

func TestProjectHandler_List(t *testing.T) {
	mock := &MockProjects{ReturnList: []model.Project{{ID: "a", Title: "One"}, {ID: "b", Title: "Two"}}}
	srv := projectRouter(handler.NewProjectHandler(mock, 1<<20, testLogger()))

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body struct {
		Data []model.Project `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "a", body.Data[0].ID)
}

func TestProjectHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock := &MockProjects{ReturnProject: &model.Project{ID: "abc", Title: "Courtyard"}}
		srv := projectRouter(handler.NewProjectHandler(mock, 1<<20, testLogger()))

		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/projects/abc", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "abc", mock.CapturedID)
		assert.Contains(t, rr.Body.String(), `"_id":"abc"`)
	})

	t.Run("not found", func(t *testing.T) {
		mock := &MockProjects{ReturnErr: apperror.NotFound("project", "zzz")}
		srv := projectRouter(handler.NewProjectHandler(mock, 1<<20, testLogger()))

		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/projects/zzz", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		e := decodeError(t, rr.Body)
		assert.Equal(t, "not_found", e.Error)
		assert.Equal(t, "project not found with id zzz", e.Message)
	})
}

func TestProjectHandler_Create(t *testing.T) {
	mock := &MockProjects{ReturnProject: &model.Project{ID: "new"}}
	srv := projectRouter(handler.NewProjectHandler(mock, 1<<20, testLogger()))

	body, contentType := multipartBody(t,
		map[string]string{"title": "Courtyard", "description1": "Desc", "status": "active"},
		map[string][]string{"mainImage": {"main.jpg"}, "otherImages": {"a.png", "b.png"}},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/projects", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Courtyard", mock.CapturedInput.Title)
	assert.Equal(t, "active", mock.CapturedInput.Status)
	require.NotNil(t, mock.CapturedMain)
	assert.Equal(t, "main.jpg", mock.CapturedMain.Name)
	require.Len(t, mock.CapturedGallery, 2)
	assert.Equal(t, "a.png", mock.CapturedGallery[0].Name)
	assert.Equal(t, []string{"bytes of a.png", "bytes of b.png"}, mock.CapturedBytes)
}

func TestProjectHandler_CreateErrors(t *testing.T) {
	t.Run("not multipart", func(t *testing.T) {
		mock := &MockProjects{}
		srv := projectRouter(handler.NewProjectHandler(mock, 1<<20, testLogger()))

		req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(`{"title":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "validation_error", decodeError(t, rr.Body).Error)
	})

	t.Run("body too large", func(t *testing.T) {
		mock := &MockProjects{}
		srv := projectRouter(handler.NewProjectHandler(mock, 64, testLogger()))

		body, contentType := multipartBody(t,
			map[string]string{"title": strings.Repeat("x", 512)}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/projects", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})

	t.Run("service validation", func(t *testing.T) {
		mock := &MockProjects{ReturnErr: apperror.ValidationFailed("title", "Title is required")}
		srv := projectRouter(handler.NewProjectHandler(mock, 1<<20, testLogger()))

		body, contentType := multipartBody(t, map[string]string{"description1": "d"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/projects", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Title is required", decodeError(t, rr.Body).Message)
	})
}

func TestProjectHandler_Update(t *testing.T) {
	mock := &MockProjects{ReturnProject: &model.Project{ID: "abc", Title: "Renamed"}}
	srv := projectRouter(handler.NewProjectHandler(mock, 1<<20, testLogger()))

	body, contentType := multipartBody(t, map[string]string{"title": "Renamed", "description1": "d"}, nil)
	req := httptest.NewRequest(http.MethodPut, "/api/projects/abc", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "abc", mock.CapturedID)
	assert.Nil(t, mock.CapturedMain)
	assert.Empty(t, mock.CapturedGallery)
}

func TestProjectHandler_Delete(t *testing.T) {
	mock := &MockProjects{}
	srv := projectRouter(handler.NewProjectHandler(mock, 1<<20, testLogger()))

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/projects/abc", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "abc", mock.CapturedID)
	assert.Empty(t, rr.Body.String())
}

func TestProjectHandler_InternalErrorHidesDetails(t *testing.T) {
	mock := &MockProjects{ReturnErr: io.ErrUnexpectedEOF}
	srv := projectRouter(handler.NewProjectHandler(mock, 1<<20, testLogger()))

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	e := decodeError(t, rr.Body)
	assert.Equal(t, "internal_error", e.Error)
	assert.NotContains(t, e.Message, "EOF")
}

func TestMaxUploadBody(t *testing.T) {
	assert.Equal(t, int64(26*10<<20+1<<20), handler.MaxUploadBody(10<<20, 25))
}

func TestAuthHandler_HandleLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		mock := &MockAuth{Token: "jwt-token"}
		h := handler.NewAuthHandler(mock, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"admin","password":"pw"}`))
		rr := httptest.NewRecorder()
		h.HandleLogin(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"token":"jwt-token"}`, rr.Body.String())
		assert.Equal(t, "admin", mock.User)
	})

	t.Run("rejected", func(t *testing.T) {
		mock := &MockAuth{Err: apperror.Unauthorized("Invalid credentials")}
		h := handler.NewAuthHandler(mock, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"admin","password":"bad"}`))
		rr := httptest.NewRecorder()
		h.HandleLogin(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		e := decodeError(t, rr.Body)
		assert.Equal(t, "unauthorized", e.Error)
		assert.Equal(t, "Invalid credentials", e.Message)
	})

	t.Run("invalid body", func(t *testing.T) {
		h := handler.NewAuthHandler(&MockAuth{}, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":`))
		rr := httptest.NewRecorder()
		h.HandleLogin(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
