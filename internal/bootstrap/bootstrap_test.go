package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/lecturehub/internal/app/models"
	"github.com/yigit/lecturehub/internal/app/repositories/inmem"
	"github.com/yigit/lecturehub/internal/config"
	"github.com/yigit/lecturehub/internal/pkg/auth"
)

func localConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("JWT_SECRET", "bootstrap-test")
	t.Setenv("STORAGE_DRIVER", config.StorageDriverLocal)
	t.Setenv("STORAGE_LOCAL_PATH", t.TempDir())
	t.Setenv("SERVER_BASE_URL", "http://files.test")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	return cfg
}

func TestLocalDriverUploadIsServed(t *testing.T) {
	cfg := localConfig(t)
	ctx := context.Background()
	lgr := zerolog.Nop()

	store, local, err := SetupStorage(ctx, cfg, lgr)
	require.NoError(t, err)
	require.NotNil(t, local)

	repos := inmem.NewRepositories(inmem.NewDB())
	hash, err := auth.HashPassword("validpass")
	require.NoError(t, err)
	_, err = repos.LecturerRepository.Create(ctx, &models.Lecturer{PFNumber: "PF001234", Title: "Dr.", Password: hash})
	require.NoError(t, err)

	deps := BuildDependencies(cfg, repos, store, nil, lgr)
	router := SetupRouter(cfg, deps, local, lgr)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/lecturer/login",
		strings.NewReader(`{"username":"PF001234","password":"validpass"}`)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "auth-token", cookies[0].Name)
	assert.False(t, cookies[0].Secure)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Syllabus"))
	require.NoError(t, mw.WriteField("subject", "Networks"))
	require.NoError(t, mw.WriteField("code", "NET300"))
	part, err := mw.CreateFormFile("file", "syllabus.txt")
	require.NoError(t, err)
	_, err = io.WriteString(part, "week one: sockets")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/materials", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			Filepath string `json:"filepath"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.True(t, strings.HasPrefix(created.Data.Filepath, "http://files.test/uploads/lecture-materials/"), created.Data.Filepath)

	fileURL, err := url.Parse(created.Data.Filepath)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fileURL.Path, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "week one: sockets", w.Body.String())
}

func TestSetupStorageRejectsUnreachableMinio(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = config.StorageDriverMinio
	cfg.Storage.Endpoint = "http://127.0.0.1:1"
	cfg.Storage.AccessKey = "key"
	cfg.Storage.SecretKey = "secret"
	cfg.Storage.Bucket = "lecture-materials"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := SetupStorage(ctx, cfg, zerolog.Nop())
	assert.Error(t, err)
}
