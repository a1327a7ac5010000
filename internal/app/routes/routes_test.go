package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appAuth "github.com/yigit/lecturehub/internal/app/auth"
	"github.com/yigit/lecturehub/internal/app/controllers"
	"github.com/yigit/lecturehub/internal/app/models"
	"github.com/yigit/lecturehub/internal/app/models/dto"
	"github.com/yigit/lecturehub/internal/app/repositories"
	"github.com/yigit/lecturehub/internal/app/repositories/inmem"
	"github.com/yigit/lecturehub/internal/app/services"
	"github.com/yigit/lecturehub/internal/middleware"
	"github.com/yigit/lecturehub/internal/pkg/auth"
	"github.com/yigit/lecturehub/internal/pkg/filestorage"
)

const cookieName = "auth-token"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Code    dto.ErrorCode   `json:"code"`
}

type testServer struct {
	router *gin.Engine
	db     *inmem.DB
	repos  *repositories.Repositories
	store  *filestorage.MemoryStorage
}

func init() {
	gin.SetMode(gin.TestMode)
	dto.RegisterFieldNames()
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := inmem.NewDB()
	repos := inmem.NewRepositories(db)
	store := filestorage.NewMemoryStorage("https://blobs.test/lecture-materials")
	sessions := auth.NewSessionService(auth.SessionConfig{SecretKey: "routes-test", TTL: time.Hour, Issuer: "lecturehub"})
	authz := appAuth.NewAuthorizationService(repos.MaterialRepository)

	authService := services.NewAuthService(repos.LecturerRepository, repos.CourseRepository, sessions, zerolog.Nop())
	materialService := services.NewMaterialService(repos.MaterialRepository, authz, store, services.UploadPolicy{
		MaxFileSize:       1024,
		AllowedExtensions: []string{".pdf", ".doc", ".docx", ".ppt", ".pptx", ".txt"},
		Folder:            "lecture-materials",
	}, zerolog.Nop())
	courseService := services.NewCourseService(repos.CourseRepository, repos.MaterialRepository)

	router := gin.New()
	SetupRouter(router, Controllers{
		Auth:     controllers.NewAuthController(authService, sessions, controllers.CookieSettings{Name: cookieName}, zerolog.Nop()),
		Material: controllers.NewMaterialController(materialService, 1024, zerolog.Nop()),
		Course:   controllers.NewCourseController(courseService),
		Health:   controllers.NewHealthController(nil),
	}, middleware.NewAuthMiddleware(sessions, cookieName))

	return &testServer{router: router, db: db, repos: repos, store: store}
}

func (s *testServer) addLecturer(t *testing.T, pf, email, password string) int64 {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	lecturer := &models.Lecturer{PFNumber: pf, Title: "Dr.", Password: hash}
	if email != "" {
		lecturer.Email = &email
	}
	id, err := s.repos.LecturerRepository.Create(context.Background(), lecturer)
	require.NoError(t, err)
	return id
}

func (s *testServer) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postJSON(path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, cookie)
}

func (s *testServer) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil), cookie)
}

func (s *testServer) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	w := s.postJSON("/api/lecturer/login", `{"username":"`+username+`","password":"`+password+`"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

func (s *testServer) upload(t *testing.T, cookie *http.Cookie, fields map[string]string, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/materials", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req, cookie)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatalf("response did not set %s", cookieName)
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func fields(title, subject, code string) map[string]string {
	return map[string]string{"title": title, "subject": subject, "code": code}
}

func TestLoginThenMe(t *testing.T) {
	s := newTestServer(t)
	s.addLecturer(t, "PF001234", "ada@uni.test", "validpass")

	w := s.postJSON("/api/lecturer/login", `{"username":"PF001234","password":"validpass"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Login successful", env.Message)
	assert.NotContains(t, string(env.Data), "password")

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)

	w = s.get("/api/auth/me", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var me dto.LecturerResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &me))
	assert.Equal(t, "PF001234", me.PFNumber)
	assert.NotNil(t, me.Courses)

	// email works as username too
	s.login(t, "ada@uni.test", "validpass")
}

func TestLoginFailures(t *testing.T) {
	s := newTestServer(t)
	s.addLecturer(t, "PF1", "", "validpass")

	w := s.postJSON("/api/lecturer/login", `{"username":"PF1","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w).Error)
	assert.Empty(t, w.Result().Cookies())

	w = s.postJSON("/api/lecturer/login", `{"username":"nobody","password":"validpass"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w).Error)

	w = s.postJSON("/api/lecturer/login", `{"username":"PF1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decode(t, w).Code)

	w = s.postJSON("/api/lecturer/login", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeRequiresSession(t *testing.T) {
	s := newTestServer(t)

	w := s.get("/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", decode(t, w).Error)

	w = s.get("/api/auth/me", &http.Cookie{Name: cookieName, Value: "tampered"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignup(t *testing.T) {
	s := newTestServer(t)
	s.addLecturer(t, "PF001234", "", "validpass")

	body := `{"pfNumber":"PF777","title":"Prof.","firstName":"Grace","email":"grace@uni.test","password":"secret1"}`

	w := s.postJSON("/api/lecturer/signup", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cookie := s.login(t, "PF001234", "validpass")
	w = s.postJSON("/api/lecturer/signup", body, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decode(t, w)
	assert.Equal(t, "Lecturer account created successfully. Courses will be auto-assigned when you upload materials.", env.Message)
	assert.NotContains(t, string(env.Data), "secret1")

	w = s.postJSON("/api/lecturer/signup", body, cookie)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Lecturer with this PF Number or email already exists", decode(t, w).Error)

	w = s.postJSON("/api/lecturer/signup", `{"pfNumber":"PF778","title":"Dr.","password":"123"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.login(t, "grace@uni.test", "secret1")
}

func TestUploadListSearchAndCourses(t *testing.T) {
	s := newTestServer(t)
	id := s.addLecturer(t, "PF001234", "", "validpass")
	cookie := s.login(t, "PF001234", "validpass")

	w := s.upload(t, nil, fields("Week 1", "Algorithms", "CS 101"), "w1.pdf", "%PDF-1.4")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.upload(t, cookie, fields("Week 1", "Algorithms", "CS 101"), "w1.pdf", "%PDF-1.4")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decode(t, w)
	assert.Equal(t, "File uploaded successfully and course auto-assigned", env.Message)
	var created dto.MaterialResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, id, created.LecturerID)
	assert.Equal(t, models.MaterialKindPDF, created.Kind)
	assert.Equal(t, "0.00MB", created.FileSizeLabel)

	w = s.upload(t, cookie, fields("Week 2", "Algorithms", "CS 101"), "w2.pptx", "PK")
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.upload(t, cookie, fields("Virus", "Algorithms", "CS 101"), "setup.exe", "MZ")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env = decode(t, w)
	assert.Equal(t, dto.ErrorCodeUnsupportedFile, env.Code)
	assert.Equal(t, "Invalid file type. Only PDF, DOC, DOCX, PPT, PPTX, TXT allowed", env.Error)

	w = s.upload(t, cookie, fields("Big", "Algorithms", "CS 101"), "big.pdf", strings.Repeat("x", 2048))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeFileTooLarge, decode(t, w).Code)

	w = s.upload(t, cookie, fields("No file", "Algorithms", "CS 101"), "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", decode(t, w).Error)

	w = s.upload(t, cookie, fields("", "Algorithms", "CS 101"), "a.pdf", "%PDF")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title, subject and code are required", decode(t, w).Error)

	assert.Equal(t, 2, s.db.MaterialCount())
	assert.Equal(t, 1, s.db.CourseCount())
	assert.Equal(t, 2, s.store.Len())

	var listed []dto.MaterialResponse
	w = s.get("/api/materials", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "Week 2", listed[0].Title)

	w = s.get("/api/materials?lecturerId=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid lecturer ID", decode(t, w).Error)

	w = s.get("/api/materials?code=MAT999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(decode(t, w).Data))

	var found []dto.MaterialResponse
	w = s.get("/api/materials/search?query=cs%201", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &found))
	assert.Len(t, found, 2)

	w = s.get("/api/lecturer/courses", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	env = decode(t, w)
	assert.Equal(t, "Found 1 courses", env.Message)
	var courses []dto.CourseWithCountResponse
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, int64(2), courses[0].MaterialCount)
	assert.Equal(t, "cs-101", courses[0].Slug)

	w = s.get("/api/lecturer/courses/cs-101/materials", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var byCourse dto.CourseMaterialsResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &byCourse))
	assert.Len(t, byCourse.Materials, 2)

	w = s.get("/api/lecturer/courses/unknown/materials", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Course not found", decode(t, w).Error)
}

func TestViewAndDownload(t *testing.T) {
	s := newTestServer(t)
	id := s.addLecturer(t, "PF1", "", "validpass")
	remote := s.db.PutMaterial(models.LectureMaterial{Title: "R", Filepath: "https://blobs.test/lecture-materials/lecture-materials/r.pdf", LecturerID: id})
	legacy := s.db.PutMaterial(models.LectureMaterial{Title: "L", Filepath: "uploads/old.pdf", LecturerID: id})

	for _, suffix := range []string{"", "/download"} {
		w := s.get("/api/materials/"+itoa(remote)+suffix, nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://blobs.test/lecture-materials/lecture-materials/r.pdf", w.Header().Get("Location"))

		w = s.get("/api/materials/"+itoa(legacy)+suffix, nil)
		assert.Equal(t, http.StatusGone, w.Code)
		assert.Equal(t, "This file is no longer available. Please contact the administrator.", decode(t, w).Error)

		w = s.get("/api/materials/9999"+suffix, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.get("/api/materials/abc"+suffix, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid material ID", decode(t, w).Error)
	}
}

func TestDeleteOwnership(t *testing.T) {
	s := newTestServer(t)
	s.addLecturer(t, "PF1", "", "validpass")
	s.addLecturer(t, "PF2", "", "validpass")
	owner := s.login(t, "PF1", "validpass")
	other := s.login(t, "PF2", "validpass")

	w := s.upload(t, owner, fields("Week 1", "Algorithms", "CS101"), "w1.pdf", "%PDF")
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.MaterialResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	path := "/api/materials/" + itoa(created.ID)

	w = s.do(httptest.NewRequest(http.MethodDelete, path, nil), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(httptest.NewRequest(http.MethodDelete, path, nil), other)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You can only delete your own materials", decode(t, w).Error)
	assert.Equal(t, 1, s.db.MaterialCount())

	s.store.DeleteErr = assert.AnError
	w = s.do(httptest.NewRequest(http.MethodDelete, path, nil), owner)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Material deleted successfully", decode(t, w).Message)
	assert.Zero(t, s.db.MaterialCount())

	w = s.do(httptest.NewRequest(http.MethodDelete, path, nil), owner)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Material not found", decode(t, w).Error)
}

func TestLogoutClearsCookie(t *testing.T) {
	s := newTestServer(t)
	s.addLecturer(t, "PF1", "", "validpass")
	cookie := s.login(t, "PF1", "validpass")

	w := s.postJSON("/api/lecturer/logout", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decode(t, w).Message)

	cleared := sessionCookie(t, w)
	assert.Empty(t, cleared.Value)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")

	w = s.postJSON("/api/lecturer/logout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthAndPing(t *testing.T) {
	s := newTestServer(t)

	w := s.get("/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &health))
	assert.Equal(t, "Lecture Materials Repository API", health.Message)
	assert.Equal(t, "1.0.0", health.Version)
	assert.Equal(t, "healthy", health.Status)

	w = s.get("/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong","status":"success"}`, w.Body.String())
}
