package endpoint

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ariebrainware/onco-intake/config"
	"github.com/ariebrainware/onco-intake/middleware"
	"github.com/ariebrainware/onco-intake/model"
	"github.com/ariebrainware/onco-intake/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testJWTSecret = "test-secret-123"
	testAdminUser = "admin"
	testAdminPass = "correct horse battery staple"
)

// EndpointTestModels defines the standard set of models migrated for endpoint tests
var EndpointTestModels = []interface{}{
	&model.Patient{},
	&model.Session{},
	&model.SecurityLog{},
}

// testEnv is one fully wired application backed by an in-memory database.
type testEnv struct {
	Router  *gin.Engine
	DB      *gorm.DB
	Uploads *util.UploadStore
}

// setupEndpointTestDB opens a fresh in-memory database with all endpoint models migrated.
func setupEndpointTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("APPENV", "test")

	db, err := config.ConnectDB()
	require.NoError(t, err, "failed to connect test DB")
	require.NoError(t, db.AutoMigrate(EndpointTestModels...))

	t.Cleanup(func() {
		for _, m := range EndpointTestModels {
			_ = db.Migrator().DropTable(m)
		}
	})
	return db
}

// setupEndpointTest returns the full router with a small login rate limit.
func setupEndpointTest(t *testing.T) testEnv {
	t.Helper()
	return setupEndpointTestWithLimit(t, 3)
}

func setupEndpointTestWithLimit(t *testing.T, loginLimit int) testEnv {
	t.Helper()
	config.ResetRedisClientForTest()

	db := setupEndpointTestDB(t)
	uploads, err := util.NewUploadStore(t.TempDir(), 1<<20)
	require.NoError(t, err)
	admin, err := util.NewAdminCredential(testAdminUser, "", testAdminPass)
	require.NoError(t, err)

	router, err := SetupRouter(RouterOptions{
		DB:                db,
		Uploads:           uploads,
		Admin:             admin,
		LoginRate:         middleware.RateLimitConfig{Limit: loginLimit},
		DisableRequestLog: true,
	})
	require.NoError(t, err)

	return testEnv{Router: router, DB: db, Uploads: uploads}
}

// requestSpec describes one request against the test router.
type requestSpec struct {
	method  string
	path    string
	form    url.Values
	cookie  *http.Cookie
	headers map[string]string
	body    string
}

func performRequest(r http.Handler, spec requestSpec) *httptest.ResponseRecorder {
	var req *http.Request
	switch {
	case spec.form != nil:
		req = httptest.NewRequest(spec.method, spec.path, strings.NewReader(spec.form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	case spec.body != "":
		req = httptest.NewRequest(spec.method, spec.path, strings.NewReader(spec.body))
		req.Header.Set("Content-Type", "application/json")
	default:
		req = httptest.NewRequest(spec.method, spec.path, nil)
	}
	for k, v := range spec.headers {
		req.Header.Set(k, v)
	}
	if spec.cookie != nil {
		req.AddCookie(spec.cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// multipartFile is one file part of a multipart request.
type multipartFile struct {
	field    string
	filename string
	data     []byte
}

func performMultipart(t *testing.T, r http.Handler, path string, fields url.Values, files []multipartFile) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// sessionCookie returns the session cookie set on a response, or nil.
func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

// loginAsAdmin performs a real login and returns the session cookie.
func loginAsAdmin(t *testing.T, env testEnv) *http.Cookie {
	t.Helper()
	w := performRequest(env.Router, requestSpec{
		method: http.MethodPost,
		path:   "/login",
		form:   url.Values{"username": {testAdminUser}, "password": {testAdminPass}},
	})
	require.Equal(t, http.StatusFound, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	require.NotEmpty(t, cookie.Value)
	return cookie
}

func seedPatient(t *testing.T, db *gorm.DB, p model.Patient) model.Patient {
	t.Helper()
	require.NoError(t, db.Create(&p).Error)
	return p
}

func countPatients(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Patient{}).Count(&n).Error)
	return n
}

// uniformPNG encodes a flat gray image.
func uniformPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}
