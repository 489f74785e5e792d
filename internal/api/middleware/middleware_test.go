package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/volunteerhub/internal/models"
)

const secret = "middleware-secret"

func token(t *testing.T, role models.UserRole, subject string, exp time.Time) string {
	t.Helper()
	claims := models.StaffClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: role,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func guarded() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/staff", JWTAuth(secret), RequireStaff(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})
	r.GET("/admin", JWTAuth(secret), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func serve(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := guarded()
	valid := token(t, models.RoleStaff, "coordinator", time.Now().Add(time.Hour))

	w := serve(r, "/staff", valid)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "coordinator", w.Body.String())

	// websocket clients pass the token as a query parameter
	w = serve(r, "/staff?access_token="+valid, "")
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "/staff", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/staff", "garbage").Code)

	expired := token(t, models.RoleStaff, "coordinator", time.Now().Add(-time.Minute))
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/staff", expired).Code)

	noSubject := token(t, models.RoleStaff, "", time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/staff", noSubject).Code)

	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x"}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/staff", other).Code)
}

func TestRequireRole(t *testing.T) {
	r := guarded()

	staff := token(t, models.RoleStaff, "s", time.Now().Add(time.Hour))
	admin := token(t, models.RoleAdmin, "a", time.Now().Add(time.Hour))

	assert.Equal(t, http.StatusForbidden, serve(r, "/admin", staff).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, "/admin", admin).Code)
	assert.Equal(t, http.StatusOK, serve(r, "/staff", admin).Code)
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)

	r := gin.New()
	r.Use(RequestLogger(l, "/ping"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/cv/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, "/ping", "")
	assert.Zero(t, buf.Len(), "quiet paths log at debug")

	req := httptest.NewRequest(http.MethodGet, "/cv/abc", nil)
	req.Header.Set("X-Request-Id", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-Id"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "/cv/:id", entry["path"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.EqualValues(t, 404, entry["status"])
}
