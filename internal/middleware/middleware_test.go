package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-supporter-api/internal/models"
	"github.com/noah-isme/course-supporter-api/internal/service"
	"github.com/noah-isme/course-supporter-api/pkg/logger"
	"github.com/noah-isme/course-supporter-api/pkg/middleware/requestid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJWT(t *testing.T) {
	tokens := service.NewTokenService("secret", "lms")
	valid, err := tokens.Sign(models.Caller{UserID: 7, SessionKey: "abc"}, time.Minute)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", JWT(tokens), func(c *gin.Context) {
		caller, ok := CallerFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": caller.UserID, "logged": c.GetInt64(logger.CallerIDKey)})
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"lower case scheme", "bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"basic", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.JSONEq(t, `{"id":7,"logged":7}`, w.Body.String())
			}
		})
	}
}

type recordingAuditWriter struct {
	logs []*models.AuditLog
	err  error
}

func (r *recordingAuditWriter) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	r.logs = append(r.logs, log)
	return r.err
}

func TestAuditRecordsSuccessfulMutations(t *testing.T) {
	writer := &recordingAuditWriter{}
	router := gin.New()
	router.Use(requestid.Middleware())
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: 3})
		c.Next()
	})
	router.POST("/courses/:id/visibility/toggle", Audit(writer, nil, models.AuditActionCourseVisibility, "course"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.POST("/courses/:id/fail", Audit(writer, nil, models.AuditActionCourseVisibility, "course"), func(c *gin.Context) {
		c.Status(http.StatusForbidden)
	})

	req := httptest.NewRequest(http.MethodPost, "/courses/10/visibility/toggle", nil)
	req.Header.Set("X-Request-ID", "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/courses/10/fail", nil))

	require.Len(t, writer.logs, 1)
	entry := writer.logs[0]
	require.NotNil(t, entry.UserID)
	assert.Equal(t, int64(3), *entry.UserID)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "10", *entry.ResourceID)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, models.AuditActionCourseVisibility, entry.Action)
	assert.Contains(t, string(entry.NewValues), `"status":200`)
}

func TestAuditWriteFailureDoesNotChangeResponse(t *testing.T) {
	writer := &recordingAuditWriter{err: errors.New("db down")}
	router := gin.New()
	router.POST("/courses", Audit(writer, nil, models.AuditActionCourseCreate, "course"), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/courses", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, writer.logs, 1)
	assert.Nil(t, writer.logs[0].UserID)
	assert.Nil(t, writer.logs[0].ResourceID)
}

func TestAuditPrefersHandlerResourceID(t *testing.T) {
	writer := &recordingAuditWriter{}
	router := gin.New()
	router.POST("/courses", Audit(writer, nil, models.AuditActionCourseCreate, "course"), func(c *gin.Context) {
		SetAuditResourceID(c, "11")
		c.Status(http.StatusCreated)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/courses", nil))

	require.Len(t, writer.logs, 1)
	require.NotNil(t, writer.logs[0].ResourceID)
	assert.Equal(t, "11", *writer.logs[0].ResourceID)
}

func TestResponseMeta(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	assert.Nil(t, ExtractMeta(c))

	SetCacheHit(c, true)
	meta := ExtractMeta(c)
	require.NotNil(t, meta)
	assert.Equal(t, true, meta[cacheHitKey])
}

func TestMetricsMiddlewareLabelsRoutes(t *testing.T) {
	metrics := service.NewMetricsService()
	router := gin.New()
	router.Use(Metrics(metrics))
	router.GET("/courses/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/courses/10", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `supporter_http_requests_total{method="GET",path="/courses/:id",status="200"} 1`)
	assert.Contains(t, body, `path="unmatched",status="404"`)
}
