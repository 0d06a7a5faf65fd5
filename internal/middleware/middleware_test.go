package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_RecordsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), log)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	requestID := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, requestID)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Request handled", entry["msg"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, "/api/models", entry["path"])
	assert.Equal(t, requestID, entry["request_id"])
}

func TestLogger_KeepsIncomingRequestID(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), log)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestLogger_PassesFlushThrough(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := w.(http.Flusher)
		require.True(t, ok)
		w.Write([]byte("data"))
		f.Flush()
	}), log)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, rec.Flushed)
	assert.Equal(t, "data", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := RateLimit(ok, 0.001, 2, log)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_Disabled(t *testing.T) {
	log := logrus.New()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	handler := RateLimit(ok, 0, 0, log)
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
