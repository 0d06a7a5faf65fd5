package server

import (
	"context"
	"io"
	"iter"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"chatbot/internal/api"
	"chatbot/internal/config"
	"chatbot/internal/credential"
	"chatbot/internal/gemini"
	"chatbot/internal/middleware"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type noopBackend struct{}

func (noopBackend) StartChat(ctx context.Context, model string, history []*genai.Content) (gemini.ChatSession, error) {
	return nil, nil
}

func (noopBackend) GenerateContentStream(ctx context.Context, model string, contents []*genai.Content) iter.Seq2[*genai.GenerateContentResponse, error] {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {}
}

func newTestServer(cfg *config.Config) *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)

	catalog := gemini.NewCatalog(nil, cfg.Gemini.TextModel, cfg.Gemini.VisionModel)
	adapter := gemini.NewAdapter(func(ctx context.Context, credential string) (gemini.Backend, error) {
		return noopBackend{}, nil
	}, catalog, log)
	chatAPI := api.NewChatAPI(adapter, catalog, credential.NewRotator(nil), nil, log)
	return New(cfg, chatAPI, log)
}

func TestNew_Addr(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 9999

	srv := newTestServer(cfg)
	assert.Equal(t, "127.0.0.1:9999", srv.httpServer.Addr)
}

func TestServer_HandlerIsWrapped(t *testing.T) {
	cfg := config.Default()
	cfg.Server.RequestsPerSecond = 0.001
	cfg.Server.Burst = 1

	handler := newTestServer(cfg).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestServer_ShutdownWithoutRun(t *testing.T) {
	srv := newTestServer(config.Default())
	assert.NotPanics(t, srv.Shutdown)
}

func TestServer_RunReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = ln.Addr().(*net.TCPAddr).Port

	err = newTestServer(cfg).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not listen")
}
