package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"EventHub/internal/adapter/gemini"
	"EventHub/internal/analysis"
	"EventHub/internal/api"
	"EventHub/internal/cache"
	"EventHub/internal/config"
	"EventHub/internal/notify"
	"EventHub/internal/service"
	"EventHub/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()
	db := testutil.OpenSQLite(t)
	svc := service.New(db, service.Deps{
		Analyzer:  analysis.NewHeuristic(),
		Generator: gemini.NewClient(config.GeminiConfig{}, logger),
		Notifier:  notify.NewLogNotifier(logger),
		Cache:     cache.Noop{},
		Logger:    logger,
	})
	ts := httptest.NewServer(api.NewRouter(db, svc, logger, config.ServerConfig{Mode: gin.TestMode}))
	t.Cleanup(ts.Close)
	return ts
}

func strPtr(s string) *string { return &s }

func TestExamplesThroughSDK(t *testing.T) {
	ts := newServer(t)
	c := New(ts.URL, ts.Client())
	ctx := context.Background()

	created, err := c.CreateExample(ctx, service.ExampleInput{Name: strPtr("n"), Title: strPtr("t")})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	got, err := c.GetExample(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "n", got.Name)
	assert.False(t, got.EntryDate.IsZero())

	list, err := c.ListExamples(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, c.DeleteExample(ctx, created.ID))
	err = c.DeleteExample(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Example with ID 1 not found", apiErr.Message)

	_, err = c.CreateExample(ctx, service.ExampleInput{Name: strPtr("n")})
	assert.True(t, IsValidation(err))

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	dbHealth, err := c.DatabaseHealth(ctx)
	require.NoError(t, err)
	assert.True(t, dbHealth.Connected)
}

func TestErrorClassification(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/events/1":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Invalid status","error":"status must be one of upcoming, live, completed"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		}
	}))
	c := New(ts.URL, ts.Client())
	ctx := context.Background()

	_, err := c.GetEvent(ctx, 1)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid status", apiErr.Message)
	assert.Equal(t, "status must be one of upcoming, live, completed", apiErr.Detail)
	assert.True(t, IsValidation(err))
	assert.False(t, IsNetwork(err))

	_, err = c.GetEvent(ctx, 2)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), apiErr.Message)

	ts.Close()
	_, err = c.GetEvent(ctx, 1)
	assert.True(t, IsNetwork(err))
	assert.False(t, IsNotFound(err))
}
