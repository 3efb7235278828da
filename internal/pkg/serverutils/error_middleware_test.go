package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type silentLogger struct{}

func (silentLogger) Debug(module, message string, details map[string]interface{}) {}
func (silentLogger) Info(module, message string, details map[string]interface{})  {}
func (silentLogger) Warn(module, message string, details map[string]interface{})  {}
func (silentLogger) Error(module, message string, details map[string]interface{}) {}
func (silentLogger) Sync() error                                                  { return nil }

func newMiddlewareApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(silentLogger{}))
	app.Get("/consult", handler)
	return app
}

func TestErrorHandlerMiddleware_AppErrorMapsToStatus(t *testing.T) {
	app := newMiddlewareApp(func(ctx *fiber.Ctx) error {
		return NewSessionNotFound("abc")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/consult", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestErrorHandlerMiddleware_UnhandledErrorDoesNotLeakDetail(t *testing.T) {
	app := newMiddlewareApp(func(ctx *fiber.Ctx) error {
		return errors.New("pq: connection refused host=10.0.0.5")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/consult", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "10.0.0.5")
	assert.NotContains(t, string(body), "connection refused")

	var envelope Response[any]
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, "invalid request", envelope.Message)
}

func TestErrorHandlerMiddleware_ServerErrorsKeepStableMessage(t *testing.T) {
	app := newMiddlewareApp(func(ctx *fiber.Ctx) error {
		return NewPersistenceError(errors.New("dial tcp: i/o timeout"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/consult", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "i/o timeout")
}
