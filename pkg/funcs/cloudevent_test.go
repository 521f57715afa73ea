package funcs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func binaryEventRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Ce-Specversion", "1.0")
	req.Header.Set("Ce-Id", "evt-1")
	req.Header.Set("Ce-Type", "com.example.created")
	req.Header.Set("Ce-Source", "//example/source")
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestWrapCloudEvent_BinaryMode(t *testing.T) {
	var got event.Event
	w := WrapCloudEvent(func(_ context.Context, e event.Event) error {
		got = e
		return nil
	})

	resp, err := w.Execute(binaryEventRequest(t, `{"n":1}`))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.Equal(t, "evt-1", got.ID())
	assert.Equal(t, "com.example.created", got.Type())
	assert.JSONEq(t, `{"n":1}`, string(got.Data()))
	assert.Equal(t, SignatureCloudEvent, w.Signature())
}

func TestWrapCloudEvent_StructuredMode(t *testing.T) {
	var got event.Event
	w := WrapCloudEvent(func(_ context.Context, e event.Event) error {
		got = e
		return nil
	})

	body := `{"specversion":"1.0","id":"evt-2","type":"com.example.created","source":"//example/source","data":{"n":2}}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/cloudevents+json")

	resp, err := w.Execute(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "evt-2", got.ID())
}

func TestWrapCloudEvent_MalformedEventIsClientError(t *testing.T) {
	w := WrapCloudEvent(func(context.Context, event.Event) error {
		t.Fatal("handler must not run")
		return nil
	})

	// No CloudEvents headers, no structured content type.
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not an event"))

	resp, err := w.Execute(req)

	require.NoError(t, err) // sender fault, not an execution failure
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-Google-Status"))
}

func TestWrapCloudEvent_HandlerError(t *testing.T) {
	w := WrapCloudEvent(func(context.Context, event.Event) error {
		return errors.New("downstream unavailable")
	})

	resp, err := w.Execute(binaryEventRequest(t, `{}`))

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "downstream unavailable")
}

func TestWrapCloudEvent_RecoversPanic(t *testing.T) {
	w := WrapCloudEvent(func(context.Context, event.Event) error {
		panic("event handler exploded")
	})

	resp, err := w.Execute(binaryEventRequest(t, `{}`))

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "event handler exploded")
}
