package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestClientFetchStyle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reds", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"wine":"Barolo"},{"id":2,"wine":"Chianti"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, quietLogger())
	items, err := client.FetchStyle(context.Background(), "reds")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestClientFetchStyle_Non2xxIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, quietLogger())
	_, err := client.FetchStyle(context.Background(), "reds")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientFetchStyle_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, quietLogger())
	_, err := client.FetchStyle(context.Background(), "reds")
	assert.Error(t, err)
}

func TestClientFetchStyle_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, 5*time.Second, quietLogger())
	_, err := client.FetchStyle(ctx, "reds")
	assert.Error(t, err)
}
