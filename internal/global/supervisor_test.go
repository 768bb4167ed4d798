package global

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessSupervisorHealthcheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthcheck" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewProcessSupervisor(ProcessSupervisorOptions{BaseURL: srv.URL})
	assert.NoError(t, s.Healthcheck(context.Background()))
	assert.Equal(t, StatusOnline, s.Status(context.Background()))
}

func TestProcessSupervisorUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewProcessSupervisor(ProcessSupervisorOptions{BaseURL: srv.URL})
	assert.Error(t, s.Healthcheck(context.Background()))
	assert.Equal(t, StatusOffline, s.Status(context.Background()))
}

func TestProcessSupervisorStartWithoutCommand(t *testing.T) {
	s := NewProcessSupervisor(ProcessSupervisorOptions{BaseURL: "http://127.0.0.1:1"})
	assert.Error(t, s.Start())
}

func TestProcessSupervisorStartMissingBinary(t *testing.T) {
	s := NewProcessSupervisor(ProcessSupervisorOptions{
		BaseURL: "http://127.0.0.1:1",
		Command: "definitely-not-a-real-binary-for-news",
	})
	assert.Error(t, s.Start())
	assert.Equal(t, StatusOffline, s.Status(context.Background()))
	assert.NoError(t, s.Stop())
}
