// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/life-sync/internal/config"
	diagnostics "github.com/MKhiriev/life-sync/internal/handler/http"
	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptySyncState struct{}

func (emptySyncState) Status() models.SyncStatus                 { return models.SyncStatus{} }
func (emptySyncState) PendingConflicts() []models.ConflictRecord { return nil }
func (emptySyncState) Operations() []models.SyncOperation        { return nil }

func newDiagnostics() *diagnostics.Handler {
	return diagnostics.NewHandler(emptySyncState{}, models.AppBuildInfo{}, prometheus.NewRegistry(), logger.Nop())
}

func TestNewServer_NoAddress(t *testing.T) {
	srv, err := NewServer(newDiagnostics(), config.Metrics{}, logger.Nop())

	assert.Nil(t, srv)
	assert.True(t, IsDisabled(err))
}

func TestNewServer_AddressInUse(t *testing.T) {
	first, err := NewServer(newDiagnostics(), config.Metrics{Address: "127.0.0.1:0"}, logger.Nop())
	require.NoError(t, err)
	defer first.Shutdown()

	addr := first.(*server).Addr().String()
	_, err = NewServer(newDiagnostics(), config.Metrics{Address: addr}, logger.Nop())

	require.Error(t, err)
	assert.False(t, IsDisabled(err))
}

func TestServer_RunAndShutdown(t *testing.T) {
	srv, err := NewServer(newDiagnostics(), config.Metrics{Address: "127.0.0.1:0"}, logger.Nop())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		srv.RunServer()
		close(done)
	}()

	resp, err := http.Get("http://" + srv.(*server).Addr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	srv.Shutdown()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunServer не вернулся после Shutdown")
	}
}
