// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"net/http"
	"time"

	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/internal/utils"
)

const (
	defaultProbeInterval = 30 * time.Second
	defaultProbeTimeout  = 5 * time.Second
)

// ConnectivityProbe periodically requests a URL and reports reachability to
// an [OnlineSetter]. Any response below 500 counts as online.
type ConnectivityProbe struct {
	client   *utils.HTTPClient
	url      string
	interval time.Duration
	target   OnlineSetter

	// last reported state; nil until the first probe
	online *bool

	logger *logger.Logger
}

// NewConnectivityProbe creates a probe of url. A non-positive interval
// selects 30 seconds.
func NewConnectivityProbe(url string, interval time.Duration, target OnlineSetter, log *logger.Logger) *ConnectivityProbe {
	if interval <= 0 {
		interval = defaultProbeInterval
	}

	return &ConnectivityProbe{
		client:   utils.NewHTTPClient(utils.WithTimeout(min(interval, defaultProbeTimeout))),
		url:      url,
		interval: interval,
		target:   target,
		logger:   log,
	}
}

// Run probes immediately and then every interval until ctx is canceled.
func (p *ConnectivityProbe) Run(ctx context.Context) error {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	p.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			p.check(ctx)
		}
	}
}

func (p *ConnectivityProbe) check(ctx context.Context) {
	online, err := p.Probe(ctx)
	if ctx.Err() != nil {
		return
	}
	if p.online != nil && *p.online == online {
		return
	}
	p.online = &online

	event := p.logger.Info()
	if err != nil {
		event = event.Err(err)
	}
	event.Str("func", "ConnectivityProbe.check").Str("url", p.url).Bool("online", online).Msg("connectivity changed")

	p.target.SetOnline(online)
}

// Probe requests the URL once.
func (p *ConnectivityProbe) Probe(ctx context.Context) (bool, error) {
	resp, err := p.client.R().SetContext(ctx).Head(p.url)
	if err != nil {
		return false, err
	}
	return resp.StatusCode() < http.StatusInternalServerError, nil
}
