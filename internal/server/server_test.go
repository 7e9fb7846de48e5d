package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curaenginegradualflow/internal/adapter"
	"curaenginegradualflow/internal/settings"
	"curaenginegradualflow/internal/wire"
)

// memSession is an in-process Session for tests: one queued request, one
// captured response.
type memSession struct {
	clientID  string
	broadcast *wire.BroadcastMessage
	requests  []*wire.Request
	sent      int

	mu        sync.Mutex
	responses []*wire.Response
	got       chan struct{}
}

func (s *memSession) ClientID() string { return s.clientID }

func (s *memSession) ReadBroadcast() (*wire.BroadcastMessage, error) {
	if s.broadcast == nil {
		return nil, io.EOF
	}
	return s.broadcast, nil
}

func (s *memSession) ReadRequest() (*wire.Request, error) {
	if s.sent >= len(s.requests) {
		return nil, io.EOF
	}
	req := s.requests[s.sent]
	s.sent++
	return req, nil
}

func (s *memSession) WriteResponse(resp *wire.Response) error {
	s.mu.Lock()
	s.responses = append(s.responses, resp)
	s.mu.Unlock()
	if s.got != nil {
		s.got <- struct{}{}
	}
	return nil
}

func (s *memSession) Close() error { return nil }

// memTransport serves a single pre-built session, then blocks until ctx is
// canceled.
type memTransport struct {
	session *memSession
	served  bool
}

func (t *memTransport) Accept(ctx context.Context) (Session, error) {
	if !t.served {
		t.served = true
		return t.session, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (t *memTransport) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServeProcessesRequestAndStopsOnCancel(t *testing.T) {
	configs := adapter.ConfigTable{}
	identity := settings.Identity{Name: "GradualFlow", Major: 1, Minor: 0, Patch: 0}

	session := &memSession{
		clientID: "ignored",
		got:      make(chan struct{}, 1),
		broadcast: &wire.BroadcastMessage{
			PluginName:  "GradualFlow",
			PluginMajor: 1,
			PluginMinor: 0,
			PluginPatch: 0,
			ExtruderSettings: []map[string]string{{
				"gradual_flow_enabled":                  "True",
				"max_flow_acceleration":                 "1",
				"layer_0_max_flow_acceleration":          "1",
				"gradual_flow_discretisation_step_size": "0.1",
				"reset_flow_duration":                   "0.1",
			}},
		},
		requests: []*wire.Request{
			{
				ExtruderNr: 0,
				Paths: []wire.PathData{{
					Path:                    []wire.Point{{X: 0, Y: 0}, {X: 0, Y: 1000}},
					Flow:                    1,
					WidthFactor:             1,
					LineWidth:               400,
					LayerThickness:          250,
					FlowRatio:               1,
					SpeedFactor:             1,
					SpeedBackPressureFactor: 1,
					SpeedDerivatives:        wire.SpeedDerivatives{Velocity: 50},
				}},
			},
		},
	}
	transport := &memTransport{session: session}

	srv := &Server{
		Transport: transport,
		Identity:  identity,
		Configs:   configs,
		Trailing:  adapter.NewTrailingFlowStore(),
		Logger:    discardLogger(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	<-session.got // wait for handleSession to process the queued request
	cancel()
	require.NoError(t, <-done)

	require.Len(t, session.responses, 1)
	assert.Equal(t, wire.StatusOK, session.responses[0].Status)
}

func TestApplyBroadcastPopulatesConfigs(t *testing.T) {
	srv := &Server{
		Identity: settings.Identity{Name: "GradualFlow", Major: 1, Minor: 0, Patch: 0},
		Configs:  adapter.ConfigTable{},
	}

	err := srv.ApplyBroadcast("client-a", &wire.BroadcastMessage{
		PluginName:  "gradualflow",
		PluginMajor: 1,
		PluginMinor: 0,
		PluginPatch: 0,
		ExtruderSettings: []map[string]string{{
			"gradual_flow_enabled":                  "True",
			"max_flow_acceleration":                 "1",
			"layer_0_max_flow_acceleration":          "1",
			"gradual_flow_discretisation_step_size": "0.1",
			"reset_flow_duration":                   "0.1",
		}},
	})
	require.NoError(t, err)

	cfg, err := srv.Configs.Lookup("client-a", 0)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
}

func TestApplyBroadcastRejectsMismatchedIdentity(t *testing.T) {
	srv := &Server{
		Identity: settings.Identity{Name: "GradualFlow", Major: 1, Minor: 0, Patch: 0},
		Configs:  adapter.ConfigTable{},
	}

	err := srv.ApplyBroadcast("client-a", &wire.BroadcastMessage{
		PluginName:  "GradualFlow",
		PluginMajor: 1,
		PluginMinor: 0,
		PluginPatch: 1,
	})
	require.ErrorIs(t, err, ErrPluginMismatch)

	_, err = srv.Configs.Lookup("client-a", 0)
	assert.ErrorIs(t, err, adapter.ErrNoConfig)
}

func TestHandleRequestMapsErrorToInternalStatus(t *testing.T) {
	srv := &Server{
		Configs:  adapter.ConfigTable{}, // no config installed -> ErrNoConfig
		Trailing: adapter.NewTrailingFlowStore(),
		Logger:   discardLogger(),
	}

	req := &wire.Request{ClientID: "nobody", ExtruderNr: 0, Paths: []wire.PathData{{Path: []wire.Point{{}, {Y: 1}}}}}
	resp := srv.handleRequest(srv.Logger, req)
	assert.Equal(t, wire.StatusInternalError, resp.Status)
	assert.Empty(t, resp.Paths)
}

func TestTCPTransportAcceptRespectsContextCancel(t *testing.T) {
	transport, err := Listen("127.0.0.1", 0)
	require.NoError(t, err)
	defer transport.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = transport.Accept(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
