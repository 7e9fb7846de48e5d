package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"curaenginegradualflow/internal/adapter"
	"curaenginegradualflow/internal/debugsvg"
	"curaenginegradualflow/internal/settings"
	"curaenginegradualflow/internal/stats"
	"curaenginegradualflow/internal/wire"
)

// ErrPluginMismatch is returned when a session's broadcast handshake names
// a plugin identity (name or version) other than this worker's own.
var ErrPluginMismatch = errors.New("server: broadcast handshake names a different plugin identity")

// Server wires a Transport to the batch adapter, isolating each request's
// failures from the rest of the process per §7: a DecodeError or
// GeometryError fails only the request that triggered it.
type Server struct {
	Transport Transport
	Identity  settings.Identity
	Configs   adapter.ConfigTable
	Trailing  *adapter.TrailingFlowStore
	Logger    *slog.Logger
	DebugSink debugsvg.Sink // optional; nil disables debug snapshots
}

// ApplyBroadcast validates msg's plugin identity against s.Identity, parses
// its per-extruder settings, and installs them into s.Configs under
// clientID. It is the one call site that turns a session's handshake
// payload into configuration the adapter will actually look up.
func (s *Server) ApplyBroadcast(clientID string, msg *wire.BroadcastMessage) error {
	if !s.Identity.ValidatePlugin(msg.PluginName, msg.PluginMajor, msg.PluginMinor, msg.PluginPatch) {
		return fmt.Errorf("%w: got %s %d.%d.%d", ErrPluginMismatch, msg.PluginName, msg.PluginMajor, msg.PluginMinor, msg.PluginPatch)
	}

	configs, err := settings.ParseBroadcast(msg.ExtruderSettings)
	if err != nil {
		return err
	}
	for extruderNr, cfg := range configs {
		s.Configs.Set(clientID, extruderNr, cfg)
	}
	return nil
}

// Serve accepts sessions until ctx is canceled or the transport returns a
// non-cancellation error.
func (s *Server) Serve(ctx context.Context) error {
	for {
		session, err := s.Transport.Accept(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		go s.handleSession(ctx, session)
	}
}

func (s *Server) handleSession(ctx context.Context, session Session) {
	defer session.Close()

	logger := s.Logger.With("client_id", session.ClientID())

	msg, err := session.ReadBroadcast()
	if err != nil {
		if errors.Is(err, io.EOF) {
			logger.Debug("session ended before broadcast", "error", err)
		} else {
			logger.Warn("broadcast read failed", "error", err)
		}
		return
	}
	if err := s.ApplyBroadcast(session.ClientID(), msg); err != nil {
		logger.Error("broadcast rejected", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		req, err := session.ReadRequest()
		if err != nil {
			logger.Debug("session ended", "error", err)
			return
		}
		req.ClientID = session.ClientID()

		resp := s.handleRequest(logger, req)
		if err := session.WriteResponse(resp); err != nil {
			logger.Warn("failed to write response", "error", err)
			return
		}
	}
}

func (s *Server) handleRequest(logger *slog.Logger, req *wire.Request) *wire.Response {
	reqLogger := logger.With("extruder_nr", req.ExtruderNr, "layer_nr", req.LayerNr)

	result, err := adapter.ProcessBatchDetailed(req, s.Configs, s.Trailing)
	if err != nil {
		reqLogger.Error("request failed", "error", err)
		return &wire.Response{Status: wire.StatusInternalError}
	}

	if s.DebugSink != nil && result.Input != nil {
		if err := s.DebugSink.Write("original", result.Input); err != nil {
			reqLogger.Warn("debug sink write failed", "label", "original", "error", err)
		}
		if err := s.DebugSink.Write("discretized", result.Output); err != nil {
			reqLogger.Warn("debug sink write failed", "label", "discretized", "error", err)
		}
	}

	if result.Output != nil {
		summary := stats.Compute(result.Output)
		reqLogger.Debug("batch flow summary", "max", summary.Max, "min", summary.Min, "mean", summary.Mean, "count", summary.Count)
	}

	return result.Response
}
