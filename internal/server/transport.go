// Package server runs the request/response loop: it accepts sessions from
// a Transport, decodes requests, hands them to the adapter, and returns
// responses, isolating each request's errors from the rest of the process.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"

	"github.com/google/uuid"

	"curaenginegradualflow/internal/wire"
)

// Transport is the external collaborator that delivers batches and
// receives responses (spec §1's "out of scope (a) the transport layer").
// This package supplies a minimal concrete implementation sufficient to
// exercise the CLI, not a protobuf/gRPC stack.
type Transport interface {
	// Accept blocks until a new client session is available, or ctx is
	// canceled.
	Accept(ctx context.Context) (Session, error)
	// Close stops accepting new sessions.
	Close() error
}

// Session is one client connection: a sequence of request/response pairs
// sharing a single derived client identifier.
type Session interface {
	// ClientID identifies the slicer process this session belongs to,
	// derived from transport metadata if the transport supplies one, or a
	// generated identifier otherwise (§6: "a client identifier derived
	// from transport metadata").
	ClientID() string
	// ReadBroadcast blocks for the session's one-time settings handshake
	// message. It returns io.EOF (wrapped) when the client disconnects
	// before ever sending one.
	ReadBroadcast() (*wire.BroadcastMessage, error)
	// ReadRequest blocks for the next request on this session. It returns
	// io.EOF (wrapped) when the client disconnects cleanly.
	ReadRequest() (*wire.Request, error)
	// WriteResponse sends resp back to the client.
	WriteResponse(resp *wire.Response) error
	// Close ends the session.
	Close() error
}

// TCPTransport is a newline-delimited JSON request/response transport over
// TCP: a session's first incoming message is one wire.BroadcastMessage,
// and after that each line is one wire.Request or wire.Response. It exists to give
// the CLI's -address/-port flags something real to bind and connect to,
// not to model the plugin infrastructure's actual gRPC wire format.
type TCPTransport struct {
	listener net.Listener
}

// Listen opens a TCP listener at address:port.
func Listen(address string, port int) (*TCPTransport, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", address, port))
	if err != nil {
		return nil, fmt.Errorf("server: listen: %w", err)
	}
	return &TCPTransport{listener: ln}, nil
}

// Accept implements Transport.
func (t *TCPTransport) Accept(ctx context.Context) (Session, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		conn, err := t.listener.Accept()
		ch <- result{conn, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("server: accept: %w", r.err)
		}
		return newTCPSession(r.conn), nil
	}
}

// Close implements Transport.
func (t *TCPTransport) Close() error {
	return t.listener.Close()
}

type tcpSession struct {
	conn     net.Conn
	clientID string
	dec      *json.Decoder
	enc      *json.Encoder
}

func newTCPSession(conn net.Conn) *tcpSession {
	return &tcpSession{
		conn:     conn,
		clientID: uuid.NewString(),
		dec:      json.NewDecoder(bufio.NewReader(conn)),
		enc:      json.NewEncoder(conn),
	}
}

func (s *tcpSession) ClientID() string { return s.clientID }

func (s *tcpSession) ReadBroadcast() (*wire.BroadcastMessage, error) {
	var msg wire.BroadcastMessage
	if err := s.dec.Decode(&msg); err != nil {
		return nil, fmt.Errorf("server: decode broadcast: %w", err)
	}
	return &msg, nil
}

func (s *tcpSession) ReadRequest() (*wire.Request, error) {
	var req wire.Request
	if err := s.dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("server: decode request: %w", err)
	}
	req.ClientID = s.clientID
	return &req, nil
}

func (s *tcpSession) WriteResponse(resp *wire.Response) error {
	if err := s.enc.Encode(resp); err != nil {
		return fmt.Errorf("server: encode response: %w", err)
	}
	return nil
}

func (s *tcpSession) Close() error {
	return s.conn.Close()
}
