// Package server runs the deepthink tool over a stdio transport:
// newline-delimited JSON-RPC requests on stdin, one response line per
// request on stdout, logs on stderr. One client owns the process, which is
// why sessions default to the in-memory store.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/steveyegge/deepthink/internal/protocol"
)

const defaultMaxLineBytes = 1 << 20

// Options tunes the transport.
type Options struct {
	// RateLimit caps accepted requests per second. Zero disables limiting.
	RateLimit float64

	// RateBurst is the burst allowance when RateLimit is set.
	RateBurst int

	// MaxLineBytes caps a single request line. Defaults to 1MB.
	MaxLineBytes int
}

// Server pumps requests from in to the handler and responses to out.
// Requests are processed strictly in order; the protocol is read-modify-write
// per session, so serializing here is what keeps same-session calls from
// interleaving.
type Server struct {
	handler *protocol.Handler
	logger  *slog.Logger
	in      io.Reader
	out     io.Writer
	limiter *rate.Limiter
	maxLine int
}

// New creates a Server. A nil logger discards logs.
func New(handler *protocol.Handler, logger *slog.Logger, in io.Reader, out io.Writer, opts Options) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	maxLine := opts.MaxLineBytes
	if maxLine <= 0 {
		maxLine = defaultMaxLineBytes
	}

	return &Server{
		handler: handler,
		logger:  logger,
		in:      in,
		out:     out,
		limiter: limiter,
		maxLine: maxLine,
	}
}

// Run serves until the input is exhausted or the context is canceled.
// Malformed input becomes a JSON-RPC error response; only transport-level
// failures (unreadable input, unwritable output) end the loop with an error.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	// Unblock the read loop on cancellation when the input is closable
	// (it is for real stdin; test readers just drain).
	g.Go(func() error {
		<-ctx.Done()
		if closer, ok := s.in.(io.Closer); ok {
			closer.Close()
		}
		return nil
	})

	g.Go(func() error {
		defer cancel()
		return s.serve(ctx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (s *Server) serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	// Scanner takes the larger of max and cap(buf), so the initial buffer
	// must not exceed the configured limit.
	bufSize := 64 * 1024
	if s.maxLine < bufSize {
		bufSize = s.maxLine
	}
	scanner.Buffer(make([]byte, 0, bufSize), s.maxLine)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil // canceled while throttled
			}
		}

		resp := s.handleLine(ctx, line)
		if err := s.writeResponse(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		if err == bufio.ErrTooLong {
			// Cannot resync mid-line; report and stop cleanly.
			s.logger.Error("request line exceeds limit", "max_bytes", s.maxLine)
			if werr := s.writeResponse(protocol.NewError(nil, protocol.CodeParseError,
				fmt.Sprintf("request exceeds %d bytes", s.maxLine))); werr != nil {
				return fmt.Errorf("failed to write response: %w", werr)
			}
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to read request: %w", err)
	}

	s.logger.Info("input closed, shutting down")
	return nil
}

func (s *Server) handleLine(ctx context.Context, line []byte) *protocol.Message {
	var msg protocol.Message
	if err := json.Unmarshal(line, &msg); err != nil {
		s.logger.Warn("unparsable request", "error", err)
		return protocol.NewError(nil, protocol.CodeParseError, "parse error")
	}
	if msg.JSONRPC != "2.0" || msg.Method == "" {
		return protocol.NewError(msg.ID, protocol.CodeInvalidRequest, "invalid request")
	}

	s.logger.Debug("request", "method", msg.Method, "id", msg.ID)
	return s.handler.Dispatch(ctx, &msg)
}

func (s *Server) writeResponse(resp *protocol.Message) error {
	data, err := json.Marshal(resp)
	if err != nil {
		// Result failed to serialize; degrade to an internal error so the
		// client still gets an answer for this request.
		s.logger.Error("failed to marshal response", "error", err)
		data, _ = json.Marshal(protocol.NewError(resp.ID, protocol.CodeInternalError, "internal error"))
	}
	_, err = s.out.Write(append(data, '\n'))
	return err
}
