package hostproto

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/dshills/numconv/internal/convert"
)

// MaxLineSize is the longest request line the server accepts.
const MaxLineSize = 16 * 1024 * 1024

// Converters supplies the converter for a syntax. The converter is always
// usable; err reports settings that failed to load.
type Converters interface {
	Converter(syntax string) (*convert.Converter, error)
}

// Server answers requests read from a stream.
type Server struct {
	conv   Converters
	logger *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type defaultConverters struct{}

func (defaultConverters) Converter(string) (*convert.Converter, error) {
	return convert.New(nil), nil
}

// NewServer creates a server. A nil conv uses the built-in patterns.
func NewServer(conv Converters, opts ...Option) *Server {
	if conv == nil {
		conv = defaultConverters{}
	}
	s := &Server{conv: conv, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve reads requests from r and writes one response line per request to
// w, until r is exhausted or ctx is cancelled. Blank lines are ignored.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), MaxLineSize)
	bw := bufio.NewWriter(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp Response
		req, err := DecodeRequest(line)
		if err != nil {
			resp = Response{ID: req.ID, Err: errorFor(err)}
		} else {
			resp = s.Handle(req)
		}

		out, err := EncodeResponse(resp)
		if err != nil {
			return fmt.Errorf("encode response %s: %w", resp.ID, err)
		}
		if _, err := bw.Write(append(out, '\n')); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	return nil
}

// Handle performs one request.
func (s *Server) Handle(req Request) Response {
	conv, tableErr := s.conv.Converter(req.Syntax)
	resp := Response{ID: req.ID}

	fail := func(err error) Response {
		if tableErr != nil && errors.Is(err, convert.ErrBaseUnavailable) {
			err = fmt.Errorf("%w (%v)", err, tableErr)
		}
		resp.Err = errorFor(err)
		s.logger.Debug("request failed",
			zap.String("id", req.ID),
			zap.String("code", string(resp.Err.Code)),
			zap.Error(err),
		)
		return resp
	}

	if req.All {
		out, n, err := conv.ConvertText(req.Text, req.From[0], req.To)
		if err != nil && n == 0 {
			return fail(err)
		}
		if err != nil {
			s.logger.Warn("some numbers were not converted", zap.String("id", req.ID), zap.Error(err))
		}
		resp.OK = true
		resp.End = len(req.Text)
		resp.Text = out
		resp.Count = n
		return resp
	}

	edit, err := conv.Convert(req.Text, req.Target, req.To, req.From...)
	if err != nil {
		return fail(err)
	}
	resp.OK = true
	resp.Start = edit.Start
	resp.End = edit.End
	resp.Text = edit.NewText
	resp.Saturated = edit.Saturated
	s.logger.Debug("converted",
		zap.String("id", req.ID),
		zap.Stringer("edit", edit),
	)
	return resp
}
