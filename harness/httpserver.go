package harness

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Headers set on every fixture server response.
const (
	MethodHeader = "x-wasmtime-test-method"
	URIHeader    = "x-wasmtime-test-uri"
)

// HTTPServer is the fixture server for outbound-request programs. It answers every request with 200, reports the
// request's method and URI in response headers, and echoes the request body. It speaks HTTP/1.1 and cleartext
// HTTP/2.
type HTTPServer struct {
	server   *http.Server
	listener net.Listener
	done     chan error
}

// StartHTTPServer starts a fixture server on a loopback port.
func StartHTTPServer(logger *zap.Logger) (*HTTPServer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	s := &HTTPServer{listener: listener, done: make(chan error, 1)}
	s.server = &http.Server{
		Handler:  h2c.NewHandler(echoHandler(logger), &http2.Server{}),
		ErrorLog: zap.NewStdLog(logger),
	}

	go func() {
		err := s.server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()

	logger.Debug("started HTTP fixture server", zap.String("addr", s.Addr()))
	return s, nil
}

// Addr returns the server's host:port.
func (s *HTTPServer) Addr() string {
	return s.listener.Addr().String()
}

// Close shuts the server down, waiting for in-flight requests until ctx is done.
func (s *HTTPServer) Close(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		s.server.Close()
		<-s.done
		return err
	}
	return <-s.done
}

func echoHandler(logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("fixture request",
			zap.String("method", r.Method),
			zap.String("uri", r.URL.RequestURI()),
			zap.String("proto", r.Proto))

		w.Header().Set(MethodHeader, r.Method)
		w.Header().Set(URIHeader, r.URL.RequestURI())
		w.WriteHeader(http.StatusOK)

		if _, err := io.Copy(w, r.Body); err != nil {
			logger.Debug("echoing request body", zap.Error(err))
		}
	})
}
