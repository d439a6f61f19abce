package httpserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func (s *Server) tlsEnabled() bool {
	return s.config.TLSCertFile != "" && s.config.TLSKeyFile != ""
}

// Start serves until Shutdown. Timeouts apply to plain and TLS listeners alike.
func (s *Server) Start() error {
	s.LogMetricsInitialization()

	srv := &http.Server{
		Addr:              net.JoinHostPort(s.config.Host, s.config.Port),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}
	if s.tlsEnabled() {
		cert, err := tls.LoadX509KeyPair(s.config.TLSCertFile, s.config.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("load TLS key pair: %w", err)
		}
		srv.TLSConfig = &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"addr":        srv.Addr,
			"tls":         s.tlsEnabled(),
			"environment": s.config.Environment,
		}).Info("Console listening")
		if s.config.Environment == "production" && !s.tlsEnabled() && !s.config.Cookie.Secure {
			s.logger.Warn("Workspace cookie is not Secure and TLS is off; terminate TLS in front of the console")
		}
	}
	return s.echo.StartServer(srv)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}
