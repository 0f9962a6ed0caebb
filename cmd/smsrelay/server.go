package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"smsrelay/internal/config"
	"smsrelay/internal/constants"
	"smsrelay/internal/middleware"
	"smsrelay/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Server struct {
	router     *mux.Router
	logger     *logrus.Logger
	msgService service.MessageService
	cfg        *config.Config
	server     *http.Server
}

func NewServer(cfg *config.Config, msgService service.MessageService, logger *logrus.Logger) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		logger:     logger,
		msgService: msgService,
		cfg:        cfg,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.ObservabilityMiddleware(s.logger))

	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)

	s.router.HandleFunc("/send-sms", s.handleSendSMS()).Methods(http.MethodPost)
	s.router.HandleFunc("/messages", s.handleListMessages()).Methods(http.MethodGet)

	// Carrier webhooks. /receive-sms accepts GET because the carrier can
	// be configured to deliver inbound messages with either verb.
	receive := s.router.PathPrefix("/receive-sms").Subrouter()
	receive.Use(middleware.WebhookObservabilityMiddleware(s.logger, "inbound_sms"))
	receive.HandleFunc("", s.handleReceiveSMS()).Methods(http.MethodGet, http.MethodPost)

	status := s.router.PathPrefix("/sms/status").Subrouter()
	status.Use(middleware.WebhookObservabilityMiddleware(s.logger, "status_callback"))
	status.HandleFunc("", s.handleStatusCallback()).Methods(http.MethodPost)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  constants.DefaultServerReadTimeoutSec * time.Second,
		WriteTimeout: constants.DefaultServerWriteTimeout * time.Second,
		IdleTimeout:  constants.DefaultServerIdleTimeoutSec * time.Second,
	}

	s.logger.Infof("Starting server on port %d", s.cfg.Server.Port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
