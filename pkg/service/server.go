// Copyright 2023 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/urfave/negroni/v3"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/meshsignal/pkg/config"
	"github.com/livekit/meshsignal/pkg/rtc"
	"github.com/livekit/meshsignal/version"
)

const shutdownTimeout = 5 * time.Second

type SignalServer struct {
	config     *config.Config
	node       *LocalNode
	registry   *rtc.Registry
	lifecycle  *rtc.LifecycleManager
	events     *EventsService
	presence   *PresenceRecorder
	rtcConfig  *rtc.WebRTCConfig
	httpServer *http.Server
	promServer *http.Server

	running  atomic.Bool
	doneChan chan struct{}
	closed   chan struct{}
}

func NewSignalServer(
	conf *config.Config,
	node *LocalNode,
	registry *rtc.Registry,
	lifecycle *rtc.LifecycleManager,
	signalService *SignalService,
	eventsService *EventsService,
	presence *PresenceRecorder,
	rtcConfig *rtc.WebRTCConfig,
) (*SignalServer, error) {
	s := &SignalServer{
		config:    conf,
		node:      node,
		registry:  registry,
		lifecycle: lifecycle,
		events:    eventsService,
		presence:  presence,
		rtcConfig: rtcConfig,
		doneChan:  make(chan struct{}),
		closed:    make(chan struct{}),
	}

	mux := http.NewServeMux()
	signalService.SetupRoutes(mux)
	mux.Handle("/events", eventsService)
	mux.HandleFunc("/healthz", s.healthCheck)
	if conf.Signal.StaticDir != "" {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(conf.Signal.StaticDir))))
	}
	mux.HandleFunc("/", s.index)

	middlewares := []negroni.Handler{
		// always first
		negroni.NewRecovery(),
		cors.New(cors.Options{
			AllowedOrigins:   conf.Signal.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "X-Requested-With", "Authorization"},
			ExposedHeaders:   []string{"*"},
			AllowCredentials: true,
		}),
		negroni.HandlerFunc(RemoveDoubleSlashes),
	}

	s.httpServer = &http.Server{
		Handler:           configureMiddlewares(mux, middlewares...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if conf.PrometheusPort > 0 {
		s.promServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", conf.PrometheusPort),
			Handler: promhttp.Handler(),
		}
	}

	return s, nil
}

func (s *SignalServer) Node() *LocalNode {
	return s.node
}

func (s *SignalServer) HTTPHandler() http.Handler {
	return s.httpServer.Handler
}

func (s *SignalServer) IsRunning() bool {
	return s.running.Load()
}

// Start listens on every bind address and blocks until Stop is called
func (s *SignalServer) Start() error {
	select {
	case <-s.closed:
		return ErrServerStopped
	default:
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerRunning
	}

	addresses := s.config.BindAddresses
	if len(addresses) == 0 {
		addresses = []string{""}
	}

	// ensure we could listen before serving anything
	listeners := make([]net.Listener, 0, len(addresses))
	for _, addr := range addresses {
		ln, err := net.Listen("tcp", net.JoinHostPort(addr, strconv.Itoa(int(s.config.Port))))
		if err != nil {
			for _, l := range listeners {
				_ = l.Close()
			}
			s.running.Store(false)
			return err
		}
		listeners = append(listeners, ln)
	}

	var eg errgroup.Group
	for _, ln := range listeners {
		ln := ln
		eg.Go(func() error {
			logger.Infow("starting signal server",
				"address", ln.Addr().String(),
				"nodeID", s.node.ID,
				"version", version.Version,
				"tls", s.config.Signal.TLSEnabled(),
			)
			var err error
			if s.config.Signal.TLSEnabled() {
				err = s.httpServer.ServeTLS(ln, s.config.Signal.CertFile, s.config.Signal.KeyFile)
			} else {
				err = s.httpServer.Serve(ln)
			}
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	}

	if s.promServer != nil {
		promLn, err := net.Listen("tcp", s.promServer.Addr)
		if err != nil {
			logger.Warnw("could not start prometheus server", err, "address", s.promServer.Addr)
		} else {
			go func() {
				_ = s.promServer.Serve(promLn)
			}()
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- eg.Wait()
	}()

	var err error
	select {
	case <-s.doneChan:
	case err = <-serveErr:
		if err != nil {
			logger.Errorw("signal server failed", err)
		}
	}

	s.shutdown()
	return err
}

func (s *SignalServer) Stop() {
	if !s.running.Load() {
		return
	}
	select {
	case <-s.doneChan:
	default:
		close(s.doneChan)
	}
	<-s.closed
}

func (s *SignalServer) shutdown() {
	defer close(s.closed)
	logger.Infow("shutting down signal server", "participants", s.registry.Len(), "links", s.registry.EdgeCount())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.events.Close()
	_ = s.httpServer.Shutdown(ctx)
	if s.promServer != nil {
		_ = s.promServer.Shutdown(ctx)
	}

	s.lifecycle.Close()
	s.presence.Stop()
	if err := s.rtcConfig.Close(); err != nil {
		logger.Warnw("could not close udp mux", err)
	}
	s.running.Store(false)
}

func (s *SignalServer) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *SignalServer) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || s.config.Signal.IndexFile == "" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, s.config.Signal.IndexFile)
}

func configureMiddlewares(handler http.Handler, middlewares ...negroni.Handler) *negroni.Negroni {
	n := negroni.New()
	for _, m := range middlewares {
		n.Use(m)
	}
	n.UseHandler(handler)
	return n
}
