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
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/frostbyte73/core"
	"github.com/gorilla/websocket"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/meshsignal/pkg/config"
	"github.com/livekit/meshsignal/pkg/rtc"
	"github.com/livekit/meshsignal/pkg/rtc/types"
)

const (
	pingFrequency = 10 * time.Second
	pingTimeout   = 2 * time.Second
	writeTimeout  = 5 * time.Second

	eventTypePeers = "peers"
)

type peersEvent struct {
	Type  string   `json:"type"`
	Peers []string `json:"peers"`
}

// EventsService pushes the peer list to websocket clients whenever membership changes
type EventsService struct {
	registry *rtc.Registry
	upgrader websocket.Upgrader
	debounce func(f func())
	logger   logger.Logger

	lock    sync.Mutex
	clients map[*eventsClient]struct{}
	closed  core.Fuse
}

type eventsClient struct {
	identity types.ParticipantIdentity
	conn     *websocket.Conn
	// holds at most one pending push, the snapshot is taken when it is written
	wake chan struct{}
	done core.Fuse
}

func NewEventsService(conf *config.Config, registry *rtc.Registry) *EventsService {
	s := &EventsService{
		registry: registry,
		upgrader: websocket.Upgrader{},
		debounce: debounce.New(conf.Signal.EventsDebounce),
		logger:   logger.GetLogger().WithComponent("events"),
		clients:  make(map[*eventsClient]struct{}),
	}
	s.upgrader.CheckOrigin = originChecker(conf.Signal.AllowedOrigins)

	registry.OnMembershipChanged(func(rtc.MembershipEvent) {
		s.debounce(s.wakeAll)
	})
	return s
}

func (s *EventsService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := types.ParticipantIdentity(r.URL.Query().Get("username"))
	if identity == "" {
		handleError(w, r, http.StatusBadRequest, rtc.ErrUsernameRequired)
		return
	}
	if s.closed.IsBroken() {
		handleError(w, r, http.StatusServiceUnavailable, errors.New("server is shutting down"))
		return
	}
	if !websocket.IsWebSocketUpgrade(r) {
		handleError(w, r, http.StatusUpgradeRequired, errors.New("websocket upgrade required"))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already wrote the response
		s.logger.Debugw("could not upgrade events connection", "error", err, "participant", identity)
		return
	}

	c := &eventsClient{
		identity: identity,
		conn:     conn,
		wake:     make(chan struct{}, 1),
	}
	s.lock.Lock()
	if s.closed.IsBroken() {
		s.lock.Unlock()
		_ = conn.Close()
		return
	}
	s.clients[c] = struct{}{}
	s.lock.Unlock()
	s.logger.Debugw("events client connected", "participant", identity, "remote", GetClientIP(r))

	c.notify()
	go s.writePump(c)
	s.readPump(c)
}

// Close disconnects every client
func (s *EventsService) Close() {
	s.lock.Lock()
	s.closed.Break()
	clients := make([]*eventsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.lock.Unlock()

	for _, c := range clients {
		c.done.Break()
	}
}

func (s *EventsService) ClientCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.clients)
}

func (s *EventsService) wakeAll() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for c := range s.clients {
		c.notify()
	}
}

// readPump drains client frames so control messages are handled, and ends the session on error
func (s *EventsService) readPump(c *eventsClient) {
	defer s.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if !IsWebSocketCloseError(err) {
				s.logger.Debugw("events read failed", "error", err, "participant", c.identity)
			}
			return
		}
	}
}

func (s *EventsService) writePump(c *eventsClient) {
	ticker := time.NewTicker(pingFrequency)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done.Watch():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(pingTimeout))
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(pingTimeout)); err != nil {
				return
			}
		case <-c.wake:
			event := peersEvent{
				Type:  eventTypePeers,
				Peers: identityStrings(s.registry.OtherIdentities(c.identity)),
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(event); err != nil {
				if !IsWebSocketCloseError(err) {
					s.logger.Debugw("events write failed", "error", err, "participant", c.identity)
				}
				return
			}
		}
	}
}

func (s *EventsService) remove(c *eventsClient) {
	s.lock.Lock()
	delete(s.clients, c)
	s.lock.Unlock()
	c.done.Break()
	s.logger.Debugw("events client disconnected", "participant", c.identity)
}

func (c *eventsClient) notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

func IsWebSocketCloseError(err error) bool {
	return errors.Is(err, io.EOF) ||
		strings.HasSuffix(err.Error(), "use of closed network connection") ||
		strings.HasSuffix(err.Error(), "connection reset by peer") ||
		websocket.IsCloseError(
			err,
			websocket.CloseAbnormalClosure,
			websocket.CloseGoingAway,
			websocket.CloseNormalClosure,
			websocket.CloseNoStatusReceived,
		)
}
