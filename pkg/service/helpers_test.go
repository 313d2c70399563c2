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
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pion/webrtc/v3"
	"github.com/stretchr/testify/require"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/meshsignal/pkg/config"
	"github.com/livekit/meshsignal/pkg/rtc"
	"github.com/livekit/meshsignal/pkg/rtc/types"
	"github.com/livekit/meshsignal/pkg/rtc/types/typesfakes"
)

const testSDP = "v=0\r\no=- 4215775240449105457 2 IN IP4 127.0.0.1\r\ns=-\r\nt=0 0\r\n"

type testService struct {
	conf      *config.Config
	registry  *rtc.Registry
	factory   *typesfakes.FakeConnectionFactory
	lifecycle *rtc.LifecycleManager
	router    *rtc.SignalRouter
	signal    *SignalService
	mux       *http.ServeMux

	lock  sync.Mutex
	conns []*typesfakes.FakeConnection
}

func testConfig() *config.Config {
	conf := config.DefaultConfig
	conf.RTC.STUNServers = nil
	conf.RTC.ICEPortRangeStart = 0
	conf.RTC.ICEPortRangeEnd = 0
	conf.Signal.EventsDebounce = 10 * time.Millisecond
	return &conf
}

func newTestService(t *testing.T) *testService {
	l := logger.GetLogger()
	s := &testService{
		conf:     testConfig(),
		registry: rtc.NewRegistry(),
		factory:  &typesfakes.FakeConnectionFactory{},
		mux:      http.NewServeMux(),
	}
	s.factory.NewConnectionCalls(func(params types.ConnectionParams) (types.Connection, error) {
		s.lock.Lock()
		defer s.lock.Unlock()
		id := fmt.Sprintf("conn-%d", len(s.conns))
		conn := &typesfakes.FakeConnection{}
		conn.IDReturns(id)
		conn.KindReturns(params.Kind)
		conn.CreateAnswerReturns(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "answer-" + id}, nil)
		conn.SignalingStateReturns(webrtc.SignalingStateStable)
		conn.ConnectionStateReturns(webrtc.PeerConnectionStateNew)
		s.conns = append(s.conns, conn)
		return conn, nil
	})
	s.lifecycle = rtc.NewLifecycleManager(s.registry, l)
	t.Cleanup(s.lifecycle.Close)
	s.router = rtc.NewSignalRouter(s.registry, s.factory, rtc.NewTrackForwarder(s.registry, l), s.lifecycle, l)
	s.signal = NewSignalService(s.conf, s.router)
	s.signal.SetupRoutes(s.mux)
	return s
}

func (s *testService) conn(i int) *typesfakes.FakeConnection {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.conns[i]
}

func (s *testService) post(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var data []byte
	switch b := body.(type) {
	case string:
		data = []byte(b)
	default:
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	return w
}

func (s *testService) join(t *testing.T, identity string) offerResponse {
	t.Helper()
	w := s.post(t, "/offer", offerRequest{Username: identity, SDP: testSDP, Type: "offer"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res offerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}
