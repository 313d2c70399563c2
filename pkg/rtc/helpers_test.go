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

package rtc

import (
	"context"
	"fmt"

	"github.com/pion/webrtc/v3"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/meshsignal/pkg/rtc/types"
	"github.com/livekit/meshsignal/pkg/rtc/types/typesfakes"
)

const testSDP = "v=0\r\no=- 4215775240449105457 2 IN IP4 127.0.0.1\r\ns=-\r\nt=0 0\r\n"

func newMockConnection(id string) *typesfakes.FakeConnection {
	conn := &typesfakes.FakeConnection{}
	conn.IDReturns(id)
	conn.CreateAnswerReturns(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "answer-" + id}, nil)
	conn.SignalingStateReturns(webrtc.SignalingStateStable)
	conn.ConnectionStateReturns(webrtc.PeerConnectionStateNew)
	return conn
}

func newMockTrack(id string, kind webrtc.RTPCodecType) *typesfakes.FakeMediaTrack {
	track := &typesfakes.FakeMediaTrack{}
	track.IDReturns(id)
	track.KindReturns(kind)
	track.StreamIDReturns("stream-" + id)
	return track
}

type testMesh struct {
	registry  *Registry
	factory   *typesfakes.FakeConnectionFactory
	forwarder *TrackForwarder
	lifecycle *LifecycleManager
	router    *SignalRouter
	conns     []*typesfakes.FakeConnection
}

// newTestMesh wires a router to a factory handing out fresh mock connections named conn-0, conn-1 and so on
func newTestMesh() *testMesh {
	l := logger.GetLogger()
	m := &testMesh{
		registry: NewRegistry(),
		factory:  &typesfakes.FakeConnectionFactory{},
	}
	m.factory.NewConnectionCalls(func(params types.ConnectionParams) (types.Connection, error) {
		conn := newMockConnection(fmt.Sprintf("conn-%d", len(m.conns)))
		conn.KindReturns(params.Kind)
		m.conns = append(m.conns, conn)
		return conn, nil
	})
	m.forwarder = NewTrackForwarder(m.registry, l)
	m.lifecycle = NewLifecycleManager(m.registry, l)
	m.router = NewSignalRouter(m.registry, m.factory, m.forwarder, m.lifecycle, l)
	return m
}

func (m *testMesh) lastConn() *typesfakes.FakeConnection {
	return m.conns[len(m.conns)-1]
}

// join sends an offer for identity and returns the server connection created for it
func (m *testMesh) join(identity types.ParticipantIdentity) (*typesfakes.FakeConnection, error) {
	_, err := m.router.HandleOffer(context.Background(), OfferRequest{Identity: identity, SDP: testSDP, Type: "offer"})
	if err != nil {
		return nil, err
	}
	return m.lastConn(), nil
}
