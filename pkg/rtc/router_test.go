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
	"errors"
	"testing"

	"github.com/pion/webrtc/v3"
	"github.com/stretchr/testify/require"

	"github.com/livekit/psrpc"

	"github.com/livekit/meshsignal/pkg/rtc/types"
	"github.com/livekit/meshsignal/pkg/rtc/types/typesfakes"
)

const testCandidate = "candidate:1 1 udp 2130706431 192.168.1.2 54321 typ host"

func requireCode(t *testing.T, err error, code psrpc.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var perr psrpc.Error
	require.True(t, errors.As(err, &perr), "expected psrpc error, got %v", err)
	require.Equal(t, code, perr.Code())
}

func TestHandleOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("first offer registers peer and answers", func(t *testing.T) {
		m := newTestMesh()
		_, err := m.join("bob")
		require.NoError(t, err)

		res, err := m.router.HandleOffer(ctx, OfferRequest{Identity: "alice", SDP: testSDP, Type: "offer"})
		require.NoError(t, err)
		require.Equal(t, webrtc.SDPTypeAnswer, res.Answer.Type)
		require.Equal(t, "answer-conn-1", res.Answer.SDP)
		require.Equal(t, []types.ParticipantIdentity{"bob"}, res.OtherPeers)

		conn := m.lastConn()
		require.Equal(t, 1, conn.SetRemoteDescriptionCallCount())
		offer := conn.SetRemoteDescriptionArgsForCall(0)
		require.Equal(t, webrtc.SDPTypeOffer, offer.Type)
		require.Equal(t, testSDP, offer.SDP)
		require.Equal(t, 1, conn.SetLocalDescriptionCallCount())

		params := m.factory.NewConnectionArgsForCall(1)
		require.Equal(t, types.ParticipantIdentity("alice"), params.Identity)
		require.Equal(t, types.ConnectionKindServer, params.Kind)
	})

	t.Run("answer carries committed local description", func(t *testing.T) {
		m := newTestMesh()
		m.factory.NewConnectionCalls(func(params types.ConnectionParams) (types.Connection, error) {
			conn := newMockConnection("gathered")
			conn.LocalDescriptionReturns(&webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "with-candidates"})
			m.conns = append(m.conns, conn)
			return conn, nil
		})
		res, err := m.router.HandleOffer(ctx, OfferRequest{Identity: "alice", SDP: testSDP, Type: "offer"})
		require.NoError(t, err)
		require.Equal(t, "with-candidates", res.Answer.SDP)
	})

	t.Run("validation", func(t *testing.T) {
		m := newTestMesh()
		cases := []struct {
			name string
			req  OfferRequest
		}{
			{"missing username", OfferRequest{SDP: testSDP, Type: "offer"}},
			{"missing sdp", OfferRequest{Identity: "alice", Type: "offer"}},
			{"missing type", OfferRequest{Identity: "alice", SDP: testSDP}},
			{"wrong type", OfferRequest{Identity: "alice", SDP: testSDP, Type: "answer"}},
			{"garbage sdp", OfferRequest{Identity: "alice", SDP: "not sdp", Type: "offer"}},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				_, err := m.router.HandleOffer(ctx, c.req)
				requireCode(t, err, psrpc.InvalidArgument)
			})
		}
		require.Equal(t, 0, m.factory.NewConnectionCallCount())
		require.Equal(t, 0, m.registry.Len())
	})

	t.Run("re-offer replaces server connection and keeps links", func(t *testing.T) {
		m := newTestMesh()
		first, err := m.join("alice")
		require.NoError(t, err)
		_, err = m.join("bob")
		require.NoError(t, err)
		_, err = m.router.HandleConnectPeer(ctx, ConnectPeerRequest{Identity: "alice", Target: "bob", SDP: testSDP, Type: "offer"})
		require.NoError(t, err)

		second, err := m.join("alice")
		require.NoError(t, err)
		require.Equal(t, 1, first.CloseCallCount())

		state, ok := m.registry.Get("alice")
		require.True(t, ok)
		require.Equal(t, second, state.Conn)
		require.Equal(t, []types.ParticipantIdentity{"bob"}, state.Links)
	})

	t.Run("engine failure", func(t *testing.T) {
		m := newTestMesh()
		m.factory.NewConnectionReturns(nil, errors.New("no ports"))
		_, err := m.router.HandleOffer(ctx, OfferRequest{Identity: "alice", SDP: testSDP, Type: "offer"})
		requireCode(t, err, psrpc.Internal)
		require.False(t, m.registry.Has("alice"))
	})
}

func TestHandleConnectPeer(t *testing.T) {
	ctx := context.Background()
	req := ConnectPeerRequest{Identity: "alice", Target: "bob", SDP: testSDP, Type: "offer"}

	t.Run("creates link and attaches target tracks", func(t *testing.T) {
		m := newTestMesh()
		_, err := m.join("alice")
		require.NoError(t, err)
		bobConn, err := m.join("bob")
		require.NoError(t, err)

		track := newMockTrack("bob-audio", webrtc.RTPCodecTypeAudio)
		bobConn.OnTrackArgsForCall(0)(track)

		answer, err := m.router.HandleConnectPeer(ctx, req)
		require.NoError(t, err)
		require.Equal(t, webrtc.SDPTypeAnswer, answer.Type)

		edge, ok := m.registry.GetEdge("bob", "alice")
		require.True(t, ok)
		require.Equal(t, types.ParticipantIdentity("alice"), edge.Initiator)

		direct := m.lastConn()
		require.Equal(t, edge.Conn, types.Connection(direct))
		require.Equal(t, 1, direct.AddTrackCallCount())
		require.Equal(t, track, direct.AddTrackArgsForCall(0))

		params := m.factory.NewConnectionArgsForCall(2)
		require.Equal(t, types.ConnectionKindDirect, params.Kind)
		require.Equal(t, types.ParticipantIdentity("bob"), params.Remote)

		alice, _ := m.registry.Get("alice")
		bob, _ := m.registry.Get("bob")
		require.Equal(t, []types.ParticipantIdentity{"bob"}, alice.Links)
		require.Equal(t, []types.ParticipantIdentity{"alice"}, bob.Links)
	})

	t.Run("validation", func(t *testing.T) {
		m := newTestMesh()
		_, err := m.join("alice")
		require.NoError(t, err)

		_, err = m.router.HandleConnectPeer(ctx, ConnectPeerRequest{Target: "bob", SDP: testSDP, Type: "offer"})
		requireCode(t, err, psrpc.InvalidArgument)
		_, err = m.router.HandleConnectPeer(ctx, ConnectPeerRequest{Identity: "alice", SDP: testSDP, Type: "offer"})
		requireCode(t, err, psrpc.InvalidArgument)
		_, err = m.router.HandleConnectPeer(ctx, ConnectPeerRequest{Identity: "alice", Target: "bob", SDP: testSDP, Type: "answer"})
		requireCode(t, err, psrpc.InvalidArgument)
		_, err = m.router.HandleConnectPeer(ctx, ConnectPeerRequest{Identity: "alice", Target: "alice", SDP: testSDP, Type: "offer"})
		require.ErrorIs(t, err, ErrSelfLink)
	})

	t.Run("unknown target", func(t *testing.T) {
		m := newTestMesh()
		_, err := m.join("alice")
		require.NoError(t, err)

		_, err = m.router.HandleConnectPeer(ctx, req)
		require.ErrorIs(t, err, ErrTargetNotFound)
		require.Equal(t, 0, m.registry.EdgeCount())
		require.Equal(t, 1, m.factory.NewConnectionCallCount())
	})

	t.Run("unknown requester", func(t *testing.T) {
		m := newTestMesh()
		_, err := m.join("bob")
		require.NoError(t, err)

		_, err = m.router.HandleConnectPeer(ctx, req)
		requireCode(t, err, psrpc.NotFound)
		require.Contains(t, err.Error(), "alice")
		require.Equal(t, 0, m.registry.EdgeCount())
	})

	t.Run("repeat replaces and closes previous link", func(t *testing.T) {
		m := newTestMesh()
		_, _ = m.join("alice")
		_, _ = m.join("bob")

		_, err := m.router.HandleConnectPeer(ctx, req)
		require.NoError(t, err)
		first := m.lastConn()

		_, err = m.router.HandleConnectPeer(ctx, ConnectPeerRequest{Identity: "bob", Target: "alice", SDP: testSDP, Type: "offer"})
		require.NoError(t, err)
		second := m.lastConn()

		require.Equal(t, 1, first.CloseCallCount())
		edge, ok := m.registry.GetEdge("alice", "bob")
		require.True(t, ok)
		require.Equal(t, types.Connection(second), edge.Conn)
		require.Equal(t, 1, m.registry.EdgeCount())
	})

	t.Run("engine failure rolls back link", func(t *testing.T) {
		m := newTestMesh()
		_, _ = m.join("alice")
		_, _ = m.join("bob")
		m.factory.NewConnectionCalls(func(params types.ConnectionParams) (types.Connection, error) {
			conn := newMockConnection("broken")
			conn.SetRemoteDescriptionReturns(errors.New("bad offer"))
			m.conns = append(m.conns, conn)
			return conn, nil
		})

		_, err := m.router.HandleConnectPeer(ctx, req)
		requireCode(t, err, psrpc.Internal)
		require.Equal(t, 0, m.registry.EdgeCount())
		require.Equal(t, 1, m.lastConn().CloseCallCount())
	})

	t.Run("target leaving during negotiation", func(t *testing.T) {
		m := newTestMesh()
		_, _ = m.join("alice")
		_, _ = m.join("bob")
		m.factory.NewConnectionCalls(func(params types.ConnectionParams) (types.Connection, error) {
			conn := newMockConnection("racing")
			conn.SetRemoteDescriptionCalls(func(webrtc.SessionDescription) error {
				m.registry.Remove("bob")
				return nil
			})
			m.conns = append(m.conns, conn)
			return conn, nil
		})

		_, err := m.router.HandleConnectPeer(ctx, req)
		require.ErrorIs(t, err, ErrTargetNotFound)
		require.Equal(t, 0, m.registry.EdgeCount())
		require.Equal(t, 1, m.lastConn().CloseCallCount())
		require.Equal(t, 0, m.lastConn().CreateAnswerCallCount())
	})
}

func TestHandleAnswer(t *testing.T) {
	ctx := context.Background()

	m := newTestMesh()
	_, _ = m.join("alice")
	_, _ = m.join("bob")
	_, _ = m.join("carol")
	_, err := m.router.HandleConnectPeer(ctx, ConnectPeerRequest{Identity: "alice", Target: "bob", SDP: testSDP, Type: "offer"})
	require.NoError(t, err)
	direct := m.lastConn()

	err = m.router.HandleAnswer(ctx, AnswerRequest{Identity: "bob", Target: "alice", SDP: testSDP, Type: "answer"})
	require.NoError(t, err)
	// one remote description from connect-peer, one from the answer
	require.Equal(t, 2, direct.SetRemoteDescriptionCallCount())
	require.Equal(t, webrtc.SDPTypeAnswer, direct.SetRemoteDescriptionArgsForCall(1).Type)

	err = m.router.HandleAnswer(ctx, AnswerRequest{Identity: "bob", Target: "alice", SDP: testSDP, Type: "pranswer"})
	require.NoError(t, err)

	err = m.router.HandleAnswer(ctx, AnswerRequest{Identity: "bob", Target: "alice", SDP: testSDP, Type: "offer"})
	requireCode(t, err, psrpc.InvalidArgument)

	err = m.router.HandleAnswer(ctx, AnswerRequest{Identity: "bob", Target: "dave", SDP: testSDP, Type: "answer"})
	require.ErrorIs(t, err, ErrTargetNotFound)

	err = m.router.HandleAnswer(ctx, AnswerRequest{Identity: "carol", Target: "alice", SDP: testSDP, Type: "answer"})
	require.ErrorIs(t, err, ErrConnectionNotFound)

	direct.SetRemoteDescriptionReturns(errors.New("wrong state"))
	err = m.router.HandleAnswer(ctx, AnswerRequest{Identity: "bob", Target: "alice", SDP: testSDP, Type: "answer"})
	requireCode(t, err, psrpc.Internal)
}

func TestHandleICECandidate(t *testing.T) {
	ctx := context.Background()
	candidate := &webrtc.ICECandidateInit{Candidate: testCandidate}

	newMesh := func(t *testing.T) (*testMesh, *typesfakes.FakeConnection, *typesfakes.FakeConnection) {
		m := newTestMesh()
		aliceConn, err := m.join("alice")
		require.NoError(t, err)
		_, _ = m.join("bob")
		_, _ = m.join("carol")
		_, err = m.router.HandleConnectPeer(ctx, ConnectPeerRequest{Identity: "alice", Target: "bob", SDP: testSDP, Type: "offer"})
		require.NoError(t, err)
		return m, aliceConn, m.lastConn()
	}

	t.Run("server target", func(t *testing.T) {
		m, aliceConn, _ := newMesh(t)
		err := m.router.HandleICECandidate(ctx, CandidateRequest{Identity: "alice", Target: types.ServerTarget, Candidate: candidate})
		require.NoError(t, err)
		require.Equal(t, 1, aliceConn.AddICECandidateCallCount())
		require.Equal(t, testCandidate, aliceConn.AddICECandidateArgsForCall(0).Candidate)
	})

	t.Run("direct target from either end", func(t *testing.T) {
		m, _, direct := newMesh(t)
		err := m.router.HandleICECandidate(ctx, CandidateRequest{Identity: "alice", Target: "bob", Candidate: candidate})
		require.NoError(t, err)
		err = m.router.HandleICECandidate(ctx, CandidateRequest{Identity: "bob", Target: "alice", Candidate: candidate})
		require.NoError(t, err)
		require.Equal(t, 2, direct.AddICECandidateCallCount())
	})

	t.Run("not found", func(t *testing.T) {
		m, _, _ := newMesh(t)
		err := m.router.HandleICECandidate(ctx, CandidateRequest{Identity: "dave", Target: types.ServerTarget, Candidate: candidate})
		require.ErrorIs(t, err, ErrServerConnNotFound)
		err = m.router.HandleICECandidate(ctx, CandidateRequest{Identity: "alice", Target: "dave", Candidate: candidate})
		require.ErrorIs(t, err, ErrTargetNotFound)
		err = m.router.HandleICECandidate(ctx, CandidateRequest{Identity: "alice", Target: "carol", Candidate: candidate})
		require.ErrorIs(t, err, ErrConnectionNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		m, aliceConn, _ := newMesh(t)
		err := m.router.HandleICECandidate(ctx, CandidateRequest{Target: types.ServerTarget, Candidate: candidate})
		requireCode(t, err, psrpc.InvalidArgument)
		err = m.router.HandleICECandidate(ctx, CandidateRequest{Identity: "alice", Candidate: candidate})
		requireCode(t, err, psrpc.InvalidArgument)
		err = m.router.HandleICECandidate(ctx, CandidateRequest{Identity: "alice", Target: types.ServerTarget})
		requireCode(t, err, psrpc.InvalidArgument)
		err = m.router.HandleICECandidate(ctx, CandidateRequest{
			Identity:  "alice",
			Target:    types.ServerTarget,
			Candidate: &webrtc.ICECandidateInit{Candidate: "candidate:garbage"},
		})
		requireCode(t, err, psrpc.InvalidArgument)
		require.Equal(t, 0, aliceConn.AddICECandidateCallCount())
	})

	t.Run("end of candidates", func(t *testing.T) {
		m, aliceConn, _ := newMesh(t)
		err := m.router.HandleICECandidate(ctx, CandidateRequest{
			Identity:  "alice",
			Target:    types.ServerTarget,
			Candidate: &webrtc.ICECandidateInit{},
		})
		require.NoError(t, err)
		require.Equal(t, 0, aliceConn.AddICECandidateCallCount())
	})

	t.Run("engine failure", func(t *testing.T) {
		m, aliceConn, _ := newMesh(t)
		aliceConn.AddICECandidateReturns(errors.New("no remote description"))
		err := m.router.HandleICECandidate(ctx, CandidateRequest{Identity: "alice", Target: types.ServerTarget, Candidate: candidate})
		requireCode(t, err, psrpc.Internal)
	})
}

func TestOtherPeers(t *testing.T) {
	m := newTestMesh()
	_, err := m.router.OtherPeers("")
	requireCode(t, err, psrpc.InvalidArgument)

	peers, err := m.router.OtherPeers("alice")
	require.NoError(t, err)
	require.Empty(t, peers)

	_, _ = m.join("alice")
	_, _ = m.join("bob")
	peers, err = m.router.OtherPeers("alice")
	require.NoError(t, err)
	require.Equal(t, []types.ParticipantIdentity{"bob"}, peers)
}
