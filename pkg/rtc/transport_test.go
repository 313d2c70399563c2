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
	"testing"
	"time"

	"github.com/pion/webrtc/v3"
	"github.com/stretchr/testify/require"

	"github.com/livekit/meshsignal/pkg/config"
	"github.com/livekit/meshsignal/pkg/rtc/types"
)

func newTestFactory(t *testing.T) *PCTransportFactory {
	conf := &config.Config{
		RTC: config.RTCConfig{
			ICEDisconnectedTimeout: 10 * time.Second,
			ICEFailedTimeout:       25 * time.Second,
			ICEKeepaliveInterval:   2 * time.Second,
			GatherTimeout:          time.Second,
		},
	}
	wc, err := NewWebRTCConfig(conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = wc.Close() })

	factory, err := NewPCTransportFactory(wc)
	require.NoError(t, err)
	return factory
}

func newTestTransport(t *testing.T, kind types.ConnectionKind) *PCTransport {
	conn, err := newTestFactory(t).NewConnection(types.ConnectionParams{Identity: "alice", Kind: kind})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn.(*PCTransport)
}

func newOpusTrack(t *testing.T, id string) *webrtc.TrackLocalStaticRTP {
	track, err := webrtc.NewTrackLocalStaticRTP(webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2}, id, "stream")
	require.NoError(t, err)
	return track
}

func TestTransportNegotiation(t *testing.T) {
	transport := newTestTransport(t, types.ConnectionKindServer)
	require.Equal(t, types.ConnectionKindServer, transport.Kind())
	require.NotEmpty(t, transport.ID())

	offerer, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	require.NoError(t, err)
	defer offerer.Close()
	_, err = offerer.AddTrack(newOpusTrack(t, "mic"))
	require.NoError(t, err)

	offer, err := offerer.CreateOffer(nil)
	require.NoError(t, err)
	require.NoError(t, offerer.SetLocalDescription(offer))

	answer, err := negotiate(transport, *offerer.LocalDescription())
	require.NoError(t, err)
	require.Equal(t, webrtc.SDPTypeAnswer, answer.Type)
	require.NotEmpty(t, answer.SDP)
	require.Equal(t, webrtc.SignalingStateStable, transport.SignalingState())

	require.NoError(t, offerer.SetRemoteDescription(answer))
	require.Equal(t, webrtc.SignalingStateStable, offerer.SignalingState())
}

func TestTransportAddTrack(t *testing.T) {
	transport := newTestTransport(t, types.ConnectionKindDirect)

	track := newMockTrack("bob-audio", webrtc.RTPCodecTypeAudio)
	track.TrackLocalReturns(newOpusTrack(t, "bob-audio"))

	require.NoError(t, transport.AddTrack(track))
	require.NoError(t, transport.AddTrack(track))
	require.Equal(t, 1, track.TrackLocalCallCount())
	require.Len(t, transport.pc.GetSenders(), 1)
}

func TestTransportSubscriptions(t *testing.T) {
	transport := newTestTransport(t, types.ConnectionKindServer)

	var states []webrtc.PeerConnectionState
	cancel := transport.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		states = append(states, state)
	})
	cancelTrack := transport.OnTrack(func(types.MediaTrack) {})

	transport.onConnectionStateChange(webrtc.PeerConnectionStateConnecting)
	cancel()
	transport.onConnectionStateChange(webrtc.PeerConnectionStateConnected)
	require.Equal(t, []webrtc.PeerConnectionState{webrtc.PeerConnectionStateConnecting}, states)

	cancelTrack()
	transport.lock.Lock()
	require.Empty(t, transport.trackHandlers)
	require.Empty(t, transport.stateHandlers)
	transport.lock.Unlock()
}

func TestTransportClose(t *testing.T) {
	transport := newTestTransport(t, types.ConnectionKindServer)

	require.NoError(t, transport.Close())
	require.NoError(t, transport.Close())

	track := newMockTrack("late", webrtc.RTPCodecTypeAudio)
	require.ErrorIs(t, transport.AddTrack(track), ErrTransportClosed)
	require.ErrorIs(t, transport.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: testSDP}), ErrTransportClosed)
	require.ErrorIs(t, transport.AddICECandidate(webrtc.ICECandidateInit{Candidate: testCandidate}), ErrTransportClosed)
	_, err := transport.CreateAnswer()
	require.ErrorIs(t, err, ErrTransportClosed)
	require.Equal(t, webrtc.SignalingStateClosed, transport.SignalingState())
}
