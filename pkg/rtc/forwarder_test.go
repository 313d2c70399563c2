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

	"github.com/livekit/meshsignal/pkg/rtc/types/typesfakes"
)

func TestForwardTrack(t *testing.T) {
	setup := func(t *testing.T) (*testMesh, *typesfakes.FakeConnection, *typesfakes.FakeConnection) {
		m := newTestMesh()
		aliceConn, err := m.join("alice")
		require.NoError(t, err)
		_, _ = m.join("bob")
		_, err = m.router.HandleConnectPeer(context.Background(), ConnectPeerRequest{Identity: "alice", Target: "bob", SDP: testSDP, Type: "offer"})
		require.NoError(t, err)
		return m, aliceConn, m.lastConn()
	}

	t.Run("attaches to existing links", func(t *testing.T) {
		m, aliceConn, direct := setup(t)
		track := newMockTrack("alice-video", webrtc.RTPCodecTypeVideo)

		aliceConn.OnTrackArgsForCall(0)(track)

		require.Equal(t, 1, direct.AddTrackCallCount())
		require.Equal(t, track, direct.AddTrackArgsForCall(0))
		require.Len(t, m.registry.Tracks("alice"), 1)
	})

	t.Run("duplicate track is recorded once", func(t *testing.T) {
		m, aliceConn, _ := setup(t)
		track := newMockTrack("alice-video", webrtc.RTPCodecTypeVideo)

		aliceConn.OnTrackArgsForCall(0)(track)
		aliceConn.OnTrackArgsForCall(0)(track)
		require.Len(t, m.registry.Tracks("alice"), 1)
	})

	t.Run("closed link is skipped", func(t *testing.T) {
		m, aliceConn, direct := setup(t)
		direct.SignalingStateReturns(webrtc.SignalingStateClosed)

		aliceConn.OnTrackArgsForCall(0)(newMockTrack("alice-audio", webrtc.RTPCodecTypeAudio))
		require.Equal(t, 0, direct.AddTrackCallCount())
		require.Len(t, m.registry.Tracks("alice"), 1)
	})

	t.Run("failure on one link does not stop the rest", func(t *testing.T) {
		m, aliceConn, failing := setup(t)
		_, _ = m.join("carol")
		_, err := m.router.HandleConnectPeer(context.Background(), ConnectPeerRequest{Identity: "carol", Target: "alice", SDP: testSDP, Type: "offer"})
		require.NoError(t, err)
		healthy := m.lastConn()
		failing.AddTrackReturns(errors.New("closed"))

		aliceConn.OnTrackArgsForCall(0)(newMockTrack("alice-audio", webrtc.RTPCodecTypeAudio))
		require.Equal(t, 1, failing.AddTrackCallCount())
		require.Equal(t, 1, healthy.AddTrackCallCount())
	})

	t.Run("track from replaced connection is ignored", func(t *testing.T) {
		m, aliceConn, direct := setup(t)
		_, err := m.join("alice")
		require.NoError(t, err)

		aliceConn.OnTrackArgsForCall(0)(newMockTrack("late", webrtc.RTPCodecTypeAudio))
		require.Empty(t, m.registry.Tracks("alice"))
		require.Equal(t, 0, direct.AddTrackCallCount())
	})

	t.Run("tracks arriving before a link are attached on connect", func(t *testing.T) {
		m := newTestMesh()
		aliceConn, _ := m.join("alice")
		_, _ = m.join("bob")
		aliceConn.OnTrackArgsForCall(0)(newMockTrack("a1", webrtc.RTPCodecTypeAudio))
		aliceConn.OnTrackArgsForCall(0)(newMockTrack("v1", webrtc.RTPCodecTypeVideo))

		_, err := m.router.HandleConnectPeer(context.Background(), ConnectPeerRequest{Identity: "bob", Target: "alice", SDP: testSDP, Type: "offer"})
		require.NoError(t, err)
		direct := m.lastConn()
		require.Equal(t, 2, direct.AddTrackCallCount())
		require.Equal(t, "a1", direct.AddTrackArgsForCall(0).ID())
		require.Equal(t, "v1", direct.AddTrackArgsForCall(1).ID())
	})
}
