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
	"time"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/livekit/meshsignal/pkg/rtc/types"
)

// peer is owned by the Registry and only touched under its lock
type peer struct {
	identity types.ParticipantIdentity
	conn     types.Connection
	// contributed tracks in arrival order, keyed by track id
	tracks   *orderedmap.OrderedMap[string, types.MediaTrack]
	joinedAt time.Time
}

func newPeer(identity types.ParticipantIdentity, conn types.Connection) *peer {
	return &peer{
		identity: identity,
		conn:     conn,
		tracks:   orderedmap.NewOrderedMap[string, types.MediaTrack](),
		joinedAt: time.Now(),
	}
}

// addTrack keys tracks by ID. A second track with an ID already stored is rejected even if it is a
// different object, so the transport must hand out one MediaTrack per remote track ID.
func (p *peer) addTrack(track types.MediaTrack) bool {
	if _, ok := p.tracks.Get(track.ID()); ok {
		return false
	}
	p.tracks.Set(track.ID(), track)
	return true
}

func (p *peer) trackList() []types.MediaTrack {
	tracks := make([]types.MediaTrack, 0, p.tracks.Len())
	for el := p.tracks.Front(); el != nil; el = el.Next() {
		tracks = append(tracks, el.Value)
	}
	return tracks
}

// PeerState is a point in time copy of a peer record
type PeerState struct {
	Identity types.ParticipantIdentity
	Conn     types.Connection
	Tracks   []types.MediaTrack
	// identities this peer has a direct link with, sorted
	Links    []types.ParticipantIdentity
	JoinedAt time.Time
}
