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

package types

import (
	"github.com/pion/webrtc/v3"

	"github.com/livekit/protocol/logger"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// ParticipantIdentity is the client chosen username. It is not authenticated.
type ParticipantIdentity string

func (p ParticipantIdentity) String() string {
	return string(p)
}

// ServerTarget addresses a participant's own server connection in candidate relay
const ServerTarget ParticipantIdentity = "server"

type ConnectionKind string

const (
	ConnectionKindServer ConnectionKind = "server"
	ConnectionKindDirect ConnectionKind = "direct"
)

type ConnectionParams struct {
	Identity ParticipantIdentity
	// set for direct connections, the other end of the link
	Remote ParticipantIdentity
	Kind   ConnectionKind
	Logger logger.Logger
}

// Connection is a handle on one media session negotiated through the server
//
//counterfeiter:generate . Connection
type Connection interface {
	ID() string
	Kind() ConnectionKind

	SetRemoteDescription(sd webrtc.SessionDescription) error
	CreateAnswer() (webrtc.SessionDescription, error)
	// SetLocalDescription commits the answer and waits, bounded, for local candidates
	SetLocalDescription(sd webrtc.SessionDescription) error
	LocalDescription() *webrtc.SessionDescription
	AddICECandidate(candidate webrtc.ICECandidateInit) error

	// AddTrack attaches an outgoing copy of track. Adding the same track twice is a no-op.
	AddTrack(track MediaTrack) error

	ConnectionState() webrtc.PeerConnectionState
	SignalingState() webrtc.SignalingState

	// subscriptions run on engine goroutines until the returned cancel func is called
	OnTrack(f func(track MediaTrack)) (cancel func())
	OnConnectionStateChange(f func(state webrtc.PeerConnectionState)) (cancel func())

	Close() error
}

// MediaTrack is an incoming media stream that can be attached to other connections
//
//counterfeiter:generate . MediaTrack
type MediaTrack interface {
	ID() string
	StreamID() string
	Kind() webrtc.RTPCodecType
	TrackLocal() webrtc.TrackLocal
	RequestKeyFrame()
}

//counterfeiter:generate . ConnectionFactory
type ConnectionFactory interface {
	NewConnection(params ConnectionParams) (Connection, error)
}

// IsTerminal reports whether a connection in state will never carry media again
func IsTerminal(state webrtc.PeerConnectionState) bool {
	switch state {
	case webrtc.PeerConnectionStateFailed,
		webrtc.PeerConnectionStateClosed,
		webrtc.PeerConnectionStateDisconnected:
		return true
	}
	return false
}
