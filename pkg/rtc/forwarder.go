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
	"github.com/pion/webrtc/v3"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/meshsignal/pkg/rtc/types"
	"github.com/livekit/meshsignal/pkg/telemetry/prometheus"
)

// TrackForwarder records tracks received on a server connection and fans them out over the owner's direct links
type TrackForwarder struct {
	registry *Registry
	logger   logger.Logger
}

func NewTrackForwarder(registry *Registry, l logger.Logger) *TrackForwarder {
	return &TrackForwarder{
		registry: registry,
		logger:   l.WithComponent("forwarder"),
	}
}

// Forward attaches track to every open link of identity. Failures on one link do not affect the others.
func (f *TrackForwarder) Forward(identity types.ParticipantIdentity, conn types.Connection, track types.MediaTrack) {
	edges, added, ok := f.registry.AddTrack(identity, conn, track)
	if !ok {
		f.logger.Debugw("ignoring track from superseded connection",
			"participant", identity, "connID", conn.ID(), "trackID", track.ID())
		return
	}
	if added {
		f.logger.Infow("track received",
			"participant", identity, "trackID", track.ID(), "kind", track.Kind().String(), "links", len(edges))
	}

	for _, edge := range edges {
		if edge.Conn.SignalingState() == webrtc.SignalingStateClosed {
			prometheus.RecordTrackForward(prometheus.ForwardResultSkipped)
			continue
		}
		if err := edge.Conn.AddTrack(track); err != nil {
			prometheus.RecordTrackForward(prometheus.ForwardResultFailure)
			f.logger.Warnw("could not forward track", err,
				"participant", identity, "trackID", track.ID(), "link", edge.Key)
			continue
		}
		prometheus.RecordTrackForward(prometheus.ForwardResultSuccess)
	}
}
