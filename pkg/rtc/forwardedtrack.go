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
	"errors"
	"io"
	"time"

	"github.com/frostbyte73/core"
	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v3"
	"go.uber.org/atomic"

	"github.com/livekit/protocol/logger"
	"github.com/livekit/protocol/utils"

	"github.com/livekit/meshsignal/pkg/rtc/types"
)

const keyFrameRequestInterval = 500 * time.Millisecond

// ForwardedTrack republishes an incoming track so it can be attached to any number of connections
type ForwardedTrack struct {
	id       string
	remote   *webrtc.TrackRemote
	local    *webrtc.TrackLocalStaticRTP
	writePLI func(pkts []rtcp.Packet) error
	logger   logger.Logger

	lastKeyFrameRequest atomic.Int64
	packets             atomic.Uint64
	closed              core.Fuse
}

func NewForwardedTrack(remote *webrtc.TrackRemote, writeRTCP func(pkts []rtcp.Packet) error, l logger.Logger) (*ForwardedTrack, error) {
	id := remote.ID()
	if id == "" {
		id = utils.NewGuid(utils.TrackPrefix)
	}
	local, err := webrtc.NewTrackLocalStaticRTP(remote.Codec().RTPCodecCapability, id, remote.StreamID())
	if err != nil {
		return nil, err
	}

	return &ForwardedTrack{
		id:       id,
		remote:   remote,
		local:    local,
		writePLI: writeRTCP,
		logger:   l.WithValues("trackID", id, "kind", remote.Kind().String()),
	}, nil
}

func (t *ForwardedTrack) ID() string {
	return t.id
}

func (t *ForwardedTrack) StreamID() string {
	return t.remote.StreamID()
}

func (t *ForwardedTrack) Kind() webrtc.RTPCodecType {
	return t.remote.Kind()
}

func (t *ForwardedTrack) TrackLocal() webrtc.TrackLocal {
	return t.local
}

// RequestKeyFrame asks the sender for a key frame, at most once per keyFrameRequestInterval
func (t *ForwardedTrack) RequestKeyFrame() {
	if t.Kind() != webrtc.RTPCodecTypeVideo || t.closed.IsBroken() {
		return
	}
	now := time.Now().UnixNano()
	last := t.lastKeyFrameRequest.Load()
	if now-last < int64(keyFrameRequestInterval) || !t.lastKeyFrameRequest.CompareAndSwap(last, now) {
		return
	}
	err := t.writePLI([]rtcp.Packet{
		&rtcp.PictureLossIndication{MediaSSRC: uint32(t.remote.SSRC())},
	})
	if err != nil && !errors.Is(err, io.ErrClosedPipe) {
		t.logger.Debugw("could not send PLI", "error", err)
	}
}

func (t *ForwardedTrack) Close() {
	t.closed.Break()
}

// forward copies packets from the remote track until it ends
func (t *ForwardedTrack) forward() {
	defer t.closed.Break()

	for {
		pkt, _, err := t.remote.ReadRTP()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.logger.Debugw("track read ended", "error", err)
			}
			return
		}
		t.write(pkt)
	}
}

func (t *ForwardedTrack) write(pkt *rtp.Packet) {
	t.packets.Inc()
	// a closed binding only affects the connection it belongs to
	if err := t.local.WriteRTP(pkt); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		t.logger.Debugw("could not write packet", "error", err, "sequenceNumber", pkt.SequenceNumber)
	}
}

func (t *ForwardedTrack) PacketCount() uint64 {
	return t.packets.Load()
}

var _ types.MediaTrack = (*ForwardedTrack)(nil)
