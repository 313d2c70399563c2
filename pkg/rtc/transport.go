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
	"sync"
	"time"

	"github.com/frostbyte73/core"
	"github.com/pion/interceptor"
	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v3"
	"github.com/pkg/errors"

	"github.com/livekit/protocol/logger"
	"github.com/livekit/protocol/utils"

	"github.com/livekit/meshsignal/pkg/rtc/types"
)

const connectionIDPrefix = "PC_"

var ErrTransportClosed = errors.New("transport is closed")

// PCTransport is a types.Connection backed by a pion PeerConnection
type PCTransport struct {
	id            string
	params        types.ConnectionParams
	pc            *webrtc.PeerConnection
	gatherTimeout time.Duration
	logger        logger.Logger

	lock          sync.Mutex
	nextHandlerID uint64
	trackHandlers map[uint64]func(types.MediaTrack)
	stateHandlers map[uint64]func(webrtc.PeerConnectionState)
	// outgoing tracks by forwarded track id
	senders map[string]*webrtc.RTPSender
	// incoming tracks
	received map[string]*ForwardedTrack

	closed core.Fuse
}

// PCTransportFactory creates transports sharing one pion API
type PCTransportFactory struct {
	api    *webrtc.API
	config *WebRTCConfig
}

func NewPCTransportFactory(conf *WebRTCConfig) (*PCTransportFactory, error) {
	me, err := createMediaEngine(conf.EnabledCodecs)
	if err != nil {
		return nil, errors.Wrap(err, "could not create media engine")
	}

	ir := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(me, ir); err != nil {
		return nil, errors.Wrap(err, "could not register interceptors")
	}

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(me),
		webrtc.WithSettingEngine(conf.SettingEngine),
		webrtc.WithInterceptorRegistry(ir),
	)
	return &PCTransportFactory{
		api:    api,
		config: conf,
	}, nil
}

func (f *PCTransportFactory) NewConnection(params types.ConnectionParams) (types.Connection, error) {
	return NewPCTransport(f.api, f.config.Configuration, f.config.GatherTimeout, params)
}

func NewPCTransport(api *webrtc.API, conf webrtc.Configuration, gatherTimeout time.Duration, params types.ConnectionParams) (*PCTransport, error) {
	pc, err := api.NewPeerConnection(conf)
	if err != nil {
		return nil, err
	}

	l := params.Logger
	if l == nil {
		l = logger.GetLogger()
	}
	id := utils.NewGuid(connectionIDPrefix)
	t := &PCTransport{
		id:            id,
		params:        params,
		pc:            pc,
		gatherTimeout: gatherTimeout,
		logger:        l.WithComponent("transport").WithValues("connID", id, "connKind", params.Kind),
		trackHandlers: make(map[uint64]func(types.MediaTrack)),
		stateHandlers: make(map[uint64]func(webrtc.PeerConnectionState)),
		senders:       make(map[string]*webrtc.RTPSender),
		received:      make(map[string]*ForwardedTrack),
	}
	pc.OnTrack(t.onTrack)
	pc.OnConnectionStateChange(t.onConnectionStateChange)

	return t, nil
}

func (t *PCTransport) ID() string {
	return t.id
}

func (t *PCTransport) Kind() types.ConnectionKind {
	return t.params.Kind
}

func (t *PCTransport) SetRemoteDescription(sd webrtc.SessionDescription) error {
	if t.closed.IsBroken() {
		return ErrTransportClosed
	}
	return t.pc.SetRemoteDescription(sd)
}

func (t *PCTransport) CreateAnswer() (webrtc.SessionDescription, error) {
	if t.closed.IsBroken() {
		return webrtc.SessionDescription{}, ErrTransportClosed
	}
	return t.pc.CreateAnswer(nil)
}

func (t *PCTransport) SetLocalDescription(sd webrtc.SessionDescription) error {
	if t.closed.IsBroken() {
		return ErrTransportClosed
	}
	gatherComplete := webrtc.GatheringCompletePromise(t.pc)
	if err := t.pc.SetLocalDescription(sd); err != nil {
		return err
	}

	// candidates are not trickled to the client, wait for them to land in the local description
	timer := time.NewTimer(t.gatherTimeout)
	defer timer.Stop()
	select {
	case <-gatherComplete:
	case <-timer.C:
		t.logger.Debugw("ICE gathering incomplete, answering with partial candidates", "timeout", t.gatherTimeout)
	case <-t.closed.Watch():
		return ErrTransportClosed
	}
	return nil
}

func (t *PCTransport) LocalDescription() *webrtc.SessionDescription {
	return t.pc.LocalDescription()
}

func (t *PCTransport) AddICECandidate(candidate webrtc.ICECandidateInit) error {
	if t.closed.IsBroken() {
		return ErrTransportClosed
	}
	return t.pc.AddICECandidate(candidate)
}

func (t *PCTransport) AddTrack(track types.MediaTrack) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.closed.IsBroken() {
		return ErrTransportClosed
	}
	if _, ok := t.senders[track.ID()]; ok {
		return nil
	}

	sender, err := t.pc.AddTrack(track.TrackLocal())
	if err != nil {
		return err
	}
	t.senders[track.ID()] = sender
	go t.readRTCP(sender, track)

	t.logger.Debugw("track attached", "trackID", track.ID(), "kind", track.Kind().String())
	return nil
}

func (t *PCTransport) ConnectionState() webrtc.PeerConnectionState {
	return t.pc.ConnectionState()
}

func (t *PCTransport) SignalingState() webrtc.SignalingState {
	return t.pc.SignalingState()
}

func (t *PCTransport) OnTrack(f func(track types.MediaTrack)) func() {
	t.lock.Lock()
	defer t.lock.Unlock()

	id := t.nextHandlerID
	t.nextHandlerID++
	t.trackHandlers[id] = f
	return func() {
		t.lock.Lock()
		delete(t.trackHandlers, id)
		t.lock.Unlock()
	}
}

func (t *PCTransport) OnConnectionStateChange(f func(state webrtc.PeerConnectionState)) func() {
	t.lock.Lock()
	defer t.lock.Unlock()

	id := t.nextHandlerID
	t.nextHandlerID++
	t.stateHandlers[id] = f
	return func() {
		t.lock.Lock()
		delete(t.stateHandlers, id)
		t.lock.Unlock()
	}
}

func (t *PCTransport) Close() error {
	t.lock.Lock()
	if t.closed.IsBroken() {
		t.lock.Unlock()
		return nil
	}
	t.closed.Break()
	received := make([]*ForwardedTrack, 0, len(t.received))
	for _, track := range t.received {
		received = append(received, track)
	}
	t.lock.Unlock()

	for _, track := range received {
		track.Close()
	}
	return t.pc.Close()
}

func (t *PCTransport) onTrack(remote *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
	track, err := NewForwardedTrack(remote, t.pc.WriteRTCP, t.logger)
	if err != nil {
		t.logger.Warnw("could not create forwarded track", err, "remoteTrackID", remote.ID())
		return
	}

	t.lock.Lock()
	if t.closed.IsBroken() {
		t.lock.Unlock()
		return
	}
	if existing, ok := t.received[track.ID()]; ok {
		// renegotiation may surface the same track again, hand out the instance already forwarding
		track = existing
	} else {
		t.received[track.ID()] = track
		go track.forward()
	}
	handlers := make([]func(types.MediaTrack), 0, len(t.trackHandlers))
	for _, f := range t.trackHandlers {
		handlers = append(handlers, f)
	}
	t.lock.Unlock()

	for _, f := range handlers {
		f(track)
	}
}

func (t *PCTransport) onConnectionStateChange(state webrtc.PeerConnectionState) {
	t.lock.Lock()
	handlers := make([]func(webrtc.PeerConnectionState), 0, len(t.stateHandlers))
	for _, f := range t.stateHandlers {
		handlers = append(handlers, f)
	}
	t.lock.Unlock()

	for _, f := range handlers {
		f(state)
	}
}

// readRTCP drains feedback from a forwarded copy and relays key frame requests to the source
func (t *PCTransport) readRTCP(sender *webrtc.RTPSender, track types.MediaTrack) {
	for {
		pkts, _, err := sender.ReadRTCP()
		if err != nil {
			return
		}
		for _, pkt := range pkts {
			switch pkt.(type) {
			case *rtcp.PictureLossIndication, *rtcp.FullIntraRequest:
				track.RequestKeyFrame()
			}
		}
	}
}

var _ types.Connection = (*PCTransport)(nil)
