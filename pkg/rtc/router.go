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

	"github.com/pion/sdp/v3"
	"github.com/pion/webrtc/v3"

	"github.com/livekit/psrpc"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/meshsignal/pkg/rtc/types"
	"github.com/livekit/meshsignal/pkg/utils"
)

type OfferRequest struct {
	Identity types.ParticipantIdentity
	SDP      string
	Type     string
}

type OfferResponse struct {
	Answer     webrtc.SessionDescription
	OtherPeers []types.ParticipantIdentity
}

type ConnectPeerRequest struct {
	Identity types.ParticipantIdentity
	Target   types.ParticipantIdentity
	SDP      string
	Type     string
}

type AnswerRequest struct {
	Identity types.ParticipantIdentity
	Target   types.ParticipantIdentity
	SDP      string
	Type     string
}

type CandidateRequest struct {
	Identity  types.ParticipantIdentity
	Target    types.ParticipantIdentity
	Candidate *webrtc.ICECandidateInit
}

// SignalRouter applies signaling messages to the right connection and keeps the registry in step
type SignalRouter struct {
	registry  *Registry
	factory   types.ConnectionFactory
	forwarder *TrackForwarder
	lifecycle *LifecycleManager
	logger    logger.Logger
}

func NewSignalRouter(
	registry *Registry,
	factory types.ConnectionFactory,
	forwarder *TrackForwarder,
	lifecycle *LifecycleManager,
	l logger.Logger,
) *SignalRouter {
	return &SignalRouter{
		registry:  registry,
		factory:   factory,
		forwarder: forwarder,
		lifecycle: lifecycle,
		logger:    l.WithComponent("router"),
	}
}

// HandleOffer establishes or renegotiates the participant's server connection
func (r *SignalRouter) HandleOffer(ctx context.Context, req OfferRequest) (*OfferResponse, error) {
	if req.Identity == "" {
		return nil, ErrUsernameRequired
	}
	offer, err := parseDescription(req.SDP, req.Type, webrtc.SDPTypeOffer)
	if err != nil {
		return nil, err
	}
	l := r.requestLogger(ctx).WithValues("participant", req.Identity)

	identity := req.Identity
	conn, err := r.factory.NewConnection(types.ConnectionParams{
		Identity: identity,
		Kind:     types.ConnectionKindServer,
		Logger:   l,
	})
	if err != nil {
		return nil, errEngine("create connection", err)
	}

	conn.OnTrack(func(track types.MediaTrack) {
		r.forwarder.Forward(identity, conn, track)
	})
	conn.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		r.lifecycle.ServerConnectionStateChanged(identity, conn, state)
	})

	prev, created := r.registry.UpsertServerConnection(identity, conn)
	if prev != nil {
		if err := prev.Close(); err != nil {
			l.Warnw("could not close previous server connection", err, "connID", prev.ID())
		}
	}
	l.Infow("offer received", "connID", conn.ID(), "new", created)

	answer, err := negotiate(conn, offer)
	if err != nil {
		return nil, err
	}

	return &OfferResponse{
		Answer:     answer,
		OtherPeers: r.registry.OtherIdentities(identity),
	}, nil
}

// HandleConnectPeer creates the direct link between requester and target and answers the requester's offer
func (r *SignalRouter) HandleConnectPeer(ctx context.Context, req ConnectPeerRequest) (*webrtc.SessionDescription, error) {
	if req.Identity == "" {
		return nil, ErrUsernameRequired
	}
	if req.Target == "" {
		return nil, ErrTargetRequired
	}
	offer, err := parseDescription(req.SDP, req.Type, webrtc.SDPTypeOffer)
	if err != nil {
		return nil, err
	}
	if req.Identity == req.Target {
		return nil, ErrSelfLink
	}
	if !r.registry.Has(req.Target) {
		return nil, ErrTargetNotFound
	}
	if !r.registry.Has(req.Identity) {
		return nil, errRequesterNotFound(string(req.Identity))
	}
	l := r.requestLogger(ctx).WithValues("participant", req.Identity, "target", req.Target)

	conn, err := r.factory.NewConnection(types.ConnectionParams{
		Identity: req.Identity,
		Remote:   req.Target,
		Kind:     types.ConnectionKindDirect,
		Logger:   l,
	})
	if err != nil {
		return nil, errEngine("create connection", err)
	}

	key := NewEdgeKey(req.Identity, req.Target)
	cancelState := conn.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		r.lifecycle.EdgeConnectionStateChanged(key, conn, state)
	})
	cancelTrack := conn.OnTrack(func(track types.MediaTrack) {
		// the other side forwards its tracks over its own server connection
		l.Debugw("track received on direct connection", "trackID", track.ID(), "kind", track.Kind().String())
	})

	abort := func(cause error) error {
		cancelAll(cancelState, cancelTrack)
		r.registry.RemoveEdge(key, conn)
		if err := conn.Close(); err != nil {
			l.Warnw("could not close direct connection", err, "connID", conn.ID())
		}
		return cause
	}

	_, prev, err := r.registry.AddEdge(req.Identity, req.Target, conn)
	if err != nil {
		return nil, abort(err)
	}
	if prev != nil {
		l.Infow("replacing direct connection", "previousConnID", prev.Conn.ID())
		if err := prev.Conn.Close(); err != nil {
			l.Warnw("could not close replaced direct connection", err, "connID", prev.Conn.ID())
		}
	}
	l.Infow("connect-peer received", "connID", conn.ID(), "link", key)

	if err := conn.SetRemoteDescription(offer); err != nil {
		return nil, abort(errEngine("set remote description", err))
	}

	// the link may have been torn down while the engine was busy
	if err := r.validateEdge(req.Identity, req.Target, conn); err != nil {
		return nil, abort(err)
	}

	for _, track := range r.registry.Tracks(req.Target) {
		if err := conn.AddTrack(track); err != nil {
			return nil, abort(errEngine("add track", err))
		}
	}

	answer, err := answerAndCommit(conn)
	if err != nil {
		return nil, abort(err)
	}
	return &answer, nil
}

// HandleAnswer applies target's answer to the direct link it was offered on
func (r *SignalRouter) HandleAnswer(ctx context.Context, req AnswerRequest) error {
	if req.Identity == "" {
		return ErrUsernameRequired
	}
	if req.Target == "" {
		return ErrTargetRequired
	}
	answer, err := parseDescription(req.SDP, req.Type, webrtc.SDPTypeAnswer, webrtc.SDPTypePranswer)
	if err != nil {
		return err
	}
	if !r.registry.Has(req.Target) {
		return ErrTargetNotFound
	}
	edge, ok := r.registry.GetEdge(req.Identity, req.Target)
	if !ok {
		return ErrConnectionNotFound
	}

	r.requestLogger(ctx).Debugw("answer received",
		"participant", req.Identity, "target", req.Target, "connID", edge.Conn.ID())
	if err := edge.Conn.SetRemoteDescription(answer); err != nil {
		return errEngine("set remote description", err)
	}
	return nil
}

// HandleICECandidate relays a candidate to the sender's server connection or to a direct link
func (r *SignalRouter) HandleICECandidate(ctx context.Context, req CandidateRequest) error {
	if req.Identity == "" {
		return ErrUsernameRequired
	}
	if req.Target == "" {
		return ErrTargetRequired
	}
	if req.Candidate == nil {
		return ErrCandidateRequired
	}

	conn, err := r.resolveCandidateTarget(req.Identity, req.Target)
	if err != nil {
		return err
	}

	candidate, err := ParseICECandidate(req.Candidate.Candidate, req.Candidate.SDPMid, req.Candidate.SDPMLineIndex)
	if err != nil {
		return err
	}
	l := r.requestLogger(ctx)
	if candidate == nil {
		l.Debugw("end of candidates", "participant", req.Identity, "target", req.Target)
		return nil
	}

	l.Debugw("candidate received",
		"participant", req.Identity,
		"target", req.Target,
		"connID", conn.ID(),
		"type", candidate.Type,
		"protocol", candidate.Protocol,
		"address", candidate.Address,
		"port", candidate.Port,
	)
	if err := conn.AddICECandidate(candidate.ToInit()); err != nil {
		return errEngine("add ICE candidate", err)
	}
	return nil
}

// OtherPeers lists every registered identity except identity
func (r *SignalRouter) OtherPeers(identity types.ParticipantIdentity) ([]types.ParticipantIdentity, error) {
	if identity == "" {
		return nil, ErrUsernameRequired
	}
	return r.registry.OtherIdentities(identity), nil
}

func (r *SignalRouter) resolveCandidateTarget(identity, target types.ParticipantIdentity) (types.Connection, error) {
	if target == types.ServerTarget {
		conn, ok := r.registry.ServerConnection(identity)
		if !ok {
			return nil, ErrServerConnNotFound
		}
		return conn, nil
	}

	if !r.registry.Has(target) {
		return nil, ErrTargetNotFound
	}
	edge, ok := r.registry.GetEdge(identity, target)
	if !ok {
		return nil, ErrConnectionNotFound
	}
	return edge.Conn, nil
}

func (r *SignalRouter) validateEdge(identity, target types.ParticipantIdentity, conn types.Connection) error {
	edge, ok := r.registry.GetEdge(identity, target)
	if ok && edge.Conn == conn {
		return nil
	}
	if !r.registry.Has(target) {
		return ErrTargetNotFound
	}
	if !r.registry.Has(identity) {
		return errRequesterNotFound(string(identity))
	}
	return psrpc.NewError(psrpc.Internal, errEdgeSuperseded)
}

func (r *SignalRouter) requestLogger(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(utils.LoggerKey{}).(logger.Logger); ok {
		return l.WithComponent("router")
	}
	return r.logger
}

func negotiate(conn types.Connection, offer webrtc.SessionDescription) (webrtc.SessionDescription, error) {
	if err := conn.SetRemoteDescription(offer); err != nil {
		return webrtc.SessionDescription{}, errEngine("set remote description", err)
	}
	return answerAndCommit(conn)
}

func answerAndCommit(conn types.Connection) (webrtc.SessionDescription, error) {
	answer, err := conn.CreateAnswer()
	if err != nil {
		return webrtc.SessionDescription{}, errEngine("create answer", err)
	}
	if err := conn.SetLocalDescription(answer); err != nil {
		return webrtc.SessionDescription{}, errEngine("set local description", err)
	}
	// the committed description carries gathered candidates
	if local := conn.LocalDescription(); local != nil {
		return *local, nil
	}
	return answer, nil
}

func parseDescription(body string, sdpType string, allowed ...webrtc.SDPType) (webrtc.SessionDescription, error) {
	if body == "" {
		return webrtc.SessionDescription{}, ErrSDPRequired
	}
	if sdpType == "" {
		return webrtc.SessionDescription{}, ErrTypeRequired
	}

	parsedType := webrtc.NewSDPType(sdpType)
	valid := false
	expected := make([]string, 0, len(allowed))
	for _, t := range allowed {
		expected = append(expected, t.String())
		if parsedType == t {
			valid = true
		}
	}
	if !valid {
		return webrtc.SessionDescription{}, errInvalidType(sdpType, expected...)
	}

	sd := sdp.SessionDescription{}
	if err := sd.Unmarshal([]byte(body)); err != nil {
		return webrtc.SessionDescription{}, errInvalidSDP(err)
	}
	return webrtc.SessionDescription{Type: parsedType, SDP: body}, nil
}

func cancelAll(cancels ...func()) {
	for _, cancel := range cancels {
		if cancel != nil {
			cancel()
		}
	}
}
