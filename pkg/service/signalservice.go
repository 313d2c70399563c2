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

package service

import (
	"net/http"
	"time"

	"github.com/pion/webrtc/v3"

	"github.com/livekit/protocol/logger"
	protoutils "github.com/livekit/protocol/utils"

	"github.com/livekit/meshsignal/pkg/config"
	"github.com/livekit/meshsignal/pkg/rtc"
	"github.com/livekit/meshsignal/pkg/rtc/types"
	"github.com/livekit/meshsignal/pkg/telemetry/prometheus"
	"github.com/livekit/meshsignal/pkg/utils"
)

const requestIDPrefix = "RQ_"

type offerRequest struct {
	Username string `json:"username"`
	SDP      string `json:"sdp"`
	Type     string `json:"type"`
}

type offerResponse struct {
	SDP        string   `json:"sdp"`
	Type       string   `json:"type"`
	OtherPeers []string `json:"otherPeers"`
}

// body of both /connect-peer and /answer
type linkRequest struct {
	Username string `json:"username"`
	Target   string `json:"target"`
	SDP      string `json:"sdp"`
	Type     string `json:"type"`
}

type descriptionResponse struct {
	SDP  string `json:"sdp"`
	Type string `json:"type"`
}

type candidateRequest struct {
	Username  string                   `json:"username"`
	Target    string                   `json:"target"`
	Candidate *webrtc.ICECandidateInit `json:"candidate"`
}

type peersRequest struct {
	Username string `json:"username"`
}

type peersResponse struct {
	Peers []string `json:"peers"`
}

// SignalService exposes the signaling router over HTTP+JSON
type SignalService struct {
	router       *rtc.SignalRouter
	maxBodyBytes int64
}

func NewSignalService(conf *config.Config, router *rtc.SignalRouter) *SignalService {
	return &SignalService{
		router:       router,
		maxBodyBytes: conf.Signal.MaxBodyBytes,
	}
}

func (s *SignalService) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/offer", s.wrap("offer", s.handleOffer))
	mux.HandleFunc("/connect-peer", s.wrap("connect-peer", s.handleConnectPeer))
	mux.HandleFunc("/answer", s.wrap("answer", s.handleAnswer))
	mux.HandleFunc("/ice-candidate", s.wrap("ice-candidate", s.handleICECandidate))
	mux.HandleFunc("/notify-new-peer", s.wrap("notify-new-peer", s.handleNotifyNewPeer))
}

func (s *SignalService) handleOffer(w http.ResponseWriter, r *http.Request) int {
	var req offerRequest
	if err := decodeJSON(w, r, s.maxBodyBytes, &req); err != nil {
		return s.fail(w, r, err)
	}

	res, err := s.router.HandleOffer(r.Context(), rtc.OfferRequest{
		Identity: types.ParticipantIdentity(req.Username),
		SDP:      req.SDP,
		Type:     req.Type,
	})
	if err != nil {
		return s.fail(w, r, err, "participant", req.Username)
	}

	return s.respond(w, r, offerResponse{
		SDP:        res.Answer.SDP,
		Type:       res.Answer.Type.String(),
		OtherPeers: identityStrings(res.OtherPeers),
	})
}

func (s *SignalService) handleConnectPeer(w http.ResponseWriter, r *http.Request) int {
	var req linkRequest
	if err := decodeJSON(w, r, s.maxBodyBytes, &req); err != nil {
		return s.fail(w, r, err)
	}

	answer, err := s.router.HandleConnectPeer(r.Context(), rtc.ConnectPeerRequest{
		Identity: types.ParticipantIdentity(req.Username),
		Target:   types.ParticipantIdentity(req.Target),
		SDP:      req.SDP,
		Type:     req.Type,
	})
	if err != nil {
		return s.fail(w, r, err, "participant", req.Username, "target", req.Target)
	}

	return s.respond(w, r, descriptionResponse{
		SDP:  answer.SDP,
		Type: answer.Type.String(),
	})
}

func (s *SignalService) handleAnswer(w http.ResponseWriter, r *http.Request) int {
	var req linkRequest
	if err := decodeJSON(w, r, s.maxBodyBytes, &req); err != nil {
		return s.fail(w, r, err)
	}

	err := s.router.HandleAnswer(r.Context(), rtc.AnswerRequest{
		Identity: types.ParticipantIdentity(req.Username),
		Target:   types.ParticipantIdentity(req.Target),
		SDP:      req.SDP,
		Type:     req.Type,
	})
	if err != nil {
		return s.fail(w, r, err, "participant", req.Username, "target", req.Target)
	}

	w.WriteHeader(http.StatusOK)
	return http.StatusOK
}

func (s *SignalService) handleICECandidate(w http.ResponseWriter, r *http.Request) int {
	var req candidateRequest
	if err := decodeJSON(w, r, s.maxBodyBytes, &req); err != nil {
		return s.fail(w, r, err)
	}

	err := s.router.HandleICECandidate(r.Context(), rtc.CandidateRequest{
		Identity:  types.ParticipantIdentity(req.Username),
		Target:    types.ParticipantIdentity(req.Target),
		Candidate: req.Candidate,
	})
	if err != nil {
		return s.fail(w, r, err, "participant", req.Username, "target", req.Target)
	}

	w.WriteHeader(http.StatusOK)
	return http.StatusOK
}

func (s *SignalService) handleNotifyNewPeer(w http.ResponseWriter, r *http.Request) int {
	var req peersRequest
	if err := decodeJSON(w, r, s.maxBodyBytes, &req); err != nil {
		return s.fail(w, r, err)
	}

	peers, err := s.router.OtherPeers(types.ParticipantIdentity(req.Username))
	if err != nil {
		return s.fail(w, r, err)
	}
	return s.respond(w, r, peersResponse{Peers: identityStrings(peers)})
}

// wrap restricts h to POST, attaches a request scoped logger and records request metrics
func (s *SignalService) wrap(op string, h func(w http.ResponseWriter, r *http.Request) int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		l := logger.GetLogger().WithComponent("signal").WithValues(
			"requestID", protoutils.NewGuid(requestIDPrefix),
			"op", op,
			"remote", GetClientIP(r),
		)
		r = r.WithContext(utils.ContextWithLogger(r.Context(), l))

		start := time.Now()
		status := h(w, r)
		prometheus.RecordRequest(op, status, float64(time.Since(start).Milliseconds()))
	}
}

func (s *SignalService) fail(w http.ResponseWriter, r *http.Request, err error, keysAndValues ...interface{}) int {
	status := httpStatus(err)
	handleError(w, r, status, err, keysAndValues...)
	return status
}

func (s *SignalService) respond(w http.ResponseWriter, r *http.Request, v interface{}) int {
	if err := writeJSON(w, v); err != nil {
		utils.GetLogger(r.Context()).Warnw("could not write response", err)
	}
	return http.StatusOK
}

func identityStrings(identities []types.ParticipantIdentity) []string {
	out := make([]string, 0, len(identities))
	for _, identity := range identities {
		out = append(out, string(identity))
	}
	return out
}
