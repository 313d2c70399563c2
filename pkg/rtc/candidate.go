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
	"strings"

	"github.com/pion/ice/v2"
	"github.com/pion/webrtc/v3"
)

const candidatePrefix = "candidate:"

// ICECandidate is a connectivity candidate in structured form
type ICECandidate struct {
	Foundation     string
	Component      uint16
	Protocol       string
	Priority       uint32
	Address        string
	Port           int
	Type           string
	RelatedAddress string
	RelatedPort    int

	SDPMid        *string
	SDPMLineIndex *uint16
	raw           string
}

// ParseICECandidate converts the browser's candidate line into an ICECandidate.
// An empty line marks end of candidates and yields nil without error.
func ParseICECandidate(raw string, sdpMid *string, sdpMLineIndex *uint16) (*ICECandidate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	c, err := ice.UnmarshalCandidate(strings.TrimPrefix(raw, candidatePrefix))
	if err != nil {
		return nil, errInvalidCandidate(err)
	}

	candidate := &ICECandidate{
		Foundation:    c.Foundation(),
		Component:     c.Component(),
		Protocol:      c.NetworkType().NetworkShort(),
		Priority:      c.Priority(),
		Address:       c.Address(),
		Port:          c.Port(),
		Type:          c.Type().String(),
		SDPMid:        sdpMid,
		SDPMLineIndex: sdpMLineIndex,
		raw:           raw,
	}
	if related := c.RelatedAddress(); related != nil {
		candidate.RelatedAddress = related.Address
		candidate.RelatedPort = related.Port
	}
	return candidate, nil
}

func (c *ICECandidate) ToInit() webrtc.ICECandidateInit {
	raw := c.raw
	if !strings.HasPrefix(raw, candidatePrefix) {
		raw = candidatePrefix + raw
	}
	return webrtc.ICECandidateInit{
		Candidate:     raw,
		SDPMid:        c.SDPMid,
		SDPMLineIndex: c.SDPMLineIndex,
	}
}
