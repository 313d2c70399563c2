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

	"github.com/livekit/psrpc"
)

var (
	ErrUsernameRequired   = psrpc.NewErrorf(psrpc.InvalidArgument, "username is required")
	ErrTargetRequired     = psrpc.NewErrorf(psrpc.InvalidArgument, "target is required")
	ErrSDPRequired        = psrpc.NewErrorf(psrpc.InvalidArgument, "sdp is required")
	ErrTypeRequired       = psrpc.NewErrorf(psrpc.InvalidArgument, "type is required")
	ErrCandidateRequired  = psrpc.NewErrorf(psrpc.InvalidArgument, "candidate is required")
	ErrSelfLink           = psrpc.NewErrorf(psrpc.InvalidArgument, "cannot connect a peer to itself")
	ErrTargetNotFound     = psrpc.NewErrorf(psrpc.NotFound, "target peer not found")
	ErrConnectionNotFound = psrpc.NewErrorf(psrpc.NotFound, "connection not found")
	ErrServerConnNotFound = psrpc.NewErrorf(psrpc.NotFound, "server connection not found")

	errEdgeSuperseded = errors.New("direct connection was replaced or removed during negotiation")
)

func errRequesterNotFound(identity string) error {
	return psrpc.NewErrorf(psrpc.NotFound,
		"initiating user '%s' not found, establish a server connection first via /offer", identity)
}

func errInvalidType(got string, expected ...string) error {
	return psrpc.NewErrorf(psrpc.InvalidArgument, "invalid description type %q, expected %v", got, expected)
}

func errInvalidSDP(err error) error {
	return psrpc.NewErrorf(psrpc.InvalidArgument, "invalid sdp: %v", err)
}

func errInvalidCandidate(err error) error {
	return psrpc.NewErrorf(psrpc.InvalidArgument, "invalid ICE candidate: %v", err)
}

func errEngine(op string, err error) error {
	return psrpc.NewErrorf(psrpc.Internal, "%s failed: %v", op, err)
}
