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

	"go.uber.org/zap/zapcore"

	"github.com/livekit/meshsignal/pkg/rtc/types"
)

// EdgeKey identifies the direct link between two participants, independent of who initiated it
type EdgeKey struct {
	a, b types.ParticipantIdentity
}

func NewEdgeKey(x, y types.ParticipantIdentity) EdgeKey {
	if y < x {
		x, y = y, x
	}
	return EdgeKey{a: x, b: y}
}

func (k EdgeKey) Identities() (types.ParticipantIdentity, types.ParticipantIdentity) {
	return k.a, k.b
}

func (k EdgeKey) Contains(identity types.ParticipantIdentity) bool {
	return k.a == identity || k.b == identity
}

// Other returns the end of the link opposite to identity
func (k EdgeKey) Other(identity types.ParticipantIdentity) (types.ParticipantIdentity, bool) {
	switch identity {
	case k.a:
		return k.b, true
	case k.b:
		return k.a, true
	}
	return "", false
}

func (k EdgeKey) String() string {
	return string(k.a) + "<->" + string(k.b)
}

func (k EdgeKey) MarshalLogObject(e zapcore.ObjectEncoder) error {
	e.AddString("a", string(k.a))
	e.AddString("b", string(k.b))
	return nil
}

// Edge is a direct link. Both participants refer to the same Connection.
type Edge struct {
	Key       EdgeKey
	Conn      types.Connection
	CreatedAt time.Time
	// the participant whose connect-peer created the link
	Initiator types.ParticipantIdentity
}

func (e *Edge) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if e == nil {
		return nil
	}

	if err := enc.AddObject("key", e.Key); err != nil {
		return err
	}
	enc.AddString("initiator", string(e.Initiator))
	enc.AddTime("createdAt", e.CreatedAt)
	enc.AddDuration("age", time.Since(e.CreatedAt))
	if e.Conn != nil {
		enc.AddString("connID", e.Conn.ID())
	}
	return nil
}
