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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/livekit/psrpc"
)

func TestParseICECandidate(t *testing.T) {
	mid := "0"
	index := uint16(0)

	t.Run("host", func(t *testing.T) {
		c, err := ParseICECandidate(testCandidate, &mid, &index)
		require.NoError(t, err)
		require.Equal(t, "1", c.Foundation)
		require.Equal(t, uint16(1), c.Component)
		require.Equal(t, "udp", c.Protocol)
		require.Equal(t, uint32(2130706431), c.Priority)
		require.Equal(t, "192.168.1.2", c.Address)
		require.Equal(t, 54321, c.Port)
		require.Equal(t, "host", c.Type)

		init := c.ToInit()
		require.Equal(t, testCandidate, init.Candidate)
		require.Equal(t, &mid, init.SDPMid)
		require.Equal(t, &index, init.SDPMLineIndex)
	})

	t.Run("without prefix", func(t *testing.T) {
		c, err := ParseICECandidate("1 1 udp 2130706431 192.168.1.2 54321 typ host", nil, nil)
		require.NoError(t, err)
		require.Equal(t, testCandidate, c.ToInit().Candidate)
	})

	t.Run("server reflexive", func(t *testing.T) {
		c, err := ParseICECandidate("candidate:842163049 1 udp 1677729535 203.0.113.7 61000 typ srflx raddr 192.168.1.2 rport 54321", nil, nil)
		require.NoError(t, err)
		require.Equal(t, "srflx", c.Type)
		require.Equal(t, "192.168.1.2", c.RelatedAddress)
		require.Equal(t, 54321, c.RelatedPort)
	})

	t.Run("end of candidates", func(t *testing.T) {
		c, err := ParseICECandidate("  ", nil, nil)
		require.NoError(t, err)
		require.Nil(t, c)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseICECandidate("candidate:1 1 udp", nil, nil)
		requireCode(t, err, psrpc.InvalidArgument)
	})
}
