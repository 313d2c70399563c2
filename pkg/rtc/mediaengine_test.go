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

	"github.com/pion/webrtc/v3"
	"github.com/stretchr/testify/require"

	"github.com/livekit/meshsignal/pkg/config"
)

func TestIsCodecEnabled(t *testing.T) {
	t.Run("mime only", func(t *testing.T) {
		enabled := []config.CodecSpec{{Mime: "video/vp8"}}
		require.True(t, IsCodecEnabled(enabled, webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8}))
		require.False(t, IsCodecEnabled(enabled, webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP9}))
	})

	t.Run("fmtp line", func(t *testing.T) {
		enabled := []config.CodecSpec{{Mime: webrtc.MimeTypeH264, FmtpLine: "profile-level-id=42e01f"}}
		require.True(t, IsCodecEnabled(enabled, webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeH264, SDPFmtpLine: "profile-level-id=42e01f"}))
		require.False(t, IsCodecEnabled(enabled, webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeH264, SDPFmtpLine: "profile-level-id=640032"}))
	})
}

func TestCreateMediaEngine(t *testing.T) {
	me, err := createMediaEngine(nil)
	require.NoError(t, err)
	require.NotNil(t, me)

	me, err = createMediaEngine([]config.CodecSpec{{Mime: webrtc.MimeTypeOpus}, {Mime: webrtc.MimeTypeVP8}})
	require.NoError(t, err)
	require.NotNil(t, me)
}
