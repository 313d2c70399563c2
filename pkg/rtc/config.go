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
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pion/ice/v2"
	"github.com/pion/webrtc/v3"
	"github.com/pkg/errors"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/meshsignal/pkg/config"
)

type WebRTCConfig struct {
	Configuration webrtc.Configuration
	SettingEngine webrtc.SettingEngine
	EnabledCodecs []config.CodecSpec
	GatherTimeout time.Duration

	udpMux    ice.UDPMux
	closeOnce sync.Once
	closeErr  error
}

func NewWebRTCConfig(conf *config.Config) (*WebRTCConfig, error) {
	rtcConf := conf.RTC

	c := webrtc.Configuration{
		SDPSemantics: webrtc.SDPSemanticsUnifiedPlan,
	}
	s := webrtc.SettingEngine{
		LoggerFactory: newLoggerFactory(logger.GetLogger()),
	}

	var udpMux ice.UDPMux
	if rtcConf.UDPPort != 0 {
		conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: int(rtcConf.UDPPort)})
		if err != nil {
			return nil, errors.Wrapf(err, "could not listen on udp port %d", rtcConf.UDPPort)
		}
		udpMux = webrtc.NewICEUDPMux(s.LoggerFactory.NewLogger("udpmux"), conn)
		s.SetICEUDPMux(udpMux)
	} else if rtcConf.ICEPortRangeStart != 0 && rtcConf.ICEPortRangeEnd != 0 {
		if err := s.SetEphemeralUDPPortRange(uint16(rtcConf.ICEPortRangeStart), uint16(rtcConf.ICEPortRangeEnd)); err != nil {
			return nil, err
		}
	}

	iceUrls := make([]string, 0, len(rtcConf.STUNServers))
	for _, stunServer := range rtcConf.STUNServers {
		iceUrls = append(iceUrls, fmt.Sprintf("stun:%s", stunServer))
	}
	if len(iceUrls) > 0 {
		c.ICEServers = append(c.ICEServers, webrtc.ICEServer{URLs: iceUrls})
	}
	for _, turn := range rtcConf.TURNServers {
		protocol := turn.Protocol
		if protocol == "" {
			protocol = "udp"
		}
		scheme := "turn"
		if protocol == "tls" {
			scheme, protocol = "turns", "tcp"
		}
		c.ICEServers = append(c.ICEServers, webrtc.ICEServer{
			URLs:           []string{fmt.Sprintf("%s:%s:%d?transport=%s", scheme, turn.Host, turn.Port, protocol)},
			Username:       turn.Username,
			Credential:     turn.Credential,
			CredentialType: webrtc.ICECredentialTypePassword,
		})
	}

	if rtcConf.UseExternalIP && rtcConf.NodeIP != "" {
		s.SetNAT1To1IPs([]string{rtcConf.NodeIP}, webrtc.ICECandidateTypeHost)
	}
	s.SetLite(rtcConf.UseICELite)
	s.SetICETimeouts(rtcConf.ICEDisconnectedTimeout, rtcConf.ICEFailedTimeout, rtcConf.ICEKeepaliveInterval)

	return &WebRTCConfig{
		Configuration: c,
		SettingEngine: s,
		EnabledCodecs: rtcConf.EnabledCodecs,
		GatherTimeout: rtcConf.GatherTimeout,
		udpMux:        udpMux,
	}, nil
}

// Close releases the shared UDP socket, if one was opened. Later calls return the first result.
func (c *WebRTCConfig) Close() error {
	c.closeOnce.Do(func() {
		if c.udpMux != nil {
			c.closeErr = c.udpMux.Close()
		}
	})
	return c.closeErr
}
