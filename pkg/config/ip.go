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

package config

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/pion/stun"
	"github.com/pkg/errors"

	"github.com/livekit/protocol/logger"
)

const stunAttempts = 3

func (conf *Config) determineIP() (string, error) {
	if conf.RTC.UseExternalIP {
		stunServers := conf.RTC.STUNServers
		if len(stunServers) == 0 {
			stunServers = DefaultStunServers
		}
		var err error
		for i := 0; i < stunAttempts; i++ {
			var ip string
			ip, err = GetExternalIP(context.Background(), stunServers[i%len(stunServers)])
			if err == nil {
				return ip, nil
			}
			logger.Debugw("could not resolve external IP", "error", err, "attempt", i+1)
			time.Sleep(500 * time.Millisecond)
		}
		return "", errors.Errorf("could not resolve external IP: %v", err)
	}

	// use local ip instead
	addresses, err := GetLocalIPAddresses(false)
	if len(addresses) > 0 {
		return addresses[0], err
	}
	return "", err
}

// GetLocalIPAddresses lists IPv4 interface addresses, skipping link-local ones.
// Loopback addresses are returned when asked for, or when nothing else is configured.
func GetLocalIPAddresses(includeLoopback bool) ([]string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, err
	}

	var routable, loopback []string
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		switch {
		case ip == nil, ip.IsLinkLocalUnicast():
		case ip.IsLoopback():
			loopback = append(loopback, ip.String())
		default:
			routable = append(routable, ip.String())
		}
	}

	if includeLoopback || len(routable) == 0 {
		routable = append(routable, loopback...)
	}
	if len(routable) == 0 {
		return nil, fmt.Errorf("could not find local IP address")
	}
	return routable, nil
}

// GetExternalIP asks a STUN server for the server reflexive IPv4 address of this host
func GetExternalIP(ctx context.Context, stunServer string) (string, error) {
	conn, err := net.Dial("udp4", stunServer)
	if err != nil {
		return "", err
	}
	c, err := stun.NewClient(conn)
	if err != nil {
		_ = conn.Close()
		return "", err
	}
	defer c.Close()

	message, err := stun.Build(stun.TransactionID, stun.BindingRequest)
	if err != nil {
		return "", err
	}

	// sufficiently large buffer to not block it
	ipChan := make(chan string, 20)
	errChan := make(chan error, 20)
	err = c.Start(message, func(res stun.Event) {
		if res.Error != nil {
			errChan <- res.Error
			return
		}

		var xorAddr stun.XORMappedAddress
		if err := xorAddr.GetFrom(res.Message); err != nil {
			errChan <- err
			return
		}
		if ip := xorAddr.IP.To4(); ip != nil {
			ipChan <- ip.String()
		}
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	select {
	case nodeIP := <-ipChan:
		return nodeIP, nil
	case stunErr := <-errChan:
		return "", errors.Wrap(stunErr, "could not determine public IP")
	case <-ctx.Done():
		return "", errors.New("could not determine public IP")
	}
}
