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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/livekit/meshsignal/pkg/config"
	"github.com/livekit/meshsignal/pkg/service"
)

func printPorts(c *cli.Context) error {
	conf, err := getConfig(c)
	if err != nil {
		return err
	}
	writePorts(os.Stdout, conf)
	return nil
}

func writePorts(w io.Writer, conf *config.Config) {
	tcpPorts := []string{fmt.Sprintf("%d - HTTP signaling", conf.Port)}
	if conf.PrometheusPort != 0 {
		tcpPorts = append(tcpPorts, fmt.Sprintf("%d - Prometheus metrics", conf.PrometheusPort))
	}

	var udpPorts []string
	if conf.RTC.UDPPort != 0 {
		udpPorts = append(udpPorts, fmt.Sprintf("%d - ICE/UDP", conf.RTC.UDPPort))
	} else if conf.RTC.ICEPortRangeStart != 0 {
		udpPorts = append(udpPorts, fmt.Sprintf("%d-%d - ICE/UDP range", conf.RTC.ICEPortRangeStart, conf.RTC.ICEPortRangeEnd))
	} else {
		udpPorts = append(udpPorts, "ephemeral - ICE/UDP")
	}

	_, _ = fmt.Fprintln(w, "TCP Ports")
	for _, p := range tcpPorts {
		_, _ = fmt.Fprintln(w, p)
	}

	_, _ = fmt.Fprintln(w, "UDP Ports")
	for _, p := range udpPorts {
		_, _ = fmt.Fprintln(w, p)
	}
}

func listPeers(c *cli.Context) error {
	conf, err := getConfig(c)
	if err != nil {
		return err
	}

	rc, cleanup, err := service.InitializeRedisClient(conf)
	if err != nil {
		return err
	}
	defer cleanup()
	if rc == nil {
		return service.ErrRedisNotAvailable
	}

	ctx, cancel := context.WithTimeout(c.Context, 5*time.Second)
	defer cancel()
	peers, err := service.NewRedisPresenceStore(rc).ListPeers(ctx)
	if err != nil {
		return errors.Wrap(err, "list peers")
	}

	writePeerTable(os.Stdout, peers)
	return nil
}

func writePeerTable(w io.Writer, peers []*service.PeerPresence) {
	table := tablewriter.NewWriter(w)
	table.SetRowLine(true)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Identity", "Node", "Joined"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_RIGHT,
	})

	for _, p := range peers {
		table.Append([]string{
			p.Identity,
			p.NodeID,
			fmt.Sprintf("%s\n(%s)", p.JoinedAt.UTC().Format("2006-01-02 15:04:05"), humanize.Time(p.JoinedAt)),
		})
	}
	table.Render()
}

func generateConfig(_ *cli.Context) error {
	return writeDefaultConfig(os.Stdout)
}

func writeDefaultConfig(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&config.DefaultConfig); err != nil {
		return err
	}
	return encoder.Close()
}

func helpVerbose(c *cli.Context) error {
	generatedFlags, err := config.GenerateCLIFlags(baseFlags, false)
	if err != nil {
		return err
	}

	c.App.Flags = append(baseFlags, generatedFlags...)
	return cli.ShowAppHelp(c)
}
