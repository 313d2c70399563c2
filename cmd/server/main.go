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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/meshsignal/pkg/config"
	"github.com/livekit/meshsignal/pkg/service"
	"github.com/livekit/meshsignal/pkg/telemetry/prometheus"
	"github.com/livekit/meshsignal/version"
)

const devUDPPort = 7882

var baseFlags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:  "bind",
		Usage: "IP address to listen on, use flag multiple times to specify multiple addresses",
	},
	&cli.UintFlag{
		Name:    "port",
		Usage:   "port for the HTTP signaling service",
		EnvVars: []string{"MESHSIGNAL_PORT"},
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "path to config file",
	},
	&cli.StringFlag{
		Name:    "config-body",
		Usage:   "config in YAML, typically passed in as an environment var in a container",
		EnvVars: []string{"MESHSIGNAL_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "node-ip",
		Usage:   "IP address of the current node, used to advertise to clients. Automatically determined by default",
		EnvVars: []string{"NODE_IP"},
	},
	&cli.UintFlag{
		Name:    "udp-port",
		Usage:   "single UDP port to use for WebRTC traffic",
		EnvVars: []string{"UDP_PORT"},
	},
	&cli.StringFlag{
		Name:    "redis-host",
		Usage:   "host (incl. port) to redis server, enables shared peer presence",
		EnvVars: []string{"REDIS_HOST"},
	},
	&cli.StringFlag{
		Name:    "redis-password",
		Usage:   "password to redis",
		EnvVars: []string{"REDIS_PASSWORD"},
	},
	&cli.StringFlag{
		Name:    "static-dir",
		Usage:   "directory served under /static/",
		EnvVars: []string{"MESHSIGNAL_STATIC_DIR"},
	},
	&cli.StringFlag{
		Name:    "tls-cert",
		Usage:   "tls cert file for the signaling service",
		EnvVars: []string{"MESHSIGNAL_TLS_CERT"},
	},
	&cli.StringFlag{
		Name:    "tls-key",
		Usage:   "tls key file for the signaling service",
		EnvVars: []string{"MESHSIGNAL_TLS_KEY"},
	},
	&cli.BoolFlag{
		Name:  "dev",
		Usage: "sets log-level to debug, console formatter and a single UDP port. insecure for production",
	},
	&cli.BoolFlag{
		Name:   "disable-strict-config",
		Usage:  "disables strict config parsing",
		Hidden: true,
	},
}

func main() {
	generatedFlags, err := config.GenerateCLIFlags(baseFlags, true)
	if err != nil {
		fmt.Println(err)
	}

	app := &cli.App{
		Name:        "meshsignal",
		Usage:       "Signaling and forwarding server for WebRTC mesh sessions",
		Description: "run without subcommands to start the server",
		Flags:       append(baseFlags, generatedFlags...),
		Action:      startServer,
		Commands: []*cli.Command{
			{
				Name:   "ports",
				Usage:  "print ports that server is configured to use",
				Action: printPorts,
			},
			{
				Name:   "list-peers",
				Usage:  "list peers recorded in the shared presence store",
				Action: listPeers,
			},
			{
				Name:   "generate-config",
				Usage:  "print the default configuration as YAML",
				Action: generateConfig,
			},
			{
				Name:   "help-verbose",
				Usage:  "prints app help, including all generated configuration flags",
				Action: helpVerbose,
			},
		},
		Version: version.Version,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getConfig(c *cli.Context) (*config.Config, error) {
	confString, err := getConfigString(c.String("config"), c.String("config-body"))
	if err != nil {
		return nil, err
	}

	conf, err := config.NewConfig(confString, !c.Bool("disable-strict-config"), c, baseFlags)
	if err != nil {
		return nil, err
	}
	config.InitLoggerFromConfig(&conf.Logging)

	if confString == "" && conf.Development {
		applyDevDefaults(conf)
		logger.Infow("starting in development mode", "udpPort", conf.RTC.UDPPort)
	}
	return conf, nil
}

// applyDevDefaults switches to a single UDP port and loopback binding unless those were configured
func applyDevDefaults(conf *config.Config) {
	if conf.RTC.UDPPort == 0 {
		conf.RTC.UDPPort = devUDPPort
		conf.RTC.ICEPortRangeStart = 0
		conf.RTC.ICEPortRangeEnd = 0
	}
	if conf.BindAddresses == nil {
		conf.BindAddresses = []string{
			"127.0.0.1",
			"::1",
		}
	}
}

func startServer(c *cli.Context) error {
	conf, err := getConfig(c)
	if err != nil {
		return err
	}
	if err := conf.ResolveNodeIP(); err != nil {
		return err
	}

	server, cleanup, err := service.InitializeServer(conf)
	if err != nil {
		return err
	}
	defer cleanup()
	prometheus.Init(server.Node().ID)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		sig := <-sigChan
		logger.Infow("exit requested, shutting down", "signal", sig)
		server.Stop()
	}()

	return server.Start()
}

func getConfigString(configFile string, inConfigBody string) (string, error) {
	if inConfigBody != "" || configFile == "" {
		return inConfigBody, nil
	}

	outConfigBody, err := os.ReadFile(configFile)
	if err != nil {
		return "", err
	}

	return string(outConfigBody), nil
}
