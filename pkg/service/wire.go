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

//go:build wireinject
// +build wireinject

package service

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/meshsignal/pkg/config"
	"github.com/livekit/meshsignal/pkg/rtc"
	"github.com/livekit/meshsignal/pkg/rtc/types"
)

func InitializeServer(conf *config.Config) (*SignalServer, func(), error) {
	wire.Build(
		NewLocalNode,
		createRedisClient,
		createPresenceStore,
		NewPresenceRecorder,
		getLogger,
		rtc.NewRegistry,
		createWebRTCConfig,
		createConnectionFactory,
		rtc.NewTrackForwarder,
		createLifecycleManager,
		rtc.NewSignalRouter,
		NewSignalService,
		NewEventsService,
		NewSignalServer,
	)
	return &SignalServer{}, func() {}, nil
}

func InitializeRedisClient(conf *config.Config) (*redis.Client, func(), error) {
	wire.Build(createRedisClient)
	return nil, func() {}, nil
}

func getLogger() logger.Logger {
	return logger.GetLogger()
}

func createConnectionFactory(conf *rtc.WebRTCConfig) (types.ConnectionFactory, error) {
	return rtc.NewPCTransportFactory(conf)
}

func createWebRTCConfig(conf *config.Config) (*rtc.WebRTCConfig, func(), error) {
	rtcConfig, err := rtc.NewWebRTCConfig(conf)
	if err != nil {
		return nil, nil, err
	}
	return rtcConfig, func() {
		_ = rtcConfig.Close()
	}, nil
}

func createLifecycleManager(registry *rtc.Registry, l logger.Logger) (*rtc.LifecycleManager, func()) {
	lifecycle := rtc.NewLifecycleManager(registry, l)
	return lifecycle, lifecycle.Close
}
