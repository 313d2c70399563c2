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

package service

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/livekit/protocol/logger"
	"github.com/livekit/protocol/utils"

	"github.com/livekit/meshsignal/pkg/config"
)

// LocalNode identifies this server process
type LocalNode struct {
	ID        string
	IP        string
	StartedAt time.Time
}

func NewLocalNode(conf *config.Config) *LocalNode {
	return &LocalNode{
		ID:        utils.NewGuid(utils.NodePrefix),
		IP:        conf.RTC.NodeIP,
		StartedAt: time.Now(),
	}
}

// createRedisClient returns nil when redis is not configured
func createRedisClient(conf *config.Config) (*redis.Client, func(), error) {
	if !conf.Redis.IsConfigured() {
		return nil, func() {}, nil
	}
	rc, err := NewRedisClient(&conf.Redis)
	if err != nil {
		return nil, nil, err
	}
	return rc, func() {
		_ = rc.Close()
	}, nil
}

func NewRedisClient(conf *config.RedisConfig) (*redis.Client, error) {
	var tlsConfig *tls.Config
	if conf.UseTLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	logger.Infow("using redis", "addr", conf.Address)
	rc := redis.NewClient(&redis.Options{
		Addr:      conf.Address,
		Username:  conf.Username,
		Password:  conf.Password,
		DB:        conf.DB,
		TLSConfig: tlsConfig,
	})
	if err := rc.Ping(context.Background()).Err(); err != nil {
		_ = rc.Close()
		return nil, errors.Wrap(err, "unable to connect to redis")
	}
	return rc, nil
}

func createPresenceStore(rc *redis.Client) PresenceStore {
	if rc != nil {
		return NewRedisPresenceStore(rc)
	}
	return NewLocalPresenceStore()
}
