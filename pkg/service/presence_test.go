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
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/livekit/meshsignal/pkg/rtc"
	"github.com/livekit/meshsignal/pkg/rtc/types/typesfakes"
	"github.com/livekit/meshsignal/pkg/testutils"
)

func testPresenceStore(t *testing.T, store PresenceStore) {
	ctx := context.Background()
	joined := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, store.StorePeer(ctx, &PeerPresence{Identity: "bob", NodeID: "ND_1", JoinedAt: joined}))
	require.NoError(t, store.StorePeer(ctx, &PeerPresence{Identity: "alice", NodeID: "ND_1", JoinedAt: joined}))
	require.NoError(t, store.StorePeer(ctx, &PeerPresence{Identity: "alice", NodeID: "ND_2", JoinedAt: joined}))

	peers, err := store.ListPeers(ctx)
	require.NoError(t, err)
	require.Len(t, peers, 2)
	require.Equal(t, "alice", peers[0].Identity)
	require.Equal(t, "ND_2", peers[0].NodeID)
	require.True(t, joined.Equal(peers[0].JoinedAt))
	require.Equal(t, "bob", peers[1].Identity)

	require.NoError(t, store.DeletePeer(ctx, "alice"))
	require.NoError(t, store.DeletePeer(ctx, "unknown"))
	peers, err = store.ListPeers(ctx)
	require.NoError(t, err)
	require.Len(t, peers, 1)
	require.Equal(t, "bob", peers[0].Identity)
}

func TestLocalPresenceStore(t *testing.T) {
	testPresenceStore(t, NewLocalPresenceStore())
}

func TestRedisPresenceStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis test in short mode")
	}
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		addr = "localhost:6379"
	}
	rc := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rc.Close() })
	if err := rc.Ping(context.Background()).Err(); err != nil {
		t.Skip("redis not available:", err)
	}
	require.NoError(t, rc.Del(context.Background(), PeersKey).Err())
	t.Cleanup(func() { _ = rc.Del(context.Background(), PeersKey).Err() })

	testPresenceStore(t, NewRedisPresenceStore(rc))
}

func TestPresenceRecorder(t *testing.T) {
	registry := rtc.NewRegistry()
	store := NewLocalPresenceStore()
	node := &LocalNode{ID: "ND_test"}
	recorder := NewPresenceRecorder(registry, store, node)

	listIdentities := func() []string {
		peers, err := store.ListPeers(context.Background())
		require.NoError(t, err)
		identities := make([]string, 0, len(peers))
		for _, p := range peers {
			identities = append(identities, p.Identity)
		}
		return identities
	}

	registry.UpsertServerConnection("alice", &typesfakes.FakeConnection{})
	registry.UpsertServerConnection("bob", &typesfakes.FakeConnection{})
	testutils.WithTimeout(t, func() string {
		if identities := listIdentities(); len(identities) != 2 {
			return fmt.Sprintf("expected two peers, got %v", identities)
		}
		return ""
	})

	peers, err := store.ListPeers(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ND_test", peers[0].NodeID)
	require.False(t, peers[0].JoinedAt.IsZero())

	registry.Remove("alice")
	testutils.WithTimeout(t, func() string {
		if identities := listIdentities(); len(identities) != 1 || identities[0] != "bob" {
			return fmt.Sprintf("expected only bob, got %v", identities)
		}
		return ""
	})

	// peers still connected at shutdown are withdrawn
	recorder.Stop()
	require.Empty(t, listIdentities())

	// later changes are ignored
	registry.UpsertServerConnection("carol", &typesfakes.FakeConnection{})
	recorder.Stop()
	require.Empty(t, listIdentities())
}
