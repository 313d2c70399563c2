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
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/meshsignal/pkg/rtc"
)

const (
	// PeersKey is a hash of identity => PeerPresence json
	PeersKey = "mesh_peers"

	presenceWriteTimeout = 2 * time.Second
)

type PeerPresence struct {
	Identity string    `json:"identity"`
	NodeID   string    `json:"nodeId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// PresenceStore keeps a view of connected peers that outlives a single process
type PresenceStore interface {
	StorePeer(ctx context.Context, p *PeerPresence) error
	DeletePeer(ctx context.Context, identity string) error
	ListPeers(ctx context.Context) ([]*PeerPresence, error)
}

type LocalPresenceStore struct {
	lock  sync.RWMutex
	peers map[string]*PeerPresence
}

func NewLocalPresenceStore() *LocalPresenceStore {
	return &LocalPresenceStore{
		peers: make(map[string]*PeerPresence),
	}
}

func (s *LocalPresenceStore) StorePeer(_ context.Context, p *PeerPresence) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	stored := *p
	s.peers[p.Identity] = &stored
	return nil
}

func (s *LocalPresenceStore) DeletePeer(_ context.Context, identity string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.peers, identity)
	return nil
}

func (s *LocalPresenceStore) ListPeers(_ context.Context) ([]*PeerPresence, error) {
	s.lock.RLock()
	peers := make([]*PeerPresence, 0, len(s.peers))
	for _, p := range s.peers {
		stored := *p
		peers = append(peers, &stored)
	}
	s.lock.RUnlock()

	sortPresence(peers)
	return peers, nil
}

type RedisPresenceStore struct {
	rc *redis.Client
}

func NewRedisPresenceStore(rc *redis.Client) *RedisPresenceStore {
	return &RedisPresenceStore{rc: rc}
}

func (s *RedisPresenceStore) StorePeer(ctx context.Context, p *PeerPresence) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.rc.HSet(ctx, PeersKey, p.Identity, data).Err(); err != nil {
		return errors.Wrap(err, "could not store peer")
	}
	return nil
}

func (s *RedisPresenceStore) DeletePeer(ctx context.Context, identity string) error {
	if err := s.rc.HDel(ctx, PeersKey, identity).Err(); err != nil && err != redis.Nil {
		return errors.Wrap(err, "could not delete peer")
	}
	return nil
}

func (s *RedisPresenceStore) ListPeers(ctx context.Context) ([]*PeerPresence, error) {
	items, err := s.rc.HVals(ctx, PeersKey).Result()
	if err != nil && err != redis.Nil {
		return nil, errors.Wrap(err, "could not get peers")
	}

	peers := make([]*PeerPresence, 0, len(items))
	for _, item := range items {
		p := &PeerPresence{}
		if err := json.Unmarshal([]byte(item), p); err != nil {
			return nil, err
		}
		peers = append(peers, p)
	}
	sortPresence(peers)
	return peers, nil
}

// PresenceRecorder mirrors registry membership into a PresenceStore.
// Writes run on a single worker so they apply in membership order without blocking the registry.
type PresenceRecorder struct {
	store  PresenceStore
	nodeID string
	logger logger.Logger

	lock    sync.Mutex
	pool    *workerpool.WorkerPool
	stopped bool
	// identities this node wrote, removed again on Stop
	owned map[string]struct{}
}

func NewPresenceRecorder(registry *rtc.Registry, store PresenceStore, node *LocalNode) *PresenceRecorder {
	r := &PresenceRecorder{
		store:  store,
		nodeID: node.ID,
		logger: logger.GetLogger().WithComponent("presence"),
		pool:   workerpool.New(1),
		owned:  make(map[string]struct{}),
	}
	registry.OnMembershipChanged(r.onMembershipChanged)
	return r
}

func (r *PresenceRecorder) onMembershipChanged(event rtc.MembershipEvent) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.stopped {
		return
	}

	identity := string(event.Identity)
	if event.Joined {
		r.owned[identity] = struct{}{}
		p := &PeerPresence{Identity: identity, NodeID: r.nodeID, JoinedAt: event.JoinedAt}
		r.pool.Submit(func() {
			ctx, cancel := context.WithTimeout(context.Background(), presenceWriteTimeout)
			defer cancel()
			if err := r.store.StorePeer(ctx, p); err != nil {
				r.logger.Warnw("could not store peer presence", err, "participant", identity)
			}
		})
		return
	}

	delete(r.owned, identity)
	r.pool.Submit(func() {
		r.deletePeer(identity)
	})
}

// Stop waits for pending writes and removes the peers this node registered
func (r *PresenceRecorder) Stop() {
	r.lock.Lock()
	if r.stopped {
		r.lock.Unlock()
		return
	}
	r.stopped = true
	owned := r.owned
	r.owned = nil
	r.lock.Unlock()

	r.pool.StopWait()
	for identity := range owned {
		r.deletePeer(identity)
	}
}

func (r *PresenceRecorder) deletePeer(identity string) {
	ctx, cancel := context.WithTimeout(context.Background(), presenceWriteTimeout)
	defer cancel()
	if err := r.store.DeletePeer(ctx, identity); err != nil {
		r.logger.Warnw("could not delete peer presence", err, "participant", identity)
	}
}

func sortPresence(peers []*PeerPresence) {
	sort.Slice(peers, func(i, j int) bool { return peers[i].Identity < peers[j].Identity })
}
