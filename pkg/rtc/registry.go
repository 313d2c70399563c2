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
	"sort"
	"sync"
	"time"

	"github.com/livekit/meshsignal/pkg/rtc/types"
	"github.com/livekit/meshsignal/pkg/telemetry/prometheus"
)

type MembershipEvent struct {
	Identity types.ParticipantIdentity
	Joined   bool
	JoinedAt time.Time
}

// Registry holds every peer record and direct link. All state sits behind one lock so that
// membership, links and tracks change together.
type Registry struct {
	lock     sync.RWMutex
	peers    map[types.ParticipantIdentity]*peer
	edges    map[EdgeKey]*Edge
	incident map[types.ParticipantIdentity]map[EdgeKey]struct{}

	// held from inside a mutation until its listeners return, keeps notifications in mutation order
	notifyLock sync.Mutex
	listeners  []func(MembershipEvent)
}

func NewRegistry() *Registry {
	return &Registry{
		peers:    make(map[types.ParticipantIdentity]*peer),
		edges:    make(map[EdgeKey]*Edge),
		incident: make(map[types.ParticipantIdentity]map[EdgeKey]struct{}),
	}
}

// OnMembershipChanged registers f to be called when an identity joins or leaves. f runs outside the registry lock.
func (r *Registry) OnMembershipChanged(f func(event MembershipEvent)) {
	r.notifyLock.Lock()
	defer r.notifyLock.Unlock()
	r.listeners = append(r.listeners, f)
}

// UpsertServerConnection registers identity with conn, or swaps in conn as its server connection.
// Links and contributed tracks of an existing record are kept. The replaced connection is returned for closing.
func (r *Registry) UpsertServerConnection(identity types.ParticipantIdentity, conn types.Connection) (types.Connection, bool) {
	r.lock.Lock()
	p, ok := r.peers[identity]
	if ok {
		prev := p.conn
		p.conn = conn
		r.lock.Unlock()
		return prev, false
	}

	p = newPeer(identity, conn)
	r.peers[identity] = p
	notify := r.beginNotifyLocked()
	r.lock.Unlock()

	notify(MembershipEvent{Identity: identity, Joined: true, JoinedAt: p.joinedAt})
	return nil, true
}

func (r *Registry) Get(identity types.ParticipantIdentity) (PeerState, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	p, ok := r.peers[identity]
	if !ok {
		return PeerState{}, false
	}
	return r.stateLocked(p), true
}

func (r *Registry) Has(identity types.ParticipantIdentity) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	_, ok := r.peers[identity]
	return ok
}

func (r *Registry) ServerConnection(identity types.ParticipantIdentity) (types.Connection, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	p, ok := r.peers[identity]
	if !ok {
		return nil, false
	}
	return p.conn, true
}

// Remove deletes identity's record together with every incident link
func (r *Registry) Remove(identity types.ParticipantIdentity) (PeerState, []*Edge, bool) {
	return r.remove(identity, nil)
}

// RemoveIfServerConnection removes identity only while conn is still its server connection
func (r *Registry) RemoveIfServerConnection(identity types.ParticipantIdentity, conn types.Connection) (PeerState, []*Edge, bool) {
	return r.remove(identity, conn)
}

func (r *Registry) remove(identity types.ParticipantIdentity, conn types.Connection) (PeerState, []*Edge, bool) {
	r.lock.Lock()
	p, ok := r.peers[identity]
	if !ok || (conn != nil && p.conn != conn) {
		r.lock.Unlock()
		return PeerState{}, nil, false
	}

	state := r.stateLocked(p)
	var removed []*Edge
	for key := range r.incident[identity] {
		removed = append(removed, r.edges[key])
		r.removeEdgeLocked(key)
	}
	delete(r.incident, identity)
	delete(r.peers, identity)
	notify := r.beginNotifyLocked()
	r.lock.Unlock()

	notify(MembershipEvent{Identity: identity, Joined: false, JoinedAt: p.joinedAt})
	return state, removed, true
}

// AddEdge links initiator and target through conn. Both must be registered.
// An existing link for the pair is replaced and returned for closing.
func (r *Registry) AddEdge(initiator, target types.ParticipantIdentity, conn types.Connection) (*Edge, *Edge, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.peers[target]; !ok {
		return nil, nil, ErrTargetNotFound
	}
	if _, ok := r.peers[initiator]; !ok {
		return nil, nil, errRequesterNotFound(string(initiator))
	}

	key := NewEdgeKey(initiator, target)
	prev := r.edges[key]
	edge := &Edge{
		Key:       key,
		Conn:      conn,
		CreatedAt: time.Now(),
		Initiator: initiator,
	}
	r.edges[key] = edge
	for _, identity := range []types.ParticipantIdentity{initiator, target} {
		if r.incident[identity] == nil {
			r.incident[identity] = make(map[EdgeKey]struct{})
		}
		r.incident[identity][key] = struct{}{}
	}
	prometheus.SetMeshSize(len(r.peers), len(r.edges))
	return edge, prev, nil
}

func (r *Registry) GetEdge(x, y types.ParticipantIdentity) (*Edge, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	edge, ok := r.edges[NewEdgeKey(x, y)]
	return edge, ok
}

// RemoveEdge removes the link at key if it is still carried by conn. A nil conn removes unconditionally.
func (r *Registry) RemoveEdge(key EdgeKey, conn types.Connection) (*Edge, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	edge, ok := r.edges[key]
	if !ok || (conn != nil && edge.Conn != conn) {
		return nil, false
	}
	r.removeEdgeLocked(key)
	prometheus.SetMeshSize(len(r.peers), len(r.edges))
	return edge, true
}

func (r *Registry) EdgesOf(identity types.ParticipantIdentity) []*Edge {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.edgesOfLocked(identity)
}

// AddTrack records track as contributed by identity when it arrived on identity's current server connection.
// It returns the links to forward the track on; ok is false for unknown identities and superseded connections.
func (r *Registry) AddTrack(identity types.ParticipantIdentity, conn types.Connection, track types.MediaTrack) (edges []*Edge, added bool, ok bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	p, found := r.peers[identity]
	if !found || p.conn != conn {
		return nil, false, false
	}
	added = p.addTrack(track)
	return r.edgesOfLocked(identity), added, true
}

func (r *Registry) Tracks(identity types.ParticipantIdentity) []types.MediaTrack {
	r.lock.RLock()
	defer r.lock.RUnlock()

	p, ok := r.peers[identity]
	if !ok {
		return nil
	}
	return p.trackList()
}

// Identities returns every registered identity, sorted
func (r *Registry) Identities() []types.ParticipantIdentity {
	return r.OtherIdentities("")
}

// OtherIdentities returns every registered identity except exclude, sorted
func (r *Registry) OtherIdentities(exclude types.ParticipantIdentity) []types.ParticipantIdentity {
	r.lock.RLock()
	identities := make([]types.ParticipantIdentity, 0, len(r.peers))
	for identity := range r.peers {
		if identity != exclude {
			identities = append(identities, identity)
		}
	}
	r.lock.RUnlock()

	sort.Slice(identities, func(i, j int) bool { return identities[i] < identities[j] })
	return identities
}

func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.peers)
}

func (r *Registry) EdgeCount() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.edges)
}

// Clear empties the registry and returns what it held
func (r *Registry) Clear() ([]PeerState, []*Edge) {
	r.lock.Lock()
	states := make([]PeerState, 0, len(r.peers))
	events := make([]MembershipEvent, 0, len(r.peers))
	for _, p := range r.peers {
		states = append(states, r.stateLocked(p))
		events = append(events, MembershipEvent{Identity: p.identity, JoinedAt: p.joinedAt})
	}
	edges := make([]*Edge, 0, len(r.edges))
	for _, edge := range r.edges {
		edges = append(edges, edge)
	}
	r.peers = make(map[types.ParticipantIdentity]*peer)
	r.edges = make(map[EdgeKey]*Edge)
	r.incident = make(map[types.ParticipantIdentity]map[EdgeKey]struct{})
	notify := r.beginNotifyLocked()
	r.lock.Unlock()

	notify(events...)
	return states, edges
}

func (r *Registry) removeEdgeLocked(key EdgeKey) {
	delete(r.edges, key)
	a, b := key.Identities()
	for _, identity := range []types.ParticipantIdentity{a, b} {
		if set, ok := r.incident[identity]; ok {
			delete(set, key)
			if len(set) == 0 {
				delete(r.incident, identity)
			}
		}
	}
}

func (r *Registry) edgesOfLocked(identity types.ParticipantIdentity) []*Edge {
	edges := make([]*Edge, 0, len(r.incident[identity]))
	for key := range r.incident[identity] {
		edges = append(edges, r.edges[key])
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Key.String() < edges[j].Key.String() })
	return edges
}

func (r *Registry) stateLocked(p *peer) PeerState {
	links := make([]types.ParticipantIdentity, 0, len(r.incident[p.identity]))
	for key := range r.incident[p.identity] {
		if other, ok := key.Other(p.identity); ok {
			links = append(links, other)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i] < links[j] })

	return PeerState{
		Identity: p.identity,
		Conn:     p.conn,
		Tracks:   p.trackList(),
		Links:    links,
		JoinedAt: p.joinedAt,
	}
}

// beginNotifyLocked takes the notify lock while the registry lock is still held, so listeners observe
// membership changes in the order they were applied. The returned func must be called exactly once.
func (r *Registry) beginNotifyLocked() func(events ...MembershipEvent) {
	prometheus.SetMeshSize(len(r.peers), len(r.edges))
	r.notifyLock.Lock()
	return func(events ...MembershipEvent) {
		defer r.notifyLock.Unlock()
		for _, event := range events {
			for _, f := range r.listeners {
				f(event)
			}
		}
	}
}
