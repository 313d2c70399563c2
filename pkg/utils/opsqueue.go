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

package utils

import (
	"sync"

	"github.com/frostbyte73/core"
	"github.com/gammazero/deque"

	"github.com/livekit/protocol/logger"
)

// OpsQueue runs ops one at a time in submission order. It is unbounded, an op is never dropped while the queue is running.
type OpsQueue struct {
	logger logger.Logger
	name   string

	lock      sync.Mutex
	ops       *deque.Deque[func()]
	wake      chan struct{}
	isStarted bool
	stopped   core.Fuse
	done      core.Fuse
}

func NewOpsQueue(logger logger.Logger, name string) *OpsQueue {
	return &OpsQueue{
		logger: logger,
		name:   name,
		ops:    deque.New[func()](),
		wake:   make(chan struct{}, 1),
	}
}

func (oq *OpsQueue) SetLogger(logger logger.Logger) {
	oq.lock.Lock()
	defer oq.lock.Unlock()
	oq.logger = logger
}

func (oq *OpsQueue) Start() {
	oq.lock.Lock()
	defer oq.lock.Unlock()
	if oq.isStarted || oq.stopped.IsBroken() {
		return
	}
	oq.isStarted = true
	go oq.process()
}

// Stop rejects new ops and blocks until already queued ops have run.
// Must not be called from inside an op.
func (oq *OpsQueue) Stop() {
	oq.lock.Lock()
	started := oq.isStarted
	oq.stopped.Break()
	oq.lock.Unlock()

	if !started {
		oq.done.Break()
		return
	}
	<-oq.done.Watch()
}

func (oq *OpsQueue) Enqueue(op func()) {
	oq.lock.Lock()
	if oq.stopped.IsBroken() {
		oq.lock.Unlock()
		oq.logger.Debugw("ops queue stopped, dropping op", "name", oq.name)
		return
	}
	oq.ops.PushBack(op)
	oq.lock.Unlock()

	select {
	case oq.wake <- struct{}{}:
	default:
	}
}

func (oq *OpsQueue) Len() int {
	oq.lock.Lock()
	defer oq.lock.Unlock()
	return oq.ops.Len()
}

func (oq *OpsQueue) process() {
	defer oq.done.Break()

	for {
		oq.lock.Lock()
		if oq.ops.Len() == 0 {
			stopped := oq.stopped.IsBroken()
			oq.lock.Unlock()
			if stopped {
				return
			}

			select {
			case <-oq.wake:
			case <-oq.stopped.Watch():
			}
			continue
		}
		op := oq.ops.PopFront()
		oq.lock.Unlock()

		oq.run(op)
	}
}

func (oq *OpsQueue) run(op func()) {
	defer func() {
		if r := recover(); r != nil {
			oq.logger.Errorw("ops queue op panicked", nil, "name", oq.name, "panic", r)
		}
	}()
	op()
}
