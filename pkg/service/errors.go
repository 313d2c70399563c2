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
	"errors"
	"net/http"

	"github.com/livekit/psrpc"
)

var (
	ErrMalformedRequest  = psrpc.NewErrorf(psrpc.MalformedRequest, "malformed request body")
	ErrRequestTooLarge   = psrpc.NewErrorf(psrpc.MalformedRequest, "request body too large")
	ErrServerRunning     = errors.New("server is already running")
	ErrServerStopped     = errors.New("server has been stopped")
	ErrRedisNotAvailable = psrpc.NewErrorf(psrpc.Unavailable, "redis is not configured")
)

// httpStatus maps an error returned by the signaling core to the response status
func httpStatus(err error) int {
	var pe psrpc.Error
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError
	}
	switch pe.Code() {
	case psrpc.InvalidArgument, psrpc.MalformedRequest:
		return http.StatusBadRequest
	case psrpc.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
