// Copyright © 2026 Lattice Labs
//
// SPDX-License-Identifier: Apache-2.0
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

package facade

import (
	"context"

	"github.com/hyperledger/firefly-common/pkg/log"
	"github.com/latticebound/tvmabi/pkg/contract"
	"github.com/latticebound/tvmabi/pkg/funcid"
)

// FunctionString returns fn's canonical signature string for logging and
// diagnostics. If building the signature fails, the error is logged and
// the empty string is returned rather than propagated - this is a
// convenience for contexts (log lines, error messages) that already have
// no way to handle a second error.
func FunctionString(ctx context.Context, fn *contract.Function, v contract.Version) string {
	s, err := funcid.FunctionSignature(ctx, fn, v)
	if err != nil {
		log.L(ctx).Warnf("function signature build failed: %s", err)
		return ""
	}
	return s
}

// EventString is FunctionString's event counterpart.
func EventString(ctx context.Context, ev *contract.Event, v contract.Version) string {
	s, err := funcid.EventSignature(ctx, ev, v)
	if err != nil {
		log.L(ctx).Warnf("event signature build failed: %s", err)
		return ""
	}
	return s
}
