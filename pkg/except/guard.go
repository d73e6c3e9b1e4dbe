// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package except

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Exit is os.Exit, swapped out by tests so an uncaught exception can be
// observed without ending the test binary.
var Exit = os.Exit

// Guard runs body as the top of a goroutine's exception-handling stack:
// an exception that escapes every Try inside body is logged with its
// stack trace and the process exits nonzero, matching ava_throw's
// uncaught branch ("panic: uncaught %s: %s" followed by the trace, then
// abort).
func Guard(body func()) {
	exc := Try(body)
	if exc == nil {
		return
	}

	log.Errorf("panic: uncaught %s", exc.Error())
	log.Errorf("%s", exc.Stack)
	Exit(1)
}
