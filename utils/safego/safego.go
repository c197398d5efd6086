/*
 * Copyright 2025 Inlet
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package safego

import (
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/inletio/inlet/utils/logger"
)

var startTime = time.Now()

// Recovery logs a recovered panic with its stack trace. With exit set it also
// reports total run time and terminates the process with a failure code; use
// it as the top-level deferred handler of a connector main.
func Recovery(exit bool) {
	if r := recover(); r != nil {
		logger.Error(r)
		for _, line := range strings.Split(string(debug.Stack()), "\n") {
			logger.Error(strings.ReplaceAll(line, "\t", ""))
		}
	}

	if exit {
		logger.Infof("Time of execution %v", time.Since(startTime).String())
		os.Exit(1)
	}
}
