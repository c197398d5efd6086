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

package typeutils

import (
	"fmt"
	"strings"
	"time"
)

// accepted string layouts: 'T' or space separated, optional fractional
// seconds, optional zone offset. Order matters; first match wins.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	"2006/01/02",
}

func parseStringTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp string")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("value [%s] is not a recognized timestamp format", value)
}

// Time is a time.Time that accepts any recognized timestamp layout when
// decoding JSON, for sources that do not emit strict RFC 3339.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	parsed, err := parseStringTimestamp(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}

	t.Time = parsed
	return nil
}

func (t Time) Compare(u Time) int {
	return t.Time.Compare(u.Time)
}
