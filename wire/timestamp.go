/*
Copyright 2022 Lee R. Boynton

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package wire

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	smithytime "github.com/aws/smithy-go/time"
)

type TimestampFormat int

const (
	DateTime TimestampFormat = iota + 1
	HTTPDate
	EpochSeconds
)

func (f TimestampFormat) String() string {
	switch f {
	case DateTime:
		return "date-time"
	case HTTPDate:
		return "http-date"
	case EpochSeconds:
		return "epoch-seconds"
	}
	return "unknown"
}

// FormatEpochSeconds renders seconds since the epoch with millisecond precision. Whole seconds
// have no fractional part, and trailing zeros are dropped: 1700000000.5, not 1700000000.500.
func FormatEpochSeconds(t time.Time) string {
	ms := t.Round(time.Millisecond).UnixMilli()
	if ms%1000 == 0 {
		return strconv.FormatInt(ms/1000, 10)
	}
	return strconv.FormatFloat(float64(ms)/1e3, 'f', -1, 64)
}

// ParseEpochSeconds accepts integral or fractional seconds since the epoch, rounding to the nearest
// millisecond.
func ParseEpochSeconds(s string) (time.Time, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, invalid("epoch-seconds timestamp", s, err)
	}
	return time.UnixMilli(int64(math.Round(f * 1e3))).UTC(), nil
}

func FormatTimestamp(t time.Time, format TimestampFormat) string {
	switch format {
	case DateTime:
		return smithytime.FormatDateTime(t)
	case HTTPDate:
		return smithytime.FormatHTTPDate(t)
	default:
		return FormatEpochSeconds(t)
	}
}

func ParseTimestamp(s string, format TimestampFormat) (time.Time, error) {
	var t time.Time
	var err error
	switch format {
	case DateTime:
		t, err = smithytime.ParseDateTime(s)
	case HTTPDate:
		t, err = smithytime.ParseHTTPDate(s)
	default:
		return ParseEpochSeconds(s)
	}
	if err != nil {
		return time.Time{}, invalid(format.String()+" timestamp", s, err)
	}
	return t.UTC(), nil
}

// EncodeTimestamp is the document form of a timestamp: a JSON number for epoch-seconds, a string
// otherwise.
func EncodeTimestamp(t time.Time, format TimestampFormat) any {
	if format == EpochSeconds {
		return json.Number(FormatEpochSeconds(t))
	}
	return FormatTimestamp(t, format)
}

// AsTimestamp decodes the document form of a timestamp.
func AsTimestamp(v any, format TimestampFormat) (time.Time, error) {
	if format == EpochSeconds {
		switch n := v.(type) {
		case json.Number:
			return ParseEpochSeconds(n.String())
		case float64:
			return ParseEpochSeconds(strconv.FormatFloat(n, 'f', -1, 64))
		}
		return time.Time{}, invalid("epoch-seconds timestamp", v, nil)
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, invalid(format.String()+" timestamp", v, nil)
	}
	return ParseTimestamp(s, format)
}
