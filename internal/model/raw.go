package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawBar is one market-data record as received from the API. Nothing in it is trusted.
type RawBar struct {
	Time   FlexTime
	Open   FlexFloat
	High   FlexFloat
	Low    FlexFloat
	Close  FlexFloat
	Volume FlexFloat
}

type rawBarJSON struct {
	Time      FlexTime  `json:"time"`
	Timestamp FlexTime  `json:"timestamp"`
	Open      FlexFloat `json:"open"`
	High      FlexFloat `json:"high"`
	Low       FlexFloat `json:"low"`
	Close     FlexFloat `json:"close"`
	Volume    FlexFloat `json:"volume"`
}

// UnmarshalJSON accepts the time under "time" or "timestamp" (backend uses the latter).
// "time" wins when both are present. A record that is not a JSON object decodes to an empty RawBar.
func (r *RawBar) UnmarshalJSON(data []byte) error {
	var aux rawBarJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		*r = RawBar{}
		return nil
	}
	t := aux.Time
	if t.Kind == TimeInvalid {
		t = aux.Timestamp
	}
	*r = RawBar{
		Time:   t,
		Open:   aux.Open,
		High:   aux.High,
		Low:    aux.Low,
		Close:  aux.Close,
		Volume: aux.Volume,
	}
	return nil
}

// MarshalJSON writes the canonical "time" key.
func (r RawBar) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Time   FlexTime  `json:"time"`
		Open   FlexFloat `json:"open"`
		High   FlexFloat `json:"high"`
		Low    FlexFloat `json:"low"`
		Close  FlexFloat `json:"close"`
		Volume FlexFloat `json:"volume"`
	}{
		Time:   r.Time,
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: r.Volume,
	})
}

// TimeKind tells how a FlexTime was supplied.
type TimeKind int

const (
	TimeInvalid TimeKind = iota
	TimeNumber
	TimeString
)

// FlexTime is a timestamp given as epoch seconds, epoch milliseconds or a date string.
type FlexTime struct {
	Kind TimeKind
	Num  float64
	Str  string
}

// TimeFromNumber wraps an epoch value (seconds or milliseconds).
func TimeFromNumber(v float64) FlexTime { return FlexTime{Kind: TimeNumber, Num: v} }

// TimeFromString wraps a date/time string.
func TimeFromString(s string) FlexTime { return FlexTime{Kind: TimeString, Str: s} }

// UnmarshalJSON never fails: unsupported JSON types leave the time invalid.
func (f *FlexTime) UnmarshalJSON(data []byte) error {
	*f = FlexTime{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*f = TimeFromString(s)
		}
	case 'n', 't', 'f', '{', '[':
		// null, bool, object, array
	default:
		if v, err := strconv.ParseFloat(string(data), 64); err == nil {
			*f = TimeFromNumber(v)
		}
	}
	return nil
}

// MarshalJSON writes the number or string form; invalid times become null.
func (f FlexTime) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case TimeNumber:
		return json.Marshal(f.Num)
	case TimeString:
		return json.Marshal(f.Str)
	default:
		return []byte("null"), nil
	}
}

// FlexFloat parses a number or numeric string; anything else is 0.
type FlexFloat float64

// UnmarshalJSON never fails. Missing, null, garbage and non-finite values coerce to 0.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
	} else {
		s = string(data)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// Float64 returns the value, 0 when not finite.
func (f FlexFloat) Float64() float64 {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
