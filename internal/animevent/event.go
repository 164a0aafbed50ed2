// Package animevent defines the timed markers embedded in animation clips
// and the helpers that order, filter and compare them.
package animevent

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Unplaced is the start/end time of a template that has not been stamped
// onto a clip yet.
const Unplaced = -1.0

// Event types emitted by the footstep generator.
const (
	TypeFootstep = "footstep"
	TypeFoley    = "foley"
)

// ErrInvalidRange is returned by Validate when a placed event ends before it
// starts.
var ErrInvalidRange = errors.New("event end time precedes start time")

// Event is a single timed marker on an animation clip. Times are normalized
// to [0,1] along the clip. Offset and Direction are relative to BoneName
// when one is set.
type Event struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Type      string  `json:"type"`
	Parameter string  `json:"parameter,omitempty"`
	BoneName  string  `json:"bone_name,omitempty"`
	Offset    r3.Vec  `json:"offset"`
	Direction r3.Vec  `json:"direction"`
	Model     string  `json:"model,omitempty"`
}

// NewTemplate returns an unplaced event of the given type.
func NewTemplate(eventType, parameter string) Event {
	return Event{
		StartTime: Unplaced,
		EndTime:   Unplaced,
		Type:      eventType,
		Parameter: parameter,
	}
}

// Stamp returns a copy of e placed as an instantaneous event at t.
func (e Event) Stamp(t float64) Event {
	e.StartTime = t
	e.EndTime = t
	return e
}

// IsConfigured reports whether the template names an event type.
func (e Event) IsConfigured() bool {
	return e.Type != ""
}

// IsPlaced reports whether the event has been stamped onto a clip.
func (e Event) IsPlaced() bool {
	return e.StartTime >= 0
}

// Validate checks start <= end for placed events.
func (e Event) Validate() error {
	if e.StartTime >= 0 && e.EndTime >= 0 && e.StartTime > e.EndTime {
		return fmt.Errorf("%w: start %.4f, end %.4f", ErrInvalidRange, e.StartTime, e.EndTime)
	}
	return nil
}

func (e Event) String() string {
	if e.Parameter == "" {
		return fmt.Sprintf("%s@%.4f[%s]", e.Type, e.StartTime, e.BoneName)
	}
	return fmt.Sprintf("%s(%s)@%.4f[%s]", e.Type, e.Parameter, e.StartTime, e.BoneName)
}

// Content is an animation clip's event collection.
type Content struct {
	Name   string  `json:"name"`
	Path   string  `json:"path,omitempty"`
	Events []Event `json:"events"`
}

// Append adds events to the end of the collection. Existing events are
// neither deduplicated nor merged.
func (c *Content) Append(events ...Event) {
	c.Events = append(c.Events, events...)
}

// StableSortByStart sorts events ascending by StartTime, keeping the
// relative order of events with equal start times.
func StableSortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime < events[j].StartTime
	})
}

// Sorted returns a stably sorted copy of events.
func Sorted(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	StableSortByStart(out)
	return out
}

// Equal reports whether a and b hold the same events once sorted by start
// time. It decides whether an event list needs to be written back.
func Equal(a, b []Event) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := Sorted(a), Sorted(b)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}
