// Package footstep generates footstep and foley animation events from the
// height of the foot joints over a sampled clip.
//
// Each foot is tracked by a small state machine. A foot is "down" below
// the down height and "up" above the upper limit. A plant is the frame where
// the foot goes from not-down to down; in normal mode the foot must have
// been up since its last plant, in shuffle mode it must have stayed low.
package footstep

import (
	"github.com/banshee-data/footfall/internal/animevent"
	"github.com/banshee-data/footfall/internal/skeleton"
	"github.com/banshee-data/footfall/internal/units"
)

// Generator is the plant detector for one foot joint in one mode.
type Generator struct {
	downHeight float64 // metres
	upperLimit float64 // metres
	joint      int
	event      animevent.Event
	shuffle    bool

	foleyEnabled bool
	foley        animevent.Event
	foleyDelay   float64 // seconds
}

// NewGenerator creates a detector for joint. Every plant emits a copy of
// template stamped with the plant time.
func NewGenerator(downHeight, upperLimit float64, joint int, template animevent.Event, shuffle bool) *Generator {
	return &Generator{
		downHeight: downHeight,
		upperLimit: upperLimit,
		joint:      joint,
		event:      template,
		shuffle:    shuffle,
	}
}

// SetFoley makes every plant also emit a copy of template, delayed by
// delaySeconds. An unconfigured template emits nothing.
func (g *Generator) SetFoley(template animevent.Event, delaySeconds float64) {
	g.foleyEnabled = true
	g.foley = template
	g.foleyDelay = delaySeconds
}

// Joint returns the tracked joint id.
func (g *Generator) Joint() int { return g.joint }

// Shuffle reports whether the generator detects shuffle plants.
func (g *Generator) Shuffle() bool { return g.shuffle }

// Detect returns the frame indices at which the foot plants. The first
// frame never plants; transitions are only seen between consecutive frames.
func (g *Generator) Detect(heights []float64) []int {
	if len(heights) == 0 {
		return nil
	}

	wasUp := heights[0] > g.upperLimit
	wasDown := heights[0] < g.downHeight

	var plants []int
	for i := 1; i < len(heights); i++ {
		h := heights[i]
		isDown := h < g.downHeight
		canEmit := (!g.shuffle && wasUp) || (g.shuffle && !wasUp)

		if !wasDown && isDown && canEmit {
			plants = append(plants, i)
		}

		// once above the upper limit the foot stays armed until it plants
		if isDown {
			wasUp = false
		} else {
			wasUp = wasUp || h > g.upperLimit
		}
		wasDown = isDown
	}
	return plants
}

// Populate appends the events for this foot to events and returns the
// extended slice. animationLength is the clip length in seconds, used to
// normalize the foley delay. A joint without samples adds nothing.
func (g *Generator) Populate(events []animevent.Event, animationLength float64, samples skeleton.Samples) []animevent.Event {
	heights, ok := samples.Heights(g.joint)
	if !ok {
		return events
	}

	n := float64(len(heights))
	for _, frame := range g.Detect(heights) {
		t := float64(frame) / n
		events = append(events, g.event.Stamp(t))

		if g.foleyEnabled && g.foley.IsConfigured() {
			delay := units.SecondsToNormalized(g.foleyDelay, animationLength)
			events = append(events, g.foley.Stamp(units.Clamp01(t+delay)))
		}
	}
	return events
}
