package footstep

import (
	"context"
	"errors"
	"fmt"

	"github.com/banshee-data/footfall/internal/animevent"
	"github.com/banshee-data/footfall/internal/monitoring"
	"github.com/banshee-data/footfall/internal/sampler"
	"github.com/banshee-data/footfall/internal/skeleton"
	"github.com/banshee-data/footfall/internal/units"
)

// ErrNoContent is returned when there is no event collection to append to.
var ErrNoContent = errors.New("no animation content")

// Foot describes one of the four detectors of a run.
type Foot struct {
	Label     string // "left", "right", "left shuffle", "right shuffle"
	JointName string
	Joint     int
	Shuffle   bool
	Plants    []int // frame indices
}

// Result summarises a successful run. Events are the generated events in
// the order they were appended.
type Result struct {
	Events        []animevent.Event
	LengthSeconds float64
	FrameCount    int
	DownHeight    float64 // metres
	UpperLimit    float64 // metres
	Feet          []Foot
	Samples       skeleton.Samples
}

// GenerateFootsteps samples animationName on c once for both feet, runs
// the left, right, left-shuffle and right-shuffle detectors, and appends
// their events to content sorted by start time. Ties keep emission order.
//
// Sampling failures (character cannot be acquired, no animation set,
// unknown animation) return an error and leave content untouched. A foot
// joint missing from the skeleton is not an error: that foot produces no
// events and a warning is logged.
func GenerateFootsteps(ctx context.Context, content *animevent.Content, c sampler.Character, animationName string, params Parameters, s sampler.Sampler) (*Result, error) {
	if content == nil {
		return nil, ErrNoContent
	}

	skel := c.Skeleton()
	leftJoint := resolveJoint(skel, params.LeftFootJoint(), "left")
	rightJoint := resolveJoint(skel, params.RightFootJoint(), "right")

	downHeight := units.MillimetersToMeters(params.FootHeightMM)
	upperLimit := units.MillimetersToMeters(params.FootShuffleUpperLimitMM)

	generators := []*Generator{
		NewGenerator(downHeight, upperLimit, leftJoint, params.Left.Footstep, false),
		NewGenerator(downHeight, upperLimit, rightJoint, params.Right.Footstep, false),
		NewGenerator(downHeight, upperLimit, leftJoint, params.Left.Shuffle, true),
		NewGenerator(downHeight, upperLimit, rightJoint, params.Right.Shuffle, true),
	}
	feet := []Foot{
		{Label: "left", JointName: params.LeftFootJoint(), Joint: leftJoint},
		{Label: "right", JointName: params.RightFootJoint(), Joint: rightJoint},
		{Label: "left shuffle", JointName: params.LeftFootJoint(), Joint: leftJoint, Shuffle: true},
		{Label: "right shuffle", JointName: params.RightFootJoint(), Joint: rightJoint, Shuffle: true},
	}

	ids := make([]int, len(generators))
	for i, g := range generators {
		ids[i] = g.Joint()
	}

	sampled, err := s.Sample(ctx, c, sampler.Request{
		AnimationPath: content.Path,
		AnimationName: animationName,
		Joints:        skeleton.UniqueSortedJoints(ids...),
	})
	if err != nil {
		return nil, fmt.Errorf("footstep generation for %q: %w", animationName, err)
	}

	if params.GenerateFoleys {
		foleyDelay := units.FramesToSeconds(params.FoleyDelayFrames, sampler.FrameRate)
		shuffleFoleyDelay := units.FramesToSeconds(params.ShuffleFoleyDelayFrames, sampler.FrameRate)
		generators[0].SetFoley(params.Left.Foley, foleyDelay)
		generators[1].SetFoley(params.Right.Foley, foleyDelay)
		generators[2].SetFoley(params.Left.ShuffleFoley, shuffleFoleyDelay)
		generators[3].SetFoley(params.Right.ShuffleFoley, shuffleFoleyDelay)
	}

	var events []animevent.Event
	for i, g := range generators {
		events = g.Populate(events, sampled.LengthSeconds, sampled.Samples)
		if heights, ok := sampled.Samples.Heights(g.Joint()); ok {
			feet[i].Plants = g.Detect(heights)
		}
	}
	animevent.StableSortByStart(events)
	content.Append(events...)

	monitoring.Logf("footstep: %q: %d events from %d frames (%.2fs)",
		animationName, len(events), sampled.FrameCount, sampled.LengthSeconds)

	return &Result{
		Events:        events,
		LengthSeconds: sampled.LengthSeconds,
		FrameCount:    sampled.FrameCount,
		DownHeight:    downHeight,
		UpperLimit:    upperLimit,
		Feet:          feet,
		Samples:       sampled.Samples,
	}, nil
}

func resolveJoint(skel *skeleton.Skeleton, name, side string) int {
	id, ok := skel.JointIDByName(name)
	if !ok {
		monitoring.Warnf("footstep: %s foot joint %q not found on skeleton, no %s footsteps will be generated", side, name, side)
	}
	return id
}
