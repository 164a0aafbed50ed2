// Package sampler turns an animation clip into dense, root-relative joint
// samples at a fixed rate. The footstep generator consumes its output and
// never touches characters or clips directly.
package sampler

import (
	"context"
	"errors"
	"math"

	"github.com/banshee-data/footfall/internal/skeleton"
)

// FrameRate is the fixed sampling rate in frames per second.
const FrameRate = 30.0

var (
	// ErrInstantiate is returned when the character cannot be acquired.
	ErrInstantiate = errors.New("failed to instantiate character")
	// ErrMissingAnimationSet is returned when the character has no animation set.
	ErrMissingAnimationSet = errors.New("missing animation set")
	// ErrAnimationNotFound is returned when the clip is not in the animation set.
	ErrAnimationNotFound = errors.New("animation not found")
)

// Clip is an animation that can be evaluated at any time in seconds.
type Clip interface {
	// Length returns the clip duration in seconds.
	Length() float64
	// LocalPose writes every bone's parent-relative transform at time t
	// into out, which has one entry per skeleton bone.
	LocalPose(t float64, out []skeleton.Transform)
}

// AnimationSet resolves clips by name or path.
type AnimationSet interface {
	Clip(nameOrPath string) (Clip, bool)
}

// Character is the rig being sampled. Acquire pins the character for the
// duration of a sampling pass; the returned release must be called exactly
// once on every exit path.
type Character interface {
	Skeleton() *skeleton.Skeleton
	AnimationSet() AnimationSet
	Acquire() (release func(), err error)
}

// Request names the clip and joints to sample.
type Request struct {
	AnimationPath string
	AnimationName string
	Joints        []int
}

// Result holds the samples for every requested joint that exists on the
// skeleton, one per frame.
type Result struct {
	Samples       skeleton.Samples
	LengthSeconds float64
	FrameCount    int
}

// Sampler produces joint samples for one clip. Implementations must be
// deterministic: the same character, clip and joints yield the same samples.
type Sampler interface {
	Sample(ctx context.Context, c Character, req Request) (Result, error)
}

// Func adapts a function to the Sampler interface.
type Func func(ctx context.Context, c Character, req Request) (Result, error)

// Sample calls f.
func (f Func) Sample(ctx context.Context, c Character, req Request) (Result, error) {
	return f(ctx, c, req)
}

// FrameCount returns the number of frames sampled for a clip of the given
// length: round(length*FrameRate), at least one.
func FrameCount(lengthSeconds float64) int {
	n := int(math.Round(lengthSeconds * FrameRate))
	if n < 1 {
		return 1
	}
	return n
}
