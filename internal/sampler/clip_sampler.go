package sampler

import (
	"context"
	"fmt"

	"github.com/banshee-data/footfall/internal/monitoring"
	"github.com/banshee-data/footfall/internal/skeleton"
)

// ClipSampler evaluates the full pose of a clip at evenly spaced normalized
// times k/frameCount and records each requested joint relative to the root.
type ClipSampler struct{}

// NewClipSampler returns a ClipSampler.
func NewClipSampler() *ClipSampler {
	return &ClipSampler{}
}

// Sample implements Sampler. The character is acquired for the whole pass
// and released before returning, whether or not sampling succeeded.
func (s *ClipSampler) Sample(ctx context.Context, c Character, req Request) (Result, error) {
	release, err := c.Acquire()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInstantiate, err)
	}
	defer release()

	set := c.AnimationSet()
	if set == nil {
		return Result{}, ErrMissingAnimationSet
	}
	clip, ok := set.Clip(req.AnimationName)
	if !ok && req.AnimationPath != "" {
		clip, ok = set.Clip(req.AnimationPath)
	}
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrAnimationNotFound, req.AnimationName)
	}

	skel := c.Skeleton()
	if skel == nil {
		return Result{}, fmt.Errorf("%w: no skeleton", ErrInstantiate)
	}

	joints := make([]int, 0, len(req.Joints))
	for _, j := range req.Joints {
		if j < 0 || j >= skel.Len() {
			monitoring.Logf("sampler: joint %d out of range for %d-bone skeleton, not sampled", j, skel.Len())
			continue
		}
		joints = append(joints, j)
	}

	length := clip.Length()
	frames := FrameCount(length)
	samples := make(skeleton.Samples, len(joints))
	for _, j := range joints {
		samples[j] = make([]skeleton.Transform, 0, frames)
	}

	local := make([]skeleton.Transform, skel.Len())
	world := make([]skeleton.Transform, skel.Len())
	for k := 0; k < frames; k++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		t := float64(k) / float64(frames) * length
		clip.LocalPose(t, local)
		evaluatePose(skel, local, world)

		root := world[skel.Root()]
		for _, j := range joints {
			samples[j] = append(samples[j], world[j].RelativeTo(root))
		}
	}

	return Result{Samples: samples, LengthSeconds: length, FrameCount: frames}, nil
}

// evaluatePose concatenates local transforms down the hierarchy.
// Parents precede children, so one forward pass is enough.
func evaluatePose(skel *skeleton.Skeleton, local, world []skeleton.Transform) {
	for i := 0; i < skel.Len(); i++ {
		parent := skel.Bone(i).Parent
		if parent < 0 {
			world[i] = local[i]
			continue
		}
		world[i] = world[parent].Mul(local[i])
	}
}
