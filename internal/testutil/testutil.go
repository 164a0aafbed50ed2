// Package testutil provides shared test utilities and fixtures.
//
// CannedSampler and StubCharacter stand in for a real rig so generator
// tests can drive exact height curves.
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/banshee-data/footfall/internal/sampler"
	"github.com/banshee-data/footfall/internal/skeleton"
)

// FootSkeleton returns a root with left and right toe joints named
// "Bip01 L Toe0" (id 1) and "Bip01 R Toe0" (id 2).
func FootSkeleton(t *testing.T) *skeleton.Skeleton {
	t.Helper()
	s, err := skeleton.New([]skeleton.Bone{
		{Name: "Bip01", Parent: -1},
		{Name: "Bip01 L Toe0", Parent: 0},
		{Name: "Bip01 R Toe0", Parent: 0},
	})
	if err != nil {
		t.Fatalf("FootSkeleton: %v", err)
	}
	return s
}

// StubCharacter is a sampler.Character with no clips of its own.
type StubCharacter struct {
	Skel       *skeleton.Skeleton
	AcquireErr error

	mu       sync.Mutex
	acquired int
	released int
}

func (c *StubCharacter) Skeleton() *skeleton.Skeleton       { return c.Skel }
func (c *StubCharacter) AnimationSet() sampler.AnimationSet { return nil }

// Acquire records the acquisition; the returned func records the release.
func (c *StubCharacter) Acquire() (func(), error) {
	if c.AcquireErr != nil {
		return nil, c.AcquireErr
	}
	c.mu.Lock()
	c.acquired++
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		c.released++
		c.mu.Unlock()
	}, nil
}

// Balanced reports whether every acquisition was released.
func (c *StubCharacter) Balanced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acquired == c.released
}

// CannedSampler returns fixed height curves. Each call records the request.
type CannedSampler struct {
	Heights       map[int][]float64
	LengthSeconds float64
	Err           error

	Requests []sampler.Request
}

// Sample implements sampler.Sampler. Only requested joints present in
// Heights are returned, the way a real sampler only samples what it is
// asked for.
func (s *CannedSampler) Sample(ctx context.Context, c sampler.Character, req sampler.Request) (sampler.Result, error) {
	s.Requests = append(s.Requests, req)

	release, err := c.Acquire()
	if err != nil {
		return sampler.Result{}, err
	}
	defer release()

	if s.Err != nil {
		return sampler.Result{}, s.Err
	}

	samples := make(skeleton.Samples)
	frames := 0
	for _, j := range req.Joints {
		h, ok := s.Heights[j]
		if !ok {
			continue
		}
		samples[j] = skeleton.FromHeights(h...)
		frames = len(h)
	}
	return sampler.Result{Samples: samples, LengthSeconds: s.LengthSeconds, FrameCount: frames}, nil
}
