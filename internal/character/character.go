// Package character loads rig definitions (skeleton plus keyframed clips)
// and exposes them to the sampler.
package character

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/banshee-data/footfall/internal/sampler"
	"github.com/banshee-data/footfall/internal/skeleton"
)

// Character is a loaded rig. It is reference counted so a sampling pass can
// pin it; Acquire/release pairs must balance.
type Character struct {
	Name string

	skel *skeleton.Skeleton
	set  *AnimationSet

	mu   sync.Mutex
	refs int
}

// New creates a character from a skeleton and its rest (bind) pose.
// A nil set means the character has no animation set at all.
func New(name string, skel *skeleton.Skeleton, rest []skeleton.Transform, set *AnimationSet) (*Character, error) {
	if skel == nil {
		return nil, fmt.Errorf("character %q has no skeleton", name)
	}
	if len(rest) != skel.Len() {
		return nil, fmt.Errorf("character %q: rest pose has %d transforms, skeleton has %d bones", name, len(rest), skel.Len())
	}
	return &Character{Name: name, skel: skel, set: set}, nil
}

// Skeleton implements sampler.Character.
func (c *Character) Skeleton() *skeleton.Skeleton { return c.skel }

// AnimationSet implements sampler.Character.
func (c *Character) AnimationSet() sampler.AnimationSet {
	if c.set == nil {
		return nil
	}
	return c.set
}

// Animations returns the underlying set, or nil.
func (c *Character) Animations() *AnimationSet { return c.set }

// Acquire implements sampler.Character.
func (c *Character) Acquire() (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.refs++
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.refs--
			c.mu.Unlock()
		})
	}, nil
}

// RefCount returns the number of outstanding acquisitions.
func (c *Character) RefCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refs
}

// AnimationSet holds a character's clips, addressable by name or path.
// Lookups ignore case.
type AnimationSet struct {
	clips  map[string]*Clip
	byPath map[string]*Clip
}

// NewAnimationSet creates an empty set.
func NewAnimationSet() *AnimationSet {
	return &AnimationSet{
		clips:  make(map[string]*Clip),
		byPath: make(map[string]*Clip),
	}
}

// Add registers a clip, replacing any clip with the same name.
func (s *AnimationSet) Add(clip *Clip) {
	s.clips[strings.ToLower(clip.Name)] = clip
	if clip.Path != "" {
		s.byPath[strings.ToLower(clip.Path)] = clip
	}
}

// Clip implements sampler.AnimationSet.
func (s *AnimationSet) Clip(nameOrPath string) (sampler.Clip, bool) {
	key := strings.ToLower(nameOrPath)
	if c, ok := s.clips[key]; ok {
		return c, true
	}
	if c, ok := s.byPath[key]; ok {
		return c, true
	}
	return nil, false
}

// Get returns the concrete clip by name or path.
func (s *AnimationSet) Get(nameOrPath string) (*Clip, bool) {
	c, ok := s.Clip(nameOrPath)
	if !ok {
		return nil, false
	}
	return c.(*Clip), true
}

// Names lists clip names in sorted order.
func (s *AnimationSet) Names() []string {
	names := make([]string, 0, len(s.clips))
	for _, c := range s.clips {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}
