package character

import (
	"fmt"
	"sort"

	"github.com/banshee-data/footfall/internal/skeleton"
)

// Keyframe is a bone's parent-relative transform at a time in seconds.
type Keyframe struct {
	Time      float64
	Transform skeleton.Transform
}

// Clip is a keyframed animation. Bones without a track hold their rest pose.
type Clip struct {
	Name string
	Path string

	length float64
	rest   []skeleton.Transform
	tracks map[int][]Keyframe
}

// NewClip creates a clip over the given rest pose. Tracks are keyed by bone
// id; keys are sorted by time.
func NewClip(name, path string, length float64, rest []skeleton.Transform, tracks map[int][]Keyframe) (*Clip, error) {
	if length < 0 {
		return nil, fmt.Errorf("clip %q has negative length %f", name, length)
	}
	c := &Clip{
		Name:   name,
		Path:   path,
		length: length,
		rest:   rest,
		tracks: make(map[int][]Keyframe, len(tracks)),
	}
	for bone, keys := range tracks {
		if bone < 0 || bone >= len(rest) {
			return nil, fmt.Errorf("clip %q: track for bone %d outside skeleton", name, bone)
		}
		if len(keys) == 0 {
			continue
		}
		sorted := make([]Keyframe, len(keys))
		copy(sorted, keys)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
		c.tracks[bone] = sorted
	}
	return c, nil
}

// Length returns the clip duration in seconds.
func (c *Clip) Length() float64 { return c.length }

// LocalPose implements sampler.Clip.
func (c *Clip) LocalPose(t float64, out []skeleton.Transform) {
	for i := range out {
		keys, ok := c.tracks[i]
		if !ok {
			if i < len(c.rest) {
				out[i] = c.rest[i]
			} else {
				out[i] = skeleton.Identity()
			}
			continue
		}
		out[i] = interpolate(keys, t)
	}
}

// interpolate evaluates a sorted key track at t, holding the first and last
// keys outside the keyed range.
func interpolate(keys []Keyframe, t float64) skeleton.Transform {
	if t <= keys[0].Time {
		return keys[0].Transform
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Transform
	}
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Time > t })
	a, b := keys[i-1], keys[i]
	span := b.Time - a.Time
	if span <= 0 {
		return b.Transform
	}
	return skeleton.Lerp(a.Transform, b.Transform, (t-a.Time)/span)
}
