// Package skeleton models a character's joint hierarchy and the per-frame
// joint transforms produced by sampling an animation.
package skeleton

import (
	"fmt"
	"sort"
	"strings"
)

// InvalidJoint is the id returned for a joint name that does not resolve.
const InvalidJoint = -1

// Bone is one joint in the hierarchy. Parent is the index of the parent
// bone, or -1 for the root.
type Bone struct {
	Name   string `json:"name"`
	Parent int    `json:"parent"`
}

// Skeleton is an ordered joint hierarchy. Parents always precede their
// children, so a single forward pass evaluates a full pose.
type Skeleton struct {
	bones  []Bone
	byName map[string]int
}

// New builds a skeleton, checking that names are unique and that every
// parent index refers to an earlier bone.
func New(bones []Bone) (*Skeleton, error) {
	if len(bones) == 0 {
		return nil, fmt.Errorf("skeleton has no bones")
	}
	s := &Skeleton{
		bones:  make([]Bone, len(bones)),
		byName: make(map[string]int, len(bones)),
	}
	copy(s.bones, bones)

	for i, b := range s.bones {
		if b.Name == "" {
			return nil, fmt.Errorf("bone %d has no name", i)
		}
		key := strings.ToLower(b.Name)
		if _, dup := s.byName[key]; dup {
			return nil, fmt.Errorf("duplicate bone name %q", b.Name)
		}
		if i == 0 && b.Parent != -1 {
			return nil, fmt.Errorf("root bone %q must not have a parent", b.Name)
		}
		if i > 0 && (b.Parent < 0 || b.Parent >= i) {
			return nil, fmt.Errorf("bone %q has parent %d, must be in [0,%d)", b.Name, b.Parent, i)
		}
		s.byName[key] = i
	}
	return s, nil
}

// JointIDByName resolves a joint name, ignoring case.
// Unknown names return InvalidJoint and false.
func (s *Skeleton) JointIDByName(name string) (int, bool) {
	if s == nil {
		return InvalidJoint, false
	}
	id, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return InvalidJoint, false
	}
	return id, true
}

// Len returns the number of bones.
func (s *Skeleton) Len() int { return len(s.bones) }

// Bone returns the bone at id.
func (s *Skeleton) Bone(id int) Bone { return s.bones[id] }

// Root returns the id of the root bone.
func (s *Skeleton) Root() int { return 0 }

// UniqueSortedJoints returns the distinct valid joint ids in ascending order.
func UniqueSortedJoints(ids ...int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id < 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
