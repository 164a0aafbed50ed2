package character

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/footfall/internal/fsutil"
	"github.com/banshee-data/footfall/internal/monitoring"
	"github.com/banshee-data/footfall/internal/security"
	"github.com/banshee-data/footfall/internal/skeleton"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const maxDefinitionSize = 8 * 1024 * 1024 // 8MB

// Definition is the on-disk character format. Translations are [x,y,z]
// in metres with z up; rotations are [w,x,y,z] quaternions.
type Definition struct {
	Name       string          `json:"name"`
	Bones      []BoneDef       `json:"bones"`
	Animations *[]AnimationDef `json:"animations,omitempty"`
}

// BoneDef is one joint and its rest pose.
type BoneDef struct {
	Name        string      `json:"name"`
	Parent      int         `json:"parent"`
	Translation *[3]float64 `json:"translation,omitempty"`
	Rotation    *[4]float64 `json:"rotation,omitempty"`
}

// AnimationDef is a clip, either inline or in a separate file relative to
// the character definition.
type AnimationDef struct {
	Name   string     `json:"name"`
	Path   string     `json:"path,omitempty"`
	File   string     `json:"file,omitempty"`
	Length float64    `json:"length"`
	Tracks []TrackDef `json:"tracks,omitempty"`
}

// TrackDef keys one bone.
type TrackDef struct {
	Bone string   `json:"bone"`
	Keys []KeyDef `json:"keys"`
}

// KeyDef is a keyframe.
type KeyDef struct {
	Time        float64     `json:"time"`
	Translation *[3]float64 `json:"translation,omitempty"`
	Rotation    *[4]float64 `json:"rotation,omitempty"`
}

func toTransform(t *[3]float64, r *[4]float64) skeleton.Transform {
	out := skeleton.Identity()
	if t != nil {
		out.Translation = r3.Vec{X: t[0], Y: t[1], Z: t[2]}
	}
	if r != nil {
		out.Rotation = skeleton.Normalize(quat.Number{Real: r[0], Imag: r[1], Jmag: r[2], Kmag: r[3]})
	}
	return out
}

// Load reads a character definition from path.
func Load(fsys fsutil.FileSystem, path string) (*Character, error) {
	var def Definition
	if err := readJSON(fsys, path, &def); err != nil {
		return nil, err
	}
	return Build(fsys, filepath.Dir(path), def)
}

// Build constructs a character from a parsed definition. Animation files
// are resolved against baseDir.
func Build(fsys fsutil.FileSystem, baseDir string, def Definition) (*Character, error) {
	bones := make([]skeleton.Bone, len(def.Bones))
	rest := make([]skeleton.Transform, len(def.Bones))
	for i, b := range def.Bones {
		bones[i] = skeleton.Bone{Name: b.Name, Parent: b.Parent}
		rest[i] = toTransform(b.Translation, b.Rotation)
	}
	skel, err := skeleton.New(bones)
	if err != nil {
		return nil, fmt.Errorf("character %q: %w", def.Name, err)
	}

	var set *AnimationSet
	if def.Animations != nil {
		set = NewAnimationSet()
		for _, a := range *def.Animations {
			if a.File != "" {
				file, err := security.ResolveWithin(baseDir, a.File)
				if err != nil {
					return nil, fmt.Errorf("animation %q: %w", a.Name, err)
				}
				var fromFile AnimationDef
				if err := readJSON(fsys, file, &fromFile); err != nil {
					return nil, fmt.Errorf("animation %q: %w", a.Name, err)
				}
				if fromFile.Name == "" {
					fromFile.Name = a.Name
				}
				if fromFile.Path == "" {
					fromFile.Path = a.Path
				}
				a = fromFile
			}
			clip, err := buildClip(skel, rest, a)
			if err != nil {
				return nil, err
			}
			set.Add(clip)
		}
	}

	return New(def.Name, skel, rest, set)
}

func buildClip(skel *skeleton.Skeleton, rest []skeleton.Transform, a AnimationDef) (*Clip, error) {
	if a.Name == "" {
		return nil, fmt.Errorf("animation without a name")
	}
	tracks := make(map[int][]Keyframe, len(a.Tracks))
	for _, tr := range a.Tracks {
		id, ok := skel.JointIDByName(tr.Bone)
		if !ok {
			monitoring.Logf("animation %q: track for unknown bone %q ignored", a.Name, tr.Bone)
			continue
		}
		keys := make([]Keyframe, len(tr.Keys))
		for i, k := range tr.Keys {
			// unkeyed channels hold the rest pose
			tf := rest[id]
			if k.Translation != nil {
				tf.Translation = r3.Vec{X: k.Translation[0], Y: k.Translation[1], Z: k.Translation[2]}
			}
			if k.Rotation != nil {
				tf.Rotation = skeleton.Normalize(quat.Number{Real: k.Rotation[0], Imag: k.Rotation[1], Jmag: k.Rotation[2], Kmag: k.Rotation[3]})
			}
			keys[i] = Keyframe{Time: k.Time, Transform: tf}
		}
		tracks[id] = keys
	}
	return NewClip(a.Name, a.Path, a.Length, rest, tracks)
}

func readJSON(fsys fsutil.FileSystem, path string, v interface{}) error {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return fmt.Errorf("definition file must have .json extension, got %q", ext)
	}
	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", cleanPath, err)
	}
	if info.Size() > maxDefinitionSize {
		return fmt.Errorf("%s too large: %d bytes (max %d)", cleanPath, info.Size(), maxDefinitionSize)
	}
	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cleanPath, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", cleanPath, err)
	}
	return nil
}
