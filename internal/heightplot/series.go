// Package heightplot draws the foot height curves of a generation run
// together with the thresholds and the frames where plants were detected.
package heightplot

import (
	"github.com/banshee-data/footfall/internal/footstep"
	"github.com/banshee-data/footfall/internal/skeleton"
)

// Series is the height curve of one foot joint.
type Series struct {
	Label   string
	Joint   int
	Heights []float64 // metres, one per frame
	Plants  []int     // normal plant frames
	Shuffle []int     // shuffle plant frames
}

// Collect extracts one series per sampled foot joint of res. Feet sharing
// a joint are merged; unresolved joints are skipped.
func Collect(res *footstep.Result) []Series {
	if res == nil {
		return nil
	}

	byJoint := make(map[int]int)
	var out []Series
	for _, f := range res.Feet {
		if f.Joint == skeleton.InvalidJoint {
			continue
		}
		i, ok := byJoint[f.Joint]
		if !ok {
			heights, sampled := res.Samples.Heights(f.Joint)
			if !sampled {
				continue
			}
			i = len(out)
			byJoint[f.Joint] = i
			out = append(out, Series{Label: f.JointName, Joint: f.Joint, Heights: heights})
		}
		if f.Shuffle {
			out[i].Shuffle = append(out[i].Shuffle, f.Plants...)
		} else {
			out[i].Plants = append(out[i].Plants, f.Plants...)
		}
	}
	return out
}

func frameCount(series []Series) int {
	n := 0
	for _, s := range series {
		if len(s.Heights) > n {
			n = len(s.Heights)
		}
	}
	return n
}
