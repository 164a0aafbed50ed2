package footstep

import (
	"encoding/json"

	"github.com/banshee-data/footfall/internal/animevent"
	"github.com/banshee-data/footfall/internal/config"
)

// FootTemplates are the event prototypes for one side.
type FootTemplates struct {
	Footstep     animevent.Event `json:"footstep"`
	Foley        animevent.Event `json:"foley"`
	Shuffle      animevent.Event `json:"shuffle"`
	ShuffleFoley animevent.Event `json:"shuffle_foley"`
}

func (f *FootTemplates) setBone(name string) {
	f.Footstep.BoneName = name
	f.Foley.BoneName = name
	f.Shuffle.BoneName = name
	f.ShuffleFoley.BoneName = name
}

// Parameters configure one generation run. Thresholds are in millimetres.
// Joint names are only changed through the setters, which keep the bone
// name of every template on that side in step with the joint.
type Parameters struct {
	FootHeightMM            float64
	FootShuffleUpperLimitMM float64

	Left  FootTemplates
	Right FootTemplates

	GenerateFoleys          bool
	FoleyDelayFrames        int
	ShuffleFoleyDelayFrames int

	leftFootJoint  string
	rightFootJoint string
}

// DefaultParameters returns the built-in defaults.
func DefaultParameters() Parameters {
	return ParametersFromConfig(config.DefaultGeneratorConfig())
}

// ParametersFromConfig builds parameters from a loaded GeneratorConfig.
func ParametersFromConfig(cfg *config.GeneratorConfig) Parameters {
	footType := cfg.GetFootstepEventType()
	foleyType := cfg.GetFoleyEventType()
	shuffle := cfg.GetShuffleParameter()

	templates := FootTemplates{
		Footstep:     animevent.NewTemplate(footType, ""),
		Foley:        animevent.NewTemplate(foleyType, ""),
		Shuffle:      animevent.NewTemplate(footType, shuffle),
		ShuffleFoley: animevent.NewTemplate(foleyType, shuffle),
	}

	p := Parameters{
		FootHeightMM:            cfg.GetFootHeightMM(),
		FootShuffleUpperLimitMM: cfg.GetFootShuffleUpperLimitMM(),
		Left:                    templates,
		Right:                   templates,
		GenerateFoleys:          cfg.GetGenerateFoleys(),
		FoleyDelayFrames:        cfg.GetFoleyDelayFrames(),
		ShuffleFoleyDelayFrames: cfg.GetShuffleFoleyDelayFrames(),
	}
	p.SetLeftFootJoint(cfg.GetLeftFootJoint())
	p.SetRightFootJoint(cfg.GetRightFootJoint())
	return p
}

// LeftFootJoint returns the left foot joint name.
func (p *Parameters) LeftFootJoint() string { return p.leftFootJoint }

// RightFootJoint returns the right foot joint name.
func (p *Parameters) RightFootJoint() string { return p.rightFootJoint }

// SetLeftFootJoint sets the left joint and the bone of all left templates.
func (p *Parameters) SetLeftFootJoint(name string) {
	p.leftFootJoint = name
	p.Left.setBone(name)
}

// SetRightFootJoint sets the right joint and the bone of all right templates.
func (p *Parameters) SetRightFootJoint(name string) {
	p.rightFootJoint = name
	p.Right.setBone(name)
}

type parametersJSON struct {
	FootHeightMM            float64       `json:"foot_height_mm"`
	FootShuffleUpperLimitMM float64       `json:"foot_shuffle_upper_limit_mm"`
	LeftFootJoint           string        `json:"left_foot_joint"`
	RightFootJoint          string        `json:"right_foot_joint"`
	Left                    FootTemplates `json:"left"`
	Right                   FootTemplates `json:"right"`
	GenerateFoleys          bool          `json:"generate_foleys"`
	FoleyDelayFrames        int           `json:"foley_delay_frames"`
	ShuffleFoleyDelayFrames int           `json:"shuffle_foley_delay_frames"`
}

// MarshalJSON records the parameters of a run.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(parametersJSON{
		FootHeightMM:            p.FootHeightMM,
		FootShuffleUpperLimitMM: p.FootShuffleUpperLimitMM,
		LeftFootJoint:           p.leftFootJoint,
		RightFootJoint:          p.rightFootJoint,
		Left:                    p.Left,
		Right:                   p.Right,
		GenerateFoleys:          p.GenerateFoleys,
		FoleyDelayFrames:        p.FoleyDelayFrames,
		ShuffleFoleyDelayFrames: p.ShuffleFoleyDelayFrames,
	})
}

// UnmarshalJSON restores parameters. Joint names win over template bone
// names so the two cannot drift apart.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	var raw parametersJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Parameters{
		FootHeightMM:            raw.FootHeightMM,
		FootShuffleUpperLimitMM: raw.FootShuffleUpperLimitMM,
		Left:                    raw.Left,
		Right:                   raw.Right,
		GenerateFoleys:          raw.GenerateFoleys,
		FoleyDelayFrames:        raw.FoleyDelayFrames,
		ShuffleFoleyDelayFrames: raw.ShuffleFoleyDelayFrames,
	}
	p.SetLeftFootJoint(raw.LeftFootJoint)
	p.SetRightFootJoint(raw.RightFootJoint)
	return nil
}
