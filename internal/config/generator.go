package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigPath is the path to the canonical generator defaults file.
const DefaultConfigPath = "config/footstep.defaults.json"

// GeneratorConfig represents the tuning parameters for footstep generation.
// Every field is optional; the Get* accessors supply defaults for fields the
// JSON file leaves out, so partial configs are safe.
type GeneratorConfig struct {
	// Height thresholds (millimetres, root-relative)
	FootHeightMM            *float64 `json:"foot_height_mm,omitempty"`
	FootShuffleUpperLimitMM *float64 `json:"foot_shuffle_upper_limit_mm,omitempty"`

	// Joints
	LeftFootJoint  *string `json:"left_foot_joint,omitempty"`
	RightFootJoint *string `json:"right_foot_joint,omitempty"`

	// Foley
	GenerateFoleys          *bool `json:"generate_foleys,omitempty"`
	FoleyDelayFrames        *int  `json:"foley_delay_frames,omitempty"`
	ShuffleFoleyDelayFrames *int  `json:"shuffle_foley_delay_frames,omitempty"`

	// Event templates
	FootstepEventType *string `json:"footstep_event_type,omitempty"`
	FoleyEventType    *string `json:"foley_event_type,omitempty"`
	ShuffleParameter  *string `json:"shuffle_parameter,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyGeneratorConfig returns a GeneratorConfig with all fields set to nil.
func EmptyGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{}
}

// DefaultGeneratorConfig returns a config with every field populated from the
// built-in defaults. It matches config/footstep.defaults.json.
func DefaultGeneratorConfig() *GeneratorConfig {
	c := EmptyGeneratorConfig()
	return &GeneratorConfig{
		FootHeightMM:            ptrFloat64(c.GetFootHeightMM()),
		FootShuffleUpperLimitMM: ptrFloat64(c.GetFootShuffleUpperLimitMM()),
		LeftFootJoint:           ptrString(c.GetLeftFootJoint()),
		RightFootJoint:          ptrString(c.GetRightFootJoint()),
		GenerateFoleys:          ptrBool(c.GetGenerateFoleys()),
		FoleyDelayFrames:        ptrInt(c.GetFoleyDelayFrames()),
		ShuffleFoleyDelayFrames: ptrInt(c.GetShuffleFoleyDelayFrames()),
		FootstepEventType:       ptrString(c.GetFootstepEventType()),
		FoleyEventType:          ptrString(c.GetFoleyEventType()),
		ShuffleParameter:        ptrString(c.GetShuffleParameter()),
	}
}

// LoadGeneratorConfig loads a GeneratorConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadGeneratorConfig(path string) (*GeneratorConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyGeneratorConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *GeneratorConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadGeneratorConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid. The two height
// thresholds are independent; an upper limit below foot_height_mm is allowed.
func (c *GeneratorConfig) Validate() error {
	if c.FootHeightMM != nil && *c.FootHeightMM < 0 {
		return fmt.Errorf("foot_height_mm must be non-negative, got %f", *c.FootHeightMM)
	}
	if c.FootShuffleUpperLimitMM != nil && *c.FootShuffleUpperLimitMM < 0 {
		return fmt.Errorf("foot_shuffle_upper_limit_mm must be non-negative, got %f", *c.FootShuffleUpperLimitMM)
	}
	if c.LeftFootJoint != nil && strings.TrimSpace(*c.LeftFootJoint) == "" {
		return fmt.Errorf("left_foot_joint must not be empty")
	}
	if c.RightFootJoint != nil && strings.TrimSpace(*c.RightFootJoint) == "" {
		return fmt.Errorf("right_foot_joint must not be empty")
	}
	if c.FootstepEventType != nil && *c.FootstepEventType == "" {
		return fmt.Errorf("footstep_event_type must not be empty")
	}
	return nil
}

// GetFootHeightMM returns the foot_height_mm value or the default.
func (c *GeneratorConfig) GetFootHeightMM() float64 {
	if c.FootHeightMM == nil {
		return 50
	}
	return *c.FootHeightMM
}

// GetFootShuffleUpperLimitMM returns the foot_shuffle_upper_limit_mm value or the default.
func (c *GeneratorConfig) GetFootShuffleUpperLimitMM() float64 {
	if c.FootShuffleUpperLimitMM == nil {
		return 100
	}
	return *c.FootShuffleUpperLimitMM
}

// GetLeftFootJoint returns the left_foot_joint value or the default.
func (c *GeneratorConfig) GetLeftFootJoint() string {
	if c.LeftFootJoint == nil {
		return "Bip01 L Toe0"
	}
	return *c.LeftFootJoint
}

// GetRightFootJoint returns the right_foot_joint value or the default.
func (c *GeneratorConfig) GetRightFootJoint() string {
	if c.RightFootJoint == nil {
		return "Bip01 R Toe0"
	}
	return *c.RightFootJoint
}

// GetGenerateFoleys returns the generate_foleys value or the default.
func (c *GeneratorConfig) GetGenerateFoleys() bool {
	if c.GenerateFoleys == nil {
		return false // default: footsteps only
	}
	return *c.GenerateFoleys
}

// GetFoleyDelayFrames returns the foley_delay_frames value or the default.
func (c *GeneratorConfig) GetFoleyDelayFrames() int {
	if c.FoleyDelayFrames == nil {
		return 2
	}
	return *c.FoleyDelayFrames
}

// GetShuffleFoleyDelayFrames returns the shuffle_foley_delay_frames value or the default.
func (c *GeneratorConfig) GetShuffleFoleyDelayFrames() int {
	if c.ShuffleFoleyDelayFrames == nil {
		return 1
	}
	return *c.ShuffleFoleyDelayFrames
}

// GetFootstepEventType returns the footstep_event_type value or the default.
func (c *GeneratorConfig) GetFootstepEventType() string {
	if c.FootstepEventType == nil {
		return "footstep"
	}
	return *c.FootstepEventType
}

// GetFoleyEventType returns the foley_event_type value or the default.
func (c *GeneratorConfig) GetFoleyEventType() string {
	if c.FoleyEventType == nil {
		return "foley"
	}
	return *c.FoleyEventType
}

// GetShuffleParameter returns the shuffle_parameter value or the default.
func (c *GeneratorConfig) GetShuffleParameter() string {
	if c.ShuffleParameter == nil {
		return "shuffle"
	}
	return *c.ShuffleParameter
}
