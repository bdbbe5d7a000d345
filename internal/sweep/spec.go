package sweep

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/neuroseg-labs/segsweep/internal/domain"
)

const SpecSchemaV1 = "segsweep.sweep.v1"

// Spec is the declarative sweep description loaded from YAML. Absent fields
// fall back to the built-in defaults.
type Spec struct {
	Schema   string        `yaml:"schema"`
	Epochs   int           `yaml:"epochs,omitempty"`
	Channels []string      `yaml:"channels,omitempty"`
	Ratios   []float64     `yaml:"synthetic_ratios,omitempty"`
	Base     BaseOverrides `yaml:"base,omitempty"`
}

// BaseOverrides are optional per-field overrides of the base configuration.
// Pointers distinguish "absent" from zero values.
type BaseOverrides struct {
	BatchSize     *int     `yaml:"batch_size,omitempty"`
	DataAug       *bool    `yaml:"data_aug,omitempty"`
	DataDir       *string  `yaml:"data_dir,omitempty"`
	LearningRate  *float64 `yaml:"learning_rate,omitempty"`
	ModelDir      *string  `yaml:"model_dir,omitempty"`
	ScaleCrop     *float64 `yaml:"scale_crop,omitempty"`
	Seed          *int64   `yaml:"seed,omitempty"`
	SyntheticOnly *bool    `yaml:"synthetic_only,omitempty"`
	UseMasks      *bool    `yaml:"use_masks,omitempty"`
}

func ParseSpec(input []byte) (Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(input, &spec); err != nil {
		return Spec{}, fmt.Errorf("parse sweep spec: %w", err)
	}
	if strings.TrimSpace(spec.Schema) != SpecSchemaV1 {
		return Spec{}, fmt.Errorf("unsupported sweep spec schema: %q", spec.Schema)
	}
	if err := spec.Params().Validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

func LoadSpec(path string) (Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read sweep spec: %w", err)
	}
	return ParseSpec(raw)
}

// Params merges the spec's axes over the built-in defaults.
func (s Spec) Params() Params {
	params := DefaultParams()
	if s.Epochs > 0 {
		params.Epochs = s.Epochs
	}
	if len(s.Channels) > 0 {
		params.Channels = s.Channels
	}
	if len(s.Ratios) > 0 {
		params.Ratios = s.Ratios
	}
	return params
}

// Apply returns the configuration with the spec's base overrides applied.
func (s Spec) Apply(cfg domain.RunConfiguration) domain.RunConfiguration {
	if s.Base.BatchSize != nil {
		cfg.BatchSize = *s.Base.BatchSize
	}
	if s.Base.DataAug != nil {
		cfg.DataAug = *s.Base.DataAug
	}
	if s.Base.DataDir != nil {
		cfg.DataDir = *s.Base.DataDir
	}
	if s.Base.LearningRate != nil {
		cfg.LearningRate = *s.Base.LearningRate
	}
	if s.Base.ModelDir != nil {
		cfg.ModelDir = *s.Base.ModelDir
	}
	if s.Base.ScaleCrop != nil {
		cfg.ScaleCrop = *s.Base.ScaleCrop
	}
	if s.Base.Seed != nil {
		cfg.Seed = *s.Base.Seed
	}
	if s.Base.SyntheticOnly != nil {
		cfg.SyntheticOnly = *s.Base.SyntheticOnly
	}
	if s.Base.UseMasks != nil {
		cfg.UseMasks = *s.Base.UseMasks
	}
	return cfg
}
