package domain

import (
	"errors"
	"strings"
)

// RunConfiguration is the full argument set handed to the trainer for one
// run. The driver copies it per sweep point; no run observes another run's
// configuration.
type RunConfiguration struct {
	BatchSize      int     `json:"batch_size" yaml:"batch_size"`
	DataAug        bool    `json:"data_aug" yaml:"data_aug"`
	DataDir        string  `json:"data_dir" yaml:"data_dir"`
	Epochs         int     `json:"epochs" yaml:"epochs"`
	EvalTest       bool    `json:"eval_test" yaml:"eval_test"`
	InputChannels  string  `json:"input_channels" yaml:"input_channels"`
	LearningRate   float64 `json:"learning_rate" yaml:"learning_rate"`
	ModelDir       string  `json:"model_dir,omitempty" yaml:"model_dir,omitempty"`
	NoGPU          bool    `json:"no_gpu" yaml:"no_gpu"`
	SaveFig        bool    `json:"save_fig" yaml:"save_fig"`
	ScaleCrop      float64 `json:"scale_crop" yaml:"scale_crop"`
	Seed           int64   `json:"seed" yaml:"seed"`
	SyntheticData  bool    `json:"synthetic_data" yaml:"synthetic_data"`
	SyntheticOnly  bool    `json:"synthetic_only" yaml:"synthetic_only"`
	SyntheticRatio float64 `json:"synthetic_ratio" yaml:"synthetic_ratio"`
	Timeit         bool    `json:"timeit" yaml:"timeit"`
	UseMasks       bool    `json:"use_masks" yaml:"use_masks"`
	Verbose        bool    `json:"verbose" yaml:"verbose"`
}

// WithInputChannels returns a copy with the channel specifier replaced.
func (c RunConfiguration) WithInputChannels(channels string) RunConfiguration {
	c.InputChannels = channels
	return c
}

// WithSyntheticRatio returns a copy with the synthetic mixing ratio replaced.
func (c RunConfiguration) WithSyntheticRatio(ratio float64) RunConfiguration {
	c.SyntheticRatio = ratio
	return c
}

func (c RunConfiguration) Validate() error {
	if c.BatchSize < 1 {
		return errors.New("batch size must be >= 1")
	}
	if c.Epochs < 1 {
		return errors.New("epochs must be >= 1")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data dir is required")
	}
	if strings.TrimSpace(c.InputChannels) == "" {
		return errors.New("input channels specifier is required")
	}
	if c.LearningRate <= 0 {
		return errors.New("learning rate must be positive")
	}
	if c.ScaleCrop <= 0 {
		return errors.New("scale crop must be positive")
	}
	if c.SyntheticRatio < 0 || c.SyntheticRatio > 1 {
		return errors.New("synthetic ratio must be within [0, 1]")
	}
	if c.SyntheticOnly && !c.SyntheticData {
		return errors.New("synthetic only requires synthetic data")
	}
	return nil
}
