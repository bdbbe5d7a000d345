// Package unet describes the encoder-decoder segmentation model handed to
// the trainer. Construction is pure: the trainer materializes the weights.
package unet

import (
	"errors"
	"fmt"
)

// Model is the construction-time description of a U-Net classifier.
type Model struct {
	InChannels   int   `json:"in_channels"`
	Depth        int   `json:"depth"`
	Out1Channels int   `json:"out1_channels"`
	BatchNorm    bool  `json:"batchnorm"`
	Encoder      []int `json:"encoder"`
	Decoder      []int `json:"decoder"`
}

// New builds a model description. The first encoder stage emits out1Channels
// feature maps and every deeper stage doubles them; the decoder mirrors the
// encoder back up.
func New(inChannels, depth, out1Channels int, batchNorm bool) (Model, error) {
	if inChannels < 1 {
		return Model{}, errors.New("input channels must be >= 1")
	}
	if depth < 1 {
		return Model{}, errors.New("depth must be >= 1")
	}
	if out1Channels < 1 {
		return Model{}, errors.New("first-stage output channels must be >= 1")
	}

	encoder := make([]int, depth)
	for i := range encoder {
		encoder[i] = out1Channels << i
	}
	decoder := make([]int, depth-1)
	for i := range decoder {
		decoder[i] = encoder[depth-2-i]
	}

	return Model{
		InChannels:   inChannels,
		Depth:        depth,
		Out1Channels: out1Channels,
		BatchNorm:    batchNorm,
		Encoder:      encoder,
		Decoder:      decoder,
	}, nil
}

func (m Model) String() string {
	return fmt.Sprintf("unet(in=%d depth=%d out1=%d batchnorm=%t)",
		m.InChannels, m.Depth, m.Out1Channels, m.BatchNorm)
}
