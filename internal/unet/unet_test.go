package unet

import (
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	model, err := New(2, 4, 16, true)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if model.InChannels != 2 {
		t.Fatalf("InChannels=%d, want 2", model.InChannels)
	}
	if want := []int{16, 32, 64, 128}; !reflect.DeepEqual(model.Encoder, want) {
		t.Fatalf("Encoder=%v, want %v", model.Encoder, want)
	}
	if want := []int{64, 32, 16}; !reflect.DeepEqual(model.Decoder, want) {
		t.Fatalf("Decoder=%v, want %v", model.Decoder, want)
	}
	if !model.BatchNorm {
		t.Fatalf("expected batchnorm enabled")
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New(0, 4, 16, true); err == nil {
		t.Fatalf("New() expected error for zero input channels")
	}
	if _, err := New(1, 0, 16, true); err == nil {
		t.Fatalf("New() expected error for zero depth")
	}
	if _, err := New(1, 4, 0, true); err == nil {
		t.Fatalf("New() expected error for zero first-stage channels")
	}
}

func TestNew_DepthOne(t *testing.T) {
	model, err := New(1, 1, 8, false)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if want := []int{8}; !reflect.DeepEqual(model.Encoder, want) {
		t.Fatalf("Encoder=%v, want %v", model.Encoder, want)
	}
	if len(model.Decoder) != 0 {
		t.Fatalf("Decoder=%v, want empty", model.Decoder)
	}
}
