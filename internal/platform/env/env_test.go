package env

import (
	"reflect"
	"testing"
	"time"
)

func TestString_Default(t *testing.T) {
	got := String("ENV_STRING_DOES_NOT_EXIST", "fallback")
	if got != "fallback" {
		t.Fatalf("String()=%q, want fallback", got)
	}
}

func TestString_Override(t *testing.T) {
	t.Setenv("ENV_STRING_KEY", "value")
	got := String("ENV_STRING_KEY", "fallback")
	if got != "value" {
		t.Fatalf("String()=%q, want value", got)
	}
}

func TestDuration_Override(t *testing.T) {
	t.Setenv("ENV_DURATION_KEY", "250ms")
	got, err := Duration("ENV_DURATION_KEY", 5*time.Second)
	if err != nil {
		t.Fatalf("Duration() err=%v", err)
	}
	if got != 250*time.Millisecond {
		t.Fatalf("Duration()=%v, want 250ms", got)
	}
}

func TestDuration_Invalid(t *testing.T) {
	t.Setenv("ENV_DURATION_KEY_INVALID", "not-a-duration")
	if _, err := Duration("ENV_DURATION_KEY_INVALID", 5*time.Second); err == nil {
		t.Fatalf("Duration() expected error")
	}
}

func TestInt_Override(t *testing.T) {
	t.Setenv("ENV_INT_KEY", "25")
	got, err := Int("ENV_INT_KEY", 10)
	if err != nil {
		t.Fatalf("Int() err=%v", err)
	}
	if got != 25 {
		t.Fatalf("Int()=%d, want 25", got)
	}
}

func TestBool_Invalid(t *testing.T) {
	t.Setenv("ENV_BOOL_KEY_INVALID", "not-a-bool")
	if _, err := Bool("ENV_BOOL_KEY_INVALID", false); err == nil {
		t.Fatalf("Bool() expected error")
	}
}

func TestFloat_Override(t *testing.T) {
	t.Setenv("ENV_FLOAT_KEY", "0.75")
	got, err := Float("ENV_FLOAT_KEY", 0.5)
	if err != nil {
		t.Fatalf("Float() err=%v", err)
	}
	if got != 0.75 {
		t.Fatalf("Float()=%v, want 0.75", got)
	}
}

func TestFloats_Default(t *testing.T) {
	got, err := Floats("ENV_FLOATS_DOES_NOT_EXIST", []float64{0.0, 1.0})
	if err != nil {
		t.Fatalf("Floats() err=%v", err)
	}
	if !reflect.DeepEqual(got, []float64{0.0, 1.0}) {
		t.Fatalf("Floats()=%v, want default", got)
	}
}

func TestFloats_Override(t *testing.T) {
	t.Setenv("ENV_FLOATS_KEY", "0.0, 0.25,0.5")
	got, err := Floats("ENV_FLOATS_KEY", nil)
	if err != nil {
		t.Fatalf("Floats() err=%v", err)
	}
	if !reflect.DeepEqual(got, []float64{0.0, 0.25, 0.5}) {
		t.Fatalf("Floats()=%v", got)
	}
}

func TestFloats_Invalid(t *testing.T) {
	t.Setenv("ENV_FLOATS_KEY_INVALID", "0.0,abc")
	if _, err := Floats("ENV_FLOATS_KEY_INVALID", nil); err == nil {
		t.Fatalf("Floats() expected error")
	}
}

func TestStrings_Override(t *testing.T) {
	t.Setenv("ENV_STRINGS_KEY", "R, RG ,RGB")
	got := Strings("ENV_STRINGS_KEY", nil)
	if !reflect.DeepEqual(got, []string{"R", "RG", "RGB"}) {
		t.Fatalf("Strings()=%v", got)
	}
}
