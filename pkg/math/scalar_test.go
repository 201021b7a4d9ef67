package math

import "testing"

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 0.25); got != 2.5 {
		t.Errorf("Lerp(0, 10, 0.25) = %v, want 2.5", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float32
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{42, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestMod(t *testing.T) {
	tests := []struct {
		a, b, want float32
	}{
		{1.5, 1, 0.5},
		{-0.25, 1, 0.75},
		{2, 1, 0},
		{-3, 1, 0},
	}
	for _, tt := range tests {
		if got := Mod(tt.a, tt.b); !approx(got, tt.want) {
			t.Errorf("Mod(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestWrapDeg(t *testing.T) {
	tests := []struct {
		deg, want float32
	}{
		{0, 0},
		{180, 180},
		{181, -179},
		{-180, 180},
		{540, 180},
		{-350, 10},
	}
	for _, tt := range tests {
		if got := WrapDeg(tt.deg); !approx(got, tt.want) {
			t.Errorf("WrapDeg(%v) = %v, want %v", tt.deg, got, tt.want)
		}
	}
}

func TestAbs(t *testing.T) {
	if got := Abs(-3); got != 3 {
		t.Errorf("Abs(-3) = %v, want 3", got)
	}
	if got := Abs(3); got != 3 {
		t.Errorf("Abs(3) = %v, want 3", got)
	}
}
