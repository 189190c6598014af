package geo

import (
	"math"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"madrid", 40.4168, -3.7038},
		{"equator origin", 0, 0},
		{"lat boundary", 90, 0},
		{"lon boundary", 0, -180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.lat, tt.lon)
			if err != nil {
				t.Fatalf("New(%v, %v): %v", tt.lat, tt.lon, err)
			}
			if c.Lat() != tt.lat || c.Lon() != tt.lon {
				t.Errorf("got (%v, %v), want (%v, %v)", c.Lat(), c.Lon(), tt.lat, tt.lon)
			}
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"lat too high", 90.1, 0},
		{"lat too low", -91, 0},
		{"lon too high", 0, 180.5},
		{"lon too low", 0, -181},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.lat, tt.lon); err == nil {
				t.Errorf("New(%v, %v): expected error", tt.lat, tt.lon)
			}
		})
	}
}

func TestHaversine_MadridBerlin(t *testing.T) {
	madrid, _ := New(40.4168, -3.7038)
	berlin, _ := New(52.5200, 13.4050)

	d := Haversine(madrid, berlin)

	// Known distance is roughly 1869 km.
	if d < 1_800_000 || d > 1_950_000 {
		t.Errorf("Madrid-Berlin distance = %v m, want ~1869 km", d)
	}
}

func TestHaversine_ZeroForSamePoint(t *testing.T) {
	p, _ := New(40.4168, -3.7038)
	if d := Haversine(p, p); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	a, _ := New(40.4168, -3.7038)
	b, _ := New(52.5200, 13.4050)
	if math.Abs(Haversine(a, b)-Haversine(b, a)) > 1e-6 {
		t.Error("Haversine is not symmetric")
	}
}

func TestBoundingBox(t *testing.T) {
	madrid, _ := New(40.4168, -3.7038)
	box := NewBoundingBox(madrid, 100_000) // 100 km

	toledo, _ := New(39.8628, -4.0273) // ~70 km away
	berlin, _ := New(52.5200, 13.4050)

	if !box.Contains(toledo) {
		t.Error("expected Toledo inside a 100 km box around Madrid")
	}
	if box.Contains(berlin) {
		t.Error("expected Berlin outside a 100 km box around Madrid")
	}
}

func TestBoundingBox_NearPole(t *testing.T) {
	pole, _ := New(90, 0)
	box := NewBoundingBox(pole, 1000)

	near, _ := New(89.999, 179)
	if !box.Contains(near) {
		t.Error("longitude window should cover the full circle at the pole")
	}
}
