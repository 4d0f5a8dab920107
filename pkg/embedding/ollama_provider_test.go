package embedding

import (
	"math"
	"testing"
)

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		want []float32
	}{
		{
			name: "3-4-0 triangle",
			in:   []float32{3, 4, 0},
			want: []float32{0.6, 0.8, 0},
		},
		{
			name: "already unit length",
			in:   []float32{1, 0, 0},
			want: []float32{1, 0, 0},
		},
		{
			name: "zero vector unchanged",
			in:   []float32{0, 0, 0},
			want: []float32{0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeVector(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(float64(got[i]-tt.want[i])) > 1e-6 {
					t.Errorf("component %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeVectorUnitMagnitude(t *testing.T) {
	got := normalizeVector([]float32{0.1, -2.5, 7.3, 0.004})

	var magnitude float64
	for _, v := range got {
		magnitude += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(magnitude)-1) > 1e-6 {
		t.Errorf("magnitude = %v, want 1", math.Sqrt(magnitude))
	}
}
