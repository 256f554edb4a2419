package core

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func vecClose(a, b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		result   Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"Divide", b.Divide(2), NewVec3(2, -2.5, 3)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Cross anticommutes", NewVec3(0, 1, 0).Cross(NewVec3(1, 0, 0)), NewVec3(0, 0, -1)},
		{"Normalize", NewVec3(3, 0, 4).Normalize(), NewVec3(0.6, 0, 0.8)},
		{"Clamp", NewVec3(-1, 0.5, 2).Clamp(0, 1), NewVec3(0, 0.5, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !vecClose(tt.result, tt.expected, tolerance) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}
}

func TestVec3_Scalars(t *testing.T) {
	v := NewVec3(2, 3, 6)
	if v.LengthSquared() != 49 {
		t.Errorf("Expected length squared 49, got %f", v.LengthSquared())
	}
	if v.Length() != 7 {
		t.Errorf("Expected length 7, got %f", v.Length())
	}
	if d := v.Dot(NewVec3(1, -1, 0.5)); d != 2 {
		t.Errorf("Expected dot 2, got %f", d)
	}
}

func TestVec3_DivideByZeroIsIEEE(t *testing.T) {
	v := NewVec3(1, -1, 0).Divide(0)
	if !math.IsInf(v.X, 1) || !math.IsInf(v.Y, -1) || !math.IsNaN(v.Z) {
		t.Errorf("Expected (+Inf, -Inf, NaN), got %v", v)
	}

	zero := Vec3{}.Normalize()
	if !math.IsNaN(zero.X) {
		t.Errorf("Normalizing the zero vector should give NaN, got %v", zero)
	}
}

func TestVec3_NearZero(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected bool
	}{
		{"zero", Vec3{}, true},
		{"tiny", NewVec3(1e-9, -1e-9, 5e-9), true},
		{"one component at threshold", NewVec3(1e-8, 0, 0), false},
		{"regular", NewVec3(0, 0.1, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.NearZero(); got != tt.expected {
				t.Errorf("NearZero(%v) = %t, expected %t", tt.v, got, tt.expected)
			}
		})
	}
}

func TestReflect_Involution(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 1, 0).Normalize(),
		NewVec3(-0.3, 0.2, 0.9).Normalize(),
	}
	vectors := []Vec3{
		NewVec3(1, -1, 0),
		NewVec3(0.2, 0.7, -3),
		NewVec3(-5, 0, 1),
	}

	for _, n := range normals {
		for _, v := range vectors {
			twice := Reflect(Reflect(v, n), n)
			if !vecClose(twice, v, 1e-12) {
				t.Errorf("Reflecting %v twice about %v gave %v", v, n, twice)
			}
		}
	}
}

func TestReflect_MirrorsNormalComponent(t *testing.T) {
	r := Reflect(NewVec3(1, -1, 0), NewVec3(0, 1, 0))
	if !vecClose(r, NewVec3(1, 1, 0), tolerance) {
		t.Errorf("Expected (1, 1, 0), got %v", r)
	}
}

func TestRefract(t *testing.T) {
	n := NewVec3(0, 1, 0)
	in := NewVec3(1, -1, 0).Normalize()

	t.Run("ratio one keeps direction", func(t *testing.T) {
		out := Refract(in, n, 1.0)
		if !vecClose(out, in, 1e-12) {
			t.Errorf("Expected %v, got %v", in, out)
		}
	})

	t.Run("snell's law", func(t *testing.T) {
		ratio := 1.0 / 1.5
		out := Refract(in, n, ratio)
		sinIn := math.Sqrt(1 - math.Pow(in.Dot(n), 2))
		sinOut := math.Sqrt(1 - math.Pow(out.Normalize().Dot(n), 2))
		if math.Abs(sinOut-ratio*sinIn) > 1e-9 {
			t.Errorf("Expected sin out %f, got %f", ratio*sinIn, sinOut)
		}
		if math.Abs(out.Length()-1) > 1e-9 {
			t.Errorf("Refracted unit vector should stay unit length, got %f", out.Length())
		}
	})
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -2))
	if p := ray.At(1.5); !vecClose(p, NewVec3(1, 2, 0), tolerance) {
		t.Errorf("Expected (1, 2, 0), got %v", p)
	}
	if p := ray.At(0); !p.Equals(ray.Origin) {
		t.Errorf("At(0) should be the origin, got %v", p)
	}
}

func TestDegreesToRadians(t *testing.T) {
	if r := DegreesToRadians(180); math.Abs(r-math.Pi) > tolerance {
		t.Errorf("Expected pi, got %f", r)
	}
}
