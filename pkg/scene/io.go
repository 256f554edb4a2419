package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// Material type names used in scene files
const (
	MaterialLambertian = "lambertian"
	MaterialMetal      = "metal"
	MaterialDielectric = "dielectric"
)

// vec3JSON encodes a vector as [x, y, z]
type vec3JSON [3]float64

func toVec3JSON(v core.Vec3) *vec3JSON {
	return &vec3JSON{v.X, v.Y, v.Z}
}

func (v *vec3JSON) vec3() core.Vec3 {
	if v == nil {
		return core.Vec3{}
	}
	return core.NewVec3(v[0], v[1], v[2])
}

// File is the on-disk form of a scene. Materials are declared once and
// referenced by id so several spheres can share one instance.
type File struct {
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Group       string         `json:"group,omitempty"` // Listing category
	Camera      *CameraJSON    `json:"camera,omitempty"`
	Sampling    *SamplingJSON  `json:"sampling,omitempty"`
	Sky         *SkyJSON       `json:"sky,omitempty"`
	Materials   []MaterialJSON `json:"materials"`
	Spheres     []SphereJSON   `json:"spheres"`
}

// CameraJSON holds camera settings; omitted fields keep the defaults
type CameraJSON struct {
	Width         int       `json:"width,omitempty"`
	Height        int       `json:"height,omitempty"`
	AspectRatio   float64   `json:"aspectRatio,omitempty"`
	VFov          float64   `json:"vfov,omitempty"`
	LookFrom      *vec3JSON `json:"lookFrom,omitempty"`
	LookAt        *vec3JSON `json:"lookAt,omitempty"`
	VUp           *vec3JSON `json:"vup,omitempty"`
	DefocusAngle  float64   `json:"defocusAngle,omitempty"`
	FocusDistance float64   `json:"focusDistance,omitempty"`
}

// SamplingJSON holds sampling settings; omitted fields keep the defaults
type SamplingJSON struct {
	SamplesPerPixel int   `json:"samplesPerPixel,omitempty"`
	MaxDepth        int   `json:"maxDepth,omitempty"`
	Seed            int64 `json:"seed,omitempty"`
}

// SkyJSON holds the background gradient
type SkyJSON struct {
	Top    *vec3JSON `json:"top"`
	Bottom *vec3JSON `json:"bottom"`
}

// MaterialJSON describes one material. Only the fields of its type are used.
type MaterialJSON struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Albedo          *vec3JSON `json:"albedo,omitempty"`
	Fuzz            float64   `json:"fuzz,omitempty"`
	RefractionIndex float64   `json:"refractionIndex,omitempty"`
}

// SphereJSON places a sphere with a material id
type SphereJSON struct {
	Center   *vec3JSON `json:"center"`
	Radius   float64   `json:"radius"`
	Material string    `json:"material"`
}

// Load reads a Scene from a JSON file.
// The scene name defaults to the file name without extension.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	sc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Decode reads a JSON scene from r
func Decode(r io.Reader) (*Scene, error) {
	var file File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return file.Build()
}

// Build converts the file form into a renderable scene
func (f *File) Build() (*Scene, error) {
	sc := New(f.Name)
	sc.Description = f.Description

	if f.Camera != nil {
		sc.CameraConfig = geometry.MergeCameraConfig(sc.CameraConfig, geometry.CameraConfig{
			Width:         f.Camera.Width,
			Height:        f.Camera.Height,
			AspectRatio:   f.Camera.AspectRatio,
			VFov:          f.Camera.VFov,
			LookFrom:      f.Camera.LookFrom.vec3(),
			LookAt:        f.Camera.LookAt.vec3(),
			VUp:           f.Camera.VUp.vec3(),
			DefocusAngle:  f.Camera.DefocusAngle,
			FocusDistance: f.Camera.FocusDistance,
		})
		// The origin is a valid camera position even though it is the zero value
		if f.Camera.LookFrom != nil {
			sc.CameraConfig.LookFrom = f.Camera.LookFrom.vec3()
		}
		if f.Camera.LookAt != nil {
			sc.CameraConfig.LookAt = f.Camera.LookAt.vec3()
		}
	}

	if f.Sampling != nil {
		sc.ApplyOverrides(geometry.CameraConfig{}, SamplingConfig{
			SamplesPerPixel: f.Sampling.SamplesPerPixel,
			MaxDepth:        f.Sampling.MaxDepth,
			Seed:            f.Sampling.Seed,
		})
	}

	if f.Sky != nil {
		if f.Sky.Top == nil || f.Sky.Bottom == nil {
			return nil, fmt.Errorf("sky: top and bottom colors are required")
		}
		sc.Sky = integrator.SkyGradient{Top: f.Sky.Top.vec3(), Bottom: f.Sky.Bottom.vec3()}
	}

	materials := make(map[string]material.Material, len(f.Materials))
	for i, m := range f.Materials {
		if m.ID == "" {
			return nil, fmt.Errorf("material %d: missing id", i)
		}
		if _, exists := materials[m.ID]; exists {
			return nil, fmt.Errorf("material %q: duplicate id", m.ID)
		}
		mat, err := m.build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", m.ID, err)
		}
		materials[m.ID] = mat
	}

	for i, sp := range f.Spheres {
		mat, ok := materials[sp.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d: unknown material %q", i, sp.Material)
		}
		if sp.Center == nil {
			return nil, fmt.Errorf("sphere %d: missing center", i)
		}
		sc.AddSphere(sp.Center.vec3(), sp.Radius, mat)
	}

	return sc, nil
}

func (m MaterialJSON) build() (material.Material, error) {
	switch m.Type {
	case MaterialLambertian:
		if m.Albedo == nil {
			return nil, fmt.Errorf("lambertian requires albedo")
		}
		return material.NewLambertian(m.Albedo.vec3()), nil
	case MaterialMetal:
		if m.Albedo == nil {
			return nil, fmt.Errorf("metal requires albedo")
		}
		return material.NewMetal(m.Albedo.vec3(), m.Fuzz), nil
	case MaterialDielectric:
		if m.RefractionIndex <= 0 {
			return nil, fmt.Errorf("dielectric requires a positive refractionIndex")
		}
		return material.NewDielectric(m.RefractionIndex), nil
	default:
		return nil, fmt.Errorf("unknown type %q", m.Type)
	}
}

// Save writes a Scene to a JSON file.
func Save(path string, sc *Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	defer f.Close()

	return Encode(f, sc)
}

// Encode writes a Scene as indented JSON
func Encode(w io.Writer, sc *Scene) error {
	file, err := ToFile(sc)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

// ToFile converts a scene to its file form, assigning one id per distinct material instance
func ToFile(sc *Scene) (*File, error) {
	cam := sc.CameraConfig
	file := &File{
		Name:        sc.Name,
		Description: sc.Description,
		Camera: &CameraJSON{
			Width:         cam.Width,
			Height:        cam.Height,
			AspectRatio:   cam.AspectRatio,
			VFov:          cam.VFov,
			LookFrom:      toVec3JSON(cam.LookFrom),
			LookAt:        toVec3JSON(cam.LookAt),
			VUp:           toVec3JSON(cam.VUp),
			DefocusAngle:  cam.DefocusAngle,
			FocusDistance: cam.FocusDistance,
		},
		Sampling: &SamplingJSON{
			SamplesPerPixel: sc.SamplingConfig.SamplesPerPixel,
			MaxDepth:        sc.SamplingConfig.MaxDepth,
			Seed:            sc.SamplingConfig.Seed,
		},
		Sky: &SkyJSON{
			Top:    toVec3JSON(sc.Sky.Top),
			Bottom: toVec3JSON(sc.Sky.Bottom),
		},
	}

	ids := make(map[material.Material]string)
	for i, obj := range sc.World.Objects() {
		sphere, ok := obj.(*geometry.Sphere)
		if !ok {
			return nil, fmt.Errorf("encode scene: object %d: only spheres can be saved, got %T", i, obj)
		}

		id, seen := ids[sphere.Material]
		if !seen {
			mj, err := materialToJSON(sphere.Material)
			if err != nil {
				return nil, fmt.Errorf("encode scene: sphere %d: %w", i, err)
			}
			id = fmt.Sprintf("%s-%d", mj.Type, len(file.Materials))
			mj.ID = id
			ids[sphere.Material] = id
			file.Materials = append(file.Materials, mj)
		}

		file.Spheres = append(file.Spheres, SphereJSON{
			Center:   toVec3JSON(sphere.Center),
			Radius:   sphere.Radius,
			Material: id,
		})
	}

	return file, nil
}

func materialToJSON(mat material.Material) (MaterialJSON, error) {
	switch m := mat.(type) {
	case *material.Lambertian:
		return MaterialJSON{Type: MaterialLambertian, Albedo: toVec3JSON(m.Albedo)}, nil
	case *material.Metal:
		return MaterialJSON{Type: MaterialMetal, Albedo: toVec3JSON(m.Albedo), Fuzz: m.Fuzz}, nil
	case *material.Dielectric:
		return MaterialJSON{Type: MaterialDielectric, RefractionIndex: m.RefractionIndex}, nil
	default:
		return MaterialJSON{}, fmt.Errorf("unsupported material %T", mat)
	}
}
