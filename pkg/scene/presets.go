package scene

import "github.com/go-gl/mathgl/mgl32"

// PointLightCount is the number of point lights in the lit scene
const PointLightCount = 4

// Lighting is the colour state a preset writes into the lit scene
type Lighting struct {
	Sky                 mgl32.Vec3
	DirectionalColor    mgl32.Vec3
	DirectionalSpecular mgl32.Vec3
	PointColors         [PointLightCount]mgl32.Vec3
	PointSpeculars      [PointLightCount]mgl32.Vec3
}

// Preset is a named lighting mood
type Preset struct {
	Name     string
	Lighting Lighting
}

func uniform(v mgl32.Vec3) [PointLightCount]mgl32.Vec3 {
	return [PointLightCount]mgl32.Vec3{v, v, v, v}
}

func gray(v float32) mgl32.Vec3 {
	return mgl32.Vec3{v, v, v}
}

// Presets is the ordered preset table. Index 0 is applied when the lit scene
// is created.
var Presets = [...]Preset{
	{
		Name: "default",
		Lighting: Lighting{
			Sky:                 mgl32.Vec3{0.05, 0.05, 0.1},
			DirectionalColor:    gray(0.5),
			DirectionalSpecular: gray(1),
			PointColors:         uniform(gray(0.5)),
			PointSpeculars:      uniform(gray(1)),
		},
	},
	{
		Name: "desert",
		Lighting: Lighting{
			Sky:                 mgl32.Vec3{0.7, 0.5, 0.3},
			DirectionalColor:    mgl32.Vec3{0.8, 0.7, 0.4},
			DirectionalSpecular: gray(1),
			PointColors: [PointLightCount]mgl32.Vec3{
				{1.0, 0.3, 0.0},
				{1.0, 0.0, 0.0},
				{1.0, 0.3, 0.0},
				{0.8, 0.5, 0.0},
			},
			PointSpeculars: uniform(gray(1)),
		},
	},
	{
		Name: "factory",
		Lighting: Lighting{
			Sky:                 gray(0.1),
			DirectionalColor:    mgl32.Vec3{0.2, 0.1, 0.5},
			DirectionalSpecular: gray(0.5),
			PointColors:         uniform(mgl32.Vec3{0.1, 0.1, 0.3}),
			PointSpeculars:      uniform(gray(1)),
		},
	},
	{
		Name: "horror",
		Lighting: Lighting{
			Sky:                 gray(0),
			DirectionalColor:    gray(0.01),
			DirectionalSpecular: gray(0),
			PointColors:         uniform(mgl32.Vec3{0.1, 0.025, 0.0}),
			PointSpeculars:      uniform(mgl32.Vec3{0.4, 0.1, 0.0}),
		},
	},
	{
		Name: "biochemical-lab",
		Lighting: Lighting{
			Sky:                 mgl32.Vec3{0.95, 1.0, 0.95},
			DirectionalColor:    mgl32.Vec3{0.5, 0.7, 0.5},
			DirectionalSpecular: gray(1),
			PointColors:         uniform(mgl32.Vec3{0.4, 0.7, 0.4}),
			PointSpeculars:      uniform(gray(1)),
		},
	},
}

// wrapPreset maps any integer onto a valid preset index
func wrapPreset(i int) int {
	n := len(Presets)
	return ((i % n) + n) % n
}
