package model

// Material tags an obstacle with the substance it is made of. Unknown tags
// are tolerated and resolve to a conservative default profile.
type Material string

const (
	MaterialDrywall  Material = "drywall"
	MaterialWood     Material = "wood"
	MaterialGlass    Material = "glass"
	MaterialBrick    Material = "brick"
	MaterialConcrete Material = "concrete"
	MaterialMetal    Material = "metal"
)

// DefaultReflectionLossDb applies when a material profile leaves the
// reflection loss unspecified.
const DefaultReflectionLossDb = 6.0

// MaterialProfile describes how a material behaves at the supported
// reference frequency. AttenuationDb is calibrated for a 0.1 m thick
// section; thicker obstacles scale it linearly.
type MaterialProfile struct {
	AttenuationDb    float64
	ReflectionLossDb float64
}

var materialProfiles = map[Material]MaterialProfile{
	MaterialDrywall:  {AttenuationDb: 3, ReflectionLossDb: 12},
	MaterialWood:     {AttenuationDb: 4, ReflectionLossDb: 11},
	MaterialGlass:    {AttenuationDb: 2, ReflectionLossDb: 9},
	MaterialBrick:    {AttenuationDb: 8, ReflectionLossDb: 10},
	MaterialConcrete: {AttenuationDb: 12, ReflectionLossDb: 8},
	MaterialMetal:    {AttenuationDb: 26, ReflectionLossDb: 4},
}

// Profile resolves the static profile for the material. Unknown materials
// behave like light interior walls, with the reflection loss left to the
// DefaultReflectionLossDb fallback.
func (m Material) Profile() MaterialProfile {
	if p, ok := materialProfiles[m]; ok {
		return p
	}
	return MaterialProfile{AttenuationDb: 3}
}
