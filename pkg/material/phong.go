package material

import (
	"math"

	"github.com/rmellor/go-whitted-raytracer/pkg/core"
)

// Phong shades with the classic ambient + diffuse + specular model and
// blends recursively traced reflection and transmission on top. The blend
// weights are not required to sum to 1; over- or under-saturated results
// are accepted behavior of the model.
type Phong struct {
	Ambient   core.Vec3 // ambient color, applied independently of lights
	Diffuse   core.Vec3 // diffuse reflectance color
	Specular  core.Vec3 // specular highlight color
	KDiffuse  float64   // diffuse weight
	KSpecular float64   // specular weight
	Shininess float64   // specular exponent

	Reflection      float64 // weight of the recursively traced reflection
	Transmission    float64 // weight of the recursively traced transmission
	RefractiveIndex float64 // index of refraction used when Transmission > 0
}

// NewPhong creates a lit material with the given diffuse color and
// default ambient/specular settings
func NewPhong(diffuse core.Vec3) *Phong {
	return &Phong{
		Ambient:         diffuse.Multiply(0.1),
		Diffuse:         diffuse,
		Specular:        core.NewVec3(1, 1, 1),
		KDiffuse:        0.9,
		KSpecular:       0.3,
		Shininess:       32,
		RefractiveIndex: 1.0,
	}
}

// NewMirror creates a reflective material with the given reflection weight
func NewMirror(reflection float64) *Phong {
	return &Phong{
		Specular:        core.NewVec3(1, 1, 1),
		KSpecular:       0.1,
		Shininess:       64,
		Reflection:      reflection,
		RefractiveIndex: 1.0,
	}
}

// NewGlass creates a transmissive material with the given transmission
// weight and index of refraction
func NewGlass(transmission, refractiveIndex float64) *Phong {
	return &Phong{
		Specular:        core.NewVec3(1, 1, 1),
		KSpecular:       0.2,
		Shininess:       96,
		Transmission:    transmission,
		RefractiveIndex: refractiveIndex,
	}
}

// Shade implements the Material interface. For each unoccluded light it
// accumulates diffuse and specular terms, then blends the recursive
// contributions: local*(1-kR-kT) + kR*traced(reflected) + kT*traced(refracted).
func (p *Phong) Shade(w World, tracer Tracer, rayIn core.Ray, hit *HitRecord, depth int) core.Vec3 {
	tol := w.Tolerance()
	local := p.Ambient
	viewDir := rayIn.Direction.Negate()

	// Shadow and recursive rays originate slightly off the surface so they
	// cannot re-intersect it at floating-point coincidence.
	liftedPoint := hit.Point.Add(hit.Normal.Multiply(tol.ShadowBias))

	for _, light := range w.Lights() {
		lightDir, lightDistance := light.DirectionFrom(liftedPoint)
		if lightDistance == 0 {
			continue
		}
		if w.Occluded(liftedPoint, lightDir, lightDistance) {
			continue
		}

		if nDotL := hit.Normal.Dot(lightDir); nDotL > 0 {
			contribution := p.Diffuse.MultiplyVec(light.Intensity).Multiply(p.KDiffuse * nDotL)
			local = local.Add(contribution)
		}

		// Specular: R is the reflection of -L about N, V points to the ray origin
		reflected := reflectVector(lightDir.Negate(), hit.Normal)
		if rDotV := reflected.Dot(viewDir); rDotV > 0 {
			contribution := p.Specular.MultiplyVec(light.Intensity).Multiply(p.KSpecular * math.Pow(rDotV, p.Shininess))
			local = local.Add(contribution)
		}
	}

	reflectWeight := p.Reflection
	transmitWeight := p.Transmission
	if reflectWeight == 0 && transmitWeight == 0 {
		return local
	}

	result := local.Multiply(1 - reflectWeight - transmitWeight)

	var refractedDir core.Vec3
	if transmitWeight > 0 {
		refractionRatio := p.RefractiveIndex
		if hit.FrontFace {
			refractionRatio = 1.0 / p.RefractiveIndex
		}

		cosTheta := math.Min(-rayIn.Direction.Dot(hit.Normal), 1.0)
		sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

		if refractionRatio*sinTheta > 1.0 {
			// Total internal reflection: the transmitted energy follows the mirror ray
			reflectWeight += transmitWeight
			transmitWeight = 0
		} else {
			// Schlick's approximation splits the transmitted energy at glancing angles
			fresnel := Reflectance(cosTheta, refractionRatio)
			reflectWeight += transmitWeight * fresnel
			transmitWeight *= 1 - fresnel
			refractedDir = refractVector(rayIn.Direction, hit.Normal, refractionRatio)
		}
	}

	if reflectWeight > 0 {
		reflectedRay := core.NewRay(liftedPoint, reflectVector(rayIn.Direction, hit.Normal))
		result = result.Add(tracer.Trace(reflectedRay, depth+1).Multiply(reflectWeight))
	}

	if transmitWeight > 0 {
		// Transmission continues through the surface, so the offset flips sides
		loweredPoint := hit.Point.Subtract(hit.Normal.Multiply(tol.ShadowBias))
		refractedRay := core.NewRay(loweredPoint, refractedDir)
		result = result.Add(tracer.Trace(refractedRay, depth+1).Multiply(transmitWeight))
	}

	return result
}

// reflectVector calculates the reflection of a vector v off a surface with normal n
func reflectVector(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// refractVector calculates the refraction of a vector using Snell's law
func refractVector(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
