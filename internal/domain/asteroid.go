package domain

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all parameter checks; validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// AsteroidParameters is the immutable input to the impact calculator.
type AsteroidParameters struct {
	Diameter  float64 `json:"diameter" validate:"gt=0"`              // m
	Velocity  float64 `json:"velocity" validate:"gt=0"`              // km/s
	Angle     float64 `json:"angle" validate:"gte=0,lte=90"`         // degrees from horizontal
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`    // degrees
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"` // degrees
}

// ImpactResult holds the derived consequences of a single impact.
type ImpactResult struct {
	Mass               float64  `json:"mass"`             // kg
	Energy             float64  `json:"energy"`           // Mt TNT
	CraterDiameter     float64  `json:"crater_diameter"`  // km
	CraterDepth        float64  `json:"crater_depth"`     // km
	ShockwaveRadius    float64  `json:"shockwave_radius"` // km
	ThermalRadius      float64  `json:"thermal_radius"`   // km
	SeismicMagnitude   float64  `json:"seismic_magnitude"`
	IsOceanImpact      bool     `json:"is_ocean_impact"`
	TsunamiHeight      *float64 `json:"tsunami_height,omitempty"` // m, set iff IsOceanImpact
	AffectedPopulation int64    `json:"affected_population"`
	Region             Region   `json:"region"`
}

// NearEarthObject is the subset of a third-party NEO record needed to seed a simulation.
type NearEarthObject struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Diameter             float64   `json:"diameter"` // m, mean of the estimated range
	Velocity             float64   `json:"velocity"` // km/s, at the first listed close approach
	PotentiallyHazardous bool      `json:"potentially_hazardous"`
	CloseApproachDate    time.Time `json:"close_approach_date,omitzero"`
	MissDistanceKm       float64   `json:"miss_distance_km,omitempty"`
	AbsoluteMagnitudeH   float64   `json:"absolute_magnitude_h,omitempty"`
}

// Validate checks that every parameter is within its physical range. The
// returned error is an *InvalidParameterError for the first failing field.
func (p AsteroidParameters) Validate() error {
	return validateStruct(p)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	value, _ := fe.Value().(float64)
	return &InvalidParameterError{
		Field:  fe.Field(),
		Value:  value,
		Reason: describeTag(fe),
	}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
