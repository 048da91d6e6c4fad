package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Coordinate constraint constants.
const (
	MinLat = -90.0
	MaxLat = 90.0
	MinLng = -180.0
	MaxLng = 180.0

	// MaxWaveSpeed bounds the configurable ground speed (m/s). Anything
	// faster sweeps the planet in under an hour and is a definition error.
	MaxWaveSpeed = 10000.0

	// MaxApproxDurationSec bounds the configurable wave duration (30 days).
	MaxApproxDurationSec = 30 * 24 * 3600
)

// NormalizeLng folds a longitude into the canonical (-180, 180] range.
func NormalizeLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng <= -180 {
		lng += 360
	}
	return lng
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateEventDefinition checks an event definition and returns a list of
// human-readable validation findings. An empty list means the definition is
// usable. Findings are attached to the entity rather than raised, so a
// caller can render a best-effort degraded view.
func ValidateEventDefinition(def *EventDefinition) []string {
	var issues []string
	if def == nil {
		return []string{fmt.Sprintf("%s: event definition is nil", ErrCodeValidationMissingField)}
	}

	if err := validate.Struct(def); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok {
			for _, fe := range verrs {
				issues = append(issues, fmt.Sprintf("%s: field %s failed rule %q",
					codeForField(fe.Field()), fe.Namespace(), fe.Tag()))
			}
		} else {
			issues = append(issues, fmt.Sprintf("%s: %v", ErrCodeInternalUnexpected, err))
		}
	}

	// Rules the struct tags cannot express.
	if def.Wave.Speed > MaxWaveSpeed {
		issues = append(issues, fmt.Sprintf("%s: speed %.1f m/s exceeds maximum %.0f",
			ErrCodeValidationInvalidSpeed, def.Wave.Speed, MaxWaveSpeed))
	}
	if def.Wave.ApproxDurationSec > MaxApproxDurationSec {
		issues = append(issues, fmt.Sprintf("%s: duration %ds exceeds maximum %ds",
			ErrCodeValidationInvalidDuration, def.Wave.ApproxDurationSec, MaxApproxDurationSec))
	}
	if def.Wave.Kind == WaveLinearSplit && def.Wave.NbSplits < 1 {
		issues = append(issues, fmt.Sprintf("%s: linear_split wave requires nb_splits >= 1",
			ErrCodeValidationMissingField))
	}
	if bb := def.Area.BBox; bb != nil && bb.MinLat > bb.MaxLat {
		issues = append(issues, fmt.Sprintf("%s: bbox min_lat %.4f above max_lat %.4f",
			ErrCodeValidationInvalidArea, bb.MinLat, bb.MaxLat))
	}

	return issues
}

// codeForField picks the validation error code matching a failed field.
func codeForField(field string) ErrorCode {
	switch strings.ToLower(field) {
	case "lat", "minlat", "maxlat":
		return ErrCodeValidationInvalidLat
	case "lng", "minlng", "maxlng":
		return ErrCodeValidationInvalidLng
	case "speed":
		return ErrCodeValidationInvalidSpeed
	case "approxdurationsec":
		return ErrCodeValidationInvalidDuration
	case "direction":
		return ErrCodeValidationInvalidDirection
	default:
		return ErrCodeValidationMissingField
	}
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}
