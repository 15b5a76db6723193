package sampling

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Method is a surface sampling strategy.
type Method int

const (
	// MonteCarlo draws exactly TargetCount area weighted uniform points.
	MonteCarlo Method = iota
	// PoissonDisk prunes an oversampled Monte Carlo cloud so that no two points are closer than
	// a radius derived from TargetCount.
	PoissonDisk
)

func (m Method) String() string {
	switch m {
	case MonteCarlo:
		return "montecarlo"
	case PoissonDisk:
		return "poisson"
	default:
		return "unknown"
	}
}

// MethodFromCode maps the integer method selector used by scripting hosts: zero is Monte Carlo
// and every other value is Poisson disk.
func MethodFromCode(code int) Method {
	if code == 0 {
		return MonteCarlo
	}
	return PoissonDisk
}

// MethodFromString parses a method name, ignoring case.
func MethodFromString(name string) (Method, error) {
	switch strings.ToLower(name) {
	case "montecarlo", "monte_carlo", "mc":
		return MonteCarlo, nil
	case "poisson", "poisson_disk", "pd":
		return PoissonDisk, nil
	default:
		return 0, NewInvalidParameterError("method", name, "unknown method")
	}
}

// MaxSamples bounds the number of points one Sample call draws: TargetCount for Monte Carlo and
// TargetCount*OversamplingFactor seeds for Poisson disk.
const MaxSamples = 1 << 26

// Parameters selects what Sample produces.
type Parameters struct {
	TargetCount int    `json:"target_count"`
	Method      Method `json:"method"`
	// OversamplingFactor scales the Monte Carlo seed cloud that Poisson disk sampling prunes.
	OversamplingFactor  int    `json:"oversampling_factor"`
	UseGeodesicDistance bool   `json:"use_geodesic_distance"`
	Seed                uint64 `json:"seed"`
}

// DefaultParameters returns Monte Carlo parameters with the oversampling factor Poisson disk
// sampling uses unless told otherwise. TargetCount must still be set.
func DefaultParameters() Parameters {
	return Parameters{
		Method:             MonteCarlo,
		OversamplingFactor: 20,
	}
}

// Validate ensures all parts of the parameters are valid.
func (p Parameters) Validate() error {
	if p.TargetCount <= 0 {
		return NewInvalidParameterError("target_count", p.TargetCount, "must be positive")
	}
	switch p.Method {
	case MonteCarlo:
		if p.TargetCount > MaxSamples {
			return NewInvalidParameterError("target_count", p.TargetCount, fmt.Sprintf("must be at most %d", MaxSamples))
		}
	case PoissonDisk:
		if p.OversamplingFactor <= 0 {
			return NewInvalidParameterError("oversampling_factor", p.OversamplingFactor, "must be positive")
		}
		if p.TargetCount > MaxSamples/p.OversamplingFactor {
			return NewInvalidParameterError("target_count", p.TargetCount,
				fmt.Sprintf("times oversampling_factor %d must be at most %d", p.OversamplingFactor, MaxSamples))
		}
	default:
		return NewInvalidParameterError("method", int(p.Method), "unknown method")
	}
	return nil
}

// ParametersFromAttributes decodes host supplied attributes on top of DefaultParameters and
// validates the result. Numbers may arrive as floats; the method may be given as its name or as
// the integer selector accepted by MethodFromCode.
func ParametersFromAttributes(attributes map[string]interface{}) (Parameters, error) {
	params := DefaultParameters()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &params,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.DecodeHookFuncType(methodDecodeHook),
	})
	if err != nil {
		return Parameters{}, err
	}
	if err := decoder.Decode(attributes); err != nil {
		if IsInvalidParameterError(err) {
			return Parameters{}, err
		}
		return Parameters{}, NewInvalidParameterError("attributes", attributes, err.Error())
	}
	if err := params.Validate(); err != nil {
		return Parameters{}, err
	}
	return params, nil
}

var methodType = reflect.TypeOf(Method(0))

func methodDecodeHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != methodType {
		return data, nil
	}
	if from.Kind() == reflect.String {
		return MethodFromString(cast.ToString(data))
	}
	code, err := cast.ToIntE(data)
	if err != nil {
		return nil, errors.Wrap(err, "method")
	}
	return MethodFromCode(code), nil
}
