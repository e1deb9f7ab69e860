// Package model wraps the pre-trained demand regressor behind a fixed call contract:
// one prediction per input row, in input order, over the 12 ordered feature columns.
package model

import (
	"fmt"

	"github.com/aristath/retail-insights/internal/domain"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

// Regressor is an opaque inference engine. Implementations must be safe for
// concurrent use once constructed.
type Regressor interface {
	Predict(x *mat.Dense) ([]float64, error)
}

// Info describes the loaded model for status endpoints
type Info struct {
	Kind     string   `json:"kind"`
	Trees    int      `json:"trees,omitempty"`
	Features []string `json:"features"`
	Source   string   `json:"source,omitempty"`
}

// Adapter enforces the feature contract around a Regressor and converts every
// failure into a domain.ModelInferenceError.
type Adapter struct {
	regressor Regressor
	info      Info
	log       zerolog.Logger
}

// NewAdapter wraps regressor
func NewAdapter(regressor Regressor, info Info, log zerolog.Logger) *Adapter {
	if info.Features == nil {
		info.Features = domain.FeatureNames[:]
	}
	return &Adapter{
		regressor: regressor,
		info:      info,
		log:       log.With().Str("component", "model_adapter").Logger(),
	}
}

// Info returns a description of the wrapped model
func (a *Adapter) Info() Info {
	return a.info
}

// Predict scores every row of x. A nil matrix yields an empty result.
func (a *Adapter) Predict(x *mat.Dense) (predictions []float64, err error) {
	if x == nil {
		return []float64{}, nil
	}
	rows, cols := x.Dims()
	if cols != domain.FeatureCount {
		return nil, &domain.ModelInferenceError{
			Err: fmt.Errorf("feature matrix has %d columns, model expects %d", cols, domain.FeatureCount),
		}
	}

	defer func() {
		if p := recover(); p != nil {
			a.log.Error().Interface("panic", p).Int("rows", rows).Msg("Regressor panicked")
			predictions = nil
			err = &domain.ModelInferenceError{Err: fmt.Errorf("panic in regressor: %v", p)}
		}
	}()

	out, err := a.regressor.Predict(x)
	if err != nil {
		a.log.Error().Err(err).Int("rows", rows).Msg("Regressor failed")
		return nil, &domain.ModelInferenceError{Err: err}
	}
	if len(out) != rows {
		return nil, &domain.ModelInferenceError{
			Err: fmt.Errorf("regressor returned %d predictions for %d rows", len(out), rows),
		}
	}
	return out, nil
}
