// Package forecasting applies the feature deriver and the model adapter to batches of rows.
package forecasting

import (
	"fmt"

	"github.com/aristath/retail-insights/internal/domain"
	"github.com/aristath/retail-insights/internal/modules/features"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

// Predictor is the model adapter contract the service depends on
type Predictor interface {
	Predict(x *mat.Dense) ([]float64, error)
}

// Service produces per-row unit-sales predictions.
// It holds no per-call state; the predictor is read-only once loaded.
type Service struct {
	predictor Predictor
	log       zerolog.Logger
}

// NewService creates a forecast service around predictor
func NewService(predictor Predictor, log zerolog.Logger) *Service {
	return &Service{
		predictor: predictor,
		log:       log.With().Str("service", "forecasting").Logger(),
	}
}

// Forecast derives features for every record (keeping input order) and returns
// one prediction per record. Stored derived features are recomputed.
func (s *Service) Forecast(records []domain.TransactionRecord) ([]float64, error) {
	derived, err := features.DeriveEach(records)
	if err != nil {
		return nil, err
	}
	return s.predict(derived)
}

// Score predicts using each record's stored derived features as-is.
// Records that were never derived are derived first.
func (s *Service) Score(records []domain.TransactionRecord) ([]float64, error) {
	prepared := make([]domain.TransactionRecord, len(records))
	for i, rec := range records {
		if rec.Features != nil {
			prepared[i] = rec
			continue
		}
		derived, err := features.DeriveRecord(rec)
		if err != nil {
			if mf, ok := err.(*domain.MissingFieldError); ok {
				mf.Row = i + 1
			}
			return nil, err
		}
		prepared[i] = derived
	}
	return s.predict(prepared)
}

// PredictFeatures scores one already-assembled feature row
func (s *Service) PredictFeatures(values map[string]float64) (float64, error) {
	x, err := features.FromMap(values)
	if err != nil {
		return 0, err
	}
	out, err := s.predictor.Predict(x)
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, &domain.ModelInferenceError{Err: fmt.Errorf("expected 1 prediction, got %d", len(out))}
	}
	return out[0], nil
}

func (s *Service) predict(records []domain.TransactionRecord) ([]float64, error) {
	x, err := features.Matrix(records)
	if err != nil {
		return nil, err
	}
	predictions, err := s.predictor.Predict(x)
	if err != nil {
		s.log.Error().Err(err).Int("rows", len(records)).Msg("Prediction failed")
		return nil, err
	}
	s.log.Debug().Int("rows", len(records)).Msg("Scored batch")
	return predictions, nil
}
