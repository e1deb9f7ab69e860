package model

import (
	"context"
	"fmt"

	"github.com/aristath/retail-insights/internal/domain"
	"github.com/aristath/retail-insights/internal/modules/artifacts"
	"github.com/rs/zerolog"
)

// Artifact kinds
const (
	KindForest = "forest"
	KindLinear = "linear"
)

// Artifact is the serialized form of a trained regressor. Training happens
// outside this service; the exporter writes this structure as JSON or msgpack.
type Artifact struct {
	Kind     string   `json:"kind"`
	Features []string `json:"features"`
	Forest   *Forest  `json:"forest,omitempty"`
	Linear   *Linear  `json:"linear,omitempty"`
}

// Regressor validates the artifact and returns its inference engine
func (a *Artifact) Regressor() (Regressor, error) {
	if err := checkFeatureOrder(a.Features); err != nil {
		return nil, err
	}

	switch a.Kind {
	case KindForest:
		if a.Forest == nil {
			return nil, fmt.Errorf("forest artifact has no forest section")
		}
		if err := a.Forest.Validate(); err != nil {
			return nil, err
		}
		return a.Forest, nil
	case KindLinear:
		if a.Linear == nil {
			return nil, fmt.Errorf("linear artifact has no linear section")
		}
		if err := a.Linear.Validate(); err != nil {
			return nil, err
		}
		return a.Linear, nil
	default:
		return nil, fmt.Errorf("unsupported model kind %q", a.Kind)
	}
}

func (a *Artifact) info(source string) Info {
	info := Info{Kind: a.Kind, Features: a.Features, Source: source}
	if a.Forest != nil {
		info.Trees = len(a.Forest.Trees)
	}
	return info
}

// checkFeatureOrder requires the exact positional column list the service assembles
func checkFeatureOrder(features []string) error {
	if len(features) != domain.FeatureCount {
		return fmt.Errorf("artifact lists %d features, want %d", len(features), domain.FeatureCount)
	}
	for i, name := range domain.FeatureNames {
		if features[i] != name {
			return fmt.Errorf("artifact feature %d is %q, want %q", i, features[i], name)
		}
	}
	return nil
}

// Loader builds adapters from stored artifacts
type Loader struct {
	source *artifacts.Source
	base   zerolog.Logger
	log    zerolog.Logger
}

// NewLoader creates a loader reading through source
func NewLoader(source *artifacts.Source, log zerolog.Logger) *Loader {
	return &Loader{
		source: source,
		base:   log,
		log:    log.With().Str("component", "model_loader").Logger(),
	}
}

// Load reads the artifact at location and returns a ready adapter
func (l *Loader) Load(ctx context.Context, location string) (*Adapter, error) {
	var artifact Artifact
	if err := l.source.Load(ctx, location, &artifact); err != nil {
		return nil, fmt.Errorf("failed to load model artifact: %w", err)
	}

	regressor, err := artifact.Regressor()
	if err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", location, err)
	}

	info := artifact.info(location)
	l.log.Info().
		Str("kind", info.Kind).
		Int("trees", info.Trees).
		Str("source", location).
		Msg("Model loaded")

	return NewAdapter(regressor, info, l.base), nil
}
