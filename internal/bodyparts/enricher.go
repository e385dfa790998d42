package bodyparts

import (
	"context"
	"fmt"

	"github.com/2beens/workoutdash/internal/telemetry/tracing"
	"github.com/2beens/workoutdash/internal/workouts"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=bodyparts_test

// Classifier labels exercise names with free-form body part names.
type Classifier interface {
	Classify(ctx context.Context, names []string) (map[string]string, error)
}

// MapStore persists the body part map between runs.
type MapStore interface {
	// Load returns an empty map if nothing was saved yet.
	Load(ctx context.Context) (Map, error)
	Save(ctx context.Context, m Map) error
}

type Result struct {
	DistinctNames int
	FromCache     int
	Classified    int
	// Unclassified holds distinct names left without a body part, in first-seen order.
	Unclassified []string
	// Warning combines every non-fatal problem hit while enriching.
	Warning error
}

type Enricher struct {
	classifier Classifier
	store      MapStore
	rules      []Rule
}

// NewEnricher creates an enricher. A nil classifier leaves uncached names unclassified.
func NewEnricher(classifier Classifier, store MapStore, rules []Rule) *Enricher {
	return &Enricher{
		classifier: classifier,
		store:      store,
		rules:      rules,
	}
}

// Enrich sets BodyPart and BodyRegion on every entry. It never fails: problems
// with the classifier or the map store end up in Result.Warning.
func (e *Enricher) Enrich(ctx context.Context, entries []workouts.EnrichedEntry) Result {
	ctx, span := tracing.GlobalTracer.Start(ctx, "enricher.enrich")
	defer span.End()

	var warn error
	names := distinctNames(entries)
	result := Result{DistinctNames: len(names)}

	known := Map{}
	if e.store != nil {
		loaded, err := e.store.Load(ctx)
		if err != nil {
			warn = multierr.Append(warn, fmt.Errorf("load body part map: %w", err))
		} else {
			known = loaded
		}
	}

	var pending []string
	for _, n := range names {
		if _, ok := known[n]; ok {
			result.FromCache++
			continue
		}
		pending = append(pending, n)
	}

	newlyClassified := e.classify(ctx, pending, &warn)
	for name, bp := range newlyClassified {
		known[name] = bp
	}

	if len(newlyClassified) > 0 && e.store != nil {
		if err := e.store.Save(ctx, known); err != nil {
			warn = multierr.Append(warn, fmt.Errorf("save body part map: %w", err))
		}
	}

	for i := range entries {
		bp := known[entries[i].ExerciseName]
		entries[i].BodyPart = bp
		entries[i].BodyRegion = Region(bp)
	}

	for _, n := range names {
		if _, ok := known[n]; ok {
			result.Classified++
		} else {
			result.Unclassified = append(result.Unclassified, n)
		}
	}
	result.Warning = warn

	span.SetAttributes(
		attribute.Int("distinct", result.DistinctNames),
		attribute.Int("cached", result.FromCache),
		attribute.Int("unclassified", len(result.Unclassified)),
	)
	if warn != nil {
		log.Warnf("enricher: %d of %d exercises unclassified: %s", len(result.Unclassified), result.DistinctNames, warn)
	}

	return result
}

func (e *Enricher) classify(ctx context.Context, pending []string, warn *error) Map {
	if len(pending) == 0 {
		return nil
	}
	if e.classifier == nil {
		*warn = multierr.Append(*warn, fmt.Errorf("%w: no classifier configured", ErrClassificationUnavailable))
		return nil
	}

	labels, err := e.classifier.Classify(ctx, pending)
	if err != nil {
		*warn = multierr.Append(*warn, fmt.Errorf("classify %d exercises: %w", len(pending), err))
		return nil
	}

	classified := Map{}
	for _, name := range pending {
		if bp, ok := ApplyRules(name, e.rules); ok {
			classified[name] = bp
			continue
		}

		label, ok := labels[name]
		if !ok {
			*warn = multierr.Append(*warn, fmt.Errorf("no body part returned for %q", name))
			continue
		}
		bp, ok := ParseBodyPart(label)
		if !ok {
			*warn = multierr.Append(*warn, fmt.Errorf("invalid body part %q for %q", label, name))
			continue
		}
		classified[name] = bp
	}

	return classified
}

func distinctNames(entries []workouts.EnrichedEntry) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, e := range entries {
		if _, ok := seen[e.ExerciseName]; ok {
			continue
		}
		seen[e.ExerciseName] = struct{}{}
		names = append(names, e.ExerciseName)
	}
	return names
}
