package bodyparts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/workoutdash/internal/llm"
	"github.com/2beens/workoutdash/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	oneHour                = 60 * 60
	classificationCacheTTL = oneHour * 24
)

var ErrClassificationUnavailable = errors.New("classification unavailable")

type completer interface {
	Complete(ctx context.Context, request llm.Request) (string, error)
}

// LLMClassifier asks a chat completion model for the body part of each
// exercise name. Successful answers are cached per prompt.
type LLMClassifier struct {
	client completer
	model  string
	rules  []Rule
	cache  *freecache.Cache
}

func NewLLMClassifier(client completer, model string, rules []Rule) *LLMClassifier {
	megabyte := 1024 * 1024
	cacheSize := 5 * megabyte

	return &LLMClassifier{
		client: client,
		model:  model,
		rules:  rules,
		cache:  freecache.NewCache(cacheSize),
	}
}

func BuildPrompt(names []string, rules []Rule) string {
	var sb strings.Builder
	sb.WriteString("Return a JSON mapping each of the following exercise names to their primary body part.\n\n")
	sb.WriteString(RulesText(rules))
	sb.WriteString("\nExercises:\n")
	for _, n := range names {
		sb.WriteString("- ")
		sb.WriteString(n)
		sb.WriteString("\n")
	}
	sb.WriteString("\nReturn format:\n{ \"Exercise Name\": \"Body Part\", ... }\n")
	return sb.String()
}

// Classify returns the raw label per exercise name as answered by the model.
// Every failure is reported as ErrClassificationUnavailable.
func (c *LLMClassifier) Classify(ctx context.Context, names []string) (_ map[string]string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "llmClassifier.classify")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("names", len(names)))

	prompt := BuildPrompt(names, c.rules)
	sum := sha256.Sum256([]byte(prompt))
	cacheKey := []byte("classify::" + hex.EncodeToString(sum[:]))

	if cached, cacheErr := c.cache.Get(cacheKey); cacheErr == nil {
		labels, parseErr := ParseLabels(string(cached))
		if parseErr == nil {
			log.Debugf("classifier: %d names answered from cache", len(names))
			span.SetAttributes(attribute.Bool("cached", true))
			return labels, nil
		}
		log.Errorf("classifier: failed to parse cached answer: %s", parseErr)
	}

	content, err := c.client.Complete(ctx, llm.UserPrompt(c.model, 0, prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassificationUnavailable, err)
	}

	labels, err := ParseLabels(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassificationUnavailable, err)
	}

	if err := c.cache.Set(cacheKey, []byte(content), classificationCacheTTL); err != nil {
		log.Errorf("classifier: failed to cache answer: %s", err)
	}

	return labels, nil
}

// ParseLabels decodes a JSON object of name to label, tolerating a
// surrounding markdown code fence.
func ParseLabels(content string) (map[string]string, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if nl := strings.IndexByte(content, '\n'); nl >= 0 {
			// drop the language tag line, e.g. ```json
			content = content[nl+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	labels := map[string]string{}
	if err := json.Unmarshal([]byte(content), &labels); err != nil {
		return nil, fmt.Errorf("decode classification: %w", err)
	}
	return labels, nil
}
