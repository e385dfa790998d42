package insights

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/2beens/workoutdash/internal/llm"
)

var ErrEmptyIdealResponse = errors.New("ideal response is empty")

type FineTuneExample struct {
	Messages []llm.Message `json:"messages"`
}

// WriteFineTuneExample appends one chat example as a JSON line.
func WriteFineTuneExample(w io.Writer, prompt, ideal string) error {
	ideal = strings.TrimSpace(ideal)
	if ideal == "" {
		return ErrEmptyIdealResponse
	}

	line, err := json.Marshal(FineTuneExample{
		Messages: []llm.Message{
			{Role: "user", Content: prompt},
			{Role: "assistant", Content: ideal},
		},
	})
	if err != nil {
		return fmt.Errorf("marshal example: %w", err)
	}

	line = append(line, '\n')
	if _, err := w.Write(line); err != nil {
		return fmt.Errorf("write example: %w", err)
	}
	return nil
}
