package quiz

import (
	"errors"
	"fmt"
)

// Category keys in declaration order. Order breaks ties.
const (
	CategoryControl    = "control"
	CategoryPerfection = "perfection"
	CategoryComparison = "comparison"
	CategoryAvoid      = "avoid"
)

// Categories lists every category key in tie-break order.
var Categories = []string{CategoryControl, CategoryPerfection, CategoryComparison, CategoryAvoid}

// Domain errors
var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrUnknownOption   = errors.New("unknown option")
)

// Option is one answer to a question. Value is a category key.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is a single quiz question.
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

// Result describes a category and what the coach suggests for it.
type Result struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
	CTA         string `json:"cta"`
}

// Outcome is the winning Result plus the tally it was chosen from.
type Outcome struct {
	Result Result         `json:"result"`
	Counts map[string]int `json:"counts"`
}

// Compute tallies recognised category values in answers and returns the
// category with the highest count. Ties go to the earlier category and an
// empty tally yields control.
// POST: every count >= 0; counts sum to the number of recognised answers
func Compute(answers map[string]string) Outcome {
	counts := make(map[string]int, len(Categories))
	for _, c := range Categories {
		counts[c] = 0
	}
	for _, v := range answers {
		if _, ok := counts[v]; ok {
			counts[v]++
		}
	}

	best := CategoryControl
	for _, c := range Categories {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return Outcome{Result: ResultFor(best), Counts: counts}
}

// ResultFor returns the Result for key, or the control result when unknown.
func ResultFor(key string) Result {
	for _, r := range results {
		if r.Key == key {
			return r
		}
	}
	return results[0]
}

// Results returns a copy of every category's result.
func Results() []Result {
	out := make([]Result, len(results))
	copy(out, results)
	return out
}

// Questions returns a copy of the question list.
func Questions() []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = append([]Option(nil), q.Options...)
		out[i] = q
	}
	return out
}

// ValidateAnswers checks every answer names a known question and one of its options.
// Unanswered questions are allowed.
func ValidateAnswers(answers map[string]string) error {
	for id, value := range answers {
		q, ok := findQuestion(id)
		if !ok {
			return fmt.Errorf("%s: %w", id, ErrUnknownQuestion)
		}
		found := false
		for _, o := range q.Options {
			if o.Value == value {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s=%s: %w", id, value, ErrUnknownOption)
		}
	}
	return nil
}

func findQuestion(id string) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
