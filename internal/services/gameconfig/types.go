package gameconfig

import (
	"fmt"
	"math"

	"github.com/aulaplay/aulaplay-go/internal/model"
)

// Per-type structural validators. Each returns the full list of violations
// for its config payload.

func validateWordsearch(config model.GameConfig) []string {
	var errs []string

	if topic, ok := stringField(config, "topic"); !ok || topic == "" {
		errs = append(errs, "topic is required and must be a non-empty string")
	}

	width, widthOK := intField(config, "gridWidth")
	if !widthOK || width < 10 || width > 20 {
		errs = append(errs, "gridWidth must be an integer between 10 and 20")
	}
	height, heightOK := intField(config, "gridHeight")
	if !heightOK || height < 10 || height > 20 {
		errs = append(errs, "gridHeight must be an integer between 10 and 20")
	}

	words, ok := sliceField(config, "words")
	if !ok || len(words) < 3 {
		errs = append(errs, "words must be an array with at least 3 entries")
		return errs
	}

	maxLen := width
	if height > maxLen {
		maxLen = height
	}
	for i, w := range words {
		word, isStr := w.(string)
		if !isStr || word == "" {
			errs = append(errs, fmt.Sprintf("words[%d] must be a non-empty string", i))
			continue
		}
		if widthOK && heightOK && len([]rune(word)) > maxLen {
			errs = append(errs, fmt.Sprintf("words[%d] (%q) is longer than the grid allows (%d)", i, word, maxLen))
		}
	}
	return errs
}

func validateHangman(config model.GameConfig) []string {
	var errs []string

	if topic, ok := stringField(config, "topic"); !ok || topic == "" {
		errs = append(errs, "topic is required and must be a non-empty string")
	}

	if maxErrors, ok := intField(config, "maxErrors"); !ok || maxErrors < 3 || maxErrors > 10 {
		errs = append(errs, "maxErrors must be an integer between 3 and 10")
	}

	words, ok := sliceField(config, "words")
	if !ok || len(words) < 1 {
		errs = append(errs, "words must be an array with at least 1 entry")
		return errs
	}
	for i, w := range words {
		entry, isMap := w.(map[string]any)
		if !isMap {
			errs = append(errs, fmt.Sprintf("words[%d] must be an object with word and hint", i))
			continue
		}
		if word, ok := stringField(entry, "word"); !ok || word == "" {
			errs = append(errs, fmt.Sprintf("words[%d].word must be a non-empty string", i))
		}
		if hint, ok := stringField(entry, "hint"); !ok || hint == "" {
			errs = append(errs, fmt.Sprintf("words[%d].hint must be a non-empty string", i))
		}
	}
	return errs
}

func validateCrossword(config model.GameConfig) []string {
	var errs []string

	if topic, ok := stringField(config, "topic"); !ok || topic == "" {
		errs = append(errs, "topic is required and must be a non-empty string")
	}

	clues, ok := sliceField(config, "clues")
	if !ok || len(clues) < 2 {
		errs = append(errs, "clues must be an array with at least 2 entries")
		return errs
	}
	for i, c := range clues {
		entry, isMap := c.(map[string]any)
		if !isMap {
			errs = append(errs, fmt.Sprintf("clues[%d] must be an object with word and clue", i))
			continue
		}
		if word, ok := stringField(entry, "word"); !ok || len([]rune(word)) < 2 {
			errs = append(errs, fmt.Sprintf("clues[%d].word must be a string of at least 2 characters", i))
		}
		if clue, ok := stringField(entry, "clue"); !ok || clue == "" {
			errs = append(errs, fmt.Sprintf("clues[%d].clue must be a non-empty string", i))
		}
	}
	return errs
}

func validateMatching(config model.GameConfig) []string {
	var errs []string

	if topic, ok := stringField(config, "topic"); !ok || topic == "" {
		errs = append(errs, "topic is required and must be a non-empty string")
	}

	pairs, ok := sliceField(config, "pairs")
	if !ok || len(pairs) < 2 {
		errs = append(errs, "pairs must be an array with at least 2 entries")
		return errs
	}
	for i, p := range pairs {
		entry, isMap := p.(map[string]any)
		if !isMap {
			errs = append(errs, fmt.Sprintf("pairs[%d] must be an object with left and right", i))
			continue
		}
		if left, ok := stringField(entry, "left"); !ok || left == "" {
			errs = append(errs, fmt.Sprintf("pairs[%d].left must be a non-empty string", i))
		}
		if right, ok := stringField(entry, "right"); !ok || right == "" {
			errs = append(errs, fmt.Sprintf("pairs[%d].right must be a non-empty string", i))
		}
	}
	return errs
}

func validateMultichoice(config model.GameConfig) []string {
	var errs []string

	if topic, ok := stringField(config, "topic"); !ok || topic == "" {
		errs = append(errs, "topic is required and must be a non-empty string")
	}

	questions, ok := sliceField(config, "questions")
	if !ok || len(questions) < 1 {
		errs = append(errs, "questions must be an array with at least 1 entry")
		return errs
	}
	for i, q := range questions {
		entry, isMap := q.(map[string]any)
		if !isMap {
			errs = append(errs, fmt.Sprintf("questions[%d] must be an object", i))
			continue
		}
		if question, ok := stringField(entry, "question"); !ok || question == "" {
			errs = append(errs, fmt.Sprintf("questions[%d].question must be a non-empty string", i))
		}
		answers, ok := sliceField(entry, "answers")
		if !ok || len(answers) < 2 {
			errs = append(errs, fmt.Sprintf("questions[%d].answers must be an array with at least 2 entries", i))
			continue
		}
		correct, ok := intField(entry, "correct")
		if !ok || correct < 0 || correct >= len(answers) {
			errs = append(errs, fmt.Sprintf("questions[%d].correct must index into answers", i))
		}
	}
	return errs
}

func validateBubbles(config model.GameConfig) []string {
	var errs []string

	if topic, ok := stringField(config, "topic"); !ok || topic == "" {
		errs = append(errs, "topic is required and must be a non-empty string")
	}

	items, ok := sliceField(config, "items")
	if !ok || len(items) < 1 {
		errs = append(errs, "items must be an array with at least 1 entry")
		return errs
	}
	for i, it := range items {
		word, isStr := it.(string)
		if !isStr || word == "" {
			errs = append(errs, fmt.Sprintf("items[%d] must be a non-empty string", i))
		}
	}
	return errs
}

// Field accessors tolerant of JSON decoding, where numbers arrive as
// float64 and nested objects as map[string]any.

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func intField(m map[string]any, key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func sliceField(m map[string]any, key string) ([]any, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}
