package assessment

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrIncompleteAssessment is returned when scoring is attempted before all
// ten questions have an answer. Partial answer sets are never zero-filled.
var ErrIncompleteAssessment = errors.New("assessment incomplete")

// UnmappedOptionError reports an answer whose phrasing is not in the option
// value table. The original web client silently scored unknown phrasings as
// 100, inflating results; scoring here fails loudly instead.
type UnmappedOptionError struct {
	QuestionID string
	Option     string
}

func (e *UnmappedOptionError) Error() string {
	return fmt.Sprintf("answer %q for question %s does not match any known option", e.Option, e.QuestionID)
}

// ReadinessLevel classifies an overall score into one of four bands.
type ReadinessLevel struct {
	Label       string `json:"label"`
	Tone        string `json:"tone"`
	Description string `json:"description"`
}

var (
	levelLeader = ReadinessLevel{
		Label:       "AI Leader",
		Tone:        "green",
		Description: "Your organization is well-positioned for AI transformation with strong foundations and clear strategy.",
	}
	levelReady = ReadinessLevel{
		Label:       "AI Ready",
		Tone:        "blue",
		Description: "Your organization has good AI readiness with room for improvement in specific areas.",
	}
	levelEmerging = ReadinessLevel{
		Label:       "AI Emerging",
		Tone:        "yellow",
		Description: "Your organization is beginning its AI journey and needs focused development.",
	}
	levelNovice = ReadinessLevel{
		Label:       "AI Novice",
		Tone:        "red",
		Description: "Your organization needs significant investment in AI capabilities and strategy.",
	}
)

// LevelForScore maps an overall score to its readiness level. Thresholds are
// inclusive lower bounds.
func LevelForScore(score int) ReadinessLevel {
	switch {
	case score >= 75:
		return levelLeader
	case score >= 50:
		return levelReady
	case score >= 25:
		return levelEmerging
	default:
		return levelNovice
	}
}

// Result is the output of scoring a complete answer set.
type Result struct {
	CategoryScores map[Category]int `json:"categoryScores"`
	OverallScore   int              `json:"overallScore"`
	Level          ReadinessLevel   `json:"level"`
}

// Score computes per-category scores, the overall score, and the readiness
// level for a complete answer set (question id -> selected option text).
// It is a pure function with no I/O.
func Score(answers map[string]string) (Result, error) {
	var missing []string
	for _, q := range Questions {
		if strings.TrimSpace(answers[q.ID]) == "" {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Result{}, fmt.Errorf("%w: unanswered questions %s", ErrIncompleteAssessment, strings.Join(missing, ", "))
	}

	sums := map[Category]int{}
	counts := map[Category]int{}
	for _, q := range Questions {
		answer := answers[q.ID]
		value, ok := optionValues[answer]
		if !ok {
			return Result{}, &UnmappedOptionError{QuestionID: q.ID, Option: answer}
		}
		sums[q.Category] += value
		counts[q.Category]++
	}

	categoryScores := make(map[Category]int, len(Categories))
	total := 0
	for _, cat := range Categories {
		score := int(math.Round(float64(sums[cat]) / float64(counts[cat])))
		categoryScores[cat] = score
		total += score
	}
	overall := int(math.Round(float64(total) / float64(len(Categories))))

	return Result{
		CategoryScores: categoryScores,
		OverallScore:   overall,
		Level:          LevelForScore(overall),
	}, nil
}
