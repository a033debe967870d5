package service

import (
	"math"

	"github.com/lshigami/Quizdesk/internal/model"
)

// ScoreResult is the outcome of grading one attempt.
type ScoreResult struct {
	Percent float64
	Earned  int
	Total   int
	Correct int
	Wrong   int
	// Graded holds the correctness decided for each objective answer, by answer id.
	Graded map[uint]bool
}

type ScoringEngine interface {
	Score(questions []model.Question, answers []model.AttemptAnswer) ScoreResult
}

type scoringEngine struct{}

func NewScoringEngine() ScoringEngine {
	return &scoringEngine{}
}

// Score grades every mcq/tf answer against its selected choice. The total is
// taken over all questions, answered or not. Short answers and unanswered
// questions add nothing to earned, correct or wrong.
//
// Each answer's SelectedChoice must be loaded when SelectedChoiceID is set.
func (s *scoringEngine) Score(questions []model.Question, answers []model.AttemptAnswer) ScoreResult {
	res := ScoreResult{Graded: make(map[uint]bool, len(answers))}

	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
		res.Total += q.Points
	}

	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok || !q.Type.IsObjective() {
			continue
		}
		correct := a.SelectedChoice != nil && a.SelectedChoice.IsCorrect
		res.Graded[a.ID] = correct
		if correct {
			res.Earned += q.Points
			res.Correct++
		} else {
			res.Wrong++
		}
	}

	if res.Total > 0 {
		res.Percent = roundTo2(float64(res.Earned) / float64(res.Total) * 100)
	}
	return res
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
