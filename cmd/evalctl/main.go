// Command evalctl evaluates learner answers against question definitions read
// from a YAML file and prints the verdicts as JSON. It needs no database.
//
//	evalctl -f attempt.yaml
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/evaluation"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/validator"
)

// attemptFile is the YAML input: question definitions plus answers keyed by
// question id, then component id.
type attemptFile struct {
	Questions []*models.Question `yaml:"questions"`
	Answers   models.AnswerSheet `yaml:"answers"`
}

type questionResult struct {
	QuestionID uint              `json:"question_id"`
	Verdicts   models.VerdictMap `json:"verdicts"`
	Correct    bool              `json:"correct"`
	Unanswered []int             `json:"unanswered"`
	Score      int               `json:"score"`
}

type report struct {
	Questions     []questionResult `json:"questions"`
	EarnedScore   int              `json:"earned_score"`
	PossibleScore int              `json:"possible_score"`
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "evalctl:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("evalctl", flag.ContinueOnError)
	file := fs.String("f", "-", "YAML file with questions and answers, - for stdin")
	skipValidation := fs.Bool("no-validate", false, "evaluate even when answer keys are malformed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	input, err := readInput(*file, stdin)
	if err != nil {
		return err
	}

	var attempt attemptFile
	if err := yaml.Unmarshal(input, &attempt); err != nil {
		return fmt.Errorf("failed to parse %s: %w", *file, err)
	}
	if len(attempt.Questions) == 0 {
		return errors.New("no questions in input")
	}

	if !*skipValidation {
		v := validator.New()
		for _, q := range attempt.Questions {
			if err := v.Validate(q); err != nil {
				return fmt.Errorf("question %d: %w", q.ID, err)
			}
		}
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(evaluate(attempt))
}

func evaluate(attempt attemptFile) report {
	out := report{
		Questions:     make([]questionResult, 0, len(attempt.Questions)),
		PossibleScore: evaluation.TotalPossibleScore(attempt.Questions),
	}

	for _, q := range attempt.Questions {
		verdicts := evaluation.EvaluateQuestion(q, attempt.Answers[q.ID])
		result := questionResult{
			QuestionID: q.ID,
			Verdicts:   verdicts,
			Correct:    evaluation.IsQuestionCorrect(verdicts),
			Unanswered: evaluation.UnansweredComponents(q, attempt.Answers),
		}
		if result.Unanswered == nil {
			result.Unanswered = []int{}
		}
		if result.Correct {
			result.Score = q.Points
			out.EarnedScore += q.Points
		}
		out.Questions = append(out.Questions, result)
	}
	return out
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
