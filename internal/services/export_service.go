package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/evaluation"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

var resultHeaders = []string{
	"Question ID", "Order", "Title", "Points", "Attempts Used", "Max Attempts", "State", "Score",
}

type exportService struct {
	sessions  SessionService
	questions QuestionService
	logger    *slog.Logger
}

func NewExportService(sessions SessionService, questions QuestionService, logger *slog.Logger) ExportService {
	return &exportService{
		sessions:  sessions,
		questions: questions,
		logger:    logger,
	}
}

func (s *exportService) ExportSessionResults(ctx context.Context, quizID uint, sessionID string) ([]byte, error) {
	summary, err := s.sessions.Summary(ctx, quizID, sessionID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet so the workbook opens on the results.
	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	if err := writeRow(f, resultsSheet, 1, toCells(resultHeaders)); err != nil {
		return nil, err
	}

	recorded, err := s.sessions.ListProgress(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[uint]*ProgressResponse, len(recorded))
	for _, p := range recorded {
		byQuestion[p.QuestionID] = p
	}

	for i, question := range questions.Questions {
		progress, ok := byQuestion[question.ID]
		if !ok {
			fresh := evaluation.NewProgress(sessionID, question)
			progress = newProgressResponse(&fresh)
		}
		if err := writeRow(f, resultsSheet, i+2, resultRow(question, progress)); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	for i, row := range summaryRows(summary) {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported session results",
		"quiz_id", quizID,
		"session_id", sessionID,
		"questions", len(questions.Questions))

	return buf.Bytes(), nil
}

func resultRow(q *models.Question, p *ProgressResponse) []interface{} {
	var score interface{} = ""
	if p.Score != nil {
		score = *p.Score
	}
	return []interface{}{
		q.ID,
		q.Order,
		q.Title,
		q.Points,
		p.AttemptsUsed,
		p.MaxAttempts,
		string(p.State),
		score,
	}
}

func summaryRows(summary *models.SessionSummary) [][]interface{} {
	return [][]interface{}{
		{"Quiz ID", summary.QuizID},
		{"Session ID", summary.SessionID},
		{"Questions", summary.QuestionCount},
		{"Earned Score", summary.EarnedScore},
		{"Possible Score", summary.PossibleScore},
		{"Completed", summary.CompletedCount},
		{"Exhausted", summary.ExhaustedCount},
		{"In Progress", summary.InProgressCount},
		{"Not Started", summary.FreshCount},
		{"Finished", summary.Finished},
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("invalid cell position: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
