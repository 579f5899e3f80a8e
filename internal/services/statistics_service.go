package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SAP-F-2025/response-analytics-service/internal/models"
	"github.com/SAP-F-2025/response-analytics-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// Difficulty band labels. Cut points are lower-inclusive, the final band is
// closed on both ends so difficulty 1.0 is included, and anything outside
// [0,1] falls into the catch-all band (unreachable for validated events).
const (
	BandLow   = "0.0-0.3"
	BandMid   = "0.3-0.7"
	BandHigh  = "0.7-1.0"
	BandOther = "Other"
)

// StatisticsService reduces stored responses into report aggregates. Every
// query recomputes from the store; no summary is cached or persisted.
type StatisticsService interface {
	OverallStatistics(ctx context.Context, filters repositories.ResponseFilters) (*models.StatisticsSummary, error)
	TopicPerformance(ctx context.Context, filters repositories.ResponseFilters) ([]models.TopicPerformance, error)
	DifficultyPerformance(ctx context.Context, filters repositories.ResponseFilters) ([]models.DifficultyBandPerformance, error)
	SessionSummary(ctx context.Context, sessionID string) (*models.StatisticsSummary, error)
	BuildReport(ctx context.Context, filters repositories.ResponseFilters) (*models.StatisticsReport, error)
	ExportReport(ctx context.Context, filters repositories.ResponseFilters) ([]byte, error)
}

type statisticsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewStatisticsService(repo repositories.Repository, logger *slog.Logger) StatisticsService {
	return &statisticsService{
		repo:   repo,
		logger: logger,
	}
}

// ===== OVERALL STATISTICS =====

// OverallStatistics reduces all matching responses into a single summary.
// An empty matching set yields zero counts and zero averages, never NaN.
func (s *statisticsService) OverallStatistics(ctx context.Context, filters repositories.ResponseFilters) (*models.StatisticsSummary, error) {
	responses, err := s.repo.Response().FetchMatching(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch responses: %w", err)
	}

	summary := &models.StatisticsSummary{}
	var timeSum, difficultySum, abilitySum float64

	for _, response := range responses {
		summary.TotalResponses++
		if response.Correct {
			summary.CorrectResponses++
		}
		timeSum += float64(response.ResponseTimeMs)
		difficultySum += response.Difficulty
		abilitySum += response.StudentAbility
	}

	if summary.TotalResponses > 0 {
		n := float64(summary.TotalResponses)
		summary.AverageResponseTime = timeSum / n
		summary.AverageDifficulty = difficultySum / n
		summary.AverageStudentAbility = abilitySum / n
		summary.AccuracyRate = float64(summary.CorrectResponses) / n
	}

	return summary, nil
}

// ===== TOPIC PERFORMANCE =====

type topicAccumulator struct {
	total         int
	correct       int
	timeSum       float64
	difficultySum float64
}

// TopicPerformance groups matching responses by exact topic string and sorts
// by accuracy rate descending, topic ascending on ties.
func (s *statisticsService) TopicPerformance(ctx context.Context, filters repositories.ResponseFilters) ([]models.TopicPerformance, error) {
	responses, err := s.repo.Response().FetchMatching(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch responses: %w", err)
	}

	groups := make(map[string]*topicAccumulator)
	for _, response := range responses {
		acc, ok := groups[response.Topic]
		if !ok {
			acc = &topicAccumulator{}
			groups[response.Topic] = acc
		}
		acc.total++
		if response.Correct {
			acc.correct++
		}
		acc.timeSum += float64(response.ResponseTimeMs)
		acc.difficultySum += response.Difficulty
	}

	results := make([]models.TopicPerformance, 0, len(groups))
	for topic, acc := range groups {
		n := float64(acc.total)
		results = append(results, models.TopicPerformance{
			Topic:               topic,
			TotalResponses:      acc.total,
			CorrectResponses:    acc.correct,
			AverageResponseTime: acc.timeSum / n,
			AverageDifficulty:   acc.difficultySum / n,
			AccuracyRate:        float64(acc.correct) / n,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].AccuracyRate != results[j].AccuracyRate {
			return results[i].AccuracyRate > results[j].AccuracyRate
		}
		return results[i].Topic < results[j].Topic
	})

	return results, nil
}

// ===== DIFFICULTY PERFORMANCE =====

type bandAccumulator struct {
	total   int
	correct int
	timeSum float64
}

// DifficultyPerformance buckets matching responses by difficulty band. The
// three bands are always present so dashboards get stable rows; the catch-all
// band appears only when an out-of-range value was encountered.
func (s *statisticsService) DifficultyPerformance(ctx context.Context, filters repositories.ResponseFilters) ([]models.DifficultyBandPerformance, error) {
	responses, err := s.repo.Response().FetchMatching(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch responses: %w", err)
	}

	bands := map[string]*bandAccumulator{
		BandLow:   {},
		BandMid:   {},
		BandHigh:  {},
		BandOther: {},
	}

	for _, response := range responses {
		acc := bands[difficultyBand(response.Difficulty)]
		acc.total++
		if response.Correct {
			acc.correct++
		}
		acc.timeSum += float64(response.ResponseTimeMs)
	}

	order := []string{BandLow, BandMid, BandHigh, BandOther}
	results := make([]models.DifficultyBandPerformance, 0, len(order))
	for _, band := range order {
		acc := bands[band]
		if band == BandOther && acc.total == 0 {
			continue
		}

		result := models.DifficultyBandPerformance{
			Band:             band,
			TotalResponses:   acc.total,
			CorrectResponses: acc.correct,
		}
		if acc.total > 0 {
			result.AverageResponseTime = acc.timeSum / float64(acc.total)
			result.AccuracyRate = float64(acc.correct) / float64(acc.total)
		}
		results = append(results, result)
	}

	return results, nil
}

// difficultyBand buckets with boundaries [0, 0.3, 0.7, 1.0]: cut points are
// lower-inclusive, the final band includes 1.0.
func difficultyBand(difficulty float64) string {
	switch {
	case difficulty < 0 || difficulty > 1:
		return BandOther
	case difficulty < 0.3:
		return BandLow
	case difficulty < 0.7:
		return BandMid
	default:
		return BandHigh
	}
}

// ===== SESSION SUMMARY =====

func (s *statisticsService) SessionSummary(ctx context.Context, sessionID string) (*models.StatisticsSummary, error) {
	return s.OverallStatistics(ctx, repositories.ResponseFilters{SessionID: &sessionID})
}

// ===== REPORT BUILDING AND EXPORT =====

func (s *statisticsService) BuildReport(ctx context.Context, filters repositories.ResponseFilters) (*models.StatisticsReport, error) {
	overall, err := s.OverallStatistics(ctx, filters)
	if err != nil {
		return nil, err
	}

	topics, err := s.TopicPerformance(ctx, filters)
	if err != nil {
		return nil, err
	}

	difficulty, err := s.DifficultyPerformance(ctx, filters)
	if err != nil {
		return nil, err
	}

	return &models.StatisticsReport{
		Overall:     *overall,
		Topics:      topics,
		Difficulty:  difficulty,
		GeneratedAt: time.Now(),
	}, nil
}

// ExportReport renders the three aggregations into an Excel workbook for
// dashboard downloads.
func (s *statisticsService) ExportReport(ctx context.Context, filters repositories.ResponseFilters) ([]byte, error) {
	report, err := s.BuildReport(ctx, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeOverallSheet(f, &report.Overall); err != nil {
		return nil, err
	}
	if err := s.writeTopicSheet(f, report.Topics); err != nil {
		return nil, err
	}
	if err := s.writeDifficultySheet(f, report.Difficulty); err != nil {
		return nil, err
	}

	// Drop the default sheet created by excelize.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel report: %w", err)
	}

	s.logger.Info("Exported statistics report",
		"total_responses", report.Overall.TotalResponses,
		"topics", len(report.Topics))

	return buf.Bytes(), nil
}

func (s *statisticsService) writeOverallSheet(f *excelize.File, overall *models.StatisticsSummary) error {
	sheet := "Overall"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Responses", overall.TotalResponses},
		{"Correct Responses", overall.CorrectResponses},
		{"Average Response Time (ms)", overall.AverageResponseTime},
		{"Average Difficulty", overall.AverageDifficulty},
		{"Average Student Ability", overall.AverageStudentAbility},
		{"Accuracy Rate", overall.AccuracyRate},
	}
	return writeRows(f, sheet, rows)
}

func (s *statisticsService) writeTopicSheet(f *excelize.File, topics []models.TopicPerformance) error {
	sheet := "Topics"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{
		{"Topic", "Total", "Correct", "Avg Response Time (ms)", "Avg Difficulty", "Accuracy Rate"},
	}
	for _, topic := range topics {
		rows = append(rows, []interface{}{
			topic.Topic,
			topic.TotalResponses,
			topic.CorrectResponses,
			topic.AverageResponseTime,
			topic.AverageDifficulty,
			topic.AccuracyRate,
		})
	}
	return writeRows(f, sheet, rows)
}

func (s *statisticsService) writeDifficultySheet(f *excelize.File, bands []models.DifficultyBandPerformance) error {
	sheet := "Difficulty"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{
		{"Band", "Total", "Correct", "Avg Response Time (ms)", "Accuracy Rate"},
	}
	for _, band := range bands {
		rows = append(rows, []interface{}{
			band.Band,
			band.TotalResponses,
			band.CorrectResponses,
			band.AverageResponseTime,
			band.AccuracyRate,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on sheet %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
