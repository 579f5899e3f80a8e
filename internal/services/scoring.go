package services

import (
	"math"

	"github.com/SAP-F-2025/response-analytics-service/internal/models"
)

// Scoring weights. Correctness dominates, speed contributes up to 0.3 with
// linear decay to zero at the 30-second mark, and a correct answer earns a
// bonus of up to 0.2 scaled by question difficulty. The raw sum can reach
// 1.2, so the final score is clamped to 1; the clamp is part of the contract.
const (
	timeScoreCutoffMs    = 30000.0
	timeScoreWeight      = 0.3
	correctnessWeight    = 0.7
	difficultyBonusScale = 0.2
)

// Difficulty band boundaries. 0.3 and 0.7 belong to the lower band.
const (
	easyUpperBound   = 0.3
	mediumUpperBound = 0.7
)

// PerformanceScore computes the performance score in [0,1] for a response.
// Defined for every validated event; it never fails.
func PerformanceScore(event *models.ResponseEvent) float64 {
	timeScore := math.Max(0, 1-float64(event.ResponseTimeMs)/timeScoreCutoffMs)

	correctnessScore := 0.0
	difficultyBonus := 0.0
	if event.Correct {
		correctnessScore = 1.0
		difficultyBonus = event.Difficulty * difficultyBonusScale
	}

	rawScore := timeScore*timeScoreWeight + correctnessScore*correctnessWeight + difficultyBonus
	return math.Min(1, rawScore)
}

// ClassifyDifficulty maps a continuous difficulty in [0,1] to a band.
// Ties at the boundaries resolve toward the easier band. Out-of-range input
// is excluded by validation and left undefined here.
func ClassifyDifficulty(difficulty float64) models.DifficultyLevel {
	switch {
	case difficulty <= easyUpperBound:
		return models.DifficultyEasy
	case difficulty <= mediumUpperBound:
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}

// ResponseTimeSeconds converts the recorded response time to seconds, rounded
// to two decimals.
func ResponseTimeSeconds(responseTimeMs int) float64 {
	return math.Round(float64(responseTimeMs)/1000*100) / 100
}

// Annotate attaches the derived values to an event for API responses. The
// derived values are recomputed on every read so a formula change never
// leaves stale scores behind.
func Annotate(event *models.ResponseEvent) *models.ResponseWithDerived {
	return &models.ResponseWithDerived{
		ResponseEvent:       *event,
		PerformanceScore:    PerformanceScore(event),
		DifficultyLevel:     ClassifyDifficulty(event.Difficulty),
		ResponseTimeSeconds: ResponseTimeSeconds(event.ResponseTimeMs),
	}
}
