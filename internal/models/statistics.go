package models

import "time"

// StatisticsSummary is the overall aggregate across all matching responses.
// All averages and rates are 0, never NaN, when no responses match.
type StatisticsSummary struct {
	TotalResponses        int     `json:"total_responses"`
	CorrectResponses      int     `json:"correct_responses"`
	AverageResponseTime   float64 `json:"average_response_time_ms"`
	AverageDifficulty     float64 `json:"average_difficulty"`
	AverageStudentAbility float64 `json:"average_student_ability"`
	AccuracyRate          float64 `json:"accuracy_rate"`
}

// TopicPerformance is the per-topic aggregate. Topics group by exact string
// ("Algebra" and "algebra" are distinct groups). Average student ability is
// omitted here since it is only meaningful across the whole set.
type TopicPerformance struct {
	Topic               string  `json:"topic"`
	TotalResponses      int     `json:"total_responses"`
	CorrectResponses    int     `json:"correct_responses"`
	AverageResponseTime float64 `json:"average_response_time_ms"`
	AverageDifficulty   float64 `json:"average_difficulty"`
	AccuracyRate        float64 `json:"accuracy_rate"`
}

// DifficultyBandPerformance is the aggregate for one difficulty band.
type DifficultyBandPerformance struct {
	Band                string  `json:"band"`
	TotalResponses      int     `json:"total_responses"`
	CorrectResponses    int     `json:"correct_responses"`
	AverageResponseTime float64 `json:"average_response_time_ms"`
	AccuracyRate        float64 `json:"accuracy_rate"`
}

// StatisticsReport bundles the three aggregations for export.
type StatisticsReport struct {
	Overall     StatisticsSummary           `json:"overall"`
	Topics      []TopicPerformance          `json:"topics"`
	Difficulty  []DifficultyBandPerformance `json:"difficulty"`
	GeneratedAt time.Time                   `json:"generated_at"`
}
