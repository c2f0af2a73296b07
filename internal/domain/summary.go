package domain

import "math"

// SessionSummary aggregates an owner's training sessions.
type SessionSummary struct {
	Total         int     `json:"total"`
	ThisMonth     int     `json:"this_month"`
	AverageEffort float64 `json:"average_effort"`
}

// SummarizeSessions computes totals relative to today. The average effort
// is rounded to one decimal and is 0 when there are no sessions.
func SummarizeSessions(sessions []*TrainingSession, today Date) SessionSummary {
	summary := SessionSummary{Total: len(sessions)}
	if len(sessions) == 0 {
		return summary
	}

	effort := 0
	for _, s := range sessions {
		effort += s.Effort
		if s.Date.SameMonth(today) {
			summary.ThisMonth++
		}
	}
	summary.AverageEffort = math.Round(float64(effort)/float64(len(sessions))*10) / 10
	return summary
}

// TechniqueSummary counts techniques per status.
type TechniqueSummary struct {
	Total    int `json:"total"`
	Studying int `json:"studying"`
	Mastered int `json:"mastered"`
	Review   int `json:"review"`
}

// SummarizeTechniques counts techniques per status.
func SummarizeTechniques(techniques []*Technique) TechniqueSummary {
	summary := TechniqueSummary{Total: len(techniques)}
	for _, t := range techniques {
		switch t.Status {
		case TechniqueStudying:
			summary.Studying++
		case TechniqueMastered:
			summary.Mastered++
		case TechniqueReview:
			summary.Review++
		}
	}
	return summary
}

// GoalSummary counts goals per status.
type GoalSummary struct {
	Total          int `json:"total"`
	InProgress     int `json:"in_progress"`
	Completed      int `json:"completed"`
	Cancelled      int `json:"cancelled"`
	CompletionRate int `json:"completion_rate"`
}

// SummarizeGoals counts goals per status. CompletionRate is the rounded
// percentage of completed goals over all goals, 0 when there are none.
func SummarizeGoals(goals []*Goal) GoalSummary {
	summary := GoalSummary{Total: len(goals)}
	for _, g := range goals {
		switch g.Status {
		case GoalInProgress:
			summary.InProgress++
		case GoalCompleted:
			summary.Completed++
		case GoalCancelled:
			summary.Cancelled++
		}
	}
	if summary.Total > 0 {
		summary.CompletionRate = int(math.Round(float64(summary.Completed) / float64(summary.Total) * 100))
	}
	return summary
}
