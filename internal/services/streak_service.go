package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/skilltrack/certification-service/internal/repositories"
)

// StreakService derives daily activity streaks from the activity log.
type StreakService interface {
	// ComputeStreak walks the learner's activity log newest-first and
	// returns the current and longest runs of consecutive days. The current
	// streak is zero unless its newest day is today or yesterday.
	ComputeStreak(ctx context.Context, learnerID uint) (*StreakResult, error)
}

type StreakResult struct {
	LearnerID      uint       `json:"learner_id"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastActiveDate *time.Time `json:"last_active_date,omitempty"`
}

type streakService struct {
	repo   repositories.Repository
	logger *slog.Logger

	now func() time.Time
}

func NewStreakService(repo repositories.Repository, logger *slog.Logger) StreakService {
	return &streakService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *streakService) ComputeStreak(ctx context.Context, learnerID uint) (*StreakResult, error) {
	logs, err := s.repo.ActivityLog().GetByLearnerDesc(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity log: %w", err)
	}

	if len(logs) == 0 {
		return &StreakResult{LearnerID: learnerID}, nil
	}

	today := truncateToDay(s.now())
	lastActive := truncateToDay(logs[0].ActivityDate)

	// Walk newest-first. Each gap closes out a run; runs are compared
	// against the longest seen so far.
	longest := 0
	run := 0
	expected := lastActive
	for _, entry := range logs {
		day := truncateToDay(entry.ActivityDate)
		if day.Equal(expected) {
			run++
		} else {
			if run > longest {
				longest = run
			}
			run = 1
		}
		expected = day.AddDate(0, 0, -1)
	}
	if run > longest {
		longest = run
	}

	// The newest run only counts as current while it is still alive, i.e.
	// anchored on today or yesterday.
	current := 0
	if lastActive.Equal(today) || lastActive.Equal(today.AddDate(0, 0, -1)) {
		current = 1
		expected = lastActive.AddDate(0, 0, -1)
		for _, entry := range logs[1:] {
			day := truncateToDay(entry.ActivityDate)
			if !day.Equal(expected) {
				break
			}
			current++
			expected = day.AddDate(0, 0, -1)
		}
	}

	return &StreakResult{
		LearnerID:      learnerID,
		CurrentStreak:  current,
		LongestStreak:  longest,
		LastActiveDate: &lastActive,
	}, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
