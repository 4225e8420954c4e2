package ranking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/aulaplay/aulaplay-go/internal/dependencies/mocks"
	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/storage/memory"
	"github.com/aulaplay/aulaplay-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context

	tenant model.TenantID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
	s.tenant = model.TenantID("teacher-1")
}

func (s *ServiceSuite) saveStats(user model.UserID, game model.GameID, total, best, bestPct, attempts, completed int) {
	s.Require().NoError(s.storage.SaveStats(s.ctx, &model.UserGameStats{
		User:           user,
		Game:           game,
		TotalScore:     total,
		BestScore:      best,
		BestPercentage: bestPct,
		AttemptsCount:  attempts,
		CompletedCount: completed,
		OwnerAdmin:     &s.tenant,
	}))
}

func (s *ServiceSuite) saveScore(id model.ScoreID, user model.UserID, game model.GameID, theme string, score, pct int, at time.Time) {
	_, err := s.storage.UpsertScore(s.ctx, &model.Score{
		ID:         id,
		User:       user,
		Game:       game,
		Theme:      theme,
		Score:      score,
		MaxScore:   100,
		Percentage: pct,
		OwnerAdmin: &s.tenant,
		CreatedAt:  at,
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestGlobalSumsAcrossGames() {
	s.saveStats("ana", "game-1", 30, 10, 100, 3, 3)
	s.saveStats("ana", "game-2", 15, 8, 80, 2, 1)
	s.saveStats("ben", "game-1", 40, 9, 90, 5, 2)

	entries, err := s.service.Global(s.ctx, model.ScopeAll(), 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	s.Equal(1, entries[0].Position)
	s.Equal(model.UserID("ana"), entries[0].User)
	s.Equal(45, entries[0].TotalScore)
	s.Equal(10, entries[0].BestScore)
	s.Equal(100, entries[0].BestPercentage)
	s.Equal(5, entries[0].AttemptsCount)
	s.Equal(4, entries[0].CompletedCount)

	s.Equal(2, entries[1].Position)
	s.Equal(model.UserID("ben"), entries[1].User)
}

func (s *ServiceSuite) TestGlobalHonorsLimit() {
	s.saveStats("ana", "game-1", 30, 10, 100, 3, 3)
	s.saveStats("ben", "game-1", 20, 9, 90, 2, 1)
	s.saveStats("cal", "game-1", 10, 5, 50, 1, 0)

	entries, err := s.service.Global(s.ctx, model.ScopeAll(), 2)
	s.Require().NoError(err)
	s.Len(entries, 2)
}

func (s *ServiceSuite) TestGlobalScopesByTenant() {
	other := model.TenantID("teacher-2")
	s.saveStats("ana", "game-1", 30, 10, 100, 3, 3)
	s.Require().NoError(s.storage.SaveStats(s.ctx, &model.UserGameStats{
		User: "eva", Game: "game-9", TotalScore: 99, OwnerAdmin: &other,
	}))

	entries, err := s.service.Global(s.ctx, model.ScopeOwner(&s.tenant), 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(model.UserID("ana"), entries[0].User)
}

func (s *ServiceSuite) TestUserPosition() {
	s.saveStats("ana", "game-1", 30, 10, 100, 3, 3)
	s.saveStats("ben", "game-1", 20, 9, 90, 2, 1)

	pos, err := s.service.UserPosition(s.ctx, "ben", model.ScopeAll())
	s.Require().NoError(err)
	s.Equal(2, pos)

	pos, err = s.service.UserPosition(s.ctx, "nobody", model.ScopeAll())
	s.Require().NoError(err)
	s.Equal(0, pos)
}

func (s *ServiceSuite) TestForGameRanksByBestScore() {
	s.saveStats("ana", "game-1", 30, 7, 70, 3, 3)
	s.saveStats("ben", "game-1", 20, 9, 90, 2, 1)
	s.saveStats("ana", "game-2", 50, 10, 100, 5, 5)

	entries, err := s.service.ForGame(s.ctx, "game-1", model.ScopeAll(), 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(model.UserID("ben"), entries[0].User)
	s.Equal(9, entries[0].BestScore)
	s.Equal(model.UserID("ana"), entries[1].User)
}

func (s *ServiceSuite) TestMonthlyExcludesEarlierMonths() {
	february := time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)
	march := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	s.saveScore("sc-1", "ana", "game-1", "animals", 50, 50, february)
	s.saveScore("sc-2", "ben", "game-1", "animals", 40, 40, march)

	entries, err := s.service.Monthly(s.ctx, nil, nil, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(model.UserID("ben"), entries[0].User)
}

func (s *ServiceSuite) TestMonthlyOrdering() {
	at := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	// Distinct themes keep distinct rows per user
	s.saveScore("sc-1", "ana", "game-1", "animals", 80, 80, at)
	s.saveScore("sc-2", "ana", "game-1", "colors", 60, 60, at.Add(time.Hour))
	s.saveScore("sc-3", "ben", "game-1", "animals", 70, 90, at)
	s.saveScore("sc-4", "cal", "game-1", "animals", 90, 90, at)

	entries, err := s.service.Monthly(s.ctx, nil, nil, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)

	// cal and ben tie on percentage; cal's higher score wins
	s.Equal(model.UserID("cal"), entries[0].User)
	s.Equal(model.UserID("ben"), entries[1].User)
	s.Equal(model.UserID("ana"), entries[2].User)
	s.Equal(2, entries[2].AttemptsCount)
	s.Equal(model.GameID("game-1"), entries[2].LastGame)
	s.Equal("colors", entries[2].LastTheme)
}

func (s *ServiceSuite) TestMonthlyFewerAttemptsBreakTies() {
	at := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	s.saveScore("sc-1", "ana", "game-1", "animals", 80, 80, at)
	s.saveScore("sc-2", "ana", "game-1", "colors", 50, 50, at)
	s.saveScore("sc-3", "ben", "game-1", "animals", 80, 80, at)

	entries, err := s.service.Monthly(s.ctx, nil, nil, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(model.UserID("ben"), entries[0].User)
	s.Equal(model.UserID("ana"), entries[1].User)
}

func (s *ServiceSuite) TestMonthlyFilters() {
	at := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	s.saveScore("sc-1", "ana", "game-1", "animals", 80, 80, at)
	s.saveScore("sc-2", "ben", "game-2", "animals", 90, 90, at)
	s.saveScore("sc-3", "cal", "game-1", "colors", 70, 70, at)

	game := model.GameID("game-1")
	entries, err := s.service.Monthly(s.ctx, &game, nil, 10)
	s.Require().NoError(err)
	s.Len(entries, 2)

	theme := "animals"
	entries, err = s.service.Monthly(s.ctx, &game, &theme, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(model.UserID("ana"), entries[0].User)
}

func (s *ServiceSuite) TestMonthlyClampsLimit() {
	at := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	s.saveScore("sc-1", "ana", "game-1", "animals", 80, 80, at)
	s.saveScore("sc-2", "ben", "game-1", "animals", 70, 70, at)

	entries, err := s.service.Monthly(s.ctx, nil, nil, 0)
	s.Require().NoError(err)
	s.Len(entries, 1, "limit below the minimum is raised to one")

	entries, err = s.service.Monthly(s.ctx, nil, nil, 500)
	s.Require().NoError(err)
	s.Len(entries, 2, "limit above the maximum is clamped, not rejected")
}
