package attempts

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
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context

	student *model.Principal
	admin   *model.Principal
	gameID  model.GameID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()

	tenant := model.TenantID("teacher-1")
	s.student = &model.Principal{UserID: "student-1", Role: model.RoleStudent, OwnerAdmin: &tenant}
	s.admin = &model.Principal{UserID: "teacher-1", Role: model.RoleAdmin, OwnerAdmin: &tenant}
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{
		ID:         "student-1",
		Username:   "pupil",
		Role:       model.RoleStudent,
		OwnerAdmin: &tenant,
	}))

	s.gameID = "game-1"
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{
		ID:          s.gameID,
		Type:        model.GameTypeBubbles,
		Title:       "Verbs practice",
		IsPublished: true,
		OwnerAdmin:  &tenant,
	}))
}

func (s *ServiceSuite) record(in RecordInput) *model.GameAttempt {
	attempt, err := s.service.Record(s.ctx, s.gameID, s.student, in)
	s.Require().NoError(err)
	return attempt
}

func (s *ServiceSuite) TestRecordPersistsAttempt() {
	attempt := s.record(RecordInput{Score: 8, MaxScore: 10, Completed: true, DurationSeconds: 42})

	s.NotEmpty(attempt.ID)
	s.Equal(80, attempt.Percentage)
	s.Equal(s.clock.CurrentTime, attempt.CreatedAt)
	s.Require().NotNil(attempt.User)
	s.Equal(model.UserID("student-1"), *attempt.User)

	stored, err := s.storage.ListAttempts(s.ctx, "student-1", s.gameID)
	s.Require().NoError(err)
	s.Len(stored, 1)
}

func (s *ServiceSuite) TestRecordDerivesPercentage() {
	attempt := s.record(RecordInput{Score: 2, MaxScore: 3})
	s.Equal(67, attempt.Percentage)

	zeroMax, err := s.service.Record(s.ctx, s.gameID, s.student, RecordInput{Score: 5, MaxScore: 0})
	s.Require().NoError(err)
	s.Equal(0, zeroMax.Percentage, "zero max never divides")
}

func (s *ServiceSuite) TestRecordFoldsStats() {
	s.record(RecordInput{Score: 8, MaxScore: 10, Completed: true})
	s.record(RecordInput{Score: 4, MaxScore: 10})

	stats, err := s.storage.GetStats(s.ctx, "student-1", s.gameID)
	s.Require().NoError(err)
	s.Equal(2, stats.AttemptsCount)
	s.Equal(1, stats.CompletedCount)
	s.Equal(12, stats.TotalScore)
	s.Equal(8, stats.BestScore)
	s.Equal(80, stats.BestPercentage)
	s.Equal(6, stats.AverageScore)
}

func (s *ServiceSuite) TestRecordAnonymousKeepsNoUserOrTenant() {
	attempt, err := s.service.Record(s.ctx, s.gameID, nil, RecordInput{Score: 3, MaxScore: 10})
	s.ErrorIs(err, model.ErrGameNotFound, "tenant-owned game is invisible to anonymous callers")
	s.Nil(attempt)

	// Anonymous play works against the public catalogue
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{
		ID:          "public-1",
		Type:        model.GameTypeBubbles,
		Title:       "Public game",
		IsPublished: true,
		IsPublic:    true,
	}))

	attempt, err = s.service.Record(s.ctx, "public-1", nil, RecordInput{Score: 3, MaxScore: 10})
	s.Require().NoError(err)
	s.Nil(attempt.User)
	s.Nil(attempt.OwnerAdmin)
}

func (s *ServiceSuite) TestRecordAnonymousMaintainsNoStats() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{
		ID:          "public-1",
		Type:        model.GameTypeBubbles,
		Title:       "Public game",
		IsPublished: true,
		IsPublic:    true,
	}))

	_, err := s.service.Record(s.ctx, "public-1", nil, RecordInput{Score: 3, MaxScore: 10})
	s.Require().NoError(err)

	all, err := s.storage.ListStats(s.ctx, model.ScopeAll())
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *ServiceSuite) TestRecordUnknownGameIsNotFound() {
	_, err := s.service.Record(s.ctx, "missing", s.student, RecordInput{Score: 1, MaxScore: 2})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestRecordCrossTenantGameIsNotFound() {
	other := model.TenantID("teacher-2")
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{
		ID:          "foreign-1",
		Type:        model.GameTypeBubbles,
		Title:       "Foreign game",
		IsPublished: true,
		OwnerAdmin:  &other,
	}))

	_, err := s.service.Record(s.ctx, "foreign-1", s.student, RecordInput{Score: 1, MaxScore: 2})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestRebuildReproducesIncrementalStats() {
	s.record(RecordInput{Score: 3, MaxScore: 10})
	s.clock.Advance(time.Minute)
	s.record(RecordInput{Score: 9, MaxScore: 10, Completed: true})
	s.clock.Advance(time.Minute)
	s.record(RecordInput{Score: 7, MaxScore: 10, Completed: true})

	incremental, err := s.storage.GetStats(s.ctx, "student-1", s.gameID)
	s.Require().NoError(err)

	rebuilt, err := s.service.Rebuild(s.ctx, s.student, "student-1", s.gameID)
	s.Require().NoError(err)

	s.Equal(incremental.AttemptsCount, rebuilt.AttemptsCount)
	s.Equal(incremental.CompletedCount, rebuilt.CompletedCount)
	s.Equal(incremental.TotalScore, rebuilt.TotalScore)
	s.Equal(incremental.BestScore, rebuilt.BestScore)
	s.Equal(incremental.BestPercentage, rebuilt.BestPercentage)
	s.Equal(incremental.AverageScore, rebuilt.AverageScore)
}

func (s *ServiceSuite) TestRebuildRepairsCorruptedStats() {
	s.record(RecordInput{Score: 8, MaxScore: 10, Completed: true})

	// Corrupt the cache behind the service's back
	s.Require().NoError(s.storage.SaveStats(s.ctx, &model.UserGameStats{
		User: "student-1", Game: s.gameID, TotalScore: 999, AttemptsCount: 50,
	}))

	rebuilt, err := s.service.Rebuild(s.ctx, s.admin, "student-1", s.gameID)
	s.Require().NoError(err)
	s.Equal(1, rebuilt.AttemptsCount)
	s.Equal(8, rebuilt.TotalScore)
}

func (s *ServiceSuite) TestRebuildWithoutAttemptsIsNotFound() {
	_, err := s.service.Rebuild(s.ctx, s.student, "student-1", s.gameID)
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func (s *ServiceSuite) TestRebuildForeignRosterIsNotFound() {
	s.record(RecordInput{Score: 8, MaxScore: 10, Completed: true})

	other := model.TenantID("teacher-2")
	foreignAdmin := &model.Principal{UserID: "teacher-2", Role: model.RoleAdmin, OwnerAdmin: &other}

	_, err := s.service.Rebuild(s.ctx, foreignAdmin, "student-1", s.gameID)
	s.ErrorIs(err, model.ErrStatsNotFound, "a foreign roster must not be distinguishable from a missing one")

	// The row itself is untouched and still readable by the owning tenant
	stats, err := s.storage.GetStats(s.ctx, "student-1", s.gameID)
	s.Require().NoError(err)
	s.Equal(1, stats.AttemptsCount)
}

func (s *ServiceSuite) TestRebuildOtherUserByStudentIsDenied() {
	s.record(RecordInput{Score: 8, MaxScore: 10})

	tenant := model.TenantID("teacher-1")
	other := &model.Principal{UserID: "student-2", Role: model.RoleStudent, OwnerAdmin: &tenant}

	_, err := s.service.Rebuild(s.ctx, other, "student-1", s.gameID)
	s.ErrorIs(err, model.ErrAccessDenied)
}

func (s *ServiceSuite) TestRebuildBySuperadmin() {
	s.record(RecordInput{Score: 8, MaxScore: 10})

	super := &model.Principal{UserID: "root", Role: model.RoleAdmin, IsSuperAdmin: true}
	rebuilt, err := s.service.Rebuild(s.ctx, super, "student-1", s.gameID)
	s.Require().NoError(err)
	s.Equal(1, rebuilt.AttemptsCount)
}
