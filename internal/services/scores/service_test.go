package scores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/aulaplay/aulaplay-go/internal/dependencies/mocks"
	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/storage"
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
	s.service = New(s.storage, s.clock, mocks.NewMockRandom(), testutil.NopLogger())
	s.ctx = context.Background()
	s.tenant = model.TenantID("teacher-1")
}

func (s *ServiceSuite) TestSubmitCreatesRow() {
	score, err := s.service.Submit(s.ctx, "student-1", "game-1", "animals", &s.tenant, SubmitInput{
		Score: 8, MaxScore: 10, Percentage: 80, Lives: 2,
	})
	s.Require().NoError(err)

	s.NotEmpty(score.ID)
	s.Equal(model.UserID("student-1"), score.User)
	s.Equal("animals", score.Theme)
	s.Equal(80, score.Percentage)
	s.Require().NotNil(score.OwnerAdmin)
	s.Equal(s.tenant, *score.OwnerAdmin)
	s.Equal(s.clock.CurrentTime, score.CreatedAt)
}

func (s *ServiceSuite) TestSubmitTwiceLeavesOneRow() {
	first, err := s.service.Submit(s.ctx, "student-1", "game-1", "animals", &s.tenant, SubmitInput{
		Score: 5, MaxScore: 10,
	})
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	second, err := s.service.Submit(s.ctx, "student-1", "game-1", "animals", &s.tenant, SubmitInput{
		Score: 9, MaxScore: 10,
	})
	s.Require().NoError(err)
	s.NotEqual(first.ID, second.ID, "overwrite replaces the row wholesale")

	rows, err := s.storage.ListScores(s.ctx, storage.ScoreQuery{})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(second.ID, rows[0].ID)
	s.Equal(9, rows[0].Score)
	s.Equal(second.CreatedAt, rows[0].CreatedAt)
}

func (s *ServiceSuite) TestSubmitDistinctTriplesKeepSeparateRows() {
	for _, theme := range []string{"animals", "colors"} {
		_, err := s.service.Submit(s.ctx, "student-1", "game-1", theme, &s.tenant, SubmitInput{
			Score: 5, MaxScore: 10,
		})
		s.Require().NoError(err)
	}
	_, err := s.service.Submit(s.ctx, "student-2", "game-1", "animals", &s.tenant, SubmitInput{
		Score: 5, MaxScore: 10,
	})
	s.Require().NoError(err)

	rows, err := s.storage.ListScores(s.ctx, storage.ScoreQuery{})
	s.Require().NoError(err)
	s.Len(rows, 3)
}

func (s *ServiceSuite) TestSubmitDerivesPercentageWhenMissing() {
	score, err := s.service.Submit(s.ctx, "student-1", "game-1", "animals", &s.tenant, SubmitInput{
		Score: 2, MaxScore: 3,
	})
	s.Require().NoError(err)
	s.Equal(67, score.Percentage)
}

func (s *ServiceSuite) TestSubmitKeepsSuppliedCreatedAt() {
	backdated := time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)
	score, err := s.service.Submit(s.ctx, "student-1", "game-1", "animals", &s.tenant, SubmitInput{
		Score: 5, MaxScore: 10, CreatedAt: backdated,
	})
	s.Require().NoError(err)
	s.Equal(backdated, score.CreatedAt)
}
