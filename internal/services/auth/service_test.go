package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

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
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, mocks.NewMockRandom(), Config{
		JWTSecret:          "test-secret",
		TokenDuration:      time.Hour,
		SuperadminUsername: "superadmin",
		BcryptCost:         bcrypt.MinCost,
	}, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestRegisterAdminIsSelfOwned() {
	session, err := s.service.RegisterAdmin(s.ctx, "teacher", "secret", "Ms. Teacher")
	s.Require().NoError(err)

	s.Equal(model.RoleAdmin, session.User.Role)
	s.False(session.User.IsSuperAdmin)
	s.Require().NotNil(session.User.OwnerAdmin)
	s.Equal(model.TenantID(session.User.ID), *session.User.OwnerAdmin)
	s.NotEmpty(session.Token)
	s.Equal(s.clock.CurrentTime.Add(time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestRegisterSuperadmin() {
	session, err := s.service.RegisterAdmin(s.ctx, "superadmin", "secret", "Root")
	s.Require().NoError(err)

	s.True(session.User.IsSuperAdmin)
	s.Nil(session.User.OwnerAdmin, "the superadmin owns no tenant")
}

func (s *ServiceSuite) TestRegisterStudentJoinsRoster() {
	admin, err := s.service.RegisterAdmin(s.ctx, "teacher", "secret", "Ms. Teacher")
	s.Require().NoError(err)

	student, err := s.service.RegisterStudent(s.ctx, "pupil", "secret", "Pupil", model.TenantID(admin.User.ID))
	s.Require().NoError(err)

	s.Equal(model.RoleStudent, student.User.Role)
	s.Require().NotNil(student.User.OwnerAdmin)
	s.Equal(model.TenantID(admin.User.ID), *student.User.OwnerAdmin)
}

func (s *ServiceSuite) TestRegisterStudentRequiresAdminTeacher() {
	_, err := s.service.RegisterStudent(s.ctx, "pupil", "secret", "Pupil", "missing-teacher")
	s.ErrorIs(err, model.ErrUserNotFound)

	admin, err := s.service.RegisterAdmin(s.ctx, "teacher", "secret", "Ms. Teacher")
	s.Require().NoError(err)
	other, err := s.service.RegisterStudent(s.ctx, "pupil", "secret", "Pupil", model.TenantID(admin.User.ID))
	s.Require().NoError(err)

	// A student cannot own a roster
	_, err = s.service.RegisterStudent(s.ctx, "pupil2", "secret", "Pupil Two", model.TenantID(other.User.ID))
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ServiceSuite) TestRegisterDuplicateUsername() {
	_, err := s.service.RegisterAdmin(s.ctx, "teacher", "secret", "Ms. Teacher")
	s.Require().NoError(err)

	_, err = s.service.RegisterAdmin(s.ctx, "teacher", "other", "Impostor")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestLogin() {
	registered, err := s.service.RegisterAdmin(s.ctx, "teacher", "secret", "Ms. Teacher")
	s.Require().NoError(err)

	session, err := s.service.Login(s.ctx, "teacher", "secret")
	s.Require().NoError(err)
	s.Equal(registered.User.ID, session.User.ID)
	s.NotEmpty(session.Token)
}

func (s *ServiceSuite) TestLoginRejectsBadCredentials() {
	_, err := s.service.RegisterAdmin(s.ctx, "teacher", "secret", "Ms. Teacher")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "teacher", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.service.Login(s.ctx, "nobody", "secret")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestResolveTokenRoundtrip() {
	admin, err := s.service.RegisterAdmin(s.ctx, "teacher", "secret", "Ms. Teacher")
	s.Require().NoError(err)

	p, err := s.service.ResolveToken(s.ctx, admin.Token)
	s.Require().NoError(err)
	s.Equal(&admin.Principal, p)

	super, err := s.service.RegisterAdmin(s.ctx, "superadmin", "secret", "Root")
	s.Require().NoError(err)
	p, err = s.service.ResolveToken(s.ctx, super.Token)
	s.Require().NoError(err)
	s.True(p.IsSuperAdmin)
	s.Nil(p.OwnerAdmin)
}

func (s *ServiceSuite) TestResolveTokenExpired() {
	session, err := s.service.RegisterAdmin(s.ctx, "teacher", "secret", "Ms. Teacher")
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Hour)
	_, err = s.service.ResolveToken(s.ctx, session.Token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestResolveTokenGarbage() {
	_, err := s.service.ResolveToken(s.ctx, "not-a-token")
	s.ErrorIs(err, ErrInvalidToken)

	_, err = s.service.ResolveToken(s.ctx, "")
	s.ErrorIs(err, ErrInvalidToken)
}
