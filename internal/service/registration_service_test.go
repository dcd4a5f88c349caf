package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
	"github.com/wizdeskofficial/wizdeskofficial/internal/notify"
	"github.com/wizdeskofficial/wizdeskofficial/internal/prereg"
)

type registrationFixture struct {
	svc      *RegistrationService
	db       *fakeDB
	leaders  *prereg.MemoryStore
	members  *prereg.MemoryStore
	notifier *fakeNotifier
	now      time.Time
}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()
	f := &registrationFixture{
		db:       newFakeDB(),
		notifier: &fakeNotifier{},
		now:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	f.leaders = prereg.NewMemoryStore().WithClock(clock)
	f.members = prereg.NewMemoryStore().WithClock(clock)
	f.svc = NewRegistrationService(f.db, f.db, f.leaders, f.members, f.notifier, discardLogger(), time.Hour)
	f.svc.now = clock
	return f
}

func leaderSignup() LeaderSignup {
	return LeaderSignup{
		Email:    "  Lena@Example.com ",
		Name:     "Lena Lead",
		Password: "secret!1",
		TeamName: "Alpha",
	}
}

func TestSendLeaderVerification_StoresHashedEntryAndEmails(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	sent, err := f.svc.SendLeaderVerification(ctx, leaderSignup())
	require.NoError(t, err)
	assert.True(t, sent.EmailSent)
	assert.Equal(t, notify.MethodSMTP, sent.EmailMethod)
	assert.Equal(t, "Alpha", sent.TeamName)

	entry, err := f.leaders.Get(ctx, sent.Token)
	require.NoError(t, err)
	assert.Equal(t, "lena@example.com", entry.Email)
	assert.Equal(t, domain.KindLeader, entry.Kind)
	assert.Equal(t, f.now.Add(time.Hour), entry.ExpiresAt)
	assert.NotEqual(t, "secret!1", entry.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(entry.PasswordHash), []byte("secret!1")))

	email := f.notifier.last()
	assert.Equal(t, "verification", email.Template)
	assert.Equal(t, "lena@example.com", email.To)
	data := email.Data.(notify.VerificationData)
	assert.Equal(t, entry.NumericCode, data.Code)
	assert.Equal(t, entry.Token, data.Token)
}

func TestSendLeaderVerification_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LeaderSignup)
		wantErr error
	}{
		{"short password", func(s *LeaderSignup) { s.Password = "a!1" }, my_errors.ErrPasswordTooShort},
		{"short multibyte password", func(s *LeaderSignup) { s.Password = "ééé!" }, my_errors.ErrPasswordTooShort},
		{"password over bcrypt limit", func(s *LeaderSignup) { s.Password = strings.Repeat("é", 37) + "!" }, my_errors.ErrPasswordTooLong},
		{"no special character", func(s *LeaderSignup) { s.Password = "abcdef1" }, my_errors.ErrPasswordNoSpecial},
		{"missing team name", func(s *LeaderSignup) { s.TeamName = "" }, my_errors.ErrEmptyField},
		{"missing email", func(s *LeaderSignup) { s.Email = "   " }, my_errors.ErrEmptyField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRegistrationFixture(t)
			in := leaderSignup()
			tt.mutate(&in)

			_, err := f.svc.SendLeaderVerification(context.Background(), in)
			require.ErrorIs(t, err, tt.wantErr)

			n, _ := f.leaders.Len(context.Background())
			assert.Zero(t, n)
		})
	}
}

func TestWeakPasswordErrorsShareSentinel(t *testing.T) {
	assert.ErrorIs(t, validatePassword("ab"), my_errors.ErrWeakPassword)
	assert.ErrorIs(t, validatePassword("abcdefg"), my_errors.ErrWeakPassword)
	assert.ErrorIs(t, validatePassword(strings.Repeat("a", 72)+"!"), my_errors.ErrWeakPassword)
	assert.NoError(t, validatePassword("abc-de"))
	assert.NoError(t, validatePassword("ééééé!"))
	assert.NoError(t, validatePassword(strings.Repeat("a", 71)+"!"))
}

func TestSendLeaderVerification_EmailTaken(t *testing.T) {
	f := newRegistrationFixture(t)
	f.db.addUser(domain.User{Email: "lena@example.com", Role: domain.RoleMember})

	_, err := f.svc.SendLeaderVerification(context.Background(), leaderSignup())
	assert.ErrorIs(t, err, my_errors.ErrEmailExists)
	assert.Empty(t, f.notifier.sent)
}

func TestSendLeaderVerification_EmailFailureDoesNotFail(t *testing.T) {
	f := newRegistrationFixture(t)
	f.notifier.err = errors.New("smtp down")

	sent, err := f.svc.SendLeaderVerification(context.Background(), leaderSignup())
	require.NoError(t, err)
	assert.False(t, sent.EmailSent)
	assert.Equal(t, notify.MethodConsoleFallback, sent.EmailMethod)
	assert.NotEmpty(t, sent.Token)
}

func TestVerifyLeader_ByCodeCreatesTeamOnce(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	sent, err := f.svc.SendLeaderVerification(ctx, leaderSignup())
	require.NoError(t, err)
	entry, err := f.leaders.Get(ctx, sent.Token)
	require.NoError(t, err)

	got, err := f.svc.VerifyLeader(ctx, Verification{Code: entry.NumericCode})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleLeader, got.User.Role)
	assert.Equal(t, domain.StatusApproved, got.User.Status)
	assert.Equal(t, "ABC123", got.Team.TeamCode)
	assert.Equal(t, "Alpha", got.Team.TeamName)
	assert.True(t, got.EmailSent)

	email := f.notifier.last()
	assert.Equal(t, "team_code", email.Template)
	assert.Equal(t, "ABC123", email.Data.(notify.TeamCodeData).TeamCode)

	_, err = f.svc.VerifyLeader(ctx, Verification{Token: sent.Token})
	assert.ErrorIs(t, err, my_errors.ErrVerificationNotFound)
	_, err = f.svc.VerifyLeader(ctx, Verification{Code: entry.NumericCode})
	assert.ErrorIs(t, err, my_errors.ErrVerificationNotFound)
}

func TestVerifyLeader_Expired(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	sent, err := f.svc.SendLeaderVerification(ctx, leaderSignup())
	require.NoError(t, err)

	f.now = f.now.Add(61 * time.Minute)

	_, err = f.svc.VerifyLeader(ctx, Verification{Token: sent.Token})
	assert.ErrorIs(t, err, my_errors.ErrVerificationNotFound)
	assert.Empty(t, f.db.users)
}

func TestVerifyLeader_CodeFormat(t *testing.T) {
	f := newRegistrationFixture(t)

	for _, code := range []string{"12345", "1234567", "12a456"} {
		_, err := f.svc.VerifyLeader(context.Background(), Verification{Code: code})
		assert.ErrorIs(t, err, my_errors.ErrInvalidCodeFormat, code)
	}

	_, err := f.svc.VerifyLeader(context.Background(), Verification{})
	assert.ErrorIs(t, err, my_errors.ErrEmptyField)
}

func TestVerifyLeader_EmailRegisteredMeanwhile(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	sent, err := f.svc.SendLeaderVerification(ctx, leaderSignup())
	require.NoError(t, err)

	f.db.addUser(domain.User{Email: "lena@example.com", Role: domain.RoleLeader, TeamCode: "ZZZ999"})

	_, err = f.svc.VerifyLeader(ctx, Verification{Token: sent.Token})
	assert.ErrorIs(t, err, my_errors.ErrEmailExists)

	_, err = f.leaders.Get(ctx, sent.Token)
	assert.ErrorIs(t, err, my_errors.ErrEntryNotFound)
}

func TestSendMemberVerification_UnknownTeam(t *testing.T) {
	f := newRegistrationFixture(t)

	_, err := f.svc.SendMemberVerification(context.Background(), MemberSignup{
		Email:    "max@example.com",
		Name:     "Max",
		Password: "secret!1",
		TeamCode: "nope00",
	})
	assert.ErrorIs(t, err, my_errors.ErrInvalidTeamCode)
}

func TestVerifyMember_CreatesPendingAndNotifiesLeader(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	leader := f.db.addUser(domain.User{
		Email:    "lena@example.com",
		Name:     "Lena Lead",
		Role:     domain.RoleLeader,
		Status:   domain.StatusApproved,
		TeamCode: "ABC123",
	})
	f.db.addTeam("Alpha", "ABC123", &leader.ID)

	sent, err := f.svc.SendMemberVerification(ctx, MemberSignup{
		Email:    "Max@Example.com",
		Name:     "Max",
		Password: "secret!1",
		TeamCode: " abc123 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", sent.TeamName)
	assert.Equal(t, "member_verification", f.notifier.last().Template)

	got, err := f.svc.VerifyMember(ctx, Verification{Token: sent.Token})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.User.Status)
	assert.Equal(t, domain.RoleMember, got.User.Role)
	assert.Equal(t, "ABC123", got.User.TeamCode)
	assert.Equal(t, "Alpha", got.TeamName)

	email := f.notifier.last()
	assert.Equal(t, "new_member_request", email.Template)
	assert.Equal(t, "lena@example.com", email.To)
	assert.Equal(t, "max@example.com", email.Data.(notify.NewMemberRequestData).MemberEmail)

	n, _ := f.members.Len(ctx)
	assert.Zero(t, n)
}

func TestPendingCounts(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()
	f.db.addTeam("Alpha", "ABC123", nil)

	_, err := f.svc.SendLeaderVerification(ctx, leaderSignup())
	require.NoError(t, err)
	_, err = f.svc.SendMemberVerification(ctx, MemberSignup{Email: "max@example.com", Name: "Max", Password: "secret!1", TeamCode: "ABC123"})
	require.NoError(t, err)

	leaders, members, err := f.svc.PendingCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, leaders)
	assert.Equal(t, 1, members)
}
