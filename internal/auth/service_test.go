package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/models"
	"github.com/example/almajid/internal/repository"
	"github.com/example/almajid/internal/repository/memory"
)

type recorder struct {
	events []Event
}

func (r *recorder) OnAuthEvent(e Event) { r.events = append(r.events, e) }

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func newTestService() (*Service, repository.UserRepository, repository.TokenRepository, *recorder) {
	repos := memory.NewStore().Repositories()
	users, tokens := repos.User, repos.Token
	svc := NewService(users, tokens, NewHub(), Options{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		AdminEmail: "admin@almajidbatik.com",
	}, nil)
	rec := &recorder{}
	svc.Subscribe(rec)
	return svc, users, tokens, rec
}

func TestSignUpSignInSignOut(t *testing.T) {
	svc, _, _, rec := newTestService()
	ctx := context.Background()

	session, err := svc.SignUp(ctx, SignUpInput{
		Email:    " Sari@Example.com ",
		Password: "rahasia",
		FullName: "Sari",
		Metadata: map[string]interface{}{"role": "admin", "newsletter": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "sari@example.com", session.Identifier())
	assert.Equal(t, models.RoleUser, session.User.Role)
	assert.False(t, session.IsAdmin)
	assert.NotContains(t, session.User.Metadata, "role")
	assert.Equal(t, true, session.User.Metadata["newsletter"])

	signedIn, err := svc.SignIn(ctx, "SARI@example.com", "rahasia")
	require.NoError(t, err)

	current, err := svc.Authenticate(ctx, signedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, current.User.ID)

	require.NoError(t, svc.SignOut(ctx, current))
	_, err = svc.Authenticate(ctx, signedIn.Token)
	var ua *apperrors.ErrUnauthorized
	assert.ErrorAs(t, err, &ua)

	assert.Equal(t, []EventKind{EventSignedIn, EventSignedIn, EventSignedOut}, rec.kinds())
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _, rec := newTestService()

	_, err := svc.SignUp(context.Background(), SignUpInput{Email: "not-an-email", Password: "123", Phone: "12345"})

	var verr *apperrors.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "phone")
	assert.Empty(t, rec.events)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	_, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "A@b.co", Password: "secret2"})
	assert.True(t, apperrors.IsConflict(err))
}

func TestSignInWrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	_, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "a@b.co", "wrong!")
	var ua *apperrors.ErrUnauthorized
	assert.ErrorAs(t, err, &ua)

	_, err = svc.SignIn(ctx, "nobody@b.co", "secret1")
	assert.ErrorAs(t, err, &ua)
}

func TestAdminByEmail(t *testing.T) {
	svc, _, _, _ := newTestService()
	session, err := svc.SignUp(context.Background(), SignUpInput{Email: "admin@almajidbatik.com", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, session.IsAdmin)
	assert.True(t, svc.IsAdmin(&models.User{Email: "x@y.z", Role: models.RoleAdmin}))
	assert.False(t, svc.IsAdmin(nil))
}

func TestUpdateProfile(t *testing.T) {
	svc, users, _, rec := newTestService()
	ctx := context.Background()
	session, err := svc.SignUp(ctx, SignUpInput{
		Email:    "budi@example.com",
		Password: "secret1",
		Metadata: map[string]interface{}{"city": "Solo"},
	})
	require.NoError(t, err)

	name, phone := "Budi Santoso", "081234567890"
	updated, err := svc.UpdateProfile(ctx, session, ProfileInput{
		FullName: &name,
		Phone:    &phone,
		Metadata: map[string]interface{}{"role": "admin", "size": "L"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", updated.User.FullName)
	assert.Equal(t, "Solo", updated.User.Metadata["city"])
	assert.Equal(t, "L", updated.User.Metadata["size"])
	assert.NotContains(t, updated.User.Metadata, "role")

	stored, err := users.GetByID(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "081234567890", stored.Phone)
	assert.Equal(t, EventUserUpdated, rec.events[len(rec.events)-1].Kind)

	bad := "12"
	_, err = svc.UpdateProfile(ctx, updated, ProfileInput{Phone: &bad})
	assert.True(t, apperrors.IsValidation(err))
}

func TestPasswordReset(t *testing.T) {
	svc, _, _, rec := newTestService()
	ctx := context.Background()
	_, err := svc.SignUp(ctx, SignUpInput{Email: "rina@example.com", Password: "oldpass"})
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(ctx, "rina@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Contains(t, rec.kinds(), EventPasswordRecovery)

	require.NoError(t, svc.ResetPassword(ctx, token, "newpass"))
	_, err = svc.SignIn(ctx, "rina@example.com", "newpass")
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, token, "another")
	assert.True(t, apperrors.IsValidation(err), "token is single use")

	unknown, err := svc.RequestPasswordReset(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	var got int
	unsubscribe := hub.Subscribe(ListenerFunc(func(Event) { got++ }))

	hub.Publish(Event{Kind: EventSignedIn})
	unsubscribe()
	unsubscribe()
	hub.Publish(Event{Kind: EventSignedOut})

	assert.Equal(t, 1, got)
}

func TestGuestID(t *testing.T) {
	id := NewGuestID(time.UnixMilli(1714550400000))
	assert.True(t, ValidGuestID(id), id)
	assert.Regexp(t, `^guest_1714550400000_[0-9a-z]{9}$`, id)
	assert.NotEqual(t, id, NewGuestID(time.UnixMilli(1714550400000)))

	assert.False(t, ValidGuestID(""))
	assert.False(t, ValidGuestID("guest_abc_123456789"))
	assert.False(t, ValidGuestID("user@example.com"))
}

func TestValidPhone(t *testing.T) {
	for _, ok := range []string{"081234567890", "+62812345678", "6281234567890"} {
		assert.True(t, ValidPhone(ok), ok)
	}
	for _, bad := range []string{"", "0812", "+1 555 1234", "08123456789012345"} {
		assert.False(t, ValidPhone(bad), bad)
	}
}
