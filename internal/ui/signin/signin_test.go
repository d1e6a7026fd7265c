package signin

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mgfeed/internal/api"
	"mgfeed/internal/models"
	"mgfeed/internal/session"
	"mgfeed/internal/ui/common"
	"mgfeed/internal/ui/uitest"
)

func testForm(t *testing.T, stub *uitest.StubAPI) (Model, *session.Store) {
	t.Helper()
	store, err := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return New(stub, store), store
}

func enterKey() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func TestSignInSuccessPersistsAndSignals(t *testing.T) {
	t.Parallel()

	sess := &models.Session{
		Token: "tok-abc",
		User:  &models.User{ID: 3, Username: "marie", Email: "marie@example.com"},
	}
	stub := &uitest.StubAPI{
		SignInFn: func(_ context.Context, in api.SignInInput) (*models.Session, error) {
			assert.Equal(t, "marie@example.com", in.Email)
			assert.Equal(t, "secret", in.Password)
			return sess, nil
		},
	}
	form, store := testForm(t, stub)
	form.inputs[fieldEmail].SetValue("marie@example.com")
	form.inputs[fieldPassword].SetValue("secret")

	form, cmd := form.Update(enterKey())
	require.NotNil(t, cmd)
	assert.True(t, form.busy)

	form, cmd = form.Update(cmd())
	require.NotNil(t, cmd)
	signed, ok := cmd().(common.SignedInMsg)
	require.True(t, ok)
	assert.Equal(t, "tok-abc", signed.Session.Token)

	loaded := store.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, "tok-abc", loaded.Token)
	assert.Equal(t, 3, loaded.User.ID)
}

func TestSignInEmptyFieldsNeverCallAPI(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	stub := &uitest.StubAPI{
		SignInFn: func(context.Context, api.SignInInput) (*models.Session, error) {
			calls.Add(1)
			return nil, nil
		},
	}
	form, _ := testForm(t, stub)

	form, cmd := form.Update(enterKey())
	assert.Nil(t, cmd)
	assert.Equal(t, "Email and password are required.", form.message)
	assert.Equal(t, int32(0), calls.Load())
}

func TestSignInHalfResponseShowsMessage(t *testing.T) {
	t.Parallel()

	// The client rejects a 200 that is missing the token or the user; the
	// view just shows whatever error comes back.
	stub := &uitest.StubAPI{
		SignInFn: func(context.Context, api.SignInInput) (*models.Session, error) {
			return nil, models.NewDecodeError("Authentication failed, please try again.", nil)
		},
	}
	form, store := testForm(t, stub)
	form.inputs[fieldEmail].SetValue("marie@example.com")
	form.inputs[fieldPassword].SetValue("secret")

	form, cmd := form.Update(enterKey())
	require.NotNil(t, cmd)
	form, cmd = form.Update(cmd())
	assert.Nil(t, cmd)
	assert.False(t, form.busy)
	assert.Contains(t, form.message, "Authentication failed")
	assert.Nil(t, store.Load())
}

func TestSignInServerErrorShowsMessage(t *testing.T) {
	t.Parallel()

	stub := &uitest.StubAPI{
		SignInFn: func(context.Context, api.SignInInput) (*models.Session, error) {
			return nil, errors.New("Invalid credentials")
		},
	}
	form, _ := testForm(t, stub)
	form.inputs[fieldEmail].SetValue("marie@example.com")
	form.inputs[fieldPassword].SetValue("wrong")

	form, cmd := form.Update(enterKey())
	require.NotNil(t, cmd)
	form, _ = form.Update(cmd())
	assert.Equal(t, "Invalid credentials", form.message)
}

func TestSignInSecondEnterWhileBusyIsIgnored(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	stub := &uitest.StubAPI{
		SignInFn: func(context.Context, api.SignInInput) (*models.Session, error) {
			calls.Add(1)
			return nil, errors.New("slow")
		},
	}
	form, _ := testForm(t, stub)
	form.inputs[fieldEmail].SetValue("marie@example.com")
	form.inputs[fieldPassword].SetValue("secret")

	form, cmd := form.Update(enterKey())
	require.NotNil(t, cmd)
	form, second := form.Update(enterKey())
	assert.Nil(t, second)

	cmd()
	assert.Equal(t, int32(1), calls.Load())
}

func TestSignInResultAfterTeardownIsDropped(t *testing.T) {
	t.Parallel()

	form, _ := testForm(t, &uitest.StubAPI{})
	form.inputs[fieldEmail].SetValue("marie@example.com")
	form.inputs[fieldPassword].SetValue("secret")

	form, _ = form.Update(enterKey())
	form.Teardown()

	form, cmd := form.Update(signInResultMsg{session: &models.Session{Token: "t"}, err: nil})
	assert.Nil(t, cmd)
	assert.True(t, form.busy)
}
