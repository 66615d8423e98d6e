package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestServiceAddAccountStoresPasswordInSecretStore(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, store, "")

	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()
	store.EXPECT().Put(mockAnyContext(), "anyrouter://main/password", "pw").Return(nil).Once()
	repo.EXPECT().Save(mockAnyContext(), domain.Account{
		Name:        "main",
		Email:       "m@example.com",
		PasswordRef: "anyrouter://main/password",
	}).Return(nil).Once()

	err := service.AddAccount(context.Background(), AddAccountCommand{Name: " main ", Email: "m@example.com", Password: "pw"})
	require.NoError(t, err)
}

func TestServiceAddAccountInline(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, store, "")

	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()
	repo.EXPECT().Save(mockAnyContext(), domain.Account{Name: "main", Email: "m", Password: "pw"}).Return(nil).Once()

	require.NoError(t, service.AddAccount(context.Background(), AddAccountCommand{Name: "main", Email: "m", Password: "pw", Inline: true}))
}

func TestServiceAddAccountRollsBackSecretOnSaveFailure(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, store, "")

	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()
	store.EXPECT().Put(mockAnyContext(), "anyrouter://main/password", "pw").Return(nil).Once()
	repo.EXPECT().Save(mockAnyContext(), mock.AnythingOfType("domain.Account")).Return(errors.New("read-only file system")).Once()
	store.EXPECT().Delete(mockAnyContext(), "anyrouter://main/password").Return(nil).Once()

	err := service.AddAccount(context.Background(), AddAccountCommand{Name: "main", Email: "m", Password: "pw"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only file system")
}

func TestServiceAddAccountRejectsDuplicateName(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	service := NewService(repo, mocks.NewMockSecretStore(t), "")

	repo.EXPECT().List(mockAnyContext()).Return([]domain.Account{{Name: "main", Email: "m", Password: "pw"}}, nil).Once()

	err := service.AddAccount(context.Background(), AddAccountCommand{Name: "main", Email: "m", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrAccountExists)
}

func TestServiceSetPasswordMovesInlinePasswordToStore(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, store, "")

	repo.EXPECT().List(mockAnyContext()).Return([]domain.Account{{Name: "main", Email: "m", Password: "old"}}, nil).Once()
	store.EXPECT().Put(mockAnyContext(), "anyrouter://main/password", "new").Return(nil).Once()
	repo.EXPECT().Save(mockAnyContext(), domain.Account{Name: "main", Email: "m", PasswordRef: "anyrouter://main/password"}).Return(nil).Once()

	require.NoError(t, service.SetPassword(context.Background(), SetPasswordCommand{Name: "main", Password: "new"}))
}

func TestServiceSetPasswordKeepsFileWhenRefUnchanged(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, store, "")

	repo.EXPECT().List(mockAnyContext()).Return([]domain.Account{{Name: "main", Email: "m", PasswordRef: "anyrouter://main/password"}}, nil).Once()
	store.EXPECT().Put(mockAnyContext(), "anyrouter://main/password", "new").Return(nil).Once()

	require.NoError(t, service.SetPassword(context.Background(), SetPasswordCommand{Name: "main", Password: "new"}))
}

func TestServiceSetPasswordUnknownAccount(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	service := NewService(repo, mocks.NewMockSecretStore(t), "")
	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()

	err := service.SetPassword(context.Background(), SetPasswordCommand{Name: "ghost", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrAccountMissing)
}

func TestServiceRemovePassword(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, store, "")

	repo.EXPECT().List(mockAnyContext()).Return([]domain.Account{
		{Name: "inline", Email: "i", Password: "pw"},
		{Name: "ref", Email: "r", PasswordRef: "anyrouter://ref/password"},
	}, nil).Twice()
	store.EXPECT().Delete(mockAnyContext(), "anyrouter://ref/password").Return(nil).Once()

	require.NoError(t, service.RemovePassword(context.Background(), "ref"))
	assert.ErrorIs(t, service.RemovePassword(context.Background(), "inline"), domain.ErrSecretNotFound)
}

func TestServiceListAccounts(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	service := NewService(repo, mocks.NewMockSecretStore(t), "https://anyrouter.top")

	repo.EXPECT().List(mockAnyContext()).Return([]domain.Account{
		{Name: "inline", Email: "i@example.com", Password: "pw"},
		{Email: "ref@example.com", PasswordRef: "anyrouter://ref/password", BaseURL: "https://mirror.example/"},
		{Name: "bare", Email: "b@example.com"},
	}, nil).Once()

	views, err := service.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, AccountView{Name: "inline", Email: "i@example.com", BaseURL: "https://anyrouter.top", PasswordSource: PasswordInline}, views[0])
	assert.Equal(t, "ref@example.com", views[1].Name)
	assert.Equal(t, "https://mirror.example", views[1].BaseURL)
	assert.Equal(t, PasswordSecret, views[1].PasswordSource)
	assert.Equal(t, PasswordMissing, views[2].PasswordSource)
}
