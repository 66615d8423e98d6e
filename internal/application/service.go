package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
)

// Service manages the stored account list and the passwords kept in the
// secret store.
type Service struct {
	repo    ports.AccountRepository
	store   ports.SecretStore
	baseURL string
}

func NewService(repo ports.AccountRepository, store ports.SecretStore, baseURL string) *Service {
	return &Service{repo: repo, store: store, baseURL: baseURL}
}

func PasswordRef(name string) string {
	return fmt.Sprintf("anyrouter://%s/password", strings.TrimSpace(name))
}

func (s *Service) AddAccount(ctx context.Context, cmd AddAccountCommand) error {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return errors.New("account name is required")
	}
	if cmd.Password == "" {
		return errors.New("account password is required")
	}

	if _, found, err := s.find(ctx, name); err != nil {
		return err
	} else if found {
		return fmt.Errorf("add account %q: %w", name, domain.ErrAccountExists)
	}

	account := domain.Account{
		Name:    name,
		Email:   strings.TrimSpace(cmd.Email),
		BaseURL: strings.TrimSpace(cmd.BaseURL),
	}
	if cmd.Inline {
		account.Password = cmd.Password
		if err := account.Validate(); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, account); err != nil {
			return fmt.Errorf("save account: %w", err)
		}
		return nil
	}

	account.PasswordRef = PasswordRef(name)
	if err := account.Validate(); err != nil {
		return err
	}
	if err := s.store.Put(ctx, account.PasswordRef, cmd.Password); err != nil {
		return fmt.Errorf("store account password: %w", err)
	}
	if err := s.repo.Save(ctx, account); err != nil {
		if rollbackErr := s.store.Delete(ctx, account.PasswordRef); rollbackErr != nil {
			return fmt.Errorf("save account and rollback stored password: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save account: %w", err)
	}

	return nil
}

// SetPassword stores a new password for an existing account and points the
// account at it. A previous inline password is dropped from the file.
func (s *Service) SetPassword(ctx context.Context, cmd SetPasswordCommand) error {
	if cmd.Password == "" {
		return errors.New("password is required")
	}

	account, found, err := s.find(ctx, cmd.Name)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("set password for %q: %w", cmd.Name, domain.ErrAccountMissing)
	}

	original := account
	ref := PasswordRef(account.Name)
	if err := s.store.Put(ctx, ref, cmd.Password); err != nil {
		return fmt.Errorf("store account password: %w", err)
	}

	account.Password = ""
	account.PasswordRef = ref
	if original.Password == account.Password && original.PasswordRef == account.PasswordRef {
		return nil
	}
	if err := s.repo.Save(ctx, account); err != nil {
		if rollbackErr := s.store.Delete(ctx, ref); rollbackErr != nil {
			return fmt.Errorf("save account password ref and rollback stored password: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save account password ref: %w", err)
	}

	return nil
}

// RemovePassword deletes the stored password of an account. The account keeps
// its reference so a later SetPassword restores it.
func (s *Service) RemovePassword(ctx context.Context, name string) error {
	account, found, err := s.find(ctx, name)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("remove password for %q: %w", name, domain.ErrAccountMissing)
	}
	if account.PasswordRef == "" {
		return fmt.Errorf("account %q has no stored password: %w", name, domain.ErrSecretNotFound)
	}

	if err := s.store.Delete(ctx, account.PasswordRef); err != nil {
		return fmt.Errorf("delete account password: %w", err)
	}

	return nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]AccountView, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	views := make([]AccountView, 0, len(accounts))
	for _, account := range accounts {
		view := AccountView{
			Name:           account.DisplayName(),
			Email:          account.Email,
			BaseURL:        account.ResolveBaseURL(s.baseURL),
			PasswordRef:    account.PasswordRef,
			PasswordSource: PasswordMissing,
		}
		switch {
		case account.Password != "":
			view.PasswordSource = PasswordInline
		case account.PasswordRef != "":
			view.PasswordSource = PasswordSecret
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *Service) find(ctx context.Context, name string) (domain.Account, bool, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return domain.Account{}, false, fmt.Errorf("list accounts: %w", err)
	}

	name = strings.TrimSpace(name)
	for _, account := range accounts {
		if account.Name == name {
			return account, true, nil
		}
	}

	return domain.Account{}, false, nil
}
