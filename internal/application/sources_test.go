package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstNonEmptyPrefersEarlierSource(t *testing.T) {
	file := mocks.NewMockAccountSource(t)
	env := mocks.NewMockAccountSource(t)
	file.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()
	env.EXPECT().List(mockAnyContext()).Return(accountsNamed("from-env"), nil).Once()

	accounts, err := FirstNonEmpty{file, nil, env}.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "from-env", accounts[0].Name)
}

func TestFirstNonEmptyStopsAtFirstHit(t *testing.T) {
	file := mocks.NewMockAccountSource(t)
	env := mocks.NewMockAccountSource(t)
	file.EXPECT().List(mockAnyContext()).Return(accountsNamed("a", "b"), nil).Once()

	accounts, err := FirstNonEmpty{file, env}.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestFirstNonEmptyErrors(t *testing.T) {
	broken := mocks.NewMockAccountSource(t)
	broken.EXPECT().List(mockAnyContext()).Return(nil, errors.New("decode accounts file: bad toml")).Once()

	_, err := FirstNonEmpty{broken}.List(context.Background())
	assert.ErrorContains(t, err, "bad toml")

	_, err = FirstNonEmpty{}.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoAccounts)
}
