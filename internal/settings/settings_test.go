package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	stored *Settings
	err    error
}

func (m *memRepo) GetSettings(context.Context) (*Settings, error) { return m.stored, m.err }

func (m *memRepo) SaveSettings(_ context.Context, s Settings) error {
	if m.err != nil {
		return m.err
	}

	m.stored = &s

	return nil
}

func TestService_GetDefaultsThenSaved(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Default(), got)

	require.NoError(t, svc.Save(context.Background(), Settings{Theme: "ocean", UserName: "Ana"}))

	got, err = svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.UserName)
	assert.False(t, got.ShowIncome)
}

func TestService_Errors(t *testing.T) {
	svc := NewService(&memRepo{err: errors.New("disk full")})

	_, err := svc.Get(context.Background())
	assert.Error(t, err)
	assert.Error(t, svc.Save(context.Background(), Default()))
}
