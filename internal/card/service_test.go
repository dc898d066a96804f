package card_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/aion/internal/card"
)

func validParams() card.Params {
	return card.Params{
		Name:       " Nubank ",
		HolderName: "Maria Silva",
		LimitTotal: 500000,
		ClosingDay: 3,
		DueDay:     10,
		Color:      "purple",
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    func() card.Params
		setupMock func(m *card.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: validParams,
			setupMock: func(m *card.MockRepository) {
				m.EXPECT().CreateCard(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "MissingName",
			params: func() card.Params {
				p := validParams()
				p.Name = ""
				return p
			},
			wantErr: card.ErrInvalidInput,
		},
		{
			name: "BadDueDay",
			params: func() card.Params {
				p := validParams()
				p.DueDay = 32
				return p
			},
			wantErr: card.ErrInvalidInput,
		},
		{
			name:   "RepoError",
			params: validParams,
			setupMock: func(m *card.MockRepository) {
				m.EXPECT().CreateCard(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := card.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := card.NewService(repo).Create(context.Background(), tt.params())
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, card.ErrInvalidInput) {
					assert.ErrorIs(t, err, card.ErrInvalidInput)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, "Nubank", got.Name)
			assert.False(t, got.IsArchived)
		})
	}
}

func TestService_ListActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := card.NewMockRepository(ctrl)
	repo.EXPECT().ListCards(gomock.Any()).Return([]*card.Card{
		{ID: uuid.New(), Name: "A"},
		{ID: uuid.New(), Name: "B", IsArchived: true},
	}, nil)

	got, err := card.NewService(repo).ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
}

func TestService_SetArchived(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stored := &card.Card{ID: uuid.New(), Name: "Inter"}

	repo := card.NewMockRepository(ctrl)
	repo.EXPECT().GetCard(gomock.Any(), stored.ID).Return(stored, nil)
	repo.EXPECT().UpdateCard(gomock.Any(), stored).Return(nil)

	got, err := card.NewService(repo).SetArchived(context.Background(), stored.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)
}

func TestService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := card.NewMockRepository(ctrl)
	repo.EXPECT().GetCard(gomock.Any(), id).Return(nil, card.ErrNotFound)

	_, err := card.NewService(repo).Update(context.Background(), id, validParams())
	assert.ErrorIs(t, err, card.ErrNotFound)
}
