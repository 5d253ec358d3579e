package service

import (
	"context"
	"testing"

	"github.com/Pratham2994/Symbiote-sub000/internal/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSuggest(t *testing.T) {
	ctx := context.Background()
	candidates := []*models.User{
		testUser("u2", "bob"),
		testUser("u3", "carol"),
		testUser("u4", "dave"),
	}

	t.Run("ranks candidates by combined score", func(t *testing.T) {
		teams := new(MockTeamRepository)
		oracle := new(MockOracle)
		teams.On("UsersWithoutTeam", ctx, "c1", "u1").Return(candidates, nil)
		oracle.On("Score", ctx, "u2").Return(models.MatchScore{Resume: 50, GitHub: 50, EQ: 50}, nil)
		oracle.On("Score", ctx, "u3").Return(models.MatchScore{Resume: 90, GitHub: 80, EQ: 70}, nil)
		oracle.On("Score", ctx, "u4").Return(models.MatchScore{Resume: 10, GitHub: 20, EQ: 30}, nil)

		svc := NewSuggestionService(teams, oracle, zap.NewNop())
		got, fail := svc.Suggest(ctx, "u1", "c1")
		require.Nil(t, fail)
		require.Len(t, got, 3)
		assert.Equal(t, "u3", got[0].User.ID)
		assert.Equal(t, "u2", got[1].User.ID)
		assert.Equal(t, "u4", got[2].User.ID)
		assert.Equal(t, 240, got[0].Total)
	})

	t.Run("out-of-range score fails the whole request", func(t *testing.T) {
		teams := new(MockTeamRepository)
		oracle := new(MockOracle)
		teams.On("UsersWithoutTeam", ctx, "c1", "u1").Return(candidates[:1], nil)
		oracle.On("Score", ctx, "u2").Return(models.MatchScore{Resume: 120, GitHub: 50, EQ: 50}, nil)

		svc := NewSuggestionService(teams, oracle, zap.NewNop())
		_, fail := svc.Suggest(ctx, "u1", "c1")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeInvalidScore, fail.Code)
	})

	t.Run("oracle outage is surfaced, not papered over", func(t *testing.T) {
		teams := new(MockTeamRepository)
		oracle := new(MockOracle)
		teams.On("UsersWithoutTeam", ctx, "c1", "u1").Return(candidates[:1], nil)
		oracle.On("Score", ctx, "u2").Return(models.MatchScore{}, errors.New("connection refused"))

		svc := NewSuggestionService(teams, oracle, zap.NewNop())
		_, fail := svc.Suggest(ctx, "u1", "c1")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeUnspecified, fail.Code)
	})

	t.Run("no oracle configured disables the feature", func(t *testing.T) {
		teams := new(MockTeamRepository)

		svc := NewSuggestionService(teams, nil, zap.NewNop())
		_, fail := svc.Suggest(ctx, "u1", "c1")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeNotFound, fail.Code)
		teams.AssertNotCalled(t, "UsersWithoutTeam")
	})

	t.Run("no candidates yields an empty slice", func(t *testing.T) {
		teams := new(MockTeamRepository)
		oracle := new(MockOracle)
		teams.On("UsersWithoutTeam", ctx, "c1", "u1").Return([]*models.User{}, nil)

		svc := NewSuggestionService(teams, oracle, zap.NewNop())
		got, fail := svc.Suggest(ctx, "u1", "c1")
		require.Nil(t, fail)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
