package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/Pratham2994/Symbiote-sub000/internal/models"
	"github.com/Pratham2994/Symbiote-sub000/internal/store"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxSuggestions caps a single suggestion response.
const maxSuggestions = 20

// Oracle produces compatibility scores for a user from an external scoring
// service.
type Oracle interface {
	Score(ctx context.Context, userID string) (models.MatchScore, error)
}

// HTTPOracle queries the scoring service over HTTP.
type HTTPOracle struct {
	baseURL string
	client  *http.Client
}

func NewHTTPOracle(baseURL string) *HTTPOracle {
	return &HTTPOracle{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (o *HTTPOracle) Score(ctx context.Context, userID string) (models.MatchScore, error) {
	var score models.MatchScore

	url := fmt.Sprintf("%s/scores/%s", o.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return score, errors.Wrap(err, "build scoring request")
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return score, errors.Wrap(err, "call scoring service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return score, errors.Errorf("scoring service returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		return score, errors.Wrap(err, "decode scoring response")
	}
	return score, nil
}

// SuggestionService ranks teammate candidates by oracle score. Scores are
// trusted data from an external system, so any out-of-range value fails the
// whole request rather than being clamped or skipped.
type SuggestionService struct {
	teams  store.TeamRepository
	oracle Oracle
	log    *zap.Logger
}

func NewSuggestionService(teams store.TeamRepository, oracle Oracle, log *zap.Logger) *SuggestionService {
	return &SuggestionService{teams: teams, oracle: oracle, log: log}
}

// Suggest returns up to maxSuggestions candidates without a team for the
// competition, highest combined score first. With no oracle configured the
// feature is disabled and every call reports that instead of failing mid-rank.
func (s *SuggestionService) Suggest(ctx context.Context, userID, competitionID string) ([]*models.Suggestion, *Error) {
	if s.oracle == nil {
		return nil, NewError(ErrorCodeNotFound, "team suggestions are not enabled")
	}

	candidates, err := s.teams.UsersWithoutTeam(ctx, competitionID, userID)
	if err != nil {
		s.log.Error("failed to list suggestion candidates", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list candidates")
	}

	suggestions := make([]*models.Suggestion, 0, len(candidates))
	for _, c := range candidates {
		score, err := s.oracle.Score(ctx, c.ID)
		if err != nil {
			s.log.Error("scoring service call failed",
				zap.String("user_id", c.ID), zap.Error(err))
			return nil, NewError(ErrorCodeUnspecified, "scoring service unavailable")
		}
		if !score.InRange() {
			s.log.Error("scoring service returned out-of-range score",
				zap.String("user_id", c.ID),
				zap.Int("resume", score.Resume),
				zap.Int("github", score.GitHub),
				zap.Int("eq", score.EQ))
			return nil, NewError(ErrorCodeInvalidScore, "scoring service returned an invalid score")
		}
		suggestions = append(suggestions, &models.Suggestion{
			User:  c.ToResponse(),
			Score: score,
			Total: score.Total(),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Total > suggestions[j].Total
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions, nil
}
