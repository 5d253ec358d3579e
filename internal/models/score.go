package models

// MatchScore holds the three opaque 0-100 scores returned by the scoring
// oracle. The engine never recomputes them, only checks the range.
type MatchScore struct {
	Resume int `json:"resume"`
	GitHub int `json:"github"`
	EQ     int `json:"eq"`
}

// InRange reports whether every score is within [0, 100].
func (s MatchScore) InRange() bool {
	for _, v := range []int{s.Resume, s.GitHub, s.EQ} {
		if v < 0 || v > 100 {
			return false
		}
	}
	return true
}

// Total is the combined score used to order suggestions.
func (s MatchScore) Total() int {
	return s.Resume + s.GitHub + s.EQ
}

// Suggestion is one ranked team-match candidate.
type Suggestion struct {
	User  UserResponse `json:"user"`
	Score MatchScore   `json:"score"`
	Total int          `json:"total"`
}
