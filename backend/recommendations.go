package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// RecommendationService talks to the AI recommendation endpoints backing the
// dashboard widget.
type RecommendationService struct {
	client *Client
}

type Recommendation struct {
	Course Course  `json:"course"`
	Reason string  `json:"reason"`
	Score  float64 `json:"score"`
}

type Preferences struct {
	Topics []string `json:"topics"`
	Level  string   `json:"level"` // beginner|intermediate|advanced
	Goal   string   `json:"goal"`
}

// Interaction actions tracked for the recommendation model.
const (
	InteractionView    = "view"
	InteractionClick   = "click"
	InteractionDismiss = "dismiss"
	InteractionEnroll  = "enroll"
)

func (s *RecommendationService) ForMe(ctx context.Context, limit int) ([]Recommendation, error) {
	query := make(url.Values)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	recs := []Recommendation{}
	err := s.client.do(ctx, http.MethodGet, "recommendations", query, nil, &recs)
	return recs, err
}

func (s *RecommendationService) Preferences(ctx context.Context) (Preferences, error) {
	var prefs Preferences
	err := s.client.do(ctx, http.MethodGet, "recommendations/preferences", nil, nil, &prefs)
	return prefs, err
}

func (s *RecommendationService) UpdatePreferences(ctx context.Context, prefs Preferences) (Preferences, error) {
	var updated Preferences
	err := s.client.do(ctx, http.MethodPut, "recommendations/preferences", nil, prefs, &updated)
	return updated, err
}

// TrackInteraction reports a widget interaction; the event id de-duplicates
// replays on the backend side.
func (s *RecommendationService) TrackInteraction(ctx context.Context, courseID int, action string) error {
	body := map[string]interface{}{
		"event_id":  uuid.New().String(),
		"course_id": courseID,
		"action":    action,
	}
	return s.client.do(ctx, http.MethodPost, "recommendations/interactions", nil, body, nil)
}
