package webhook

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SurveyTrigger запрашивает опрос автора через исходящее событие survey.requested
type SurveyTrigger struct {
	publisher WebhookPublisher
	now       func() time.Time
}

func NewSurveyTrigger(publisher WebhookPublisher) *SurveyTrigger {
	return &SurveyTrigger{publisher: publisher, now: time.Now}
}

// TriggerSurvey публикует запрос на опрос по закрытому инциденту
func (s *SurveyTrigger) TriggerSurvey(ctx context.Context, incidentID uuid.UUID, reporterID string) error {
	return s.publisher.Publish(ctx, WebhookEvent{
		Type:       EventSurveyRequested,
		IncidentID: incidentID,
		UserID:     reporterID,
		Timestamp:  s.now().UTC(),
	})
}
