package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/shenikar/civic_alert_system/internal/service"
	"github.com/shenikar/civic_alert_system/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestListActivity(t *testing.T) {
	incidentID := uuid.New()
	entries := []*models.Activity{{ID: uuid.New(), UserID: citizen.UserID, Action: models.ActivityVoted}}

	tests := []struct {
		name      string
		caller    models.Caller
		filter    models.ActivityFilter
		expected  *models.ActivityFilter
		repoErr   error
		expectErr error
	}{
		{
			name:     "citizen defaults to own activity",
			caller:   citizen,
			filter:   models.ActivityFilter{},
			expected: &models.ActivityFilter{UserID: citizen.UserID, Page: 1, PageSize: 50},
		},
		{
			name:      "citizen cannot read someone else",
			caller:    citizen,
			filter:    models.ActivityFilter{UserID: "other"},
			expectErr: models.ErrForbidden,
		},
		{
			name:      "anonymous caller",
			caller:    models.Caller{},
			expectErr: models.ErrForbidden,
		},
		{
			name:     "operator reads incident history",
			caller:   responder,
			filter:   models.ActivityFilter{IncidentID: incidentID, Page: 2, PageSize: 500},
			expected: &models.ActivityFilter{IncidentID: incidentID, Page: 2, PageSize: 50},
		},
		{
			name:      "repository unavailable",
			caller:    responder,
			filter:    models.ActivityFilter{UserID: "anyone", Page: 1, PageSize: 10},
			expected:  &models.ActivityFilter{UserID: "anyone", Page: 1, PageSize: 10},
			repoErr:   errors.New("connection refused"),
			expectErr: models.ErrDependencyUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockActivityRepository(ctrl)
			svc := service.NewActivityService(repo, silentLogger())
			ctx := context.Background()

			if tt.expected != nil {
				if tt.repoErr != nil {
					repo.EXPECT().List(ctx, *tt.expected).Return(nil, tt.repoErr)
				} else {
					repo.EXPECT().List(ctx, *tt.expected).Return(entries, nil)
				}
			}

			got, err := svc.ListActivity(ctx, tt.caller, tt.filter)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entries, got)
		})
	}
}
