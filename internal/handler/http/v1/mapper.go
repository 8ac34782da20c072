package v1

import (
	"github.com/google/uuid"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/shenikar/civic_alert_system/internal/service"
)

func locationToModel(l LocationRequest) models.Location {
	loc := models.Location{Address: l.Address}
	if l.Lat != nil {
		loc.Lat = *l.Lat
	}
	if l.Lng != nil {
		loc.Lng = *l.Lng
	}
	return loc
}

// DTOToIncidentModel преобразует DTO создания в доменную модель
func DTOToIncidentModel(dto CreateIncidentRequest) *models.Incident {
	return &models.Incident{
		Type:        dto.Type,
		Title:       dto.Title,
		Description: dto.Description,
		Location:    locationToModel(dto.Location),
		MediaURLs:   dto.MediaURLs,
	}
}

// DTOToIncidentPatch преобразует DTO правки в патч сервиса. DuplicateOf должен быть уже проверен валидатором.
func DTOToIncidentPatch(dto UpdateIncidentRequest) service.IncidentPatch {
	patch := service.IncidentPatch{
		Title:       dto.Title,
		Description: dto.Description,
		AssignedTo:  dto.AssignedTo,
		IsDuplicate: dto.IsDuplicate,
	}
	if dto.Severity != nil {
		sev := models.Severity(*dto.Severity)
		patch.Severity = &sev
	}
	if dto.Location != nil {
		loc := locationToModel(*dto.Location)
		patch.Location = &loc
	}
	if dto.DuplicateOf != nil {
		if id, err := uuid.Parse(*dto.DuplicateOf); err == nil {
			patch.DuplicateOf = &id
		}
	}
	return patch
}

// DTOToSubscriptionFilters преобразует фильтры подписки
func DTOToSubscriptionFilters(dto SubscriptionFiltersRequest) models.SubscriptionFilters {
	filters := models.SubscriptionFilters{
		Types:    dto.Types,
		RadiusKm: dto.Radius,
	}
	for _, s := range dto.Severity {
		filters.Severities = append(filters.Severities, models.Severity(s))
	}
	if dto.Location != nil {
		loc := locationToModel(*dto.Location)
		filters.Location = &loc
	}
	return filters
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	mediaURLs := model.MediaURLs
	if mediaURLs == nil {
		mediaURLs = []string{}
	}
	return &IncidentResponse{
		ID:          model.ID,
		Type:        model.Type,
		Title:       model.Title,
		Description: model.Description,
		Severity:    string(model.Severity),
		Status:      string(model.Status),
		Location: LocationResponse{
			Lat:     model.Location.Lat,
			Lng:     model.Location.Lng,
			Address: model.Location.Address,
		},
		ReportedBy:  model.ReportedBy,
		AssignedTo:  model.AssignedTo,
		MediaURLs:   mediaURLs,
		Upvotes:     model.Upvotes,
		Downvotes:   model.Downvotes,
		DuplicateOf: model.DuplicateOf,
		Version:     model.Version,
		ReportedAt:  model.ReportedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// ModelToSubscriptionResponse преобразует подписку в DTO
func ModelToSubscriptionResponse(sub *models.Subscription) *SubscriptionResponse {
	filters := SubscriptionFiltersRequest{
		Types:  sub.Filters.Types,
		Radius: sub.Filters.RadiusKm,
	}
	for _, s := range sub.Filters.Severities {
		filters.Severity = append(filters.Severity, string(s))
	}
	if l := sub.Filters.Location; l != nil {
		lat, lng := l.Lat, l.Lng
		filters.Location = &LocationRequest{Lat: &lat, Lng: &lng, Address: l.Address}
	}
	return &SubscriptionResponse{
		UserID:    sub.UserID,
		Token:     sub.Token,
		Filters:   filters,
		CreatedAt: sub.CreatedAt,
		UpdatedAt: sub.UpdatedAt,
	}
}

// ModelToRewardsResponse добавляет к записи наград уровень и прогресс
func ModelToRewardsResponse(u *models.UserRewards) *RewardsResponse {
	level, progress, remaining := u.Level()
	badges := u.Badges
	if badges == nil {
		badges = []string{}
	}
	return &RewardsResponse{
		UserID:              u.UserID,
		Points:              u.Points,
		Level:               level,
		ProgressToNextLevel: progress,
		NextLevelPoints:     remaining,
		Badges:              badges,
		Stats: UserStatsResponse{
			TotalReports:    u.Stats.TotalReports,
			VerifiedReports: u.Stats.VerifiedReports,
			ResolvedReports: u.Stats.ResolvedReports,
			TotalUpvotes:    u.Stats.TotalUpvotes,
			LastReportAt:    u.Stats.LastReportAt,
		},
		UpdatedAt: u.UpdatedAt,
	}
}

func ModelToActivityResponse(a *models.Activity) *ActivityResponse {
	return &ActivityResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		Action:     string(a.Action),
		IncidentID: a.IncidentID,
		Details:    a.Details,
		Timestamp:  a.Timestamp,
	}
}
