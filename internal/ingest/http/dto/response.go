// Package dto provides data transfer objects for the operational API.
package dto

import (
	"time"

	"github.com/pitchside/matchpipe/internal/broker"
	"github.com/pitchside/matchpipe/internal/ingest/domain"
	"github.com/pitchside/matchpipe/internal/status"
)

// MatchResponse represents a persisted match row in API responses.
type MatchResponse struct {
	ID             string     `json:"id"`
	IdempotencyKey string     `json:"idempotency_key"`
	SourceID       string     `json:"source_id,omitempty"`
	HomeTeam       string     `json:"home_team"`
	AwayTeam       string     `json:"away_team"`
	Competition    string     `json:"competition"`
	Season         string     `json:"season"`
	AgeGroup       string     `json:"age_group"`
	Division       string     `json:"division"`
	MatchDate      string     `json:"match_date"`
	HomeScore      *int       `json:"home_score"`
	AwayScore      *int       `json:"away_score"`
	Status         string     `json:"status"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// MapMatchToResponse converts a domain match to an API response.
func MapMatchToResponse(match *domain.Match) MatchResponse {
	return MatchResponse{
		ID:             match.ID.String(),
		IdempotencyKey: match.IdempotencyKey,
		SourceID:       match.SourceID,
		HomeTeam:       match.HomeTeam,
		AwayTeam:       match.AwayTeam,
		Competition:    match.Competition,
		Season:         match.Season,
		AgeGroup:       match.AgeGroup,
		Division:       match.Division,
		MatchDate:      match.MatchDate.String(),
		HomeScore:      match.HomeScore,
		AwayScore:      match.AwayScore,
		Status:         string(match.Status),
		PublishedAt:    match.PublishedAt,
		CreatedAt:      match.CreatedAt,
		UpdatedAt:      match.UpdatedAt,
	}
}

// StatusResponse represents a message's processing status in API responses.
type StatusResponse struct {
	Key         string    `json:"key"`
	State       string    `json:"state"`
	Attempts    int       `json:"attempts"`
	LastError   string    `json:"last_error,omitempty"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MapStatusToResponse converts a status record to an API response.
func MapStatusToResponse(record *status.Record) StatusResponse {
	return StatusResponse{
		Key:         record.Key,
		State:       string(record.State),
		Attempts:    record.Attempts,
		LastError:   record.LastError,
		FirstSeenAt: record.FirstSeenAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

// QuarantinedMessageResponse represents a dead-lettered message in API
// responses. Payload is the original message verbatim; it may not be valid
// JSON when the message was quarantined for a decode error.
type QuarantinedMessageResponse struct {
	ID            string    `json:"id"`
	Key           string    `json:"key"`
	Payload       string    `json:"payload"`
	Reason        string    `json:"reason"`
	LastError     string    `json:"last_error,omitempty"`
	Attempts      int       `json:"attempts"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
	QuarantinedAt time.Time `json:"quarantined_at"`
}

// MapQuarantinedToResponse converts a quarantined message to an API response.
func MapQuarantinedToResponse(message *broker.QuarantinedMessage) QuarantinedMessageResponse {
	return QuarantinedMessageResponse{
		ID:            message.ID,
		Key:           message.Key,
		Payload:       string(message.Payload),
		Reason:        message.Reason,
		LastError:     message.LastError,
		Attempts:      message.Attempts,
		EnqueuedAt:    message.EnqueuedAt,
		QuarantinedAt: message.QuarantinedAt,
	}
}

// ListQuarantinedResponse represents a paginated list of quarantined
// messages.
type ListQuarantinedResponse struct {
	Data  []QuarantinedMessageResponse `json:"data"`
	Total int64                        `json:"total"`
}

// MapQuarantinedToListResponse converts quarantined messages to a list
// response.
func MapQuarantinedToListResponse(messages []broker.QuarantinedMessage, total int64) ListQuarantinedResponse {
	data := make([]QuarantinedMessageResponse, 0, len(messages))
	for i := range messages {
		data = append(data, MapQuarantinedToResponse(&messages[i]))
	}
	return ListQuarantinedResponse{Data: data, Total: total}
}
