package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamLocationRefresh   = "stream:location:refresh"
	StreamLocationRefreshed = "stream:location:refreshed"
)

// Причины обновления локации
const (
	RefreshReasonCreated = "created"
	RefreshReasonManual  = "manual"
)

// LocationRefreshEvent - запрос на обновление кеша локации объекта
type LocationRefreshEvent struct {
	PropertyID uuid.UUID `json:"property_id"`
	Reason     string    `json:"reason,omitempty"`
}

// LocationRefreshedEvent - результат обновления
type LocationRefreshedEvent struct {
	PropertyID  uuid.UUID    `json:"property_id"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	PlacesCount int          `json:"places_count"`
	Error       string       `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
