package services

import "time"

// SessionEventType - вид изменения сессии.
type SessionEventType string

// Виды событий сессии.
const (
	SessionSignedUp  SessionEventType = "signed_up"
	SessionSignedIn  SessionEventType = "signed_in"
	SessionRefreshed SessionEventType = "refreshed"
	SessionSignedOut SessionEventType = "signed_out"
)

// SessionEvent - уведомление об изменении сессии пользователя.
type SessionEvent struct {
	Type   SessionEventType `json:"type"`
	UserID string           `json:"user_id"`
	At     time.Time        `json:"at"`
}
