package domain

import "time"

// MiniPlayerState — снимок свёрнутой live-трансляции, разделяемый между
// независимыми экранами. Раньше экраны опрашивали durable storage по
// таймеру; теперь снимок хранится здесь, а об изменениях подписчики
// узнают через шину событий.
type MiniPlayerState struct {
	Minimized       bool      `json:"minimized"`
	StreamID        string    `json:"streamId"`
	Title           string    `json:"title"`
	PositionSeconds float64   `json:"positionSeconds"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
