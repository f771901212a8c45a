package model

import "time"

// CommandEvent records one chat command handled by the bot.
type CommandEvent struct {
	ID        int64     `json:"id"`
	RequestID string    `json:"request_id"`
	ChatID    int64     `json:"chat_id"`
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
	LatencyMS int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
}
