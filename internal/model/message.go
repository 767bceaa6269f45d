package model

import "time"

// Message represents a single board entry as stored in PostgreSQL.
type Message struct {
	ID        int64     `db:"id" json:"id"`
	User      string    `db:"user" json:"user"`
	Content   string    `db:"content" json:"content"`
	Time      time.Time `db:"time" json:"time"`
	IsVisible bool      `db:"is_visible" json:"is_visible"`
}
