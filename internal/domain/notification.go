package domain

import "time"

// Notification is a rendered chat message. It is built per approved event
// and dropped after dispatch.
type Notification struct {
	Title     string
	URL       string
	Color     int
	Fields    []NotificationField
	Footer    string
	Timestamp time.Time
}

type NotificationField struct {
	Name   string
	Value  string
	Inline bool
}

// Channel identifies a resolved chat destination.
type Channel struct {
	ID   string
	Name string
}

type DeliveryStatus string

const (
	DeliveryStatusSent            DeliveryStatus = "SENT"
	DeliveryStatusFiltered        DeliveryStatus = "FILTERED"
	DeliveryStatusClientNotReady  DeliveryStatus = "CLIENT_NOT_READY"
	DeliveryStatusChannelNotFound DeliveryStatus = "CHANNEL_NOT_FOUND"
)
