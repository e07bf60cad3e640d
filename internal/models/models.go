package models

import "time"

// MessageBody holds the payload of a message center announcement.
type MessageBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Message represents one change-announcement item from the message center
// feed. All fields except ProcessedTimestamp come from the remote service;
// ProcessedTimestamp is attached locally when the message is processed.
type Message struct {
	ID                   string      `json:"id"`
	Title                string      `json:"title"`
	Category             string      `json:"category,omitempty"`
	Severity             string      `json:"severity,omitempty"`
	IsMajorChange        bool        `json:"isMajorChange,omitempty"`
	StartDateTime        string      `json:"startDateTime,omitempty"`
	LastModifiedDateTime string      `json:"lastModifiedDateTime,omitempty"`
	Body                 MessageBody `json:"body"`
	Services             []string    `json:"services,omitempty"`
	Tags                 []string    `json:"tags,omitempty"`
	ProcessedTimestamp   string      `json:"processedTimestamp,omitempty"`
}

// ServiceReport is one per-service statistics entry derived from a run's
// message set. LastUpdated is the run timestamp, shared by every entry.
type ServiceReport struct {
	ServiceName           string  `json:"serviceName"`
	MessageCount          int     `json:"messageCount"`
	LastUpdated           string  `json:"lastUpdated"`
	AverageMessagesPerDay float64 `json:"averageMessagesPerDay"`
}

// RunSummary tracks the outcome of a single sync run.
type RunSummary struct {
	MessagesFetched   int       `json:"messages_fetched"`
	MessagesProcessed int       `json:"messages_processed"`
	ArchiveFailures   int       `json:"archive_failures"`
	ServicesSeen      int       `json:"services_seen"`
	OutputDir         string    `json:"output_dir"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
}
