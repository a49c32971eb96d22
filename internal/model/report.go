package model

import "time"

// Report is a user complaint about a media item or a comment.
type Report struct {
	ID           int64     `json:"id"`
	Target       TargetRef `json:"target"`
	UserWhoAdded int64     `json:"userWhoAdded"`
	Content      string    `json:"content"`
	PubDate      time.Time `json:"pubDate"`
	TypeIDs      []int64   `json:"typeIds,omitempty"`
}

// ReportType is a bilingual lookup entity describing a complaint category.
type ReportType struct {
	ID           int64  `json:"id"`
	NameEn       string `json:"name"`
	NameRu       string `json:"nameRu,omitempty"`
	HelpTextEn   string `json:"help_text"`
	HelpTextRu   string `json:"helpTextRu,omitempty"`
	UserWhoAdded int64  `json:"-"`
}

// ReportCreateRequest is the API request body for filing a report.
type ReportCreateRequest struct {
	TargetType string  `json:"targetType"`
	TargetID   int64   `json:"targetId"`
	Content    string  `json:"content"`
	TypeIDs    []int64 `json:"typeIds"`
}
