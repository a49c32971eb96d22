package model

import (
	"math"
	"time"
)

// Media lifecycle states (media.active).
const (
	MediaInModeration int16 = 0
	MediaActive       int16 = 1
	MediaNotValid     int16 = 2
)

// Upload size limits (bytes). Megabyte values are kept integral.
const (
	MaxFileSize  = 1024 * 1024 * 400 // 400Mb
	MaxCoverSize = 1024 * 1024 * 7   // 7Mb
)

// Media represents an uploaded content item moving through moderation.
type Media struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Author        string    `json:"author"`
	PubDate       time.Time `json:"pubDate"`
	UserWhoAdded  int64     `json:"userWhoAdded"`
	Active        int16     `json:"active"`
	FileKey       string    `json:"-"`
	CoverKey      *string   `json:"-"`
	RatingSum     int64     `json:"-"`
	RatingCount   int64     `json:"-"`
	DownloadCount int64     `json:"downloads"`
	Tags          []Tag     `json:"tags,omitempty"`
}

// Rating returns the arithmetic mean of the media's 1-5 ratings rounded to
// two decimal places, or 0 when no ratings exist. Served from the
// denormalized aggregate columns so catalog reads never scan rating rows.
func (m *Media) Rating() float64 {
	return RoundedAverage(m.RatingSum, m.RatingCount)
}

// RoundedAverage returns sum/count rounded to 2 decimal places, or 0 for an
// empty count.
func RoundedAverage(sum, count int64) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*100) / 100
}

// MediaCreateRequest is the API request body for registering an upload.
// FileKey and CoverKey point at objects already placed in storage through
// the multipart upload flow.
type MediaCreateRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Author      string  `json:"author"`
	TagIDs      []int64 `json:"tagIds"`
	FileKey     string  `json:"fileKey"`
	CoverKey    *string `json:"coverKey,omitempty"`
}

// MediaUpdateRequest is the API request body for an owner edit.
type MediaUpdateRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Author      string  `json:"author"`
	TagIDs      []int64 `json:"tagIds"`
	CoverKey    *string `json:"coverKey,omitempty"`
}

// MediaResponse is the API response for media detail lookups.
type MediaResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	PubDate     time.Time `json:"pubDate"`
	Active      int16     `json:"active"`
	Rating      float64   `json:"rating"`
	Downloads   int64     `json:"downloads"`
	Tags        []Tag     `json:"tags"`
}

// MediaListItem is a single catalog search result.
type MediaListItem struct {
	Title  string  `json:"title"`
	Rating float64 `json:"rating"`
	Link   string  `json:"link"`
	Tags   []Tag   `json:"tags"`
}

// DownloadResponse carries the presigned object URL for a download.
// AlreadyDownloaded is set when the (media, user) pair was recorded before;
// the download still succeeds, only the counter stays put.
type DownloadResponse struct {
	URL               string `json:"url"`
	AlreadyDownloaded bool   `json:"alreadyDownloaded"`
}

// StatsResponse is the API response for catalog statistics.
type StatsResponse struct {
	TotalMedia     int64 `json:"totalMedia"`
	ActiveMedia    int64 `json:"activeMedia"`
	PendingMedia   int64 `json:"pendingMedia"`
	TotalComments  int64 `json:"totalComments"`
	TotalUsers     int64 `json:"totalUsers"`
	TotalDownloads int64 `json:"totalDownloads"`
}
