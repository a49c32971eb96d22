package model

import "time"

// MaxCommentLen caps comment content (comments.content VARCHAR(500)).
const MaxCommentLen = 500

// Comment vote values (comment_ratings.vote).
const (
	UpVote   int16 = 1
	DownVote int16 = -1
)

// Comment is a flat comment record. Its parent is either a media item or
// another comment, identified by the typed Target reference.
type Comment struct {
	ID           int64     `json:"id"`
	Target       TargetRef `json:"target"`
	UserWhoAdded int64     `json:"userWhoAdded"`
	Username     string    `json:"username"`
	Content      string    `json:"content"`
	PubDate      time.Time `json:"pubDate"`
	Rating       int64     `json:"rating"`
}

// CommentNode is one entry of a flattened reply tree: the comment plus its
// nesting depth relative to the thread root.
type CommentNode struct {
	Comment
	Depth int `json:"depth"`
}

// CommentCreateRequest is the API request body for posting a comment.
type CommentCreateRequest struct {
	TargetType string `json:"targetType"`
	TargetID   int64  `json:"targetId"`
	Content    string `json:"content"`
}

// VoteRequest is the API request body for voting on a comment.
type VoteRequest struct {
	Vote int16 `json:"vote"`
}

// VoteResponse is the API response after a comment vote.
type VoteResponse struct {
	Success   bool  `json:"success"`
	Removed   bool  `json:"removed"`
	NewRating int64 `json:"newRating"`
}
