package model

import "time"

// Moderation verdicts.
const (
	VerdictApprove = "approve"
	VerdictReject  = "reject"
)

// ModeratorTask is an exclusive claim binding one moderator to one pending
// media item. Both sides are unique: a moderator holds at most one task and
// a media item is claimed by at most one moderator.
type ModeratorTask struct {
	ID           int64     `json:"id"`
	MediaID      int64     `json:"mediaId"`
	UserWhoAdded int64     `json:"moderatorId"`
	CreateDate   time.Time `json:"createDate"`
}

// TaskResponse is the API response for a claimed moderation task.
type TaskResponse struct {
	TaskID  int64         `json:"taskId"`
	Media   MediaResponse `json:"media"`
	Claimed time.Time     `json:"claimed"`
}

// DecisionRequest is the API request body for submitting a verdict.
type DecisionRequest struct {
	MediaID  int64  `json:"mediaId"`
	Verdict  string `json:"verdict"`
	AutoNext bool   `json:"autoNext"`
}

// DecisionResponse reports the applied transition and, when AutoNext was
// requested and the queue was non-empty, the next claimed task.
type DecisionResponse struct {
	MediaID  int64         `json:"mediaId"`
	NewState int16         `json:"newState"`
	NextTask *TaskResponse `json:"nextTask,omitempty"`
}

// UploadCreateRequest starts a multipart upload.
type UploadCreateRequest struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	Kind     string `json:"kind"` // "file" or "cover"
}

// UploadCreateResponse identifies the started multipart upload.
type UploadCreateResponse struct {
	UploadID string `json:"uploadId"`
	Key      string `json:"key"`
}

// UploadPartResponse carries a presigned URL for one part.
type UploadPartResponse struct {
	PartNumber int32  `json:"partNumber"`
	URL        string `json:"url"`
}

// UploadCompleteRequest finishes a multipart upload.
type UploadCompleteRequest struct {
	Key   string           `json:"key"`
	Parts []UploadPartETag `json:"parts"`
}

// UploadPartETag pairs an uploaded part with the ETag returned by storage.
type UploadPartETag struct {
	PartNumber int32  `json:"partNumber"`
	ETag       string `json:"etag"`
}
