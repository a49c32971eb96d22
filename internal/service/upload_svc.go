package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/storage"
)

var (
	ErrFileTooBig   = errors.New("file is too big (more than 400Mb)")
	ErrCoverTooBig  = errors.New("cover is too big (more than 7Mb)")
	ErrBadUploadKey = errors.New("upload key does not belong to this user")
)

// UploadService orchestrates the presigned multipart upload lifecycle.
// Object keys are namespaced per user so one user cannot complete or abort
// another user's upload.
type UploadService struct {
	store *storage.S3Client
}

func NewUploadService(store *storage.S3Client) *UploadService {
	return &UploadService{store: store}
}

// Create validates the declared size against the per-kind limit and starts
// a multipart upload.
func (s *UploadService) Create(ctx context.Context, userID int64, req model.UploadCreateRequest) (*model.UploadCreateResponse, error) {
	switch req.Kind {
	case "cover":
		if req.FileSize > model.MaxCoverSize {
			return nil, ErrCoverTooBig
		}
	default:
		if req.FileSize > model.MaxFileSize {
			return nil, ErrFileTooBig
		}
	}

	key := objectKey(userID, req.FileName)
	uploadID, err := s.store.CreateMultipartUpload(ctx, key)
	if err != nil {
		return nil, err
	}

	return &model.UploadCreateResponse{UploadID: uploadID, Key: key}, nil
}

// PartURL presigns the upload URL for one part of an in-progress upload.
func (s *UploadService) PartURL(ctx context.Context, userID int64, key, uploadID string, partNumber int32) (*model.UploadPartResponse, error) {
	if err := checkKeyOwner(userID, key); err != nil {
		return nil, err
	}
	if partNumber < 1 {
		return nil, fmt.Errorf("invalid part number: %d", partNumber)
	}

	url, err := s.store.PresignUploadPart(ctx, key, uploadID, partNumber)
	if err != nil {
		return nil, err
	}
	return &model.UploadPartResponse{PartNumber: partNumber, URL: url}, nil
}

// Complete finalizes a multipart upload from the client-reported ETags.
func (s *UploadService) Complete(ctx context.Context, userID int64, uploadID string, req model.UploadCompleteRequest) error {
	if err := checkKeyOwner(userID, req.Key); err != nil {
		return err
	}
	if len(req.Parts) == 0 {
		return errors.New("no parts supplied")
	}

	parts := make([]types.CompletedPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, types.CompletedPart{
			PartNumber: aws.Int32(p.PartNumber),
			ETag:       aws.String(p.ETag),
		})
	}

	return s.store.CompleteMultipartUpload(ctx, req.Key, uploadID, parts)
}

// Abort discards an in-progress upload.
func (s *UploadService) Abort(ctx context.Context, userID int64, key, uploadID string) error {
	if err := checkKeyOwner(userID, key); err != nil {
		return err
	}
	return s.store.AbortMultipartUpload(ctx, key, uploadID)
}

// CoverURL presigns a single-shot PUT for a cover image.
func (s *UploadService) CoverURL(ctx context.Context, userID int64, fileName string) (string, string, error) {
	key := objectKey(userID, fileName)
	url, err := s.store.PresignPutObject(ctx, key)
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

// objectKey builds a collision-free per-user object key. The original file
// name is kept as the last segment for operator readability.
func objectKey(userID int64, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return fmt.Sprintf("media/%d/%s/%s", userID, uuid.NewString(), base)
}

func checkKeyOwner(userID int64, key string) error {
	if !strings.HasPrefix(key, fmt.Sprintf("media/%d/", userID)) {
		return ErrBadUploadKey
	}
	return nil
}
