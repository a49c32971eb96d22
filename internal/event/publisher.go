// Package event publishes media lifecycle events to NATS JetStream for
// downstream consumers (notifications, audit). The publisher degrades to a
// no-op when NATS is not configured.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/LaGGgggg/SkyLibrary/internal/model"
)

// Subjects under the SKYLIB_MEDIA stream.
const (
	SubjectMediaUploaded = "skylibrary.media.uploaded"
	SubjectMediaApproved = "skylibrary.media.approved"
	SubjectMediaRejected = "skylibrary.media.rejected"
	SubjectMediaReported = "skylibrary.media.reported"
)

// Publisher emits media lifecycle events.
type Publisher interface {
	MediaUploaded(ctx context.Context, m *model.Media) error
	MediaDecided(ctx context.Context, mediaID int64, newState int16) error
	TargetReported(ctx context.Context, target model.TargetRef) error
	Close() error
}

type noop struct{}

func (noop) MediaUploaded(context.Context, *model.Media) error     { return nil }
func (noop) MediaDecided(context.Context, int64, int16) error      { return nil }
func (noop) TargetReported(context.Context, model.TargetRef) error { return nil }
func (noop) Close() error                                          { return nil }

type natsPub struct {
	nc *nats.Conn
	js nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the media stream exists. An
// empty URL or a connection failure yields a no-op publisher so the API
// keeps working without event streaming.
func NewPublisher(url string, log zerolog.Logger) Publisher {
	if url == "" {
		return noop{}
	}

	nc, err := nats.Connect(url)
	if err != nil {
		log.Warn().Err(err).Msg("nats: connect failed, events disabled")
		return noop{}
	}

	js, err := nc.JetStream()
	if err != nil {
		log.Warn().Err(err).Msg("nats: jetstream unavailable, events disabled")
		nc.Close()
		return noop{}
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      "SKYLIB_MEDIA",
		Subjects:  []string{"skylibrary.media.*"},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Discard:   nats.DiscardOld,
		Storage:   nats.FileStorage,
	})
	if err != nil {
		log.Warn().Err(err).Msg("nats: stream setup failed, events disabled")
		nc.Close()
		return noop{}
	}

	log.Info().Msg("nats: connected, media events enabled")
	return &natsPub{nc: nc, js: js}
}

func (p *natsPub) publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = p.js.Publish(subject, data)
	return err
}

func (p *natsPub) MediaUploaded(_ context.Context, m *model.Media) error {
	return p.publish(SubjectMediaUploaded, map[string]any{
		"mediaId": m.ID,
		"title":   m.Title,
		"owner":   m.UserWhoAdded,
		"at":      time.Now().UTC(),
	})
}

func (p *natsPub) MediaDecided(_ context.Context, mediaID int64, newState int16) error {
	subject := SubjectMediaApproved
	if newState == model.MediaNotValid {
		subject = SubjectMediaRejected
	}
	return p.publish(subject, map[string]any{
		"mediaId":  mediaID,
		"newState": newState,
		"at":       time.Now().UTC(),
	})
}

func (p *natsPub) TargetReported(_ context.Context, target model.TargetRef) error {
	return p.publish(SubjectMediaReported, map[string]any{
		"targetType": target.Type,
		"targetId":   target.ID,
		"at":         time.Now().UTC(),
	})
}

func (p *natsPub) Close() error {
	p.nc.Close()
	return nil
}
