package model

import "fmt"

// TargetType tags the kind of entity a comment or report points at.
type TargetType string

const (
	TargetMedia   TargetType = "media"
	TargetComment TargetType = "comment"
)

// TargetRef is a typed reference to either a media item or a comment.
// Every site that resolves a TargetRef must switch exhaustively on Type.
type TargetRef struct {
	Type TargetType `json:"targetType"`
	ID   int64      `json:"targetId"`
}

// MediaRef builds a reference to a media item.
func MediaRef(id int64) TargetRef {
	return TargetRef{Type: TargetMedia, ID: id}
}

// CommentRef builds a reference to a comment.
func CommentRef(id int64) TargetRef {
	return TargetRef{Type: TargetComment, ID: id}
}

// ParseTargetRef validates a raw (type, id) pair coming off the wire.
func ParseTargetRef(typ string, id int64) (TargetRef, error) {
	if id <= 0 {
		return TargetRef{}, fmt.Errorf("invalid target id: %d", id)
	}
	switch TargetType(typ) {
	case TargetMedia, TargetComment:
		return TargetRef{Type: TargetType(typ), ID: id}, nil
	default:
		return TargetRef{}, fmt.Errorf("unknown target type: %q", typ)
	}
}

func (t TargetRef) String() string {
	return fmt.Sprintf("%s:%d", t.Type, t.ID)
}
