package service

import (
	"errors"
	"strings"
	"testing"
)

func TestObjectKey_NamespacedPerUser(t *testing.T) {
	key := objectKey(7, "book.pdf")
	if !strings.HasPrefix(key, "media/7/") {
		t.Errorf("key %q must be namespaced under media/7/", key)
	}
	if !strings.HasSuffix(key, "/book.pdf") {
		t.Errorf("key %q must keep the original file name", key)
	}
}

func TestObjectKey_StripsPathComponents(t *testing.T) {
	for _, name := range []string{"../../etc/passwd", "dir/book.pdf", "dir\\book.pdf"} {
		key := objectKey(1, name)
		if strings.Contains(key, "..") {
			t.Errorf("key %q must not contain path traversal", key)
		}
		parts := strings.Split(key, "/")
		if len(parts) != 4 {
			t.Errorf("key %q must have exactly 4 segments", key)
		}
	}
}

func TestObjectKey_Unique(t *testing.T) {
	if objectKey(1, "a.pdf") == objectKey(1, "a.pdf") {
		t.Error("two uploads of the same file name must not collide")
	}
}

func TestCheckKeyOwner(t *testing.T) {
	key := objectKey(5, "a.pdf")

	if err := checkKeyOwner(5, key); err != nil {
		t.Errorf("owner rejected: %v", err)
	}
	if err := checkKeyOwner(6, key); !errors.Is(err, ErrBadUploadKey) {
		t.Errorf("err = %v, want ErrBadUploadKey", err)
	}
	// User 50's prefix must not match user 5's keys.
	if err := checkKeyOwner(50, key); !errors.Is(err, ErrBadUploadKey) {
		t.Errorf("err = %v, want ErrBadUploadKey for prefix near-miss", err)
	}
}
