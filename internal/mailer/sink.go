package mailer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SinkName identifies the last-resort capture provider in attempt logs.
const SinkName = "capture"

// FileSink is the non-delivering last-resort provider. It writes the
// message to a local capture file so staff can inspect what would have
// been sent. It only fails on local I/O problems.
type FileSink struct {
	dir string
}

// NewFileSink creates a capture sink writing under dir
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Name() string { return SinkName }

func (s *FileSink) Send(_ context.Context, msg *Message) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("capture dir: %w", err)
	}

	id := uuid.NewString()
	path := filepath.Join(s.dir, id+".eml")

	attachment := ""
	if msg.Attachment != nil {
		attachment = msg.Attachment.Name
		if attachment == "" {
			attachment = msg.Attachment.Path
		}
	}

	content := fmt.Sprintf(
		"Date: %s\r\nTo: %s\r\nSubject: %s\r\nX-Attachment: %s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n",
		time.Now().Format(time.RFC1123Z), msg.To, msg.Subject, attachment, msg.HTMLBody,
	)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("capture write: %w", err)
	}

	return id, nil
}
