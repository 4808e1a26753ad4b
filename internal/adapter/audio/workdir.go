package audio

import (
	"fmt"
	"os"

	"quiz-tube/internal/logger"

	"go.uber.org/zap"
)

// WithWorkDir creates a private temporary directory, passes it to fn and
// removes it with everything inside once fn returns or panics.
func WithWorkDir(prefix string, fn func(dir string) error) error {
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return fmt.Errorf("failed to create work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Get().Warn("Failed to remove work dir", zap.String("dir", dir), zap.Error(err))
		}
	}()

	return fn(dir)
}
