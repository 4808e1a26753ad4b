package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quiz-tube/internal/config"
	"quiz-tube/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeYTDLP writes files named after the -o template the way yt-dlp would.
func fakeYTDLP(ext string) (CommandRunner, *[]string) {
	var got []string
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		got = append([]string{name}, args...)
		for i, arg := range args {
			if arg == "-o" && i+1 < len(args) && ext != "" {
				path := strings.Replace(args[i+1], "%(ext)s", ext, 1)
				if err := os.WriteFile(path, []byte("ID3"), 0o600); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	}, &got
}

func TestAcquire_Success(t *testing.T) {
	dir := t.TempDir()
	run, got := fakeYTDLP("mp3")
	acq := NewYTDLPAcquirer(config.PipelineConfig{YTDLPPath: "/usr/local/bin/yt-dlp"}, run, zap.NewNop())

	path, err := acq.Acquire(context.Background(), "https://youtu.be/abc", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "audio.mp3"), path)

	assert.Equal(t, "/usr/local/bin/yt-dlp", (*got)[0])
	assert.Equal(t, []string{
		"-f", "bestaudio/best", "-x", "--audio-format", "mp3", "--audio-quality", "192K",
		"--no-playlist", "--quiet", "--no-warnings",
		"-o", filepath.Join(dir, "audio.%(ext)s"),
		"https://youtu.be/abc",
	}, (*got)[1:])
}

func TestAcquire_CommandFails(t *testing.T) {
	run := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("ERROR: Video unavailable"), errors.New("exit status 1")
	}
	acq := NewYTDLPAcquirer(config.PipelineConfig{}, run, zap.NewNop())

	path, err := acq.Acquire(context.Background(), "https://youtu.be/gone", t.TempDir())
	assert.Empty(t, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloadFailed)
	assert.Equal(t, domain.ErrAcquisitionFailed, domain.CodeOf(err))

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Failed to download audio.", domainErr.Message)
}

func TestAcquire_NoMP3Produced(t *testing.T) {
	run, _ := fakeYTDLP("webm")
	acq := NewYTDLPAcquirer(config.PipelineConfig{}, run, zap.NewNop())

	_, err := acq.Acquire(context.Background(), "https://youtu.be/abc", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAudioMissing)
	assert.NotErrorIs(t, err, ErrDownloadFailed)
	assert.Equal(t, domain.ErrAcquisitionFailed, domain.CodeOf(err))

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Audio extraction failed.", domainErr.Message)
}

func TestAcquire_TimeoutCancelsCommand(t *testing.T) {
	run := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	acq := NewYTDLPAcquirer(config.PipelineConfig{AcquireTimeout: 10 * time.Millisecond}, run, zap.NewNop())

	_, err := acq.Acquire(context.Background(), "https://youtu.be/slow", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloadFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithWorkDir_RemovesDirectory(t *testing.T) {
	var seen string
	err := WithWorkDir("quiz-tube-test-", func(dir string) error {
		seen = dir
		return os.WriteFile(filepath.Join(dir, "audio.mp3"), []byte("x"), 0o600)
	})
	require.NoError(t, err)
	_, statErr := os.Stat(seen)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWithWorkDir_RemovesDirectoryOnError(t *testing.T) {
	var seen string
	boom := errors.New("boom")
	err := WithWorkDir("quiz-tube-test-", func(dir string) error {
		seen = dir
		return boom
	})
	assert.ErrorIs(t, err, boom)
	_, statErr := os.Stat(seen)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWithWorkDir_RemovesDirectoryOnPanic(t *testing.T) {
	var seen string
	assert.Panics(t, func() {
		_ = WithWorkDir("quiz-tube-test-", func(dir string) error {
			seen = dir
			panic("boom")
		})
	})
	_, statErr := os.Stat(seen)
	assert.True(t, os.IsNotExist(statErr))
}
