package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"quiz-tube/internal/config"
	"quiz-tube/internal/domain"

	"go.uber.org/zap"
)

const (
	audioBaseName = "audio"
	audioFileName = audioBaseName + ".mp3"
	maxOutputTail = 512
)

var (
	// ErrDownloadFailed means yt-dlp (or its ffmpeg post-processing) exited with an error.
	ErrDownloadFailed = errors.New("failed to download audio")
	// ErrAudioMissing means yt-dlp succeeded but produced no mp3 file.
	ErrAudioMissing = errors.New("audio extraction failed")
)

// CommandRunner executes an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec. The process is killed when ctx ends.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// YTDLPAcquirer downloads the best audio stream of a video with yt-dlp and
// converts it to a 192 kbit/s mp3 through ffmpeg.
type YTDLPAcquirer struct {
	binary  string
	timeout time.Duration
	run     CommandRunner
	logger  *zap.Logger
}

// NewYTDLPAcquirer creates an acquirer. A nil runner selects ExecRunner.
func NewYTDLPAcquirer(cfg config.PipelineConfig, run CommandRunner, logger *zap.Logger) *YTDLPAcquirer {
	if run == nil {
		run = ExecRunner
	}
	binary := cfg.YTDLPPath
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YTDLPAcquirer{
		binary:  binary,
		timeout: cfg.AcquireTimeout,
		run:     run,
		logger:  logger,
	}
}

// Args returns the yt-dlp arguments used to fetch videoURL into workDir.
func Args(videoURL, workDir string) []string {
	return []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"-o", filepath.Join(workDir, audioBaseName+".%(ext)s"),
		videoURL,
	}
}

// Acquire downloads the audio of videoURL into workDir and returns the mp3 path.
// Failures are ACQUISITION_FAILED domain errors wrapping ErrDownloadFailed or ErrAudioMissing.
func (a *YTDLPAcquirer) Acquire(ctx context.Context, videoURL, workDir string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	a.logger.Info("Downloading audio", zap.String("url", videoURL), zap.String("work_dir", workDir))

	output, err := a.run(ctx, a.binary, Args(videoURL, workDir)...)
	if err != nil {
		a.logger.Error("yt-dlp failed",
			zap.Error(err),
			zap.String("output", tail(output)),
			zap.Duration("elapsed", time.Since(start)),
		)
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", err, ctxErr)
		}
		return "", domain.NewAcquisitionError(fmt.Errorf("%w: %w", ErrDownloadFailed, err))
	}

	audioPath := filepath.Join(workDir, audioFileName)
	info, err := os.Stat(audioPath)
	if err != nil || info.IsDir() {
		a.logger.Error("yt-dlp produced no mp3", zap.String("expected", audioPath), zap.String("output", tail(output)))
		return "", domain.NewAudioExtractionError(fmt.Errorf("%w: %s not found", ErrAudioMissing, audioPath))
	}

	a.logger.Info("Audio downloaded",
		zap.String("path", audioPath),
		zap.Int64("bytes", info.Size()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return audioPath, nil
}

// CheckTools reports which of yt-dlp and ffmpeg cannot be found on PATH.
func (a *YTDLPAcquirer) CheckTools() error {
	var missing []string
	for _, tool := range []string{a.binary, "ffmpeg"} {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools not found on PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}

func tail(output []byte) string {
	s := strings.TrimSpace(string(output))
	if len(s) > maxOutputTail {
		return "..." + s[len(s)-maxOutputTail:]
	}
	return s
}
