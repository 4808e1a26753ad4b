package transcriber

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"quiz-tube/internal/adapter/audio"
	"quiz-tube/internal/config"
)

type cliModel struct {
	binary string
	size   string
	run    audio.CommandRunner
}

// CLILoader returns a loader for the openai-whisper command line tool. Loading
// only verifies that the binary is on PATH; the tool loads its weights per run.
func CLILoader(cfg config.WhisperConfig, run audio.CommandRunner) ModelLoader {
	binary := cfg.Binary
	if binary == "" {
		binary = "whisper"
	}
	return func(modelSize string) (SpeechModel, error) {
		r := run
		if r == nil {
			if _, err := exec.LookPath(binary); err != nil {
				return nil, fmt.Errorf("%s not found on PATH: %w", binary, err)
			}
			r = audio.ExecRunner
		}
		return &cliModel{binary: binary, size: modelSize, run: r}, nil
	}
}

func (m *cliModel) Transcribe(ctx context.Context, audioPath string) (string, error) {
	outDir := filepath.Dir(audioPath)
	out, err := m.run(ctx, m.binary,
		"--model", m.size,
		"--output_format", "txt",
		"--output_dir", outDir,
		audioPath,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %s", m.binary, err, strings.TrimSpace(string(out)))
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	text, err := os.ReadFile(filepath.Join(outDir, base+".txt"))
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return string(text), nil
}

// NewLoader selects the loader for the configured backend.
func NewLoader(cfg config.WhisperConfig) (ModelLoader, error) {
	switch cfg.Backend {
	case "", "openai":
		return OpenAILoader(cfg), nil
	case "cli":
		return CLILoader(cfg, nil), nil
	default:
		return nil, fmt.Errorf("unsupported whisper backend: %s", cfg.Backend)
	}
}
