package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quiz-tube/internal/adapter/audio"
	"quiz-tube/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// maxUploadBytes stays under the 25 MB request limit of the transcription endpoint.
	maxUploadBytes = 24 << 20
	segmentSeconds = 600
)

// AudioClient is the subset of *openai.Client used for transcription.
type AudioClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

type openAIModel struct {
	client AudioClient
	model  string
	run    audio.CommandRunner
}

// OpenAILoader returns a loader that talks to an OpenAI-compatible
// transcription endpoint. With an empty BaseURL the hosted whisper-1 model is
// used; otherwise the configured model size is sent to the self-hosted server.
func OpenAILoader(cfg config.WhisperConfig) ModelLoader {
	return func(modelSize string) (SpeechModel, error) {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		model := openai.Whisper1
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
			model = modelSize
		} else if cfg.APIKey == "" {
			return nil, fmt.Errorf("whisper api key is required for the hosted endpoint")
		}
		return NewOpenAIModel(openai.NewClientWithConfig(clientCfg), model, nil), nil
	}
}

// NewOpenAIModel wraps client. A nil runner selects audio.ExecRunner for ffmpeg.
func NewOpenAIModel(client AudioClient, model string, run audio.CommandRunner) SpeechModel {
	if run == nil {
		run = audio.ExecRunner
	}
	return &openAIModel{client: client, model: model, run: run}
}

func (m *openAIModel) Transcribe(ctx context.Context, audioPath string) (string, error) {
	chunks, err := m.split(ctx, audioPath)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, chunk := range chunks {
		resp, err := m.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    m.model,
			FilePath: chunk,
		})
		if err != nil {
			return "", fmt.Errorf("transcription request for %s: %w", filepath.Base(chunk), err)
		}
		sb.WriteString(resp.Text)
		sb.WriteString(" ")
	}
	return strings.TrimSpace(sb.String()), nil
}

// split cuts files above the upload limit into ten minute mp3 segments next to
// the source file. Small files are returned as is.
func (m *openAIModel) split(ctx context.Context, audioPath string) ([]string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("stat audio: %w", err)
	}
	if info.Size() <= maxUploadBytes {
		return []string{audioPath}, nil
	}

	dir := filepath.Dir(audioPath)
	pattern := filepath.Join(dir, "chunk_%03d.mp3")
	out, err := m.run(ctx, "ffmpeg", "-y", "-i", audioPath,
		"-f", "segment", "-segment_time", fmt.Sprint(segmentSeconds),
		"-c", "copy", pattern)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg segment: %w: %s", err, strings.TrimSpace(string(out)))
	}

	chunks, err := filepath.Glob(filepath.Join(dir, "chunk_*.mp3"))
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("ffmpeg produced no segments for %s", audioPath)
	}
	sort.Strings(chunks)
	return chunks, nil
}
