package domain

import "context"

// AudioAcquirer downloads the audio track of a video into workDir and returns
// the path of the resulting mp3 file.
type AudioAcquirer interface {
	Acquire(ctx context.Context, videoURL, workDir string) (string, error)
}

// Transcriber converts an audio file into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// QuizGenerator sends a prompt to a generative model and returns the decoded,
// still untrusted JSON value of its response.
type QuizGenerator interface {
	Generate(ctx context.Context, prompt string) (any, error)
}
