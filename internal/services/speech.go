package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
)

// ErrSpeechUnsupported is returned when dictation is not configured or the
// audio format is not recognized.
var ErrSpeechUnsupported = errors.New("speech recognition unavailable")

// Recognizer turns recorded audio into a transcript for journal dictation.
type Recognizer interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// GoogleRecognizer uses Google Cloud Speech-to-Text single-shot recognition.
// Dictation clips are short (browser MediaRecorder chunks), so the synchronous
// Recognize API is enough.
type GoogleRecognizer struct {
	client *speech.Client
}

// NewGoogleRecognizer builds a recognizer from a credentials file. Returns nil
// (dictation disabled) when the path is empty.
func NewGoogleRecognizer(ctx context.Context, credentialsFile string) (*GoogleRecognizer, error) {
	if credentialsFile == "" {
		return nil, nil
	}
	client, err := speech.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &GoogleRecognizer{client: client}, nil
}

func encodingForMime(mimeType string) (speechpb.RecognitionConfig_AudioEncoding, bool) {
	switch {
	case strings.HasPrefix(mimeType, "audio/webm"):
		return speechpb.RecognitionConfig_WEBM_OPUS, true
	case strings.HasPrefix(mimeType, "audio/ogg"):
		return speechpb.RecognitionConfig_OGG_OPUS, true
	case strings.HasPrefix(mimeType, "audio/wav"), strings.HasPrefix(mimeType, "audio/x-wav"):
		return speechpb.RecognitionConfig_LINEAR16, true
	case strings.HasPrefix(mimeType, "audio/flac"):
		return speechpb.RecognitionConfig_FLAC, true
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, false
	}
}

// Transcribe runs single-shot recognition and joins the result alternatives.
func (g *GoogleRecognizer) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	encoding, ok := encodingForMime(mimeType)
	if !ok {
		return "", ErrSpeechUnsupported
	}

	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:     encoding,
			LanguageCode: "en-US",
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

// Close releases the underlying gRPC connection.
func (g *GoogleRecognizer) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}
