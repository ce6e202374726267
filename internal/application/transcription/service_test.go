package transcription

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/ai"
	apperrors "github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	return f.text, f.err
}

type fakePolisher struct {
	text string
	err  error
}

func (f *fakePolisher) Generate(ctx context.Context, system, prompt string) (*ai.GenerationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ai.GenerationResult{Text: f.text}, nil
}

func TestTranscribe_Polished(t *testing.T) {
	svc := NewService(
		&fakeTranscriber{text: "she helped with lunch then cleaned up"},
		&fakePolisher{text: "She helped with lunch, then cleaned up."},
		logger.NewLogger(),
	)

	result, err := svc.Transcribe(context.Background(), "note.webm", []byte("audio"))
	require.NoError(t, err)

	assert.Equal(t, QualityPolished, result.Quality)
	assert.Equal(t, "She helped with lunch, then cleaned up.", result.Text)
}

func TestTranscribe_PolishFailureFallsBackToRaw(t *testing.T) {
	svc := NewService(
		&fakeTranscriber{text: "she helped with lunch then cleaned up"},
		&fakePolisher{err: errors.New("model overloaded")},
		logger.NewLogger(),
	)

	result, err := svc.Transcribe(context.Background(), "note.webm", []byte("audio"))
	require.NoError(t, err)

	assert.Equal(t, QualityRaw, result.Quality)
	assert.Equal(t, "she helped with lunch then cleaned up", result.Text)
}

func TestTranscribe_EmptyAudio(t *testing.T) {
	svc := NewService(&fakeTranscriber{}, &fakePolisher{}, logger.NewLogger())

	_, err := svc.Transcribe(context.Background(), "note.webm", nil)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestTranscribe_ProviderFailure(t *testing.T) {
	svc := NewService(
		&fakeTranscriber{err: errors.New("upstream timeout")},
		&fakePolisher{},
		logger.NewLogger(),
	)

	_, err := svc.Transcribe(context.Background(), "note.webm", []byte("audio"))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeInternal, appErr.Type)
}

func TestTranscribe_NoSpeechDetected(t *testing.T) {
	svc := NewService(&fakeTranscriber{text: ""}, &fakePolisher{}, logger.NewLogger())

	_, err := svc.Transcribe(context.Background(), "note.webm", []byte("audio"))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}
