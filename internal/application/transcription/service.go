package transcription

import (
	"context"

	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/ai"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

// Quality says whether the returned transcript went through the polish
// pass or came straight from speech-to-text.
type Quality string

const (
	QualityPolished Quality = "polished"
	QualityRaw      Quality = "raw"
)

// Result is a finished transcription.
type Result struct {
	Text    string  `json:"text"`
	Quality Quality `json:"quality"`
}

// Transcriber is the subset of the speech-to-text client this flow needs.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// TextGenerator is the subset of the model client used for polishing.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (*ai.GenerationResult, error)
}

const polishSystemPrompt = `You clean up voice-dictated observation notes. Fix punctuation and obvious transcription errors, and break the text into paragraphs where the speaker changes topic. Never add information that is not in the dictation, never remove content, and never reformat into bullet points. Return only the cleaned text.`

// Service converts dictated audio to text. Polishing is best-effort: if
// the polish pass fails, the raw transcript is returned rather than an
// error, flagged so the client can say so.
type Service struct {
	transcriber Transcriber
	generator   TextGenerator
	logger      logger.Interface
}

// NewService creates a new transcription service
func NewService(transcriber Transcriber, generator TextGenerator, logger logger.Interface) *Service {
	return &Service{
		transcriber: transcriber,
		generator:   generator,
		logger:      logger,
	}
}

// Transcribe converts the audio to text and polishes it
func (s *Service) Transcribe(ctx context.Context, filename string, audio []byte) (*Result, error) {
	if len(audio) == 0 {
		return nil, errors.NewValidationError("audio file is empty")
	}

	raw, err := s.transcriber.Transcribe(ctx, filename, audio)
	if err != nil {
		return nil, errors.NewInternalError("transcription failed", err.Error())
	}
	if raw == "" {
		return nil, errors.NewValidationError("no speech detected in the recording")
	}

	polished, err := s.generator.Generate(ctx, polishSystemPrompt, raw)
	if err != nil {
		s.logger.Warn("transcript polish failed, returning raw text", "error", err)
		return &Result{Text: raw, Quality: QualityRaw}, nil
	}

	return &Result{Text: polished.Text, Quality: QualityPolished}, nil
}
