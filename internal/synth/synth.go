// ABOUTME: Speech synthesis for whisper messages
// ABOUTME: Turns message text into a base64 PCM payload using Gemini text-to-speech
package synth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/vitruviano/whisper-go/internal/gift"
	"github.com/vitruviano/whisper-go/pkg/audio"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini text-to-speech model
const DefaultModel = "gemini-2.5-flash-preview-tts"

// ErrEmptyText is returned when there is nothing to speak
var ErrEmptyText = errors.New("synth: empty text")

// ErrNoAudio is returned when the model answers without audio
var ErrNoAudio = errors.New("synth: response contained no audio")

// Synthesizer produces a raw audio payload for text
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, mode gift.Mode) (string, error)
}

// contentGenerator is the subset of the genai models API used here
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig holds Gemini synthesizer configuration
type GeminiConfig struct {
	APIKey string
	Model  string
	Logger *zap.Logger
}

// Gemini synthesizes speech with the Gemini API
type Gemini struct {
	models contentGenerator
	model  string
	logger *zap.Logger
}

// NewGemini creates a Gemini synthesizer
func NewGemini(ctx context.Context, config GeminiConfig) (*Gemini, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return newGemini(client.Models, config), nil
}

func newGemini(models contentGenerator, config GeminiConfig) *Gemini {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &Gemini{
		models: models,
		model:  config.Model,
		logger: config.Logger,
	}
}

// Synthesize speaks text in the voice for mode
func (g *Gemini) Synthesize(ctx context.Context, text string, mode gift.Mode) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}

	voice := mode.Voice()
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	g.logger.Debug("Synthesizing whisper",
		zap.String("model", g.model),
		zap.String("voice", voice),
		zap.Int("chars", len(text)))

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(text), config)
	if err != nil {
		return "", fmt.Errorf("synth: generate content: %w", err)
	}

	data := firstInlineData(resp)
	if len(data) == 0 {
		return "", ErrNoAudio
	}
	if len(data)%audio.BytesPerSample != 0 {
		return "", fmt.Errorf("%w: synthesized audio has odd length %d", audio.ErrInvalidAudioPayload, len(data))
	}

	g.logger.Info("Whisper synthesized",
		zap.String("voice", voice),
		zap.Duration("duration", audio.Duration(len(data)/audio.BytesPerSample)))

	return base64.StdEncoding.EncodeToString(data), nil
}

// firstInlineData returns the first inline blob of the first candidate
func firstInlineData(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return nil
	}
	for _, p := range content.Parts {
		if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return p.InlineData.Data
		}
	}
	return nil
}
