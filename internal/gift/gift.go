// ABOUTME: Whisper gift model
// ABOUTME: Message, quote, score and the synthesized audio payload for one recipient
package gift

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/vitruviano/whisper-go/pkg/audio"
)

// Mode selects the delivery style of a whisper
type Mode string

const (
	ModeASMR       Mode = "asmr"
	ModeMantra     Mode = "mantra"
	ModeConfidence Mode = "confidence"
)

// DefaultMode is used when no mode is given
const DefaultMode = ModeConfidence

// ParseMode normalizes a mode name; empty selects DefaultMode
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return DefaultMode, nil
	case ModeASMR, ModeMantra, ModeConfidence:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode: %q", s)
	}
}

// Voice returns the prebuilt speech voice for the mode
func (m Mode) Voice() string {
	switch m {
	case ModeASMR:
		return "Puck"
	case ModeMantra:
		return "Kore"
	default:
		return "Fenrir"
	}
}

// Score rates a whisper from 0 to 100 on each axis
type Score struct {
	Resonance float64 `json:"resonance"`
	Alchemy   float64 `json:"alchemy"`
	Harmony   float64 `json:"harmony"`
	Overall   float64 `json:"overall"`
}

// Average returns the mean of the three component scores
func (s Score) Average() float64 {
	return (s.Resonance + s.Alchemy + s.Harmony) / 3
}

// Gift is one generated whisper
type Gift struct {
	ID            string `json:"id"`
	RecipientName string `json:"recipientName,omitempty"`
	Occasion      string `json:"occasion"`
	Message       string `json:"message"`
	Quote         string `json:"quote"`
	ImagePrompt   string `json:"imagePrompt"`
	AudioBase64   string `json:"audioBase64,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	Score         *Score `json:"score,omitempty"`
	Mode          Mode   `json:"mode,omitempty"`
}

// New creates a gift with a fresh ID
func New(message string, mode Mode) *Gift {
	return &Gift{
		ID:      uuid.New().String(),
		Message: message,
		Mode:    mode,
	}
}

// Load reads a gift JSON document
func Load(path string) (*Gift, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gift: %w", err)
	}
	return Parse(data)
}

// Parse decodes a gift JSON document and fills defaults
func Parse(data []byte) (*Gift, error) {
	var g Gift
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse gift: %w", err)
	}

	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	mode, err := ParseMode(string(g.Mode))
	if err != nil {
		return nil, fmt.Errorf("failed to parse gift: %w", err)
	}
	g.Mode = mode
	if g.Score != nil && g.Score.Overall == 0 {
		g.Score.Overall = g.Score.Average()
	}

	return &g, nil
}

// HasAudio reports whether the gift carries a payload
func (g *Gift) HasAudio() bool {
	return g.AudioBase64 != ""
}

// ExportName is the file name used when saving the audio
func (g *Gift) ExportName() string {
	return "whisper" + audio.WAVExtension
}
