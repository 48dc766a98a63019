// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests key handling, status updates and degraded playback rendering
package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vitruviano/whisper-go/internal/gift"
	"github.com/vitruviano/whisper-go/pkg/playback"
)

type fakePlayer struct {
	status   playback.Status
	toggles  int
	restarts int
	err      error
}

func (f *fakePlayer) Toggle() error {
	f.toggles++
	if f.err != nil {
		return f.err
	}
	if f.status.State == playback.Playing {
		f.status.State = playback.Stopped
	} else {
		f.status.State = playback.Playing
	}
	return nil
}

func (f *fakePlayer) Restart() error {
	f.restarts++
	f.status.Position = 0
	f.status.State = playback.Playing
	return f.err
}

func (f *fakePlayer) Status() playback.Status { return f.status }

func testGift() *gift.Gift {
	return &gift.Gift{
		ID:            "g1",
		RecipientName: "Ada",
		Occasion:      "launch day",
		Message:       "You built this with care.",
		Quote:         "Simplicity is the ultimate sophistication.",
		Score:         &gift.Score{Resonance: 95, Alchemy: 92, Harmony: 98, Overall: 95},
		Mode:          gift.ModeMantra,
	}
}

func loadedPlayer() *fakePlayer {
	return &fakePlayer{status: playback.Status{Loaded: true, Duration: 7 * time.Second}}
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs any resulting command through Update
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, cmd := m.Update(key(k))
	m = next.(Model)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			if _, quit := msg.(tea.QuitMsg); !quit {
				next, _ = m.Update(msg)
				m = next.(Model)
			}
		}
	}
	return m
}

func TestNewModel(t *testing.T) {
	model := NewModel(testGift(), Options{})

	if model.volume != 100 {
		t.Errorf("expected default volume 100, got %d", model.volume)
	}
	if model.muted {
		t.Error("expected muted to be false initially")
	}
	if model.status.Loaded {
		t.Error("expected no audio without a player")
	}
}

func TestToggleKeys(t *testing.T) {
	for _, k := range []string{" ", "p"} {
		t.Run(k, func(t *testing.T) {
			player := loadedPlayer()
			m := NewModel(testGift(), Options{Player: player})

			m = press(t, m, k)
			if player.toggles != 1 || m.status.State != playback.Playing {
				t.Errorf("expected playing after %q, got %v (%d toggles)", k, m.status.State, player.toggles)
			}

			m = press(t, m, k)
			if m.status.State != playback.Stopped {
				t.Errorf("expected stopped after second %q", k)
			}
		})
	}
}

func TestRestartKey(t *testing.T) {
	player := loadedPlayer()
	player.status.Position = 3 * time.Second
	m := NewModel(testGift(), Options{Player: player})

	m = press(t, m, "r")
	if player.restarts != 1 {
		t.Errorf("expected one restart, got %d", player.restarts)
	}
	if m.notice != "Restarted" {
		t.Errorf("expected restart notice, got %q", m.notice)
	}
}

func TestControlsIgnoredWhenDisabled(t *testing.T) {
	tests := []struct {
		name   string
		status playback.Status
	}{
		{"no audio", playback.Status{}},
		{"disabled", playback.Status{Loaded: true, Disabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &fakePlayer{status: tt.status}
			m := NewModel(testGift(), Options{Player: player})

			m = press(t, m, " ")
			m = press(t, m, "r")
			if player.toggles != 0 || player.restarts != 0 {
				t.Error("expected controls to be inert")
			}
		})
	}
}

func TestPlayerError(t *testing.T) {
	player := loadedPlayer()
	player.err = errors.New("device busy")
	m := NewModel(testGift(), Options{Player: player})

	m = press(t, m, "p")
	if m.err == nil || !strings.Contains(m.View(), "device busy") {
		t.Error("expected error to be shown")
	}
}

func TestExportKey(t *testing.T) {
	calls := 0
	m := NewModel(testGift(), Options{Export: func() (string, error) {
		calls++
		return "whisper.wav", nil
	}})

	m = press(t, m, "e")
	if calls != 1 {
		t.Fatalf("expected export to be called once, got %d", calls)
	}
	if m.notice != "Saved whisper.wav" {
		t.Errorf("unexpected notice %q", m.notice)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		vol := NewVolumeControl()
		m := NewModel(testGift(), Options{Volume: vol})

		_, cmd := m.Update(key(k))
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}

		select {
		case <-vol.Quit:
		default:
			t.Errorf("%s: expected quit signal", k)
		}
	}
}

func TestVolumeKeys(t *testing.T) {
	vol := NewVolumeControl()
	m := NewModel(testGift(), Options{Volume: vol, InitialVolume: 50})

	m = press(t, m, "up")
	if m.volume != 55 {
		t.Errorf("expected volume 55, got %d", m.volume)
	}
	m = press(t, m, "down")
	m = press(t, m, "down")
	if m.volume != 45 {
		t.Errorf("expected volume 45, got %d", m.volume)
	}
	m = press(t, m, "m")
	if !m.muted {
		t.Error("expected muted")
	}

	var last VolumeChangeMsg
	for len(vol.Changes) > 0 {
		last = <-vol.Changes
	}
	if last.Volume != 45 || !last.Muted {
		t.Errorf("unexpected last volume change %+v", last)
	}
}

func TestVolumeBounds(t *testing.T) {
	m := NewModel(testGift(), Options{InitialVolume: 100})
	m = press(t, m, "up")
	if m.volume != 100 {
		t.Errorf("expected volume capped at 100, got %d", m.volume)
	}
}

func TestStatusMsg(t *testing.T) {
	m := NewModel(testGift(), Options{})

	next, _ := m.Update(StatusMsg{Loaded: true, State: playback.Playing, Position: time.Second, Duration: 4 * time.Second})
	m = next.(Model)

	if m.status.State != playback.Playing || m.status.Position != time.Second {
		t.Errorf("unexpected status %+v", m.status)
	}
	if !strings.Contains(m.View(), "0:01 / 0:04") {
		t.Error("expected position in view")
	}
}

func TestTickPollsPlayer(t *testing.T) {
	player := loadedPlayer()
	m := NewModel(testGift(), Options{Player: player})

	player.status.Position = 2 * time.Second
	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Model)

	if m.status.Position != 2*time.Second {
		t.Errorf("expected polled position 2s, got %v", m.status.Position)
	}
	if cmd == nil {
		t.Error("expected next tick to be scheduled")
	}
}

func TestViewContent(t *testing.T) {
	m := NewModel(testGift(), Options{Player: loadedPlayer()})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := next.(Model).View()

	for _, want := range []string{"Whisper", "Ada", "launch day", "You built this with care.", "Simplicity", "Overall", "95", "mantra", "Kore", "0:07"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestViewDegraded(t *testing.T) {
	m := NewModel(testGift(), Options{})
	if !strings.Contains(m.View(), "No audio") {
		t.Error("expected no-audio label")
	}

	m = NewModel(testGift(), Options{Player: &fakePlayer{status: playback.Status{Loaded: true, Disabled: true}}})
	if !strings.Contains(m.View(), "Playback unavailable") {
		t.Error("expected disabled label")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		0:                       "0:00",
		1500 * time.Millisecond: "0:02",
		65 * time.Second:        "1:05",
	}
	for d, want := range tests {
		if got := formatDuration(d); got != want {
			t.Errorf("formatDuration(%v) = %s, want %s", d, got, want)
		}
	}
}
