// ABOUTME: Tests for mDNS discovery
// ABOUTME: Tests manager lifecycle, TXT records and discovery timeouts
package discovery

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewManager(t *testing.T) {
	config := Config{
		ServiceName: "Test Whisper",
		Port:        8927,
	}

	mgr := NewManager(config)
	if mgr == nil {
		t.Fatal("expected manager to be created")
	}
	defer mgr.Stop()

	if mgr.config.Port != 8927 {
		t.Errorf("expected port 8927, got %d", mgr.config.Port)
	}
	if mgr.logger == nil {
		t.Error("expected default logger")
	}
	if mgr.Servers() == nil {
		t.Error("servers channel should not be nil")
	}
}

func TestStopCancelsContext(t *testing.T) {
	mgr := NewManager(Config{ServiceName: "x", Port: 1})
	mgr.Stop()

	select {
	case <-mgr.ctx.Done():
	case <-time.After(100 * time.Millisecond):
		t.Error("expected context to be cancelled after Stop")
	}
}

func TestDiscoverHonorsContext(t *testing.T) {
	mgr := NewManager(Config{})
	defer mgr.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A pre-cancelled context may still race a real answer on the LAN
	if _, err := mgr.Discover(ctx); err != nil && !strings.Contains(err.Error(), "no whisper service found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTXTRecords(t *testing.T) {
	txt := strings.Join(txtRecords(), ";")
	for _, want := range []string{"path=/ws", "api=/api/generate", "version="} {
		if !strings.Contains(txt, want) {
			t.Errorf("expected TXT records to contain %q, got %s", want, txt)
		}
	}
}

func TestServerInfoAddr(t *testing.T) {
	s := &ServerInfo{Host: "192.168.1.20", Port: 8927}
	if s.Addr() != "192.168.1.20:8927" {
		t.Errorf("unexpected addr %s", s.Addr())
	}
}

func TestGetLocalIPs(t *testing.T) {
	ips, err := getLocalIPs()
	if err != nil {
		t.Fatalf("getLocalIPs failed: %v", err)
	}
	for _, ip := range ips {
		if ip.IsLoopback() || ip.To4() == nil {
			t.Errorf("unexpected address %v", ip)
		}
	}
}
