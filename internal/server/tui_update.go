// ABOUTME: TUI update helpers for server
// ABOUTME: Functions to send service state updates to TUI
package server

// updateTUI sends current server state to TUI
func (s *Server) updateTUI() {
	if s.tui == nil {
		return
	}
	s.tui.Update(s.status())
}

// status snapshots the service for display
func (s *Server) status() ServerStatus {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	clients := make([]ClientInfo, 0, len(s.clients))
	for _, client := range s.clients {
		client.mu.Lock()
		requests := client.Requests
		client.mu.Unlock()

		clients = append(clients, ClientInfo{
			Addr:     client.Addr,
			Requests: requests,
		})
	}

	return ServerStatus{
		Name:     s.config.Name,
		Port:     s.config.Port,
		Gifts:    s.store.Len(),
		LastGift: s.lastGift,
		Clients:  clients,
	}
}
