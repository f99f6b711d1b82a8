package server

import "time"

// WithHandlerDelay stalls every timeout-wrapped handler, letting
// tests force a request past a short write timeout.
func WithHandlerDelay(d time.Duration) Option {
	return func(s *Server) { s.handlerDelay = d }
}
