package service

// EventWriter receives one StepEvent per executed step, plus one
// carrying Output for each write a prt makes. The API server's
// SessionManager forwards them to a session's WebSocket subscribers.
type EventWriter func(StepEvent)
