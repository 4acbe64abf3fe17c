package api

import "github.com/aunetx/libmoon/service"

// NewSessionEventWriter builds a service.EventWriter that fans a
// session's StepEvents out to every subscribed WebSocket client.
func NewSessionEventWriter(broadcaster *Broadcaster, sessionID string) service.EventWriter {
	return func(event service.StepEvent) {
		if broadcaster == nil {
			return
		}

		if event.Output != "" {
			broadcaster.BroadcastOutput(sessionID, "stdout", event.Output)
		}

		data := map[string]interface{}{
			"pc":    event.PC,
			"state": event.State,
		}
		if event.Changed != "" {
			data["changed"] = event.Changed
			if event.Cell != nil {
				data["cell"] = event.Cell
			}
		}
		broadcaster.BroadcastState(sessionID, data)

		if event.Err != "" {
			broadcaster.BroadcastExecutionEvent(sessionID, "error", map[string]interface{}{
				"message": event.Err,
			})
		}
		if event.State == "halted" {
			broadcaster.BroadcastExecutionEvent(sessionID, "halted", nil)
		}
	}
}
