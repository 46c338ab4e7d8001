package handlers

// Broadcaster notifies clients watching a project that its data changed.
type Broadcaster interface {
	Broadcast(projectID, eventType, message string)
}

// NoopBroadcaster drops every event.
type NoopBroadcaster struct{}

func (NoopBroadcaster) Broadcast(string, string, string) {}
