package service

// eventPublisher pushes entity-change events to connected UI clients.
// Satisfied by *websocket.Hub; nil disables publishing.
type eventPublisher interface {
	Publish(event string, data interface{})
}
