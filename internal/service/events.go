package service

// Events receives change notifications after a mutation has been stored.
// Implementations are bound to a single site.
type Events interface {
	TaskGroupUpdated(groupID string)
	InventoryUpdated()
}

// NopEvents discards every notification.
type NopEvents struct{}

func (NopEvents) TaskGroupUpdated(string) {}
func (NopEvents) InventoryUpdated()       {}

func eventsOrNop(e Events) Events {
	if e == nil {
		return NopEvents{}
	}
	return e
}
