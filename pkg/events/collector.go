package events

// EventCollector gathers domain events raised during state transitions until
// the caller hands them to a publisher.
type EventCollector struct {
	events []DomainEvent
}

// Record appends a domain event to the collector.
func (c *EventCollector) Record(event DomainEvent) {
	c.events = append(c.events, event)
}

// Events returns the collected domain events without clearing them.
func (c *EventCollector) Events() []DomainEvent {
	return c.events
}

// ClearEvents returns the collected domain events and clears the internal slice.
func (c *EventCollector) ClearEvents() []DomainEvent {
	collected := c.events
	c.events = nil
	return collected
}

// Clone returns an independent collector holding the same events. Value
// aggregates call it when producing a successor so the two never share
// backing storage.
func (c EventCollector) Clone() EventCollector {
	if len(c.events) == 0 {
		return EventCollector{}
	}
	cp := make([]DomainEvent, len(c.events))
	copy(cp, c.events)
	return EventCollector{events: cp}
}
