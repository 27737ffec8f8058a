package mqtt

import (
	"github.com/sweeney/proximity-monitor/internal/logic"
)

// FakePublisher records what would have gone to the broker.
type FakePublisher struct {
	Events   []logic.Event // transitions, in publish order
	Payloads [][]byte      // FormatPayload output for each of Events

	SystemEvents   []SystemEvent
	SystemPayloads [][]byte // FormatSystemPayload output for each of SystemEvents

	// Set to make the corresponding call fail without recording anything.
	PublishError       error
	PublishSystemError error

	Connected bool // returned by IsConnected
	Closed    bool
}

// NewFakePublisher creates an empty, disconnected FakePublisher.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) Publish(event logic.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// Named returns the recorded system events called name, e.g. "SHUTDOWN".
func (f *FakePublisher) Named(name string) []SystemEvent {
	var out []SystemEvent
	for _, e := range f.SystemEvents {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset returns the fake to its freshly constructed state.
func (f *FakePublisher) Reset() {
	*f = FakePublisher{}
}
