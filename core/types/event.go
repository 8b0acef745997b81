package types

// Event represents a typed event emitted during a lease state transition.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// Message is an outbound instruction a handler wants the host to execute on
// its behalf (an ICTx submission, a bank transfer, a sub-message to another
// contract). It is opaque to the batching mechanism; concrete message kinds
// live in the dex and lease packages.
type Message interface {
	MessageKind() string
}

// Batch is the deterministic accumulator every lease/leaser/dispatcher
// handler returns instead of sending messages or emitting events directly,
// per §9 "Outbound batching": the host applies it atomically once the
// handler returns.
type Batch struct {
	Messages []Message
	Events   []*Event
}

// Send appends an outbound message to the batch.
func (b *Batch) Send(m Message) {
	if m == nil {
		return
	}
	b.Messages = append(b.Messages, m)
}

// Emit appends an event to the batch.
func (b *Batch) Emit(e *Event) {
	if e == nil {
		return
	}
	b.Events = append(b.Events, e)
}

// Merge appends other's messages and events onto b, preserving order.
func (b *Batch) Merge(other Batch) {
	b.Messages = append(b.Messages, other.Messages...)
	b.Events = append(b.Events, other.Events...)
}
