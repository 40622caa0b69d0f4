package cpu

// Feed delivers events, synchronously and in order, to its subscribers.
type Feed[E any] struct {
	subscribers []subscriber[E]
	next        int
}

type subscriber[E any] struct {
	id     int
	notify func(event E)
}

// Subscribe registers notify for every later event. The returned cancel
// function removes the subscription.
func (feed *Feed[E]) Subscribe(notify func(event E)) (cancel func()) {
	feed.next++
	id := feed.next
	feed.subscribers = append(feed.subscribers, subscriber[E]{id: id, notify: notify})

	return func() {
		kept := make([]subscriber[E], 0, len(feed.subscribers))
		for _, sub := range feed.subscribers {
			if sub.id != id {
				kept = append(kept, sub)
			}
		}
		feed.subscribers = kept
	}
}

// Emit delivers event to all subscribers.
func (feed *Feed[E]) Emit(event E) {
	for _, sub := range feed.subscribers {
		sub.notify(event)
	}
}

// Len returns the number of subscribers.
func (feed *Feed[E]) Len() int {
	return len(feed.subscribers)
}

// RegisterEvent records a register write.
type RegisterEvent struct {
	Reg Reg
	Old Word
	New Word
}

// MemoryEvent records a memory write.
type MemoryEvent struct {
	Address int
	Old     Word
	New     Word
}

// AnnotationEvent records a change of a memory cell annotation.
type AnnotationEvent struct {
	Address int
	Old     *Annotation
	New     *Annotation
}
