package workflow

import (
	"mkvcleaver/internal/extract"
	"mkvcleaver/internal/services"
	"mkvcleaver/internal/tracks"
)

// EventKind names the lifecycle step an Event reports.
type EventKind string

const (
	EventFileInspected EventKind = "file_inspected"
	EventFileFailed    EventKind = "file_failed"
	EventJobStarted    EventKind = "job_started"
	EventJobProgress   EventKind = "job_progress"
	EventJobFinished   EventKind = "job_finished"
)

// Event is a value copied from the worker goroutine to the caller.
type Event struct {
	Kind EventKind
	// Index is the zero-based position of the file or job in the request and
	// Total the request size.
	Index int
	Total int
	Path  string

	// File is set on EventFileInspected.
	File *tracks.File
	// Job is set on job events.
	Job *extract.Job

	Percent int
	Status  services.Status
	Err     error
}

// eventBuffer sizes the channel so short runs never block on a slow reader.
const eventBuffer = 64

// eventStream couples the event channel with the single result a run
// produces.
type eventStream struct {
	events chan Event
	done   chan struct{}
}

func newEventStream() eventStream {
	return eventStream{
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
}

// send blocks until the reader takes ev. Lifecycle events are never dropped.
func (s eventStream) send(ev Event) {
	s.events <- ev
}

// offer delivers ev only when buffer space is free. Progress events use it so
// a reader that falls behind never stalls the tool's stdout.
func (s eventStream) offer(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}

func (s eventStream) close() {
	close(s.events)
	close(s.done)
}

func (s eventStream) wait() {
	for range s.events {
	}
	<-s.done
}
