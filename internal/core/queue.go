package core

import (
	"fmt"
	"math/rand"

	"playlink/pkg/duration"
)

// Queue is the built-in structure bound to the queue role: the ordered
// list of tracks waiting for playback plus the currently playing one.
// Entries are *Track or *UnresolvedTrack handles; Add validates their
// capability tags so lookalike values cannot enter the queue.
type Queue struct {
	Current *Track
	tracks  []any
}

func NewQueue() *Queue {
	return &Queue{}
}

// Add appends a track handle, or every element of a non-empty slice of
// handles, to the end of the queue.
func (q *Queue) Add(v any) error {
	return q.AddAt(len(q.tracks), v)
}

// AddAt inserts at the given offset. Offsets outside the queue bounds are
// rejected.
func (q *Queue) AddAt(offset int, v any) error {
	if err := ValidateTracks(v); err != nil {
		return err
	}
	if offset < 0 || offset > len(q.tracks) {
		return fmt.Errorf("%w: offset %d out of range", ErrInvalidArgument, offset)
	}

	var items []any
	switch arg := v.(type) {
	case []any:
		items = arg
	case []*Track:
		for _, t := range arg {
			items = append(items, t)
		}
	case []*UnresolvedTrack:
		for _, t := range arg {
			items = append(items, t)
		}
	default:
		items = []any{v}
	}

	q.tracks = append(q.tracks[:offset], append(append([]any{}, items...), q.tracks[offset:]...)...)
	return nil
}

// Remove deletes the half-open range [start, end) and returns the removed
// entries.
func (q *Queue) Remove(start, end int) ([]any, error) {
	if start < 0 || end > len(q.tracks) || start >= end {
		return nil, fmt.Errorf("%w: remove range [%d, %d)", ErrInvalidArgument, start, end)
	}
	removed := append([]any{}, q.tracks[start:end]...)
	q.tracks = append(q.tracks[:start], q.tracks[end:]...)
	return removed, nil
}

// Clear drops every queued track. The current track is untouched.
func (q *Queue) Clear() {
	q.tracks = nil
}

// Shuffle randomizes the order of the queued tracks.
func (q *Queue) Shuffle() {
	rand.Shuffle(len(q.tracks), func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	})
}

// Tracks returns the queued entries in order.
func (q *Queue) Tracks() []any {
	return append([]any{}, q.tracks...)
}

// Size is the number of queued tracks, excluding the current one.
func (q *Queue) Size() int {
	return len(q.tracks)
}

// TotalSize includes the current track when one is set.
func (q *Queue) TotalSize() int {
	if q.Current != nil {
		return len(q.tracks) + 1
	}
	return len(q.tracks)
}

// Duration sums the current and queued track durations in milliseconds.
func (q *Queue) Duration() int64 {
	var total int64
	if q.Current != nil {
		total += q.Current.Duration()
	}
	for _, v := range q.tracks {
		switch t := v.(type) {
		case *Track:
			total += t.Duration()
		case *UnresolvedTrack:
			total += t.Duration()
		}
	}
	return total
}

// DurationString renders the queue duration for display ("N/A" when the
// queue is empty).
func (q *Queue) DurationString() string {
	text, err := duration.Format(q.Duration(), false)
	if err != nil {
		return "N/A"
	}
	return text
}
