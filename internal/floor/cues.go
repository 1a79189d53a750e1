package floor

import "github.com/samdwyer/brittlefloor/internal/host"

type queuedCue struct {
	cue   host.Cue
	delay int
}

// CueQueue delays sound effects by a number of frames. Only the head of the
// queue counts down, and at most one cue plays per frame, in enqueue order.
type CueQueue struct {
	player  host.AudioPlayer
	pending []queuedCue
}

// NewCueQueue creates a queue that plays through player. A nil player
// drops every cue.
func NewCueQueue(player host.AudioPlayer) *CueQueue {
	return &CueQueue{player: player}
}

// Enqueue schedules a cue. Cues without a name are ignored.
func (q *CueQueue) Enqueue(cue host.Cue, delay int) {
	if cue.Name == "" {
		return
	}
	q.pending = append(q.pending, queuedCue{cue: cue, delay: delay})
}

// Tick advances the queue by one frame.
func (q *CueQueue) Tick() {
	if len(q.pending) == 0 {
		return
	}
	q.pending[0].delay--
	if q.pending[0].delay > 0 {
		return
	}
	head := q.pending[0]
	q.pending = q.pending[1:]
	if q.player != nil {
		q.player.PlaySE(head.cue)
	}
}

// Len returns the number of cues waiting to play.
func (q *CueQueue) Len() int {
	return len(q.pending)
}

// Clear drops every pending cue.
func (q *CueQueue) Clear() {
	q.pending = nil
}
