// Package audio plays sound cues: through the speaker as synthesized tones,
// into the log, or into memory for tests.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/samdwyer/brittlefloor/internal/host"
)

// voice is how a named cue sounds at pitch 100.
type voice struct {
	freq     float64
	duration time.Duration
}

var voices = map[string]voice{
	"crack":   {freq: 660, duration: 80 * time.Millisecond},
	"crumble": {freq: 110, duration: 250 * time.Millisecond},
	"success": {freq: 880, duration: 150 * time.Millisecond},
}

var defaultVoice = voice{freq: 440, duration: 100 * time.Millisecond}

// Tone renders a cue as a finite sine tone. Pitch scales the frequency,
// volume 0-100 scales amplitude and pan -100..100 balances left and right.
func Tone(rate beep.SampleRate, cue host.Cue) (beep.Streamer, error) {
	v, ok := voices[cue.Name]
	if !ok {
		v = defaultVoice
	}
	pitch := cue.Pitch
	if pitch <= 0 {
		pitch = 100
	}
	freq := v.freq * float64(pitch) / 100

	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("cue %q: %w", cue.Name, err)
	}
	var s beep.Streamer = beep.Take(rate.N(v.duration), sine)
	s = newVolume(s, float64(cue.Volume)/100)
	if cue.Pan != 0 {
		s = &effects.Pan{Streamer: s, Pan: math.Max(-1, math.Min(1, float64(cue.Pan)/100))}
	}
	return s, nil
}

// newVolume wraps s in a volume effect. math.Log2(0) is -Inf, so zero volume
// is silent instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// BeepPlayer plays cues through the system speaker.
type BeepPlayer struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	mixer       *beep.Mixer
	log         logr.Logger
	initialized bool
}

// NewBeepPlayer creates a player at the given sample rate. Call Initialize
// before playing.
func NewBeepPlayer(sampleRate int, log logr.Logger) *BeepPlayer {
	return &BeepPlayer{
		rate:  beep.SampleRate(sampleRate),
		mixer: &beep.Mixer{},
		log:   log,
	}
}

// Initialize opens the speaker.
func (p *BeepPlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	// Initialize speaker with sample rate and a 100ms buffer
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// PlaySE implements host.AudioPlayer. Cues are dropped until the speaker is
// initialized.
func (p *BeepPlayer) PlaySE(cue host.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s, err := Tone(p.rate, cue)
	if err != nil {
		p.log.Error(err, "cue not playable")
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences the speaker.
func (p *BeepPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// LogPlayer writes every cue to a logger.
type LogPlayer struct {
	Log logr.Logger
}

// PlaySE implements host.AudioPlayer.
func (p LogPlayer) PlaySE(cue host.Cue) {
	p.Log.V(1).Info("se", "name", cue.Name, "volume", cue.Volume, "pitch", cue.Pitch, "pan", cue.Pan)
}

// Recorder keeps every cue it is asked to play.
type Recorder struct {
	mu   sync.Mutex
	cues []host.Cue
}

// PlaySE implements host.AudioPlayer.
func (r *Recorder) PlaySE(cue host.Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, cue)
}

// Cues returns a copy of the recorded cues.
func (r *Recorder) Cues() []host.Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]host.Cue(nil), r.cues...)
}

// Names returns the names of the recorded cues in play order.
func (r *Recorder) Names() []string {
	cues := r.Cues()
	names := make([]string, len(cues))
	for i, c := range cues {
		names[i] = c.Name
	}
	return names
}

// Multi plays every cue through each player in order. Nil players are skipped.
func Multi(players ...host.AudioPlayer) host.AudioPlayer {
	return multi(players)
}

type multi []host.AudioPlayer

func (m multi) PlaySE(cue host.Cue) {
	for _, p := range m {
		if p != nil {
			p.PlaySE(cue)
		}
	}
}
