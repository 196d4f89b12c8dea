// Package speech is the optional voice layer: microphone-to-text and
// text-to-audio. Both capabilities are detected once at startup and every
// call site checks availability, so the chat and session logic never
// depends on the host having audio support.
package speech

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by Start/Speak when the capability was not
// detected at startup.
var ErrUnavailable = errors.New("speech capability not available")

// Transcript is one recognition update. Interim transcripts stream in
// while the user is still talking; the last one is marked Final.
type Transcript struct {
	Text  string
	Final bool
}

// Recognizer converts one utterance of microphone audio to text. It is
// single-utterance: recognition stops on its own at end of speech or on
// error, and the listening flag is always reset.
type Recognizer interface {
	Available() bool
	Start(ctx context.Context) (<-chan Transcript, error)
	Stop()
	Listening() bool
}

// SynthState is the synthesizer's three-state machine.
type SynthState int

const (
	SynthIdle SynthState = iota
	SynthSpeaking
	SynthPaused
)

// Synthesizer reads assistant text aloud. At most one utterance is
// audible at a time: Speak cancels whatever is in progress first.
type Synthesizer interface {
	Available() bool
	Speak(text string) error
	Pause() error
	Resume() error
	Stop() error
	State() SynthState
}

// Bridge bundles both capabilities with their availability flags.
type Bridge struct {
	Recognizer  Recognizer
	Synthesizer Synthesizer
}

func (b *Bridge) CanListen() bool {
	return b.Recognizer != nil && b.Recognizer.Available()
}

func (b *Bridge) CanSpeak() bool {
	return b.Synthesizer != nil && b.Synthesizer.Available()
}
