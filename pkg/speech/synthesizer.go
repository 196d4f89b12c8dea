package speech

import (
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"docuchat-cli/internal/config"
	"docuchat-cli/internal/pkg/logger"
)

// playback is one running text-to-speech utterance. pause and resume
// suspend and continue the audio mid-word; stop kills it outright.
type playback interface {
	pause() error
	resume() error
	stop() error
	wait() error
}

// playbackStarter launches a playback for the given text. Factored out
// of the synthesizer so the state machine is testable without audio.
type playbackStarter func(text string) (playback, error)

// commandSynthesizer drives an external TTS command and tracks the
// idle / speaking / paused state machine around it.
type commandSynthesizer struct {
	start playbackStarter
	log   logger.ILogger

	mu      sync.Mutex
	state   SynthState
	current playback
	gen     int
}

// NewCommandSynthesizer probes for a text-to-speech command. An explicit
// SPEECH_SPEAK_COMMAND wins; otherwise say (macOS), then espeak. The text
// is passed as the final argument. No command means unavailable.
func NewCommandSynthesizer(cfg config.SpeechConfig, log logger.ILogger) Synthesizer {
	if !cfg.Enabled {
		return &commandSynthesizer{log: log}
	}

	args := speakCommand(cfg)
	if args == nil {
		log.Warn("speech", "no text-to-speech command found, read-aloud disabled", nil)
		return &commandSynthesizer{log: log}
	}

	return &commandSynthesizer{
		log: log,
		start: func(text string) (playback, error) {
			return startProcessPlayback(args, text)
		},
	}
}

func speakCommand(cfg config.SpeechConfig) []string {
	if cfg.SpeakCommand != "" {
		args := strings.Fields(cfg.SpeakCommand)
		if len(args) > 0 {
			if _, err := exec.LookPath(args[0]); err == nil {
				return args
			}
		}
		return nil
	}
	for _, candidate := range []string{"say", "espeak"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return []string{candidate}
		}
	}
	return nil
}

func (s *commandSynthesizer) Available() bool {
	return s.start != nil
}

func (s *commandSynthesizer) State() SynthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Speak starts reading text aloud, cancelling any utterance already in
// progress. Empty text only cancels.
func (s *commandSynthesizer) Speak(text string) error {
	if !s.Available() {
		return ErrUnavailable
	}

	s.mu.Lock()
	if s.current != nil {
		s.current.stop()
		s.current = nil
		s.state = SynthIdle
	}
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		return nil
	}

	pb, err := s.start(text)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("start speech playback: %w", err)
	}
	s.current = pb
	s.state = SynthSpeaking
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	go func() {
		pb.wait()
		s.mu.Lock()
		if s.gen == gen {
			s.current = nil
			s.state = SynthIdle
		}
		s.mu.Unlock()
	}()
	return nil
}

// Pause suspends the current utterance. A no-op unless speaking.
func (s *commandSynthesizer) Pause() error {
	if !s.Available() {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SynthSpeaking || s.current == nil {
		return nil
	}
	if err := s.current.pause(); err != nil {
		return err
	}
	s.state = SynthPaused
	return nil
}

// Resume continues a paused utterance. A no-op unless paused.
func (s *commandSynthesizer) Resume() error {
	if !s.Available() {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SynthPaused || s.current == nil {
		return nil
	}
	if err := s.current.resume(); err != nil {
		return err
	}
	s.state = SynthSpeaking
	return nil
}

// Stop cancels the current utterance and returns to idle.
func (s *commandSynthesizer) Stop() error {
	if !s.Available() {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	err := s.current.stop()
	s.current = nil
	s.state = SynthIdle
	s.gen++
	return err
}

// processPlayback runs the TTS command as a child process. Pause and
// resume map to SIGSTOP and SIGCONT.
type processPlayback struct {
	cmd *exec.Cmd
}

func startProcessPlayback(args []string, text string) (playback, error) {
	full := append(append([]string{}, args...), text)
	cmd := exec.Command(full[0], full[1:]...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &processPlayback{cmd: cmd}, nil
}

func (p *processPlayback) pause() error {
	return p.cmd.Process.Signal(syscall.SIGSTOP)
}

func (p *processPlayback) resume() error {
	return p.cmd.Process.Signal(syscall.SIGCONT)
}

func (p *processPlayback) stop() error {
	// SIGCONT first so a paused process actually sees the kill.
	p.cmd.Process.Signal(syscall.SIGCONT)
	return p.cmd.Process.Kill()
}

func (p *processPlayback) wait() error {
	return p.cmd.Wait()
}
