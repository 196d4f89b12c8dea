package speech

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	speechapi "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"docuchat-cli/internal/config"
	"docuchat-cli/internal/pkg/logger"
)

// gcpRecognizer streams raw microphone PCM from a capture subprocess into
// the Cloud Speech streaming API. Single-utterance mode with interim
// results: partials arrive while the user talks and the stream ends
// itself at end of speech.
type gcpRecognizer struct {
	client     *speechapi.Client
	log        logger.ILogger
	language   string
	sampleRate int
	recordArgs []string

	mu        sync.Mutex
	listening bool
	cancel    context.CancelFunc
}

// NewGCPRecognizer probes the capability once: speech must be enabled, a
// capture command must exist on PATH, and the Cloud Speech client must
// initialise (credentials come from the environment). Any missing piece
// yields an unavailable recognizer, not an error.
func NewGCPRecognizer(ctx context.Context, cfg config.SpeechConfig, log logger.ILogger) Recognizer {
	if !cfg.Enabled {
		return &gcpRecognizer{log: log}
	}

	recordArgs := captureCommand(cfg)
	if recordArgs == nil {
		log.Warn("speech", "no audio capture command found, speech-to-text disabled", nil)
		return &gcpRecognizer{log: log}
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := speechapi.NewClient(ctx, opts...)
	if err != nil {
		log.Warn("speech", "speech client unavailable, speech-to-text disabled", map[string]interface{}{"error": err.Error()})
		return &gcpRecognizer{log: log}
	}

	return &gcpRecognizer{
		client:     client,
		log:        log,
		language:   cfg.LanguageCode,
		sampleRate: cfg.SampleRate,
		recordArgs: recordArgs,
	}
}

// captureCommand resolves the microphone capture command line. An
// explicit SPEECH_RECORD_COMMAND wins; otherwise sox, then arecord. The
// command must emit signed 16-bit little-endian mono PCM on stdout.
func captureCommand(cfg config.SpeechConfig) []string {
	if cfg.RecordCommand != "" {
		args := strings.Fields(cfg.RecordCommand)
		if len(args) > 0 {
			if _, err := exec.LookPath(args[0]); err == nil {
				return args
			}
		}
		return nil
	}

	rate := strconv.Itoa(cfg.SampleRate)
	if _, err := exec.LookPath("sox"); err == nil {
		return []string{"sox", "-d", "-q", "-t", "raw", "-r", rate, "-e", "signed", "-b", "16", "-c", "1", "-"}
	}
	if _, err := exec.LookPath("arecord"); err == nil {
		return []string{"arecord", "-q", "-f", "S16_LE", "-r", rate, "-c", "1", "-t", "raw"}
	}
	return nil
}

func (r *gcpRecognizer) Available() bool {
	return r.client != nil
}

func (r *gcpRecognizer) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// Start begins one utterance of recognition. The returned channel carries
// interim transcripts and closes when recognition ends for any reason —
// end of utterance, Stop, or error — with the listening flag reset.
func (r *gcpRecognizer) Start(ctx context.Context) (<-chan Transcript, error) {
	if !r.Available() {
		return nil, ErrUnavailable
	}

	r.mu.Lock()
	if r.listening {
		r.mu.Unlock()
		return nil, fmt.Errorf("already listening")
	}
	ctx, cancel := context.WithCancel(ctx)
	r.listening = true
	r.cancel = cancel
	r.mu.Unlock()

	out := make(chan Transcript, 8)
	go r.run(ctx, cancel, out)
	return out, nil
}

func (r *gcpRecognizer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

func (r *gcpRecognizer) run(ctx context.Context, cancel context.CancelFunc, out chan<- Transcript) {
	defer func() {
		cancel()
		close(out)
		r.mu.Lock()
		r.listening = false
		r.cancel = nil
		r.mu.Unlock()
	}()

	// The recorder gets its own cancel so end-of-utterance can stop the
	// microphone while the stream stays open for the final transcript.
	recordCtx, stopRecord := context.WithCancel(ctx)
	defer stopRecord()

	record := exec.CommandContext(recordCtx, r.recordArgs[0], r.recordArgs[1:]...)
	audio, err := record.StdoutPipe()
	if err != nil {
		r.log.Error("speech", "capture pipe failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := record.Start(); err != nil {
		r.log.Error("speech", "capture start failed", map[string]interface{}{"error": err.Error()})
		return
	}
	defer func() {
		stopRecord()
		record.Wait()
	}()

	stream, err := r.client.StreamingRecognize(ctx)
	if err != nil {
		r.log.Error("speech", "streaming recognize failed", map[string]interface{}{"error": err.Error()})
		return
	}

	// Single utterance, interim results: recognition stops by itself at
	// end of speech, partials stream in while it runs.
	err = stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:                   speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz:            int32(r.sampleRate),
					LanguageCode:               r.language,
					EnableAutomaticPunctuation: true,
				},
				InterimResults:  true,
				SingleUtterance: true,
			},
		},
	})
	if err != nil {
		r.log.Error("speech", "streaming config send failed", map[string]interface{}{"error": err.Error()})
		return
	}

	go func() {
		defer stream.CloseSend()
		buf := make([]byte, 4096)
		for {
			n, readErr := audio.Read(buf)
			if n > 0 {
				sendErr := stream.Send(&speechpb.StreamingRecognizeRequest{
					StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
						AudioContent: buf[:n],
					},
				})
				if sendErr != nil {
					return
				}
			}
			if readErr != nil {
				return
			}
		}
	}()

	for {
		resp, recvErr := stream.Recv()
		if recvErr == io.EOF {
			return
		}
		if recvErr != nil {
			if ctx.Err() == nil {
				r.log.Error("speech", "recognition ended with error", map[string]interface{}{"error": recvErr.Error()})
			}
			return
		}
		if resp.SpeechEventType == speechpb.StreamingRecognizeResponse_END_OF_SINGLE_UTTERANCE {
			// Stop capturing; the final result is still on its way.
			stopRecord()
			continue
		}
		for _, result := range resp.Results {
			if len(result.Alternatives) == 0 {
				continue
			}
			select {
			case out <- Transcript{Text: result.Alternatives[0].Transcript, Final: result.IsFinal}:
			case <-ctx.Done():
				return
			}
			if result.IsFinal {
				return
			}
		}
	}
}
