package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cooper-labs/cooper-video-analysis/clients"
	"github.com/cooper-labs/cooper-video-analysis/config"
	"github.com/cooper-labs/cooper-video-analysis/media"
)

// The pipeline talks to its collaborators through narrow interfaces so tests
// can swap in fakes without a network or an ffmpeg binary.

type Extractor interface {
	Probe(ctx context.Context, path string) (*media.Info, error)
	Extract(ctx context.Context, videoPath, outDir string) (audioPath string, hasAudio bool, err error)
}

type SpeechRecognizer interface {
	Transcribe(ctx context.Context, wavPath string) (*clients.TranscribeResp, error)
}

type SentimentScorer interface {
	Score(ctx context.Context, text string) (SentimentScore, error)
}

type EmotionScorer interface {
	Score(ctx context.Context, wavPath string, start, end float64) (EmotionScore, error)
}

type CloudAnalyzer interface {
	Analyze(ctx context.Context, audioPath string) (*clients.CloudTranscript, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text, language string) (string, error)
}

// ChartRenderer turns a finished result into chart artifacts in the output
// directory. Implemented by the viz package; nil disables chart output.
type ChartRenderer interface {
	Render(res *Result, outDir string) ([]string, error)
}

// Pipeline runs one analysis request start to finish, synchronously. Stages
// execute strictly in order and the first failure aborts the run with the
// stage that caused it.
type Pipeline struct {
	cfg        *config.Root
	log        *logrus.Entry
	extractor  Extractor
	asr        SpeechRecognizer
	sentiment  SentimentScorer
	emotion    EmotionScorer
	newCloud   func(apiKey string) CloudAnalyzer
	summarizer Summarizer
	renderer   ChartRenderer
}

func NewPipeline(cfg *config.Root, log *logrus.Logger, extractor Extractor, renderer ChartRenderer) *Pipeline {
	h := clients.NewHTTP()
	p := &Pipeline{
		cfg:       cfg,
		log:       log.WithField("component", "pipeline"),
		extractor: extractor,
		asr:       localASR{h: h, url: cfg.Services.ASR.URL},
		sentiment: localSentiment{h: h, url: cfg.Services.Sentiment.URL},
		emotion:   localEmotion{h: h, url: cfg.Services.Emotion.URL},
		renderer:  renderer,
		newCloud: func(apiKey string) CloudAnalyzer {
			return clients.NewAssemblyAI(cfg.Cloud.BaseURL, apiKey, cfg.Cloud.PollInterval, cfg.Cloud.PollTimeout)
		},
	}
	if cfg.OpenAI.APIKey != "" {
		p.summarizer = NewOpenAISummarizer(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}
	return p
}

// Run executes the request and persists all artifacts under req.OutputDir.
// On failure the returned error is a *PipelineError naming the stage; nothing
// is persisted for a failed run.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()

	if st, err := os.Stat(req.VideoPath); err != nil || st.IsDir() {
		return nil, stageErr(StageInput, fmt.Errorf("video not found: %s", req.VideoPath))
	}
	if err := media.CheckExtension(req.VideoPath); err != nil {
		return nil, stageErr(StageInput, err)
	}
	if req.Backend == BackendCloud && req.APIKey == "" && p.cfg.Cloud.APIKey == "" {
		return nil, stageErr(StageInput, errors.New("cloud backend requires an API key"))
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, stageErr(StagePersist, err)
	}

	info, err := p.extractor.Probe(ctx, req.VideoPath)
	if err != nil {
		return nil, stageErr(StageInput, err)
	}

	res := &Result{
		RunID:       uuid.NewString(),
		Backend:     req.Backend,
		GeneratedAt: time.Now().UTC(),
		VideoPath:   req.VideoPath,
	}
	p.log.WithFields(logrus.Fields{
		"run_id":   res.RunID,
		"backend":  req.Backend,
		"video":    req.VideoPath,
		"duration": info.Duration,
	}).Info("starting analysis")

	var audioPath string
	hasAudio := info.HasAudio
	if hasAudio {
		var ok bool
		audioPath, ok, err = p.extractor.Extract(ctx, req.VideoPath, req.OutputDir)
		if err != nil {
			return nil, stageErr(StageExtract, err)
		}
		hasAudio = ok
	}
	res.AudioPath = audioPath

	if hasAudio {
		switch req.Backend {
		case BackendLocal:
			err = p.runLocal(ctx, audioPath, res)
		case BackendCloud:
			err = p.runCloud(ctx, audioPath, apiKeyFor(req, p.cfg), res)
		default:
			err = stageErr(StageInput, fmt.Errorf("unknown backend %q", req.Backend))
		}
		if err != nil {
			return nil, err
		}
	} else {
		p.log.WithField("video", req.VideoPath).Warn("no audio track, producing empty result")
	}

	res.Sentiment, res.Emotion = Aggregate(res.Timeline)

	if res.Transcript.Language == "" && res.Transcript.Text != "" {
		res.Transcript.Language = DetectLanguage(res.Transcript.Text)
	}
	p.summarize(ctx, res)

	if err := p.persist(req, res); err != nil {
		return nil, stageErr(StagePersist, err)
	}

	p.log.WithFields(logrus.Fields{
		"run_id":  res.RunID,
		"points":  len(res.Timeline),
		"elapsed": time.Since(started).Round(time.Millisecond),
	}).Info("analysis complete")
	return res, nil
}

// summarize is best effort: a missing summarizer or an upstream failure
// leaves Summary empty and never fails the run.
func (p *Pipeline) summarize(ctx context.Context, res *Result) {
	if p.summarizer == nil || res.Transcript.Text == "" {
		return
	}
	s, err := p.summarizer.Summarize(ctx, res.Transcript.Text, res.Transcript.Language)
	if err != nil {
		p.log.WithError(err).Warn("summarization failed")
		return
	}
	res.Summary = s
}

func (p *Pipeline) persist(req Request, res *Result) error {
	if err := persistResult(req.OutputDir, res); err != nil {
		return err
	}
	if p.renderer != nil {
		if _, err := p.renderer.Render(res, req.OutputDir); err != nil {
			return err
		}
	}
	if err := p.cfg.Snapshot(filepath.Join(req.OutputDir, "config.yaml")); err != nil {
		p.log.WithError(err).Warn("could not write config snapshot")
	}
	return nil
}

func apiKeyFor(req Request, cfg *config.Root) string {
	if req.APIKey != "" {
		return req.APIKey
	}
	return cfg.Cloud.APIKey
}

// --- client adapters ---

type localASR struct {
	h   *clients.HTTP
	url string
}

func (a localASR) Transcribe(ctx context.Context, wavPath string) (*clients.TranscribeResp, error) {
	return a.h.Transcribe(ctx, a.url, wavPath)
}

type localSentiment struct {
	h   *clients.HTTP
	url string
}

func (s localSentiment) Score(ctx context.Context, text string) (SentimentScore, error) {
	resp, err := s.h.Sentiment(ctx, s.url, text)
	if err != nil {
		return SentimentScore{}, err
	}
	return SentimentScore{Positive: resp.Positive, Negative: resp.Negative}, nil
}

type localEmotion struct {
	h   *clients.HTTP
	url string
}

func (e localEmotion) Score(ctx context.Context, wavPath string, start, end float64) (EmotionScore, error) {
	resp, err := e.h.Emotion(ctx, e.url, wavPath, start, end)
	if err != nil {
		return nil, err
	}
	return normalizeEmotion(resp.Emotions), nil
}
