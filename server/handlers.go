package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/cooper-labs/cooper-video-analysis/analysis"
	"github.com/cooper-labs/cooper-video-analysis/media"
	"github.com/cooper-labs/cooper-video-analysis/viz"
)

type analyzeResponse struct {
	RunID         string                  `json:"run_id"`
	Backend       analysis.Backend        `json:"backend"`
	TextSentiment analysis.SentimentScore `json:"text_sentiment"`
	VoiceEmotion  analysis.EmotionScore   `json:"voice_emotion"`
	Summary       string                  `json:"summary,omitempty"`
	Plots         plots                   `json:"plots"`
}

type plots struct {
	Timeline     string `json:"timeline"`     // base64 HTML
	Distribution string `json:"distribution"` // base64 HTML
}

type errorResponse struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"name":    s.cfg.Pipeline.Name,
		"version": s.cfg.Pipeline.Version,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	file, header, err := r.FormFile("video")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, analysis.StageInput, fmt.Errorf("missing video upload: %w", err))
		return
	}
	defer file.Close()

	if err := media.CheckExtension(header.Filename); err != nil {
		s.writeError(w, http.StatusBadRequest, analysis.StageInput, err)
		return
	}

	backend, err := backendFrom(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, analysis.StageInput, err)
		return
	}

	videoPath, err := saveUpload(file, header.Filename)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, analysis.StageInput, err)
		return
	}
	defer os.Remove(videoPath)

	req := analysis.Request{
		VideoPath: videoPath,
		OutputDir: filepath.Join(s.cfg.Paths.Outputs, "run_"+uuid.NewString()),
		Backend:   backend,
		APIKey:    r.FormValue("api_key"),
	}

	res, err := s.runner.Run(r.Context(), req)
	if err != nil {
		var pe *analysis.PipelineError
		if errors.As(err, &pe) {
			s.writeError(w, statusForStage(pe.Stage), pe.Stage, pe.Err)
		} else {
			s.writeError(w, http.StatusInternalServerError, "pipeline", err)
		}
		return
	}

	resp := analyzeResponse{
		RunID:         res.RunID,
		Backend:       res.Backend,
		TextSentiment: res.Sentiment,
		VoiceEmotion:  res.Emotion,
		Summary:       res.Summary,
	}
	resp.Plots.Timeline = encodeFile(filepath.Join(req.OutputDir, viz.TimelineFile))
	resp.Plots.Distribution = encodeFile(filepath.Join(req.OutputDir, viz.DistributionFile))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// backendFrom resolves the backend form field. An absent field means local;
// a present but unknown value is the caller's mistake and gets rejected.
func backendFrom(r *http.Request) (analysis.Backend, error) {
	v := r.FormValue("backend")
	if v == "" {
		return analysis.BackendLocal, nil
	}
	return analysis.ParseBackend(v)
}

func saveUpload(src io.Reader, name string) (string, error) {
	dst, err := os.CreateTemp("", "cooper_upload_*"+filepath.Ext(name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

// encodeFile returns the base64 content of a chart artifact, or empty when
// the artifact was not produced (chartless runs stay valid responses).
func encodeFile(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

func statusForStage(stage string) int {
	switch stage {
	case analysis.StageInput:
		return http.StatusBadRequest
	case analysis.StageTranscribe, analysis.StageMap:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, stage string, err error) {
	s.log.WithError(err).WithField("stage", stage).Warn("analyze request failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Stage: stage, Error: err.Error()})
}
