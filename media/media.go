// Package media isolates the audio track of an input video with ffmpeg and
// validates inputs with ffprobe. Everything here shells out; there are no
// native bindings.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cooper-labs/cooper-video-analysis/config"
)

// SupportedExtensions are the video container formats the pipeline accepts.
var SupportedExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
}

type Info struct {
	Path     string
	Duration time.Duration
	HasAudio bool
	HasVideo bool
	Audio    string // codec name
	Video    string // codec name
}

type Extractor struct {
	log         *logrus.Entry
	ffmpegPath  string
	ffprobePath string
	audio       config.Audio
}

func NewExtractor(log *logrus.Logger, audio config.Audio) (*Extractor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}
	return &Extractor{
		log:         log.WithField("component", "media"),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		audio:       audio,
	}, nil
}

// CheckExtension rejects container formats the pipeline does not accept
// before any subprocess runs.
func CheckExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !SupportedExtensions[ext] {
		return fmt.Errorf("unsupported video extension %q", ext)
	}
	return nil
}

// Probe reads container metadata with ffprobe.
func (e *Extractor) Probe(ctx context.Context, path string) (*Info, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	out, err := exec.CommandContext(ctx, e.ffprobePath, args...).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
		Streams []struct {
			CodecType string `json:"codec_type"`
			CodecName string `json:"codec_name"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := &Info{Path: path}
	if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		info.Duration = time.Duration(d * float64(time.Second))
	}
	for _, s := range probe.Streams {
		switch s.CodecType {
		case "audio":
			info.HasAudio = true
			info.Audio = s.CodecName
		case "video":
			info.HasVideo = true
			info.Video = s.CodecName
		}
	}
	return info, nil
}

// Extract writes the audio track of videoPath into outDir as a mono WAV at
// the configured sample rate. A video without an audio stream is not an
// error: it returns ("", false, nil) and the caller decides what an empty
// run looks like.
func (e *Extractor) Extract(ctx context.Context, videoPath, outDir string) (string, bool, error) {
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(outDir, base+"."+e.audio.Format)

	args := []string{
		"-y", "-hide_banner",
		"-i", videoPath,
		"-vn",
		"-acodec", e.audio.Codec,
		"-ar", strconv.Itoa(e.audio.SampleRate),
		"-ac", strconv.Itoa(e.audio.Channels),
		audioPath,
	}
	e.log.WithFields(logrus.Fields{
		"input":  videoPath,
		"output": audioPath,
	}).Info("extracting audio")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), "Output file does not contain any stream") {
			return "", false, nil
		}
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", false, fmt.Errorf("ffmpeg: %w\n%s", err, stderr.String())
	}
	return audioPath, true, nil
}
