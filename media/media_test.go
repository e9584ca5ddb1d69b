package media

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/cooper-labs/cooper-video-analysis/config"
)

func TestCheckExtension(t *testing.T) {
	cases := []struct {
		path string
		ok   bool
	}{
		{"clip.mp4", true},
		{"CLIP.MP4", true},
		{"movie.mov", true},
		{"recording.mkv", true},
		{"talk.webm", true},
		{"legacy.avi", true},
		{"notes.txt", false},
		{"audio.wav", false},
		{"noext", false},
		{"", false},
	}
	for _, c := range cases {
		err := CheckExtension(c.path)
		if c.ok && err != nil {
			t.Errorf("CheckExtension(%q) = %v, want nil", c.path, err)
		}
		if !c.ok && err == nil {
			t.Errorf("CheckExtension(%q) = nil, want error", c.path)
		}
	}
}

func testAudio() config.Audio {
	return config.Audio{SampleRate: 16000, Channels: 1, Format: "wav", Codec: "pcm_s16le"}
}

func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not installed")
	}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// makeTestVideo synthesizes a short clip with a sine-wave audio track so the
// extraction tests do not need fixtures checked in.
func makeTestVideo(t *testing.T, withAudio bool) string {
	t.Helper()
	path := t.TempDir() + "/sample.mp4"
	args := []string{
		"-y", "-hide_banner", "-v", "quiet",
		"-f", "lavfi", "-i", "color=c=black:s=64x64:d=1",
	}
	if withAudio {
		args = append(args, "-f", "lavfi", "-i", "sine=frequency=440:duration=1")
	}
	args = append(args, "-pix_fmt", "yuv420p", path)
	if out, err := exec.Command("ffmpeg", args...).CombinedOutput(); err != nil {
		t.Skipf("ffmpeg could not synthesize clip: %v\n%s", err, out)
	}
	return path
}

func TestProbe(t *testing.T) {
	skipIfNoFFmpeg(t)
	ex, err := NewExtractor(testLogger(), testAudio())
	if err != nil {
		t.Fatal(err)
	}

	info, err := ex.Probe(context.Background(), makeTestVideo(t, true))
	if err != nil {
		t.Fatal(err)
	}
	if !info.HasVideo || !info.HasAudio {
		t.Errorf("info = %+v, want both streams", info)
	}
	if info.Duration <= 0 {
		t.Errorf("duration = %s", info.Duration)
	}
}

func TestExtract(t *testing.T) {
	skipIfNoFFmpeg(t)
	ex, err := NewExtractor(testLogger(), testAudio())
	if err != nil {
		t.Fatal(err)
	}

	out := t.TempDir()
	audioPath, ok, err := ex.Extract(context.Background(), makeTestVideo(t, true), out)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected an audio track")
	}
	if !strings.HasSuffix(audioPath, ".wav") {
		t.Errorf("audioPath = %q", audioPath)
	}

	info, err := ex.Probe(context.Background(), audioPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Audio != "pcm_s16le" {
		t.Errorf("codec = %q", info.Audio)
	}
}

func TestExtractNoAudioStream(t *testing.T) {
	skipIfNoFFmpeg(t)
	ex, err := NewExtractor(testLogger(), testAudio())
	if err != nil {
		t.Fatal(err)
	}

	audioPath, ok, err := ex.Extract(context.Background(), makeTestVideo(t, false), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok || audioPath != "" {
		t.Errorf("got (%q, %v), want empty result for silent clip", audioPath, ok)
	}
}
