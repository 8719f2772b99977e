package probe

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

func TestNewService_DefaultExecutable(t *testing.T) {
	log, _ := test.NewNullLogger()
	service := NewService("", log)

	if service.executable != FFprobeCommand {
		t.Errorf("Expected executable %s, got %s", FFprobeCommand, service.executable)
	}
}

func TestBuildFFprobeArgs(t *testing.T) {
	got := BuildFFprobeArgs("/music/a.mp3")
	expected := []string{"-v", "error", "-show_entries", "format=duration", "-of", "csv=p=0", "/music/a.mp3"}

	if !reflect.DeepEqual(got, expected) {
		t.Errorf("BuildFFprobeArgs() = %v, expected %v", got, expected)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"215.324000\n", 215324 * time.Millisecond, false},
		{"3", 3 * time.Second, false},
		{"0.000000", 0, false},
		{"-1", 0, false},
		{"12.5\n\n", 12500 * time.Millisecond, false},
		{"N/A", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDuration(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDuration(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseDuration(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestVerify_MissingFile(t *testing.T) {
	log, _ := test.NewNullLogger()
	service := NewService("", log)

	err := service.Verify(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !strings.Contains(err.Error(), "cannot probe") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestVerify_MissingExecutable(t *testing.T) {
	log, _ := test.NewNullLogger()
	service := NewService("/nonexistent/ffprobe", log)

	path := filepath.Join(t.TempDir(), "a.mp3")
	if err := os.WriteFile(path, []byte("ID3"), 0644); err != nil {
		t.Fatal(err)
	}

	err := service.Verify(context.Background(), path)
	if err == nil || !strings.Contains(err.Error(), "failed to run ffprobe") {
		t.Errorf("Expected ffprobe failure, got %v", err)
	}
}
