package notify

import (
	"context"
	"strings"
	"testing"
)

func TestSplitMessageShortTextIsSingleChunk(t *testing.T) {
	t.Parallel()

	chunks := splitMessage("short report", 100)
	if len(chunks) != 1 || chunks[0] != "short report" {
		t.Fatalf("unexpected chunks: %v", chunks)
	}
}

func TestSplitMessageBreaksAtLineBoundaries(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("line one\n", 4)
	chunks := splitMessage(text, 20)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	var rebuilt strings.Builder
	for _, c := range chunks {
		if len(c) > 20 {
			t.Fatalf("chunk exceeds limit: %d bytes", len(c))
		}
		if !strings.HasSuffix(c, "\n") {
			t.Fatalf("chunk does not end at a line boundary: %q", c)
		}
		rebuilt.WriteString(c)
	}
	if rebuilt.String() != text {
		t.Fatal("chunks do not reassemble the original text")
	}
}

func TestSplitMessageHardWrapsOversizedLine(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("x", 45)
	chunks := splitMessage(text, 20)

	var rebuilt strings.Builder
	for _, c := range chunks {
		if len(c) > 20 {
			t.Fatalf("chunk exceeds limit: %d bytes", len(c))
		}
		rebuilt.WriteString(c)
	}
	if rebuilt.String() != text {
		t.Fatal("chunks do not reassemble the original text")
	}
}

func TestPublishRequiresConfiguration(t *testing.T) {
	t.Parallel()

	pub := NewTelegramPublisher("", "")
	if err := pub.Publish(context.Background(), "# report"); err == nil {
		t.Fatal("expected configuration error")
	}
}
