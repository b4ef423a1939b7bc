package server

import (
	"encoding/json"
	"testing"
	"time"
)

func TestWebLogger_ForwardsFormattedLines(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		args     []interface{}
		expected string
	}{
		{"plain", "Loading scene...\n", nil, "Loading scene...\n"},
		{"formatted", "Band %d/%d done\n", []interface{}{3, 32}, "Band 3/32 done\n"},
		{"no newline", "Render saved as %s", []interface{}{"out.png"}, "Render saved as out.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messageChan := make(chan ConsoleMessage, 1)
			logger := NewWebLogger("render-1", messageChan)
			logger.Printf(tt.format, tt.args...)

			select {
			case msg := <-messageChan:
				if msg.Message != tt.expected {
					t.Errorf("Expected %q, got %q", tt.expected, msg.Message)
				}
				if msg.Level != "info" || msg.RenderID != "render-1" {
					t.Errorf("Unexpected metadata: level=%q renderID=%q", msg.Level, msg.RenderID)
				}
				if time.Since(msg.Timestamp) > time.Second {
					t.Errorf("Timestamp too old: %v", msg.Timestamp)
				}
			case <-time.After(100 * time.Millisecond):
				t.Fatal("Timeout waiting for console message")
			}
		})
	}
}

func TestWebLogger_PreservesOrder(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 4)
	logger := NewWebLogger("render-2", messageChan)

	for i := 1; i <= 4; i++ {
		logger.Printf("line %d", i)
	}
	for i := 1; i <= 4; i++ {
		msg := <-messageChan
		if expected := "line " + string(rune('0'+i)); msg.Message != expected {
			t.Errorf("Message %d: expected %q, got %q", i, expected, msg.Message)
		}
	}
}

func TestWebLogger_NeverBlocks(t *testing.T) {
	tests := []struct {
		name string
		ch   chan ConsoleMessage
	}{
		{"full channel", make(chan ConsoleMessage, 1)},
		{"unbuffered without reader", make(chan ConsoleMessage)},
		{"nil channel", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewWebLogger("render-3", tt.ch)

			done := make(chan struct{})
			go func() {
				for i := 0; i < 10; i++ {
					logger.Printf("line %d\n", i)
				}
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("Printf blocked")
			}
			if tt.ch != nil && cap(tt.ch) > 0 && len(tt.ch) != cap(tt.ch) {
				t.Errorf("Expected the buffer to be filled, got %d of %d", len(tt.ch), cap(tt.ch))
			}
		})
	}
}

func TestConsoleMessage_JSON(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	NewWebLogger("render-42", messageChan).Printf("Band %d/%d done\n", 1, 32)

	data, err := json.Marshal(<-messageChan)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"renderId", "message", "timestamp", "level"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("Expected JSON key %q in %s", key, data)
		}
	}
	if decoded["renderId"] != "render-42" {
		t.Errorf("Expected renderId render-42, got %v", decoded["renderId"])
	}
}
