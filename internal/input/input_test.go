package input

import (
	"bufio"
	"io"
	"strings"
	"testing"
	"time"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(Input) bool
	}{
		{"quit", "q", func(in Input) bool { return in.Quit }},
		{"ctrl-c", "\x03", func(in Input) bool { return in.Quit }},
		{"space starts", " ", func(in Input) bool { return in.Start }},
		{"enter starts", "\r", func(in Input) bool { return in.Start }},
		{"p pauses", "p", func(in Input) bool { return in.Pause }},
		{"restart level", "R", func(in Input) bool { return in.RestartLevel }},
		{"new game", "n", func(in Input) bool { return in.NewGame }},
		{"level jump", "7", func(in Input) bool { return in.Level == 7 }},
		{"zero is not a level", "0", func(in Input) bool { return in.Level == 0 }},
		{"last digit wins", "38", func(in Input) bool { return in.Level == 8 }},
		{"unknown key", "x", func(in Input) bool { return !in.Quit && !in.Start && in.Any() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, rest := Parse([]byte(tt.input), false)
			if rest != nil {
				t.Fatalf("rest = %q", rest)
			}
			if !tt.check(in) {
				t.Fatalf("Parse(%q) = %+v", tt.input, in)
			}
		})
	}
}

func TestParseLoneEscapePauses(t *testing.T) {
	in, _ := Parse([]byte("\x1b"), false)
	if !in.Pause {
		t.Fatal("escape did not pause")
	}
	in, _ = Parse([]byte("\x1bq"), false)
	if !in.Pause || !in.Quit {
		t.Fatalf("escape then q = %+v", in)
	}
}

func TestStreamLoneEscapePauses(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	s := StartStream(bufio.NewReader(pr))

	go func() {
		_, _ = pw.Write([]byte("\x1b"))
	}()

	paused := false
	deadline := time.Now().Add(2 * time.Second)
	for !paused && time.Now().Before(deadline) {
		in := ReadInput(s)
		paused = in.Pause
		time.Sleep(10 * time.Millisecond)
	}
	if !paused {
		t.Fatalf("lone escape on an open stream never paused, pending %q", s.pending)
	}
	if len(s.pending) != 0 {
		t.Fatalf("escape still pending after it paused: %q", s.pending)
	}
}

func TestStreamSplitSequenceCompletes(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	s := StartStream(bufio.NewReader(pr))

	// The rest of the report arrives before the next drain.
	s.pending = []byte("\x1b[<0;")
	go func() {
		_, _ = pw.Write([]byte("4;2M"))
	}()

	var clicks []Click
	deadline := time.Now().Add(2 * time.Second)
	for len(clicks) == 0 && time.Now().Before(deadline) {
		in := ReadInput(s)
		if in.Level != 0 {
			t.Fatalf("sequence bytes read as keys: %+v", in)
		}
		clicks = append(clicks, in.Clicks...)
		time.Sleep(time.Millisecond)
	}
	if len(clicks) != 1 || clicks[0] != (Click{Col: 4, Row: 2}) {
		t.Fatalf("clicks = %+v", clicks)
	}
}

func TestParseMouseClick(t *testing.T) {
	in, _ := Parse([]byte("\x1b[<0;12;5M"), false)
	if len(in.Clicks) != 1 || in.Clicks[0] != (Click{Col: 12, Row: 5}) {
		t.Fatalf("clicks = %+v", in.Clicks)
	}
	if in.Pause {
		t.Fatal("mouse report read as escape key")
	}
}

func TestParseMouseIgnoresOtherEvents(t *testing.T) {
	for _, seq := range []string{
		"\x1b[<0;12;5m",  // release
		"\x1b[<2;12;5M",  // right button
		"\x1b[<32;12;5M", // drag
		"\x1b[<64;12;5M", // wheel
		"\x1b[<0;12M",    // malformed
		"\x1b[A",         // arrow key
	} {
		in, _ := Parse([]byte(seq), false)
		if len(in.Clicks) != 0 || in.Pause || in.Start {
			t.Errorf("Parse(%q) = %+v", seq, in)
		}
	}
}

func TestParseMixed(t *testing.T) {
	in, _ := Parse([]byte("a\x1b[<0;1;2M\x1b[<0;3;4Mp"), false)
	if len(in.Clicks) != 2 || in.Clicks[1] != (Click{Col: 3, Row: 4}) || !in.Pause {
		t.Fatalf("mixed = %+v", in)
	}
}

func TestParseKeepsIncompleteSequence(t *testing.T) {
	in, rest := Parse([]byte("r\x1b[<0;4"), true)
	if !in.RestartLevel || string(rest) != "\x1b[<0;4" {
		t.Fatalf("in=%+v rest=%q", in, rest)
	}
	in, rest = Parse(append(rest, ";9M"...), true)
	if rest != nil || len(in.Clicks) != 1 || in.Clicks[0] != (Click{Col: 4, Row: 9}) {
		t.Fatalf("completed = %+v rest=%q", in, rest)
	}

	_, rest = Parse([]byte("\x1b"), true)
	if string(rest) != "\x1b" {
		t.Fatalf("trailing escape not held back: %q", rest)
	}
}

func TestStreamDeliversAndCloses(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("n\x1b[<0;2;3M")))

	var got Input
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		in := ReadInput(s)
		got.NewGame = got.NewGame || in.NewGame
		got.Clicks = append(got.Clicks, in.Clicks...)
		if in.Closed {
			got.Closed = true
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !got.Closed || !got.NewGame || len(got.Clicks) != 1 {
		t.Fatalf("stream input = %+v", got)
	}
	if in := ReadInput(s); !in.Closed || in.Any() {
		t.Fatalf("read after close = %+v", in)
	}
}
