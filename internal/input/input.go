// Package input turns raw terminal bytes into per-frame commands and clicks.
package input

import (
	"bufio"
	"strconv"
)

// Input represents the current frame's input state. Keys are edge-triggered:
// a flag is set in the frame the key arrived and cleared in the next.
type Input struct {
	Quit         bool
	Start        bool // Space or Enter
	Pause        bool // P or Escape
	RestartLevel bool
	NewGame      bool
	Level        int // 1-9 when a digit was pressed, 0 otherwise
	Clicks       []Click
	Pressed      []byte
	Closed       bool // The reader hit EOF or an error
}

// Any reports whether the frame carried any input at all.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// Click is a left mouse button press at a 1-based terminal cell.
type Click struct {
	Col, Row int
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	pending []byte // Incomplete escape sequence from the previous drain
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Escape sequences cut off at the end of a drain are completed on the next
// call. A lone Escape with nothing after it by then is the Escape key.
func ReadInput(s *Stream) Input {
	buf := s.pending
	held := len(buf)
	s.pending = nil

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	more := !s.closed
	if held == 1 && len(buf) == 1 && buf[0] == '\x1b' {
		more = false
	}
	in, rest := Parse(buf, more)
	s.pending = rest
	in.Closed = s.closed
	return in
}

// Parse decodes buf. When more may follow, an incomplete trailing escape
// sequence is returned as rest instead of being interpreted.
func Parse(buf []byte, more bool) (in Input, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			applyByte(&in, b)
			in.Pressed = append(in.Pressed, b)
			continue
		}

		if i+1 >= len(buf) {
			if more {
				return in, append([]byte(nil), buf[i:]...)
			}
			applyByte(&in, b)
			in.Pressed = append(in.Pressed, b)
			continue
		}
		if buf[i+1] != '[' {
			// Lone escape followed by a regular key
			applyByte(&in, b)
			in.Pressed = append(in.Pressed, b)
			continue
		}

		end := csiEnd(buf, i+2)
		if end < 0 {
			if more {
				return in, append([]byte(nil), buf[i:]...)
			}
			break
		}
		seq := buf[i : end+1]
		if c, ok := parseMouse(seq); ok {
			in.Clicks = append(in.Clicks, c)
		}
		in.Pressed = append(in.Pressed, seq...)
		i = end
	}
	return in, nil
}

// csiEnd returns the index of the final byte of a CSI sequence whose
// parameters start at from, or -1 if the sequence is incomplete.
func csiEnd(buf []byte, from int) int {
	for j := from; j < len(buf); j++ {
		if buf[j] >= 0x40 && buf[j] <= 0x7e {
			return j
		}
	}
	return -1
}

// parseMouse decodes an SGR mouse report: ESC [ < button ; col ; row M.
// Only left button presses count as clicks.
func parseMouse(seq []byte) (Click, bool) {
	if len(seq) < 6 || seq[2] != '<' || seq[len(seq)-1] != 'M' {
		return Click{}, false
	}
	var fields [3]int
	n := 0
	start := 3
	body := seq[:len(seq)-1]
	for j := 3; j <= len(body); j++ {
		if j < len(body) && body[j] != ';' {
			continue
		}
		if n == len(fields) {
			return Click{}, false
		}
		v, err := strconv.Atoi(string(body[start:j]))
		if err != nil {
			return Click{}, false
		}
		fields[n] = v
		n++
		start = j + 1
	}
	if n != 3 {
		return Click{}, false
	}
	// Low bits select the button, 32 marks motion, 64 marks the wheel.
	if fields[0]&(3|32|64) != 0 {
		return Click{}, false
	}
	return Click{Col: fields[1], Row: fields[2]}, true
}

// applyByte sets the command flags for a pressed byte.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl+C arrives as a byte in raw mode
		in.Quit = true
	case ' ', '\n', '\r':
		in.Start = true
	case 'p', 'P', '\x1b':
		in.Pause = true
	case 'r', 'R':
		in.RestartLevel = true
	case 'n', 'N':
		in.NewGame = true
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		in.Level = int(b - '0')
	}
}
