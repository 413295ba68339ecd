package draw

import (
	"io"
	"os"
	"strconv"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Terminal control sequences used by the hosts.
const (
	clearSeq     = termenv.CSI + "H" + termenv.CSI + "2J"
	enterGameSeq = termenv.CSI + termenv.HideCursorSeq +
		termenv.CSI + termenv.EnableMouseSeq +
		termenv.CSI + termenv.EnableMouseExtendedModeSeq +
		clearSeq
	leaveGameSeq = termenv.CSI + termenv.DisableMouseExtendedModeSeq +
		termenv.CSI + termenv.DisableMouseSeq +
		clearSeq +
		termenv.CSI + termenv.ShowCursorSeq
)

// ChunkWriter collects one frame of terminal output and sends it in
// maxChunkSize pieces on Flush, so a frame crosses an SSH channel in a few
// packets instead of many small writes.
type ChunkWriter struct {
	w   io.Writer
	buf []byte
}

// NewChunkWriter creates a ChunkWriter that flushes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{w: w, buf: make([]byte, 0, 8192)}
}

// Write implements io.Writer for Canvas.Render.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.buf = append(cw.buf, p...)
	return len(p), nil
}

// WriteString appends s to the frame.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf = append(cw.buf, s...)
}

// WriteAt writes s starting at the 1-based terminal cell (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.buf = append(cw.buf, termenv.CSI...)
	cw.buf = strconv.AppendInt(cw.buf, int64(row), 10)
	cw.buf = append(cw.buf, ';')
	cw.buf = strconv.AppendInt(cw.buf, int64(col), 10)
	cw.buf = append(cw.buf, 'H')
	cw.buf = append(cw.buf, s...)
}

// Clear queues a full screen clear.
func (cw *ChunkWriter) Clear() {
	cw.WriteString(clearSeq)
}

// Len is the number of bytes waiting for Flush.
func (cw *ChunkWriter) Len() int {
	return len(cw.buf)
}

// Flush sends the frame and empties the buffer. The buffer is emptied even
// when a write fails.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf
	cw.buf = cw.buf[:0]
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := cw.w.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// TermSizeFunc reports the terminal size in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of the local terminal.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// EnterGame hides the cursor, turns on SGR mouse reporting and clears the
// screen.
func EnterGame(w io.Writer) {
	_, _ = io.WriteString(w, enterGameSeq)
}

// LeaveGame undoes EnterGame and leaves a clear screen behind.
func LeaveGame(w io.Writer) {
	_, _ = io.WriteString(w, leaveGameSeq)
}
