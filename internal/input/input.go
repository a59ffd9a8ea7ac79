package input

import (
	"bufio"
	"strconv"
)

// Click is a mouse button press at a 1-based terminal cell.
type Click struct {
	Col, Row int
}

// Input represents the key presses and clicks that arrived since the last frame.
// Every field is edge-triggered: a key counts once per press.
type Input struct {
	Quit    bool // q, Q or Ctrl+C, or the input stream closed
	Start   bool // space or enter
	Pause   bool // p, P or a lone escape
	Restart bool // r or R
	Clicks  []Click
	Pressed []byte
}

// Stream delivers input bytes via a channel. Escape sequences split across
// two reads are held back until the rest arrives.
type Stream struct {
	ch      chan byte
	pending []byte
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
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil
	held := len(buf)

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

	in, rest := Parse(buf)
	if len(rest) > 0 && (len(buf) == held || s.closed) {
		// Nothing followed the held bytes since the last frame.
		in.Pause = in.Pause || Flush(rest).Pause
		in.Pressed = buf
		rest = nil
	}
	s.pending = rest
	if s.closed {
		in.Quit = true
	}
	return in
}

// Parse decodes raw terminal bytes. It returns any trailing incomplete
// escape sequence, including a lone escape, so the caller can prepend it to
// the next read.
func Parse(buf []byte) (Input, []byte) {
	in := Input{Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b != '\x1b' {
			applyByte(&in, b)
			continue
		}
		if i+1 == len(buf) || (buf[i+1] == '[' && i+2 == len(buf)) {
			return hold(in, buf, i)
		}
		if buf[i+1] != '[' {
			applyByte(&in, b)
			continue
		}

		// SGR mouse: ESC [ < button ; col ; row (M|m)
		if buf[i+2] == '<' {
			end := sgrEnd(buf, i+3)
			if end < 0 {
				return hold(in, buf, i)
			}
			if buf[end] != 'M' && buf[end] != 'm' {
				// Malformed: resume at the byte that broke the sequence.
				i = end - 1
				continue
			}
			if click, ok := parseSGR(buf[i+3 : end]); ok && buf[end] == 'M' {
				in.Clicks = append(in.Clicks, click)
			}
			i = end
			continue
		}

		// Other CSI sequences (arrows, function keys) are skipped.
		j := i + 2
		for j < len(buf) && !isCSIFinal(buf[j]) {
			j++
		}
		if j == len(buf) {
			return hold(in, buf, i)
		}
		i = j
	}

	return in, nil
}

// Flush decodes bytes that Parse held back once no more input followed them.
// A lone escape is the pause key; an unfinished sequence is dropped.
func Flush(rest []byte) Input {
	in := Input{Pressed: rest}
	if len(rest) == 1 && rest[0] == '\x1b' {
		applyByte(&in, rest[0])
	}
	return in
}

func hold(in Input, buf []byte, from int) (Input, []byte) {
	in.Pressed = buf[:from]
	return in, append([]byte(nil), buf[from:]...)
}

// sgrEnd returns the index of the terminating M or m, or -1 if the sequence is incomplete.
func sgrEnd(buf []byte, from int) int {
	for j := from; j < len(buf); j++ {
		switch c := buf[j]; {
		case c == 'M' || c == 'm':
			return j
		case c == ';' || (c >= '0' && c <= '9'):
		default:
			return j
		}
	}
	return -1
}

// parseSGR reports a left, middle or right button press. Motion and wheel
// events are dropped.
func parseSGR(body []byte) (Click, bool) {
	var fields [3]int
	n := 0
	start := 0
	for j := 0; j <= len(body); j++ {
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
	if n != len(fields) {
		return Click{}, false
	}

	button := fields[0]
	if button&(32|64) != 0 || button&3 == 3 {
		return Click{}, false
	}
	return Click{Col: fields[1], Row: fields[2]}, true
}

func isCSIFinal(b byte) bool {
	return b >= 0x40 && b <= 0x7e
}

func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case ' ', '\n', '\r':
		in.Start = true
	case 'p', 'P', '\x1b':
		in.Pause = true
	case 'r', 'R':
		in.Restart = true
	}
}
