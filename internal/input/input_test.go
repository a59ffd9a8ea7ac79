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
		name string
		in   string
		want Input
	}{
		{"quit", "q", Input{Quit: true}},
		{"ctrl c", "\x03", Input{Quit: true}},
		{"space starts", " ", Input{Start: true}},
		{"enter starts", "\r", Input{Start: true}},
		{"pause", "p", Input{Pause: true}},
		{"escape then key", "\x1bp", Input{Pause: true}},
		{"restart", "R", Input{Restart: true}},
		{"arrow ignored", "\x1b[A", Input{}},
		{"unknown ignored", "x", Input{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest := Parse([]byte(tt.in))
			if rest != nil {
				t.Fatalf("unexpected remainder %q", rest)
			}
			if got.Quit != tt.want.Quit || got.Start != tt.want.Start ||
				got.Pause != tt.want.Pause || got.Restart != tt.want.Restart {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if len(got.Clicks) != 0 {
				t.Errorf("Parse(%q) reported clicks %v", tt.in, got.Clicks)
			}
		})
	}
}

func TestParseMouse(t *testing.T) {
	got, rest := Parse([]byte("\x1b[<0;12;5M\x1b[<0;12;5m\x1b[<2;3;4Mr"))
	if rest != nil {
		t.Fatalf("unexpected remainder %q", rest)
	}
	want := []Click{{Col: 12, Row: 5}, {Col: 3, Row: 4}}
	if len(got.Clicks) != len(want) {
		t.Fatalf("clicks = %v, want %v", got.Clicks, want)
	}
	for i := range want {
		if got.Clicks[i] != want[i] {
			t.Errorf("click %d = %v, want %v", i, got.Clicks[i], want[i])
		}
	}
	if !got.Restart {
		t.Error("key after mouse sequence was lost")
	}
	if got.Pause {
		t.Error("mouse escape was read as a pause key")
	}
}

func TestParseMouseIgnoresMotionAndWheel(t *testing.T) {
	got, _ := Parse([]byte("\x1b[<32;1;1M\x1b[<64;1;1M\x1b[<3;1;1M"))
	if len(got.Clicks) != 0 {
		t.Errorf("clicks = %v, want none", got.Clicks)
	}
}

func TestParseSplitMouseSequence(t *testing.T) {
	got, rest := Parse([]byte("p\x1b[<0;7"))
	if !got.Pause {
		t.Error("key before partial sequence was lost")
	}
	if len(got.Clicks) != 0 {
		t.Fatalf("partial sequence produced clicks %v", got.Clicks)
	}
	if string(rest) != "\x1b[<0;7" {
		t.Fatalf("remainder = %q", rest)
	}

	got, rest = Parse(append(rest, []byte(";9M")...))
	if rest != nil {
		t.Fatalf("unexpected remainder %q", rest)
	}
	if len(got.Clicks) != 1 || got.Clicks[0] != (Click{Col: 7, Row: 9}) {
		t.Errorf("clicks = %v, want [{7 9}]", got.Clicks)
	}
}

func TestParseHoldsEscapePrefixes(t *testing.T) {
	tests := []struct {
		name        string
		first, next string
	}{
		{"lone escape", "\x1b", "[<0;7;9M"},
		{"escape bracket", "\x1b[", "<0;7;9M"},
		{"escape bracket less", "\x1b[<", "0;7;9M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest := Parse([]byte(tt.first))
			if got.Pause {
				t.Error("held prefix was read as a pause key")
			}
			if string(rest) != tt.first {
				t.Fatalf("remainder = %q, want %q", rest, tt.first)
			}

			got, rest = Parse(append(rest, tt.next...))
			if rest != nil {
				t.Fatalf("unexpected remainder %q", rest)
			}
			if got.Pause {
				t.Error("completed mouse sequence paused the game")
			}
			if len(got.Clicks) != 1 || got.Clicks[0] != (Click{Col: 7, Row: 9}) {
				t.Errorf("clicks = %v, want [{7 9}]", got.Clicks)
			}
		})
	}
}

func TestFlushLoneEscapePauses(t *testing.T) {
	if !Flush([]byte("\x1b")).Pause {
		t.Error("lone escape did not pause")
	}
	if Flush([]byte("\x1b[<0;7")).Pause {
		t.Error("unfinished mouse sequence paused")
	}
}

func TestParseMalformedMouseKeepsFollowingKey(t *testing.T) {
	got, rest := Parse([]byte("\x1b[<0;1q"))
	if rest != nil {
		t.Fatalf("unexpected remainder %q", rest)
	}
	if !got.Quit {
		t.Error("key after malformed sequence was lost")
	}
	if len(got.Clicks) != 0 {
		t.Errorf("malformed sequence produced clicks %v", got.Clicks)
	}
}

func TestReadInputLoneEscapePausesOnNextFrame(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	s := StartStream(bufio.NewReader(r))

	go func() { _, _ = w.Write([]byte("\x1b")) }()

	deadline := time.Now().Add(time.Second)
	var paused bool
	for time.Now().Before(deadline) && !paused {
		paused = ReadInput(s).Pause
		time.Sleep(time.Millisecond)
	}
	if !paused {
		t.Error("lone escape never paused")
	}
}

func TestReadInputClosedStreamQuits(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader(" ")))

	deadline := time.Now().Add(time.Second)
	var sawStart, sawQuit bool
	for time.Now().Before(deadline) && !sawQuit {
		in := ReadInput(s)
		sawStart = sawStart || in.Start
		sawQuit = in.Quit
		time.Sleep(time.Millisecond)
	}
	if !sawStart {
		t.Error("space was never delivered")
	}
	if !sawQuit {
		t.Error("closed stream did not report quit")
	}
}
