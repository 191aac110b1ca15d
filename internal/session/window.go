package session

import (
	"strings"
	"unicode/utf8"
)

// Window bounds the size of a transcript. Apply must return a suffix of its
// input.
type Window interface {
	Apply(transcript string) string
}

// WindowFunc adapts a plain function to Window.
type WindowFunc func(string) string

func (f WindowFunc) Apply(transcript string) string { return f(transcript) }

// Unbounded keeps the whole transcript.
func Unbounded() Window {
	return WindowFunc(func(t string) string { return t })
}

// LastTurns keeps the n most recent turns. n <= 0 keeps everything.
func LastTurns(n int) Window {
	if n <= 0 {
		return Unbounded()
	}
	return WindowFunc(func(t string) string {
		starts := turnStarts(t)
		if len(starts) <= n {
			return t
		}
		return t[starts[len(starts)-n]:]
	})
}

// LastChars keeps at most k bytes from the end of the transcript. The cut is
// moved forward to the next turn boundary when one exists, and never splits a
// UTF-8 sequence.
func LastChars(k int) Window {
	if k <= 0 {
		return Unbounded()
	}
	return WindowFunc(func(t string) string {
		if len(t) <= k {
			return t
		}
		start := len(t) - k
		for start < len(t) && !utf8.RuneStart(t[start]) {
			start++
		}
		if i := strings.Index(t[start:], UserPrefix); i >= 0 {
			return t[start+i:]
		}
		return t[start:]
	})
}

// Chain applies windows in order.
func Chain(windows ...Window) Window {
	return WindowFunc(func(t string) string {
		for _, w := range windows {
			t = w.Apply(t)
		}
		return t
	})
}

// NewWindow builds the configured policy: turn limit first, then byte limit.
// Zero values disable the corresponding bound.
func NewWindow(maxTurns, maxChars int) Window {
	switch {
	case maxTurns > 0 && maxChars > 0:
		return Chain(LastTurns(maxTurns), LastChars(maxChars))
	case maxTurns > 0:
		return LastTurns(maxTurns)
	case maxChars > 0:
		return LastChars(maxChars)
	default:
		return Unbounded()
	}
}

func turnStarts(t string) []int {
	var starts []int
	for off := 0; ; {
		i := strings.Index(t[off:], UserPrefix)
		if i < 0 {
			return starts
		}
		starts = append(starts, off+i)
		off += i + len(UserPrefix)
	}
}
