package insights

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Move directions accepted by Carousel.Move.
const (
	MoveNext = "next"
	MovePrev = "prev"
)

// Fingerprint identifies a message list; a new list means a new fingerprint.
func Fingerprint(msgs []string) string {
	h := sha256.New()
	for _, m := range msgs {
		h.Write([]byte(m))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// State is the part of the carousel kept in the session between requests.
type State struct {
	Fingerprint string
	Index       int
}

func (s State) String() string {
	return s.Fingerprint + ":" + strconv.Itoa(s.Index)
}

// ParseState reads a State written by String. Garbage yields the zero State.
func ParseState(raw string) State {
	fp, idx, ok := strings.Cut(raw, ":")
	if !ok {
		return State{}
	}
	i, err := strconv.Atoi(idx)
	if err != nil {
		return State{}
	}
	return State{Fingerprint: fp, Index: i}
}

// Carousel shows one message at a time. Index always stays in [0, len-1].
type Carousel struct {
	Messages []string
	Index    int
	Failed   bool
}

// Restore builds a carousel for msgs, keeping the saved index only when the
// list is unchanged.
func Restore(msgs []string, saved State) Carousel {
	c := Carousel{Messages: msgs}
	if saved.Fingerprint == Fingerprint(msgs) {
		c.Index = saved.Index
	}
	c.clamp()
	return c
}

// Failure is the carousel shown when insights could not be loaded.
func Failure() Carousel {
	return Carousel{Failed: true}
}

func (c *Carousel) clamp() {
	if c.Index > len(c.Messages)-1 {
		c.Index = len(c.Messages) - 1
	}
	if c.Index < 0 {
		c.Index = 0
	}
}

func (c *Carousel) Next() {
	c.Index++
	c.clamp()
}

func (c *Carousel) Prev() {
	c.Index--
	c.clamp()
}

// Move applies a MoveNext/MovePrev direction; anything else is ignored.
func (c *Carousel) Move(direction string) {
	switch direction {
	case MoveNext:
		c.Next()
	case MovePrev:
		c.Prev()
	}
}

func (c Carousel) State() State {
	return State{Fingerprint: Fingerprint(c.Messages), Index: c.Index}
}

// Current is the text to render.
func (c Carousel) Current() string {
	if c.Failed {
		return MsgFailed
	}
	if len(c.Messages) == 0 {
		return MsgEmpty
	}
	return c.Messages[c.Index]
}

func (c Carousel) Total() int {
	return len(c.Messages)
}

// Position is the 1-based index shown to the user.
func (c Carousel) Position() int {
	return c.Index + 1
}

func (c Carousel) HasPrev() bool {
	return c.Index > 0
}

func (c Carousel) HasNext() bool {
	return c.Index < len(c.Messages)-1
}
