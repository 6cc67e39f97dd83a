package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCarouselClampsAtBothEnds(t *testing.T) {
	c := Restore([]string{"a", "b", "c"}, State{})
	assert.Equal(t, "a", c.Current())
	assert.False(t, c.HasPrev())

	c.Prev()
	assert.Equal(t, 0, c.Index)

	c.Next()
	c.Next()
	c.Next()
	c.Next()
	assert.Equal(t, 2, c.Index)
	assert.Equal(t, "c", c.Current())
	assert.False(t, c.HasNext())
	assert.Equal(t, 3, c.Position())
}

func TestCarouselResetsWhenListChanges(t *testing.T) {
	first := []string{"a", "b", "c"}
	c := Restore(first, State{})
	c.Move(MoveNext)
	c.Move(MoveNext)
	saved := c.State()

	same := Restore([]string{"a", "b", "c"}, saved)
	assert.Equal(t, 2, same.Index)

	changed := Restore([]string{"x", "y", "z"}, saved)
	assert.Equal(t, 0, changed.Index)
}

func TestCarouselRestoreClampsSavedIndex(t *testing.T) {
	msgs := []string{"a", "b"}
	c := Restore(msgs, State{Fingerprint: Fingerprint(msgs), Index: 9})
	assert.Equal(t, 1, c.Index)

	c = Restore(msgs, State{Fingerprint: Fingerprint(msgs), Index: -4})
	assert.Equal(t, 0, c.Index)
}

func TestCarouselEmptyAndFailure(t *testing.T) {
	empty := Restore(nil, State{Index: 3})
	assert.Equal(t, 0, empty.Index)
	assert.Equal(t, MsgEmpty, empty.Current())
	assert.False(t, empty.HasNext())
	assert.False(t, empty.HasPrev())
	empty.Next()
	assert.Equal(t, 0, empty.Index)

	assert.Equal(t, MsgFailed, Failure().Current())
}

func TestMoveIgnoresUnknownDirection(t *testing.T) {
	c := Restore([]string{"a", "b"}, State{})
	c.Move("sideways")
	assert.Equal(t, 0, c.Index)
}

func TestStateRoundTrip(t *testing.T) {
	s := State{Fingerprint: "abc123", Index: 4}
	assert.Equal(t, s, ParseState(s.String()))
	assert.Equal(t, State{}, ParseState("garbage"))
	assert.Equal(t, State{}, ParseState("fp:x"))
}

func TestFingerprintDistinguishesSplits(t *testing.T) {
	assert.NotEqual(t, Fingerprint([]string{"ab", "c"}), Fingerprint([]string{"a", "bc"}))
	assert.Equal(t, Fingerprint([]string{"a"}), Fingerprint([]string{"a"}))
}
