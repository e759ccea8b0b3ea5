package callerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		msg  string
		want Class
	}{
		{"join rejected: payment required for this domain", PaymentRequired},
		{"billing hold on account", PaymentRequired},
		{"the session has been destroyed", CorruptedSession},
		{"meeting object is corrupt", CorruptedSession},
		{"duplicate call object detected", DuplicateSession},
		{"user already joined a session", DuplicateSession},
		{"dial tcp: connection refused", NetworkUnreachable},
		{"host unreachable", NetworkUnreachable},
		{"something completely else", Unknown},
	}
	for _, c := range cases {
		ce := Classify(errors.New(c.msg))
		require.NotNil(t, ce, c.msg)
		assert.Equal(t, c.want, ce.Class, c.msg)
	}
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassifyPassthrough(t *testing.T) {
	ce := Classify(errors.New("payment"))
	assert.Same(t, ce, Classify(ce))
}

func TestClassifyWrappedPassthrough(t *testing.T) {
	inner := Classify(errors.New("odd glitch"))
	require.Equal(t, Unknown, inner.Class)

	// The wrapper's message would match the network patterns; the embedded
	// classification must win over re-classifying the string.
	wrapped := fmt.Errorf("network call failed: %w", inner)
	assert.Same(t, inner, Classify(wrapped))
}

func TestUnknownKeepsRawMessage(t *testing.T) {
	ce := Classify(errors.New("weird provider hiccup"))
	assert.Equal(t, Unknown, ce.Class)
	assert.Equal(t, "weird provider hiccup", ce.UserMessage())
}

func TestFatalClasses(t *testing.T) {
	assert.True(t, Classify(errors.New("session destroyed")).Fatal())
	assert.True(t, Classify(errors.New("duplicate session")).Fatal())
	assert.False(t, Classify(errors.New("payment")).Fatal())
}

func TestCurrentLastWriteWins(t *testing.T) {
	cur := NewCurrent()
	assert.Nil(t, cur.Get())

	cur.Set(errors.New("network down"))
	cur.Set(errors.New("payment required"))
	require.NotNil(t, cur.Get())
	assert.Equal(t, PaymentRequired, cur.Get().Class)

	cur.Clear()
	assert.Nil(t, cur.Get())
}
