package progress

import (
	"bytes"
	"testing"

	"dat-matcher/core/reconcile"

	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, "matching")

	b.Start(4)
	b.Processed(reconcile.Record{Outcome: reconcile.OutcomeMatched})
	b.Processed(reconcile.Record{Outcome: reconcile.OutcomeDuplicate})
	b.Processed(reconcile.Record{Outcome: reconcile.OutcomeUnmatched})
	b.Processed(reconcile.Record{Outcome: reconcile.OutcomeSkippedExisting})

	assert.Equal(t, "matching | ok=1 dup=1 unmatched=1 skip=1", b.describe())
	b.Finish()
	assert.NotEmpty(t, buf.String())
}

func TestBar_ProcessedBeforeStart(t *testing.T) {
	b := New(&bytes.Buffer{}, "dedupe")
	assert.NotPanics(t, func() {
		b.Processed(reconcile.Record{Outcome: reconcile.OutcomeUnique})
		b.Finish()
	})
	assert.Equal(t, "dedupe | ok=1 dup=0 unmatched=0", b.describe())
}

func TestBar_AddBytes(t *testing.T) {
	b := New(&bytes.Buffer{}, "matching")
	b.AddBytes(0)
	assert.Equal(t, "matching | ok=0 dup=0 unmatched=0", b.describe())

	b.Start(1)
	b.AddBytes(1024)
	b.AddBytes(1024)
	assert.Equal(t, "matching | ok=0 dup=0 unmatched=0 | 2.0 KiB", b.describe())
	b.Finish()
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
