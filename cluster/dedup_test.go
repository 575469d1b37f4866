package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "g1,g2,g3", Key([]string{"g3", "g1", "g2"}))
	assert.Equal(t, "g1,g2,g3", Key([]string{"g1", "g2", "g3"}))
	assert.Equal(t, "", Key(nil))
}

func TestKeyDoesNotReorderInput(t *testing.T) {
	genes := []string{"g3", "g1", "g2"}
	Key(genes)
	assert.Equal(t, []string{"g3", "g1", "g2"}, genes)
}

func TestNewSortsAndDedups(t *testing.T) {
	c := New([]string{"TLR3", "IRF3", "TLR3", "TBK1"}, []string{"P2", "P1", "P2"})
	assert.Equal(t, []string{"IRF3", "TBK1", "TLR3"}, c.Genes)
	assert.Equal(t, []string{"P1", "P2"}, c.Cases)
	assert.True(t, c.HasGene("TBK1"))
	assert.False(t, c.HasGene("IRF7"))
	assert.Equal(t, "IRF3,TBK1,TLR3", c.Key())
}

func TestDeduplicator(t *testing.T) {
	d := NewDeduplicator()

	first, ok := d.Admit([]string{"g3", "g1", "g2"}, []string{"B", "A"})
	require.True(t, ok)
	assert.Equal(t, []string{"g1", "g2", "g3"}, first.Genes)
	assert.Equal(t, []string{"A", "B"}, first.Cases)

	// Same gene set discovered from a different seed and case set.
	_, ok = d.Admit([]string{"g2", "g3", "g1"}, []string{"C"})
	assert.False(t, ok)

	_, ok = d.Admit([]string{"g1", "g2"}, []string{"A"})
	assert.False(t, ok, "two genes is below the minimum")

	_, ok = d.Admit([]string{"g1", "g2", "g4"}, nil)
	assert.False(t, ok, "a cluster needs at least one case")

	_, ok = d.Admit([]string{"g1", "g2", "g4"}, []string{"A"})
	assert.True(t, ok)

	assert.Equal(t, 2, d.Len())
}

func TestDeduplicatorsAreIndependent(t *testing.T) {
	a, b := NewDeduplicator(), NewDeduplicator()

	_, ok := a.Admit([]string{"g1", "g2", "g3"}, []string{"A"})
	require.True(t, ok)

	_, ok = b.Admit([]string{"g1", "g2", "g3"}, []string{"A"})
	assert.True(t, ok)
}
