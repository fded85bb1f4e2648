package commerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func order(id, updatedAt, createdAt string) Order {
	return Order{ID: id, UpdatedAt: updatedAt, CreatedAt: createdAt}
}

func TestDeduplicate_KeepsMostRecentlyUpdated(t *testing.T) {
	records := []Order{
		order("1001", "2024-01-01T00:00:00Z", ""),
		order("1001", "2024-01-02T00:00:00Z", ""),
	}

	out := Deduplicate(records)

	assert.Len(t, out, 1)
	assert.Equal(t, "2024-01-02T00:00:00Z", out[0].UpdatedAt)
}

func TestDeduplicate_OutputSizeEqualsDistinctKeys(t *testing.T) {
	records := []Order{
		order("a", "2024-01-01T00:00:00Z", ""),
		order("b", "2024-01-03T00:00:00Z", ""),
		order("a", "2024-01-02T00:00:00Z", ""),
		order("c", "", "2024-01-01T00:00:00Z"),
		order("b", "2024-01-01T00:00:00Z", ""),
	}

	out := Deduplicate(records)

	assert.Len(t, out, 3)
	byID := map[string]Order{}
	for _, o := range out {
		byID[o.ID] = o
	}
	assert.Equal(t, "2024-01-02T00:00:00Z", byID["a"].UpdatedAt)
	assert.Equal(t, "2024-01-03T00:00:00Z", byID["b"].UpdatedAt)
}

func TestDeduplicate_CreatedAtFallback(t *testing.T) {
	records := []Order{
		order("1001", "", "2024-01-01T00:00:00Z"),
		order("1001", "", "2024-02-01T00:00:00Z"),
	}

	out := Deduplicate(records)

	assert.Len(t, out, 1)
	assert.Equal(t, "2024-02-01T00:00:00Z", out[0].CreatedAt)
}

func TestDeduplicate_RecordWithoutTimestampsAlwaysLoses(t *testing.T) {
	records := []Order{
		order("1001", "", ""),
		order("1001", "2020-01-01T00:00:00Z", ""),
		order("1001", "", ""),
	}

	out := Deduplicate(records)

	assert.Len(t, out, 1)
	assert.Equal(t, "2020-01-01T00:00:00Z", out[0].UpdatedAt)
}

// Equal timestamps keep the first-seen record. The comparison is strict
// by contract; see the dedup notes in DESIGN.md before changing this.
func TestDeduplicate_FirstSeenWinsOnExactTie(t *testing.T) {
	first := order("1001", "2024-01-01T00:00:00Z", "")
	first.Name = "#first"
	second := order("1001", "2024-01-01T00:00:00Z", "")
	second.Name = "#second"

	out := Deduplicate([]Order{first, second})

	assert.Len(t, out, 1)
	assert.Equal(t, "#first", out[0].Name)
}

func TestDeduplicate_ResultOrderIndependent(t *testing.T) {
	a := order("x", "2024-05-01T00:00:00Z", "")
	b := order("x", "2024-05-02T00:00:00Z", "")

	out1 := Deduplicate([]Order{a, b})
	out2 := Deduplicate([]Order{b, a})

	assert.Equal(t, out1[0].UpdatedAt, out2[0].UpdatedAt)
}
