package commerce

import "time"

// Record is any persisted entity with a natural key and an optional
// recency timestamp.
type Record interface {
	Key() string
	ModifiedAt() (time.Time, bool)
}

// Deduplicate reduces a set of records to one per natural key, keeping
// the record with the strictly greatest recency timestamp. A record with
// no parseable timestamp is treated as oldest. On an exact timestamp tie
// the first-seen record wins: the comparison is strict (>), so a later
// duplicate with an equal timestamp never replaces the kept one.
//
// The output preserves first-seen key order, which makes the result
// deterministic for a given input order; the selected records themselves
// do not depend on input order except in the documented tie case.
func Deduplicate[R Record](records []R) []R {
	kept := make(map[string]R, len(records))
	order := make([]string, 0, len(records))

	for _, rec := range records {
		key := rec.Key()
		prev, seen := kept[key]
		if !seen {
			kept[key] = rec
			order = append(order, key)
			continue
		}
		prevAt, prevOK := prev.ModifiedAt()
		recAt, recOK := rec.ModifiedAt()
		switch {
		case !recOK:
			// No timestamp: always loses.
		case !prevOK:
			kept[key] = rec
		case recAt.After(prevAt):
			kept[key] = rec
		}
	}

	out := make([]R, 0, len(order))
	for _, key := range order {
		out = append(out, kept[key])
	}
	return out
}
