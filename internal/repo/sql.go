package repo

import "time"

const queryTimeout = 3 * time.Second

// now is the clock used for persisted timestamps. Stored times are always UTC.
func now() time.Time {
	return time.Now().UTC()
}

func clamp(value, minValue, maxValue int) int {
	return max(minValue, min(value, maxValue))
}

// page applies offset/limit to n items and returns the slice bounds.
func page(n int, offset, limit *int) (int, int) {
	start := 0
	if offset != nil {
		start = clamp(*offset, 0, n)
	}
	end := n
	if limit != nil && *limit > 0 {
		end = clamp(start+*limit, start, n)
	}
	return start, end
}

const sqliteDriver = "sqlite"

// limitOffset renders a LIMIT/OFFSET suffix. SQLite rejects OFFSET without LIMIT.
func limitOffset(driver string, limit, offset *int) (string, []any) {
	clause := ""
	args := []any{}
	hasOffset := offset != nil && *offset > 0

	switch {
	case limit != nil && *limit > 0:
		clause = " LIMIT ?"
		args = append(args, *limit)
	case hasOffset && driver == sqliteDriver:
		clause = " LIMIT -1"
	}
	if hasOffset {
		clause += " OFFSET ?"
		args = append(args, *offset)
	}
	return clause, args
}
