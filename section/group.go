package section

import (
	"github.com/flightlog/blackbox/errs"
	"github.com/flightlog/blackbox/format"
	"github.com/flightlog/blackbox/internal/codec"
)

// Group folds a field list's raw per-field encodings into the grouped
// wire codecs the stream decoder actually runs. Consecutive fields that
// share the same groupable raw encoding are merged into a single Grouped
// entry of width N, up to that encoding's MaxGroupWidth; anything not
// groupable (Null, the varint family, Negative14BitVB) gets its own
// width-1 entry.
func Group(raw []format.RawEncoding) ([]codec.Grouped, error) {
	var out []codec.Grouped

	i := 0
	for i < len(raw) {
		enc := raw[i]

		if !enc.Groupable() {
			out = append(out, codec.Grouped{Kind: enc, N: 1})
			i++

			continue
		}

		max := enc.MaxGroupWidth()
		n := 1

		for i+n < len(raw) && raw[i+n] == enc && n < max {
			n++
		}

		if n > max {
			return nil, errs.ErrGroupWidthExceeded
		}

		out = append(out, codec.Grouped{Kind: enc, N: n})
		i += n
	}

	return out, nil
}
