package logger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const vlqAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// segment is one decoded mapping segment. source is -1 for segments that
// only carry a generated column. line and column are 0-based.
type segment struct {
	genColumn int
	source    int
	line      int
	column    int
}

// lineIndex holds the segments of each 0-based generated line, sorted by
// generated column.
type lineIndex [][]segment

func parseLineIndex(mappings string) (lineIndex, error) {
	var (
		idx                  lineIndex
		source, line, column int
	)
	for _, group := range strings.Split(mappings, ";") {
		var segs []segment
		genColumn := 0
		for _, field := range strings.Split(group, ",") {
			if field == "" {
				continue
			}
			values, err := decodeVLQ(field)
			if err != nil {
				return nil, err
			}
			if n := len(values); n != 1 && n != 4 && n != 5 {
				return nil, fmt.Errorf("segment %q has %d fields", field, n)
			}

			genColumn += values[0]
			seg := segment{genColumn: genColumn, source: -1}
			if len(values) >= 4 {
				source += values[1]
				line += values[2]
				column += values[3]
				seg.source, seg.line, seg.column = source, line, column
			}
			segs = append(segs, seg)
		}
		sort.SliceStable(segs, func(i, j int) bool { return segs[i].genColumn < segs[j].genColumn })
		idx = append(idx, segs)
	}
	return idx, nil
}

// find returns the last segment on line starting at or before column.
func (idx lineIndex) find(line, column int) (segment, bool) {
	if line < 0 || line >= len(idx) {
		return segment{}, false
	}
	segs := idx[line]
	i := sort.Search(len(segs), func(i int) bool { return segs[i].genColumn > column })
	if i == 0 {
		return segment{}, false
	}
	return segs[i-1], true
}

func decodeVLQ(s string) ([]int, error) {
	var (
		values       []int
		value, shift int
	)
	for i := 0; i < len(s); i++ {
		digit := strings.IndexByte(vlqAlphabet, s[i])
		if digit < 0 {
			return nil, fmt.Errorf("invalid base64 VLQ character %q", s[i])
		}
		value += (digit & 0x1f) << shift
		if digit&0x20 != 0 {
			shift += 5
			continue
		}
		if value&1 != 0 {
			value = -(value >> 1)
		} else {
			value >>= 1
		}
		values = append(values, value)
		value, shift = 0, 0
	}
	if shift != 0 {
		return nil, errors.New("truncated base64 VLQ value")
	}
	return values, nil
}
