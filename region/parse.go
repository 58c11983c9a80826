package region

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRegionString parses a region string of one of the forms
//
//	[chr]:[1-based first pos]-[last pos]
//	[chr]:[1-based pos]
//	[chr]
//
// returning a zero-based, half-open Region. The interval [0, MaxPos) is
// returned when there is no positional restriction. Grounded on
// grailbio-bio/interval.ParseRegionString, adapted from int32 BED
// coordinates to the wider Pos used here.
func ParseRegionString(s string) (Region, error) {
	if len(s) == 0 {
		return Region{}, fmt.Errorf("%w: empty region string", ErrMalformedRegionString)
	}
	colon := strings.IndexByte(s, ':')
	if colon == -1 {
		return Region{Chr: s, Start: 0, End: MaxPos, seq: nextSeq()}, nil
	}
	if colon == 0 {
		return Region{}, ErrEmptyChr
	}
	chr := s[:colon]
	rangeStr := s[colon+1:]
	dash := strings.IndexByte(rangeStr, '-')
	if dash == -1 {
		pos1, err := strconv.ParseInt(rangeStr, 10, 64)
		if err != nil {
			return Region{}, fmt.Errorf("%w: %v", ErrMalformedRegionString, err)
		}
		if pos1 <= 0 {
			return Region{}, fmt.Errorf("%w: position %d out of range", ErrMalformedRegionString, pos1)
		}
		return Region{Chr: chr, Start: pos1 - 1, End: pos1, seq: nextSeq()}, nil
	}
	start1Str := rangeStr[:dash]
	endStr := rangeStr[dash+1:]
	start1, err := strconv.ParseInt(start1Str, 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("%w: %v", ErrMalformedRegionString, err)
	}
	if start1 <= 0 {
		return Region{}, fmt.Errorf("%w: position %d out of range", ErrMalformedRegionString, start1)
	}
	end0, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("%w: %v", ErrMalformedRegionString, err)
	}
	if end0 <= start1 || end0 >= MaxPos {
		return Region{}, fmt.Errorf("%w: invalid range %q", ErrMalformedRegionString, rangeStr)
	}
	return Region{Chr: chr, Start: start1 - 1, End: end0, seq: nextSeq()}, nil
}
