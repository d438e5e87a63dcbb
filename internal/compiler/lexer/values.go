package lexer

import (
	"errors"
	"math"
	"strconv"

	"github.com/arnavsurve/minisharp/internal/compiler/token"
)

func parseInt(raw string) (any, token.Tag) {
	if len(raw) > 1 && (raw[1] == 'x' || raw[1] == 'X') {
		u, err := strconv.ParseUint(raw[2:], 16, 32)
		if err != nil {
			return nil, numTag(err)
		}
		// 0xffffffff is -1
		return int32(uint32(u)), token.TagNone
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, numTag(err)
	}
	return int32(n), token.TagNone
}

func parseFloat(raw string) (any, token.Tag) {
	// "1." and "1.0e" are kept as tokens but have no value
	if last := raw[len(raw)-1]; last < '0' || last > '9' {
		return nil, token.TagFormat
	}
	f, err := strconv.ParseFloat(raw, 32)
	if math.IsInf(f, 0) {
		return nil, token.TagOverflow
	}
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, token.TagFormat
	}
	return float32(f), token.TagNone
}

func numTag(err error) token.Tag {
	if errors.Is(err, strconv.ErrRange) {
		return token.TagOverflow
	}
	return token.TagFormat
}
