package utils

import (
	"fmt"
	"strconv"
	"strings"
)

/*
ParseDim converts an index phrase into a half open loop range [i1, i2) over [0, max):

	":"   = full range, from 0 to max
	"end" = last index, from max-1 to max
	"N"   = single index, from N to N+1
	"2:N" = range, from 2 to N
	":N"  = range, from 0 to N
	"N:"  = range, from N to max
*/
func ParseDim(dim string, max int) (i1, i2 int, err error) {
	dim = strings.TrimSpace(dim)
	switch dim {
	case "end":
		i1, i2 = max-1, max
	case ":", "":
		i1, i2 = 0, max
	default:
		if i1, i2, err = parseRange(dim, max); err != nil {
			return
		}
	}
	if i1 < 0 || i2 > max || i1 >= i2 {
		err = fmt.Errorf("range %q resolves to [%d,%d) outside [0,%d)", dim, i1, i2, max)
	}
	return
}

func parseRange(dim string, max int) (i1, i2 int, err error) {
	var (
		splits = strings.Split(dim, ":")
	)
	if len(splits) > 2 {
		err = fmt.Errorf("unable to parse range %q", dim)
		return
	}
	if len(splits[0]) == 0 {
		i1 = 0
	} else if i1, err = strconv.Atoi(splits[0]); err != nil {
		return
	}
	if len(splits) == 1 {
		i2 = i1 + 1
		return
	}
	if len(splits[1]) == 0 {
		i2 = max
	} else if i2, err = strconv.Atoi(splits[1]); err != nil {
		return
	}
	return
}
