package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Quantity is a whole-number count that clients may send either as a JSON
// number or as a numeric string ("5").
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*q = 0
			return nil
		}
		data = []byte(s)
	}

	// parseInt semantics: "5.7" counts as 5
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(f) {
		return fmt.Errorf("invalid quantity %q", string(data))
	}
	f = math.Trunc(f)
	if f >= math.MaxInt || f < math.MinInt {
		return fmt.Errorf("quantity %q out of range", string(data))
	}
	*q = Quantity(int(f))
	return nil
}
