package request

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a latitude or longitude that may be left blank, which a
// plain float field cannot tell apart from zero.
type Coordinate struct {
	Value float64
	Valid bool
}

func NewCoordinate(v float64) Coordinate {
	return Coordinate{Value: v, Valid: true}
}

// UnmarshalParam is used by gin form binding.
func (c *Coordinate) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		*c = Coordinate{}
		return nil
	}

	v, err := strconv.ParseFloat(param, 64)
	if err != nil || !finite(v) {
		return fmt.Errorf("%q is not a coordinate", param)
	}
	*c = NewCoordinate(v)

	return nil
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = Coordinate{}
		return nil
	}

	if len(data) > 1 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}

		return c.UnmarshalParam(s)
	}

	return c.UnmarshalParam(string(data))
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}

	return []byte(c.String()), nil
}

func (c Coordinate) String() string {
	if !c.Valid {
		return ""
	}

	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}

var errCoordinateRequired = errors.New("cannot be blank")

func coordinateIn(min, max float64) func(value interface{}) error {
	return func(value interface{}) error {
		c, _ := value.(Coordinate)
		if !c.Valid {
			return errCoordinateRequired
		}
		if !finite(c.Value) || c.Value < min || c.Value > max {
			return fmt.Errorf("must be between %v and %v", min, max)
		}

		return nil
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
