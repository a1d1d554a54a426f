package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Capacity is the system capacity K: a positive integer or +Inf.
// The float64 representation keeps "no limit" explicit instead of overloading zero.
type Capacity float64

// Unbounded is the infinite-buffer capacity.
var Unbounded = Capacity(math.Inf(1))

// FiniteCapacity returns K as a Capacity.
func FiniteCapacity(k int) Capacity {
	return Capacity(k)
}

// IsFinite reports whether the capacity is a finite number.
func (c Capacity) IsFinite() bool {
	return !math.IsInf(float64(c), 1)
}

// Int returns K. Callers must check IsFinite first.
func (c Capacity) Int() int {
	return int(c)
}

func (c Capacity) String() string {
	if !c.IsFinite() {
		return "inf"
	}
	return strconv.FormatFloat(float64(c), 'f', -1, 64)
}

// ParseCapacity parses collaborator input. Empty text and "inf" mean unbounded.
func ParseCapacity(s string) (Capacity, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "inf", "+inf", ".inf", "infinity":
		return Unbounded, nil
	}
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, &InvalidParameterError{Param: "capacity", Value: s, Reason: "must be an integer or empty for infinity"}
	}
	return Capacity(k), nil
}

func (c Capacity) MarshalJSON() ([]byte, error) {
	if !c.IsFinite() {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(c))
}

func (c *Capacity) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*c = Unbounded
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		parsed, err := ParseCapacity(str)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("capacity: %w", err)
	}
	*c = Capacity(f)
	return nil
}

func (c Capacity) MarshalYAML() (interface{}, error) {
	if !c.IsFinite() {
		return "inf", nil
	}
	return c.Int(), nil
}

func (c *Capacity) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*c = Unbounded
		return nil
	}
	var f float64
	if err := node.Decode(&f); err == nil {
		*c = Capacity(f)
		return nil
	}
	parsed, err := ParseCapacity(node.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
