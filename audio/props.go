package audio

import (
	"fmt"
	"math"
	"sort"
)

// Device is the named-property view of a control handle.
type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
	Props() []string
}

// Props maps property names to the accessors of a control handle. All properties
// should be registered before the handle is shared.
type Props struct {
	getters map[string]getter
	setters map[string]setter
}

func NewProps() *Props {
	return &Props{
		getters: make(map[string]getter),
		setters: make(map[string]setter),
	}
}

// Set updates the property with value. The key has to be registered first using Register.
func (p *Props) Set(key string, value interface{}) error {
	if p == nil {
		return fmt.Errorf("unknown property %s", key)
	}
	set, ok := p.setters[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	if err := set(value); err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	return nil
}

func (p *Props) Get(key string) (interface{}, error) {
	if p == nil {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	get, ok := p.getters[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	return get(), nil
}

// Props returns the registered property names in sorted order.
func (p *Props) Props() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, 0, len(p.getters))
	for k := range p.getters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Register adds a new property.
func (p *Props) Register(key string, get getter, set setter) {
	p.getters[key] = get
	p.setters[key] = set
}

type (
	getter func() interface{}
	setter func(val interface{}) error
)

func setFloat64(min, max float64, dest func(float64)) setter {
	return func(v interface{}) error {
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case float32:
			f = float64(n)
		case int:
			f = float64(n)
		default:
			return fmt.Errorf("value is not a float64: %v", v)
		}
		if math.IsNaN(f) || f < min || f > max {
			return fmt.Errorf("property value is not in valid range %v - %v: %v", min, max, f)
		}
		dest(f)
		return nil
	}
}
