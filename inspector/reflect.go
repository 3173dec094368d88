package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"skip":  WidgetSkip,
}

// Hint is the parsed form of an `inspect` struct tag:
//
//	`inspect:"bar,max:255"`
//	`inspect:"label,fmt:%.1f"`
//	`inspect:"skip"`
//
// Unknown widgets fall back to auto and unknown options are ignored.
type Hint struct {
	Widget Widget
	Format string  // fmt verb for labels; empty uses the default per kind
	Max    float32 // full-scale value for bars
}

// ParseTag parses an inspect tag.
func ParseTag(tag string) Hint {
	h := Hint{Max: 1}
	if tag == "" {
		return h
	}
	name, rest, _ := strings.Cut(tag, ",")
	h.Widget = widgetNames[strings.TrimSpace(name)]

	for _, opt := range strings.Split(rest, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(opt), ":")
		if !ok {
			continue
		}
		switch key {
		case "fmt":
			h.Format = val
		case "max":
			if m, err := strconv.ParseFloat(val, 32); err == nil && m > 0 {
				h.Max = float32(m)
			}
		}
	}
	return h
}

// Field is one exported component field ready to draw.
type Field struct {
	Component string
	Name      string
	Value     any
	Hint
}

// ExtractFields lists the visible exported fields of a struct or struct pointer.
func ExtractFields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}
	t := v.Type()

	var fields []Field
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		h := ParseTag(sf.Tag.Get("inspect"))
		switch h.Widget {
		case WidgetSkip:
			continue
		case WidgetAuto:
			h.Widget = WidgetLabel
		}
		fields = append(fields, Field{
			Component: t.Name(),
			Name:      sf.Name,
			Value:     v.Field(i).Interface(),
			Hint:      h,
		})
	}
	return fields
}

// Text formats the value for a label.
func (f Field) Text() string {
	if f.Format != "" {
		return fmt.Sprintf(f.Format, f.Value)
	}
	switch v := f.Value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprint(v)
	}
}

// Float returns numeric values as float32.
func (f Field) Float() (float32, bool) {
	v := reflect.ValueOf(f.Value)
	switch {
	case v.CanFloat():
		return float32(v.Float()), true
	case v.CanInt():
		return float32(v.Int()), true
	case v.CanUint():
		return float32(v.Uint()), true
	}
	return 0, false
}

// Ratio is the bar fill in [0,1].
func (f Field) Ratio() float32 {
	v, ok := f.Float()
	if !ok {
		return 0
	}
	return max(0, min(1, v/f.Max))
}
