// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/reel-player/reel/color"
	"github.com/reel-player/reel/constant"
	"github.com/reel-player/reel/key"
	"github.com/reel-player/reel/style"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
	// Unit is appended to displayed values of numeric fields, e.g. "ms".
	Unit string
	// Min is the smallest accepted value of an int field.
	Min mo.Option[int]
}

// Format renders v with the field's unit.
func (f *Field) Format(v any) string {
	if f.Unit == "" {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%v %s", v, f.Unit)
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Reel + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON includes the current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Unit        string `json:"unit,omitempty"`
		Min         *int   `json:"min,omitempty"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
		Unit:        f.Unit,
		Min:         f.Min.ToPointer(),
	})
}

// Bounds describes the accepted range of the field, or "" when it has none.
func (f *Field) Bounds() string {
	if lower, ok := f.Min.Get(); ok {
		return "at least " + f.Format(lower)
	}
	return ""
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Parse converts raw command line text into the type of the field's default.
func (f *Field) Parse(raw string) (any, error) {
	switch f.Value.(type) {
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer value for %s: %s", f.Key, raw)
		}
		if lower, ok := f.Min.Get(); ok && v < lower {
			return nil, fmt.Errorf("%s must be at least %s, got %s", f.Key, f.Format(lower), f.Format(v))
		}
		return v, nil
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value for %s: %s", f.Key, raw)
		}
		return v, nil
	default:
		return raw, nil
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

// Closest returns the registered key nearest to k by edit distance.
func Closest(k string) string {
	return lo.MinBy(lo.Keys(Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
}

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	// quantity registers an int field displayed with unit and bounded below by min.
	quantity := func(k string, v int, unit string, lower int, desc string) {
		register(k, v, desc)
		field := Default[k]
		field.Unit = unit
		field.Min = mo.Some(lower)
		Default[k] = field
	}

	quantity(key.PlayerPreloadMs, 50, "ms", 0, "How far ahead of the clock audio is decoded")
	quantity(key.PlayerStepMs, 16, "ms", 1, "Time added to the clock per tick when not running in realtime, and the tick interval otherwise")
	register(key.PlayerRealtime, true, "Derive elapsed time from the wall clock between ticks")
	quantity(key.AudioDefaultBlockSize, 1024, "sample frames", 1, "Audio block size used when a device reports none")
	quantity(key.AudioDeviceRate, 48000, "Hz", 1, "Sample rate of the file audio device")
	quantity(key.AudioDeviceChannels, 2, "channels", 1, "Channel count of the file audio device")
	register(key.AudioPreload, true, "Load the whole audio track into memory when opening a movie")
	quantity(key.VideoFrameEvery, 1, "frames", 1, "Write one in every N presented frames when dumping video")
	register(key.HistorySave, true, "Save a history record after each playback")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")

	if len(Default) != key.DefinedFieldsCount {
		panic(fmt.Sprintf("registered %d config fields, expected %d", len(Default), key.DefinedFieldsCount))
	}
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"unit":     func(f *Field, v any) string { return f.Format(v) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ if .Unit }}{{ unit . (value .Key) }}{{ else }}{{ hl (value .Key) }}{{ end }}
{{ blue "Default:" }} {{ if .Unit }}{{ unit . .Value }}{{ else }}{{ hl .Value }}{{ end }}
{{ blue "Type:" }}    {{ typename .Value }}{{ with .Bounds }}, {{ . }}{{ end }}`))
