package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smazurov/wordclock/internal/logging"
)

// EnvPrefix is prepended to every `env` tag.
const EnvPrefix = "WORDCLOCK_"

// ErrNotStructPointer is returned when LoadConfig is not given a *struct.
var ErrNotStructPointer = errors.New("options must be a pointer to a struct")

// LoadConfig fills opts from the TOML file named by its Config field, then
// from WORDCLOCK_-prefixed environment variables. Fields whose flag was set
// on cmd are left alone, so the precedence is flag > env > file > default.
//
// Fields map to the file by a dotted `toml` tag ("display.layout") and to the
// environment by an `env` tag ("DISPLAY_LAYOUT"). A missing file is not an
// error; a malformed one is.
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	v = v.Elem()
	t := v.Type()

	changed := changedFlags(cmd)

	var file map[string]any
	if f := v.FieldByName("Config"); f.IsValid() && f.Kind() == reflect.String && f.String() != "" {
		data, err := os.ReadFile(f.String())
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("parse config %s: %w", f.String(), err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("read config %s: %w", f.String(), err)
		}
	}

	for i := range t.NumField() {
		sf := t.Field(i)
		field := v.Field(i)
		if !field.CanSet() || changed[flagName(sf)] {
			continue
		}

		if path := sf.Tag.Get("toml"); path != "" && file != nil {
			if value, ok := lookup(file, path); ok {
				if err := setFromTOML(field, value); err != nil {
					return fmt.Errorf("config %s: %w", path, err)
				}
			}
		}

		if key := sf.Tag.Get("env"); key != "" {
			if value, ok := os.LookupEnv(EnvPrefix + key); ok && value != "" {
				if err := setFromString(field, value); err != nil {
					return fmt.Errorf("env %s%s: %w", EnvPrefix, key, err)
				}
			}
		}
	}
	return nil
}

// LoadLoggingConfig reads the [logging] table. Missing files and tables fall
// back to info/text.
func LoadLoggingConfig(path string) logging.Config {
	cfg := logging.Config{Level: "info", Format: "text", Modules: map[string]string{}}
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	var doc struct {
		Logging logging.Config `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return cfg
	}
	if doc.Logging.Level != "" {
		cfg.Level = doc.Logging.Level
	}
	if doc.Logging.Format != "" {
		cfg.Format = doc.Logging.Format
	}
	for module, level := range doc.Logging.Modules {
		cfg.Modules[module] = level
	}
	return cfg
}

func changedFlags(cmd *cobra.Command) map[string]bool {
	changed := make(map[string]bool)
	if cmd == nil {
		return changed
	}
	visit := func(f *pflag.Flag) {
		if f.Changed {
			changed[f.Name] = true
		}
	}
	cmd.Flags().VisitAll(visit)
	cmd.PersistentFlags().VisitAll(visit)
	return changed
}

// flagName is the CLI flag for a field: its `name` tag, or the field name in
// kebab case with acronyms kept together ("MQTTAddr" -> "mqtt-addr").
func flagName(sf reflect.StructField) string {
	if name := sf.Tag.Get("name"); name != "" {
		return name
	}
	runes := []rune(sf.Name)
	var sb strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				sb.WriteByte('-')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

func lookup(doc map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	value, ok := current[parts[len(parts)-1]]
	return value, ok
}

var durationType = reflect.TypeFor[time.Duration]()

func setFromTOML(field reflect.Value, value any) error {
	if field.Type() == durationType {
		switch d := value.(type) {
		case string:
			return setFromString(field, d)
		case int64:
			field.SetInt(int64(time.Duration(d) * time.Millisecond))
			return nil
		}
		return fmt.Errorf("want duration, got %T", value)
	}

	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
			return nil
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
			return nil
		}
	case reflect.Int, reflect.Int64:
		if i, ok := value.(int64); ok {
			field.SetInt(i)
			return nil
		}
	case reflect.Float64:
		switch n := value.(type) {
		case float64:
			field.SetFloat(n)
			return nil
		case int64:
			field.SetFloat(float64(n))
			return nil
		}
	case reflect.Slice:
		items, ok := value.([]any)
		if ok && field.Type().Elem().Kind() == reflect.String {
			out := make([]string, 0, len(items))
			for _, item := range items {
				s, ok := item.(string)
				if !ok {
					return fmt.Errorf("want string list item, got %T", item)
				}
				out = append(out, s)
			}
			field.Set(reflect.ValueOf(out))
			return nil
		}
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

func setFromString(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice %s", field.Type())
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
