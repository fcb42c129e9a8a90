package env

import (
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	DefaultTrue  = []string{"1", "yes", "true", "on"}  // DefaultTrue are the values considered "true" when using [Source.Bool], and can be changed.
	DefaultFalse = []string{"0", "no", "false", "off"} // DefaultFalse are the values considered "false" when using [Source.Bool], and can be changed.
)

// Source reads environment variables that share a common prefix.
// Keys are joined to the prefix with an underscore and compared case-insensitive.
type Source struct {
	prefix string
	lookup func(string) (string, bool)
}

// Prefixed creates a [Source] for variables starting with prefix, e.g. Prefixed("SIGNALBUS").Int("WORKERS", 4) reads SIGNALBUS_WORKERS.
// An empty prefix reads keys as given.
func Prefixed(prefix string) *Source {
	return &Source{
		prefix: strings.TrimSuffix(strings.ToUpper(prefix), "_"),
		lookup: lookupFold,
	}
}

func lookupFold(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	for _, kv := range os.Environ() {
		k, v, found := strings.Cut(kv, "=")
		if found && strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// Key returns the full variable name for key.
func (s *Source) Key(key string) string {
	key = strings.ToUpper(key)
	if len(s.prefix) == 0 {
		return key
	}
	return s.prefix + "_" + key
}

// Val returns the trimmed value of the variable, or defaultVal if it's unset or blank.
func (s *Source) Val(key string, defaultVal string) string {
	val, ok := s.lookup(s.Key(key))
	if !ok {
		return defaultVal
	}
	val = strings.TrimSpace(val)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

// Bool interprets a variable as a boolean, using [DefaultTrue] and [DefaultFalse].
// The defaultVal will be returned if the variable isn't set, is empty, or can't be a boolean value.
func (s *Source) Bool(key string, defaultVal bool) bool {
	sval := strings.ToLower(s.Val(key, ""))
	if len(sval) == 0 {
		return defaultVal
	}
	for _, v := range DefaultTrue {
		if sval == v {
			return true
		}
	}
	for _, v := range DefaultFalse {
		if sval == v {
			return false
		}
	}
	return defaultVal
}

// Int will attempt to interpret a variable as an integer, returning the defaultVal if it isn't found or can't be a valid integer.
func (s *Source) Int(key string, defaultVal int) int {
	sval := s.Val(key, "")
	if len(sval) == 0 {
		return defaultVal
	}
	ival, err := strconv.Atoi(sval)
	if err != nil {
		return defaultVal
	}
	return ival
}

// Duration will attempt to interpret a variable as a [time.Duration], returning the defaultVal if it isn't found or can't be parsed.
func (s *Source) Duration(key string, defaultVal time.Duration) time.Duration {
	sval := s.Val(key, "")
	if len(sval) == 0 {
		return defaultVal
	}
	dval, err := time.ParseDuration(sval)
	if err != nil {
		return defaultVal
	}
	return dval
}
