package loader

import (
	"os"
	"strconv"
	"strings"
	"unicode"
)

// DefaultEnvPrefix is the prefix of recognised environment variables.
const DefaultEnvPrefix = "MACROS_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "MACROS_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// WithEnviron replaces the environment source, for tests.
func (l *EnvLoader) WithEnviron(environ func() []string) *EnvLoader {
	l.environ = environ
	return l
}

// defaultEnvMapping returns variables whose path cannot be derived by name.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":          "logging.level",
		prefix + "ZOOM_LEVEL":         "window.zoomLevel",
		prefix + "PRESENTATION_MIN":   "macros.presentation.min",
		prefix + "PRESENTATION_MAX":   "macros.presentation.max",
		prefix + "DATE_ZERO_PAD":      "macros.date.zeroPad",
		prefix + "TESTGEN_UNRESOLVED": "testgen.unresolved",
		prefix + "TESTGEN_QUOTES":     "testgen.quotes",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Load reads environment variables and returns a configuration map.
// Empty values are treated as set.
func (l *EnvLoader) Load() map[string]any {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		setPath(config, path, parseValue(value))
	}

	return config
}

// envToPath converts MACROS_TESTGEN_CONTAINERS to testgen.containers and
// MACROS_EDITOR_TAB_SIZE to editor.tabSize.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.ToLower(strings.TrimPrefix(env, l.prefix)), "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}

	var key strings.Builder
	key.WriteString(parts[1])
	for _, p := range parts[2:] {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		key.WriteString(string(r))
	}
	return parts[0] + "." + key.String()
}

// parseValue infers bool and integer values; everything else is a string.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func setPath(m map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}
