package file

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix marks environment variables that override config keys.
// LEXA_LLM_BASE_URL maps to llm.base_url: the first underscore after the
// prefix becomes the section separator.
const EnvPrefix = "LEXA_"

// providerKeyEnv maps provider API key variables to the provider name.
var providerKeyEnv = map[string]string{
	"OPENAI_API_KEY":    "openai",
	"ANTHROPIC_API_KEY": "anthropic",
	"GEMINI_API_KEY":    "gemini",
}

// Environment returns the process environment merged over the variables in
// dotenvPath. A missing dotenv file is not an error. Process variables win.
func Environment(dotenvPath string) (map[string]string, error) {
	env := make(map[string]string)
	if dotenvPath != "" {
		fromFile, err := godotenv.Read(dotenvPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		for k, v := range fromFile {
			env[k] = v
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env, nil
}

// EnvKey converts a LEXA_ variable name to a config key.
// It returns false for names without the prefix or without a section.
func EnvKey(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, EnvPrefix)
	if !ok {
		return "", false
	}
	section, field, ok := strings.Cut(strings.ToLower(rest), "_")
	if !ok || section == "" || field == "" {
		return "", false
	}
	return section + "." + field, true
}

// ApplyEnv installs overrides from env. LEXA_ variables override their key.
// Provider API key variables fill llm.api_key and embedding.api_key when the
// configured provider matches and no key is set.
func (s *ConfigStore) ApplyEnv(env map[string]string) {
	overrides := make(map[string]string)
	for name, value := range env {
		if key, ok := EnvKey(name); ok {
			overrides[key] = value
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = overrides

	for _, section := range []string{"llm", "embedding"} {
		keyName := section + ".api_key"
		if s.stringLocked(keyName) != "" {
			continue
		}
		provider := s.stringLocked(section + ".provider")
		for envName, p := range providerKeyEnv {
			if p == provider && env[envName] != "" {
				s.overrides[keyName] = env[envName]
			}
		}
	}
}

// stringLocked reads a string value. Caller must hold the lock.
func (s *ConfigStore) stringLocked(key string) string {
	if v, ok := s.overrides[key]; ok {
		return v
	}
	str, _ := s.data[key].(string)
	return str
}
