// Package envfile reads and writes dotenv-style files. Only the subset the
// CLI needs is supported: NAME=VALUE lines, blank lines and # comments.
package envfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dberzins/envault/internal/cryptox"
)

// Parse converts dotenv text into variables. Quoted values are unquoted,
// comments and blank lines are skipped. Order of appearance is kept.
func Parse(data string) ([]cryptox.Variable, error) {
	var out []cryptox.Variable

	for i, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, value, found := strings.Cut(line, "=")
		name = strings.TrimSpace(strings.TrimPrefix(name, "export "))
		if !found || name == "" {
			return nil, fmt.Errorf("line %d: expected NAME=VALUE", i+1)
		}

		value = strings.TrimSpace(value)
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		out = append(out, cryptox.Variable{Name: name, Value: value})
	}

	return out, nil
}

// Format renders variables back to dotenv text, one NAME=VALUE per line.
func Format(vars []cryptox.Variable) string {
	var b strings.Builder
	for _, v := range vars {
		b.WriteString(v.Name)
		b.WriteByte('=')
		b.WriteString(v.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatSealed renders encrypted variables as dotenv text with envelope
// strings for values.
func FormatSealed(vars []cryptox.EncryptedVariable) string {
	var b strings.Builder
	for _, v := range vars {
		b.WriteString(v.Name)
		b.WriteByte('=')
		b.WriteString(v.Encrypted)
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatValues renders a name-to-value map as dotenv text in name order.
func FormatValues(values map[string]string) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(values[name])
		b.WriteByte('\n')
	}
	return b.String()
}
