// Package template renders text/template expressions used by node properties,
// coercing the rendered text back into structured values.
package template

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/spf13/cast"
)

var funcs = template.FuncMap{
	"float": func(v any) float64 {
		return cast.ToFloat64(v)
	},
	"int": func(v any) int {
		return cast.ToInt(v)
	},
	"str": func(v any) string {
		return cast.ToString(v)
	},
	"default": func(def, v any) any {
		if v == nil {
			return def
		}

		return v
	},
	"rand": func(max int) int {
		if max <= 0 {
			return 0
		}

		num := make([]byte, 1)

		_, err := rand.Read(num)
		if err != nil {
			return 0
		}

		return int(num[0]) % max
	},
}

// Render executes templateStr against data. The output is returned as a JSON
// object or array when it looks like one, then as a number or bool when it
// parses as one, and otherwise as a trimmed string.
func Render(templateStr string, data any) (any, error) {
	tmpl, err := template.New("expr").Option("missingkey=zero").Funcs(funcs).Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", templateStr, err)
	}

	var buf strings.Builder

	err = tmpl.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute template '%s': %w", templateStr, err)
	}

	result := strings.TrimSpace(buf.String())

	if (strings.HasPrefix(result, "{") && strings.HasSuffix(result, "}")) ||
		(strings.HasPrefix(result, "[") && strings.HasSuffix(result, "]")) {
		var jsonResult any

		err := json.Unmarshal([]byte(result), &jsonResult)
		if err != nil {
			return nil, fmt.Errorf("failed to parse json '%s': %w", templateStr, err)
		}

		return jsonResult, nil
	}

	if num, err := strconv.ParseFloat(result, 64); err == nil {
		return num, nil
	}

	if b, err := strconv.ParseBool(result); err == nil {
		return b, nil
	}

	if result == "<no value>" {
		return nil, nil
	}

	return result, nil
}

// Truthy converts a rendered value into a condition outcome. Strings that
// parse as booleans use that value, other non-empty strings are true, numbers
// are true when non-zero and collections when non-empty.
func Truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}

		return v != ""
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return cast.ToFloat64(v) != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return false
	}
}
