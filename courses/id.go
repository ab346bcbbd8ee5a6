package courses

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const tempPrefix = "temp-"

// ID identifies a module or lesson. It is either an id assigned by the backend or a temporary
// marker such as "temp-1" for entities that have not been saved yet. The zero ID is neither.
type ID struct {
	n    int64
	temp string
}

func PersistedID(n int64) ID {
	return ID{n: n}
}

// TempID returns a temporary id, adding the "temp-" prefix when missing.
func TempID(key string) ID {
	if !strings.HasPrefix(key, tempPrefix) {
		key = tempPrefix + key
	}
	return ID{temp: key}
}

// ParseID reads a persisted integer id or a temporary marker. "" gives the zero ID.
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return PersistedID(n)
	}
	return TempID(s)
}

func (id ID) IsTemp() bool {
	return id.temp != ""
}

func (id ID) IsZero() bool {
	return id.temp == "" && id.n == 0
}

// Int64 returns the backend id, ok is false for temporary and zero ids.
func (id ID) Int64() (n int64, ok bool) {
	if id.IsTemp() || id.n == 0 {
		return 0, false
	}
	return id.n, true
}

func (id ID) String() string {
	if id.IsTemp() {
		return id.temp
	}
	if id.n == 0 {
		return ""
	}
	return strconv.FormatInt(id.n, 10)
}

// tempKey is the id without the "temp-" prefix, used to derive lesson ids from their module.
func (id ID) tempKey() string {
	return strings.TrimPrefix(id.String(), tempPrefix)
}

// MarshalJSON writes persisted ids as numbers and temporary ids as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	switch {
	case id.IsTemp():
		return json.Marshal(id.temp)
	case id.n == 0:
		return []byte("null"), nil
	default:
		return []byte(strconv.FormatInt(id.n, 10)), nil
	}
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ParseID(s)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*id = PersistedID(n)
	return nil
}

func (id ID) MarshalYAML() (interface{}, error) {
	switch {
	case id.IsTemp():
		return id.temp, nil
	case id.n == 0:
		return nil, nil
	default:
		return id.n, nil
	}
}

func (id *ID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: id must be a scalar", value.Line)
	}
	if value.Tag == "!!null" {
		*id = ID{}
		return nil
	}
	*id = ParseID(value.Value)
	return nil
}
