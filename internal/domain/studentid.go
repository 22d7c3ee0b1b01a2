package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// StudentID accepts either a JSON string or a JSON number, since roster IDs are
// numeric but clients send them both ways.
type StudentID string

func (s *StudentID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = StudentID(strings.TrimSpace(str))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = StudentID(n.String())
	return nil
}

func (s StudentID) String() string { return string(s) }
