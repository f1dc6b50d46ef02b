package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is the id of a related record. The backend sends references either as
// a bare id or as the populated document; both decode to the id.
type Ref string

// UnmarshalJSON accepts "id", null, or {"_id": "id", ...}.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}
	if data[0] == '{' {
		var doc struct {
			MongoID string `json:"_id"`
			ID      string `json:"id"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		if doc.MongoID != "" {
			*r = Ref(doc.MongoID)
		} else {
			*r = Ref(doc.ID)
		}
		return nil
	}
	return fmt.Errorf("model: unsupported reference %s", data)
}

// String returns the id.
func (r Ref) String() string { return string(r) }

// Refs is a list of references.
type Refs []Ref

// Strings returns the ids as plain strings.
func (rs Refs) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

// Contains reports whether id is referenced.
func (rs Refs) Contains(id string) bool {
	for _, r := range rs {
		if string(r) == id {
			return true
		}
	}
	return false
}
