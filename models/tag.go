package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TagRef is either an existing WordPress tag id or the name of a tag that
// still has to be created remotely. On the wire it is a JSON number or string.
type TagRef struct {
	ID   int64
	Name string
}

func ExistingTag(id int64) TagRef {
	return TagRef{ID: id}
}

func NewTag(name string) TagRef {
	return TagRef{Name: name}
}

// IsNew reports whether the tag must be created before it can be referenced
func (t TagRef) IsNew() bool {
	return t.ID == 0
}

func (t TagRef) String() string {
	if t.IsNew() {
		return t.Name
	}
	return strconv.FormatInt(t.ID, 10)
}

func (t TagRef) MarshalJSON() ([]byte, error) {
	if t.IsNew() {
		return json.Marshal(t.Name)
	}
	return []byte(strconv.FormatInt(t.ID, 10)), nil
}

// UnmarshalJSON accepts 7, "7" and "newtag". Numeric strings are treated as ids.
func (t *TagRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("tag must be a number or a string")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseTagRef(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("tag must be a number or a string: %w", err)
	}
	id, err := n.Int64()
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid tag id %s", n)
	}
	*t = TagRef{ID: id}
	return nil
}

// ParseTagRef interprets a user-entered tag value.
func ParseTagRef(value string) (TagRef, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return TagRef{}, fmt.Errorf("tag name cannot be empty")
	}
	if id, err := strconv.ParseInt(value, 10, 64); err == nil && id > 0 {
		return TagRef{ID: id}, nil
	}
	return TagRef{Name: value}, nil
}

// TagIDs returns the ids of tags that already exist remotely, in order
func TagIDs(tags []TagRef) []int64 {
	ids := make([]int64, 0, len(tags))
	for _, t := range tags {
		if !t.IsNew() {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
