package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"
	"time"
)

const (
	QuestionTypeSingle   = "single"
	QuestionTypeMultiple = "multiple"
)

// OptionPair is one answer option. Keys come from a fixed canonical alphabet
// ("A".."H") so the pair list has a structurally enforced order and no duplicates.
type OptionPair struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// OptionList is an ordered set of options. It persists and serializes as a JSON
// object keyed by option letter, which is the wire shape clients expect; order is
// recovered by sorting the canonical keys.
type OptionList []OptionPair

func (o OptionList) toMap() map[string]string {
	m := make(map[string]string, len(o))
	for _, p := range o {
		m[p.Key] = p.Text
	}
	return m
}

func optionListFromMap(m map[string]string) OptionList {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make(OptionList, 0, len(keys))
	for _, k := range keys {
		list = append(list, OptionPair{Key: k, Text: m[k]})
	}
	return list
}

func (o OptionList) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.toMap())
}

func (o *OptionList) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*o = optionListFromMap(m)
	return nil
}

func (o OptionList) Value() (driver.Value, error) {
	b, err := json.Marshal(o.toMap())
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (o *OptionList) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case nil:
		*o = nil
		return nil
	default:
		return errors.New("unsupported type for OptionList")
	}
	return o.UnmarshalJSON(data)
}

// Text returns the option text for a key, or "" when the key is absent.
func (o OptionList) Text(key string) string {
	for _, p := range o {
		if p.Key == key {
			return p.Text
		}
	}
	return ""
}

// HasKey reports whether the key exists in the option set.
func (o OptionList) HasKey(key string) bool {
	for _, p := range o {
		if p.Key == key {
			return true
		}
	}
	return false
}

type Question struct {
	ID            uint       `gorm:"primary_key" json:"id"`
	CompetitionID *string    `gorm:"size:32;index" json:"competition_id"`
	Type          string     `gorm:"size:16;not null;default:'single'" json:"type"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	Options       OptionList `gorm:"type:text;not null" json:"options"`
	Answer        string     `gorm:"size:16;not null" json:"answer"`
	Explanation   string     `gorm:"type:text" json:"explanation"`
	CreatedAt     time.Time  `json:"created_at"`
}
