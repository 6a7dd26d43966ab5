package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	AnswerKindText   = "text"
	AnswerKindChoice = "choice"
	AnswerKindMulti  = "multi"
)

var ErrUnknownAnswerShape = errors.New("answer must be a string, a number or a list of strings")

// AnswerValue is the tagged form of the polymorphic answer payload.
// On the wire it stays the bare value (string | number | []string) so
// existing clients keep working; in storage it keeps the tagged JSON.
type AnswerValue struct {
	Kind   string   `json:"kind"`
	Text   string   `json:"text,omitempty"`
	Choice int      `json:"choice,omitempty"`
	Texts  []string `json:"texts,omitempty"`
}

func TextAnswer(s string) AnswerValue {
	return AnswerValue{Kind: AnswerKindText, Text: s}
}

func ChoiceAnswer(i int) AnswerValue {
	return AnswerValue{Kind: AnswerKindChoice, Choice: i}
}

func MultiAnswer(ss []string) AnswerValue {
	return AnswerValue{Kind: AnswerKindMulti, Texts: ss}
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AnswerKindText:
		return json.Marshal(v.Text)
	case AnswerKindChoice:
		return json.Marshal(v.Choice)
	case AnswerKindMulti:
		if v.Texts == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.Texts)
	}
	return nil, fmt.Errorf("unknown answer kind %q", v.Kind)
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = TextAnswer(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*v = ChoiceAnswer(n)
		return nil
	}
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*v = MultiAnswer(ss)
		return nil
	}
	return ErrUnknownAnswerShape
}

// tagged carries the storage representation so Value/Scan do not recurse
// through the wire-shaped MarshalJSON above.
type tagged AnswerValue

func (v AnswerValue) Value() (driver.Value, error) {
	b, err := json.Marshal(tagged(v))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (v *AnswerValue) Scan(src interface{}) error {
	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	case nil:
		*v = AnswerValue{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into AnswerValue", src)
	}
	var t tagged
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	*v = AnswerValue(t)
	return nil
}
