package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValueWireShapes(t *testing.T) {
	tests := []struct {
		name string
		wire string
		want AnswerValue
	}{
		{name: "free text", wire: `"photosynthesis"`, want: TextAnswer("photosynthesis")},
		{name: "option index", wire: `2`, want: ChoiceAnswer(2)},
		{name: "zero index", wire: `0`, want: ChoiceAnswer(0)},
		{name: "list of text", wire: `["a","c"]`, want: MultiAnswer([]string{"a", "c"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v AnswerValue
			require.NoError(t, json.Unmarshal([]byte(tt.wire), &v))
			assert.Equal(t, tt.want, v)

			// The bare wire shape survives a marshal round trip.
			out, err := json.Marshal(v)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wire, string(out))
		})
	}
}

func TestAnswerValueRejectsUnknownShape(t *testing.T) {
	var v AnswerValue
	err := json.Unmarshal([]byte(`{"weird":true}`), &v)
	assert.ErrorIs(t, err, ErrUnknownAnswerShape)
}

func TestAnswerValueStorageKeepsTag(t *testing.T) {
	stored, err := ChoiceAnswer(3).Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"choice","choice":3}`, stored.(string))

	var back AnswerValue
	require.NoError(t, back.Scan(stored))
	assert.Equal(t, ChoiceAnswer(3), back)
}

func TestAnswerValueScanBytes(t *testing.T) {
	var v AnswerValue
	require.NoError(t, v.Scan([]byte(`{"kind":"multi","texts":["x"]}`)))
	assert.Equal(t, MultiAnswer([]string{"x"}), v)
}
