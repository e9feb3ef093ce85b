package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeJSON(t *testing.T) {
	tests := []struct {
		outcome Outcome
		json    string
	}{
		{OutcomeUnknown, "null"},
		{OutcomeCorrect, "true"},
		{OutcomeIncorrect, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			data, err := json.Marshal(tt.outcome)
			require.NoError(t, err)
			assert.Equal(t, tt.json, string(data))

			var got Outcome = 99
			require.NoError(t, json.Unmarshal([]byte(tt.json), &got))
			assert.Equal(t, tt.outcome, got)
		})
	}
}

func TestOutcomeUnmarshalRejectsNonBool(t *testing.T) {
	var o Outcome
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &o))
}

func TestOutcomeScan(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want Outcome
	}{
		{"null", nil, OutcomeUnknown},
		{"bool true", true, OutcomeCorrect},
		{"bool false", false, OutcomeIncorrect},
		{"sqlite int", int64(1), OutcomeCorrect},
		{"sqlite zero", int64(0), OutcomeIncorrect},
		{"text", []byte("t"), OutcomeCorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o Outcome
			require.NoError(t, o.Scan(tt.src))
			assert.Equal(t, tt.want, o)
		})
	}

	var o Outcome
	assert.Error(t, o.Scan(3.5))
}

func TestOutcomeValue(t *testing.T) {
	v, err := OutcomeUnknown.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = OutcomeIncorrect.Value()
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestProgressStoreGet(t *testing.T) {
	store := ProgressStore{"a": {CorrectAttempts: 1, Repetitions: 1, Interval: 1, EaseFactor: 2.5}}

	assert.Equal(t, 1, store.Get("a").CorrectAttempts)
	assert.Equal(t, NewProgressRecord(), store.Get("missing"))

	_, ok := store.Lookup("missing")
	assert.False(t, ok)

	var nilStore ProgressStore
	assert.Equal(t, DefaultEaseFactor, nilStore.Get("x").EaseFactor)
}

func TestProgressRecordValidate(t *testing.T) {
	valid := NewProgressRecord()
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(*ProgressRecord)
	}{
		{"negative correct", func(p *ProgressRecord) { p.CorrectAttempts = -1 }},
		{"negative incorrect", func(p *ProgressRecord) { p.IncorrectAttempts = -2 }},
		{"negative repetitions", func(p *ProgressRecord) { p.Repetitions = -1 }},
		{"negative interval", func(p *ProgressRecord) { p.Interval = -1 }},
		{"negative timestamp", func(p *ProgressRecord) { p.LastReviewed = -5 }},
		{"ease too low", func(p *ProgressRecord) { p.EaseFactor = 1.2 }},
		{"ease too high", func(p *ProgressRecord) { p.EaseFactor = 2.6 }},
		{"bad outcome", func(p *ProgressRecord) { p.LastAttemptCorrect = 7 }},
		{"NaN ease", func(p *ProgressRecord) { p.EaseFactor = math.NaN() }},
		{"infinite ease", func(p *ProgressRecord) { p.EaseFactor = math.Inf(1) }},
		{"NaN interval", func(p *ProgressRecord) { p.Interval = math.NaN() }},
		{"infinite interval", func(p *ProgressRecord) { p.Interval = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgressRecord()
			tt.modify(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestCorruptRecordError(t *testing.T) {
	reason := errors.New("missing fields [interval]")
	err := error(&CorruptRecordError{ItemID: "w1", Reason: reason})

	assert.True(t, errors.Is(err, ErrCorruptProgressState))
	assert.True(t, errors.Is(err, reason))
	assert.Contains(t, err.Error(), `"w1"`)

	var target *CorruptRecordError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "w1", target.ItemID)
}
