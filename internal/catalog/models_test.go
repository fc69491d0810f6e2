package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validEntry() Entry {
	return Entry{
		ID: "визитки_1", Category: "визитки", Group: "base",
		Answers:  map[string]string{"uk": "текст"},
		Priority: 10,
	}
}

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Entry)
		wantErr bool
	}{
		{"valid", func(e *Entry) {}, false},
		{"empty id", func(e *Entry) { e.ID = " " }, true},
		{"empty category", func(e *Entry) { e.Category = "" }, true},
		{"empty group", func(e *Entry) { e.Group = "" }, true},
		{"priority zero", func(e *Entry) { e.Priority = 0 }, true},
		{"priority too high", func(e *Entry) { e.Priority = 11 }, true},
		{"no answers", func(e *Entry) { e.Answers = nil }, true},
		{"triggerless upsell is valid", func(e *Entry) { e.Group = "materials"; e.Triggers = nil }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := validEntry()
			tc.mutate(&e)

			err := e.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformedEntry)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEntry_IsBase(t *testing.T) {
	e := validEntry()
	assert.True(t, e.IsBase())

	e.Group = "materials"
	assert.False(t, e.IsBase())
}

func TestEntry_HasTrigger(t *testing.T) {
	e := validEntry()
	e.Triggers = []string{"premium", "materials"}

	assert.True(t, e.HasTrigger("premium"))
	assert.False(t, e.HasTrigger("delivery"))
	base := validEntry()
	assert.False(t, base.HasTrigger("premium"))
}

func TestEntry_Answer(t *testing.T) {
	e := validEntry()

	text, ok := e.Answer("uk")
	assert.True(t, ok)
	assert.Equal(t, "текст", text)

	_, ok = e.Answer("ru")
	assert.False(t, ok)
}
