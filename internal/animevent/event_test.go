package animevent

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestStamp_CopiesTemplate(t *testing.T) {
	t.Parallel()

	tmpl := NewTemplate(TypeFootstep, "shuffle")
	tmpl.BoneName = "Bip01 L Toe0"
	tmpl.Offset = r3.Vec{X: 0.1}

	placed := tmpl.Stamp(0.25)

	assert.Equal(t, 0.25, placed.StartTime)
	assert.Equal(t, 0.25, placed.EndTime)
	assert.Equal(t, "Bip01 L Toe0", placed.BoneName)
	assert.Equal(t, r3.Vec{X: 0.1}, placed.Offset)

	// template is untouched
	assert.Equal(t, Unplaced, tmpl.StartTime)
	assert.False(t, tmpl.IsPlaced())
	assert.True(t, placed.IsPlaced())
}

func TestIsConfigured(t *testing.T) {
	t.Parallel()
	assert.True(t, NewTemplate(TypeFoley, "").IsConfigured())
	assert.False(t, Event{}.IsConfigured())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		event   Event
		wantErr bool
	}{
		{"instant", Event{StartTime: 0.5, EndTime: 0.5}, false},
		{"range", Event{StartTime: 0.2, EndTime: 0.6}, false},
		{"reversed", Event{StartTime: 0.6, EndTime: 0.2}, true},
		{"unplaced template", NewTemplate(TypeFootstep, ""), false},
		{"end unplaced", Event{StartTime: 0.6, EndTime: Unplaced}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidRange))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStableSortByStart_PreservesTies(t *testing.T) {
	t.Parallel()

	events := []Event{
		{StartTime: 0.5, Type: TypeFootstep, BoneName: "L"},
		{StartTime: 0.2, Type: TypeFootstep, BoneName: "R"},
		{StartTime: 0.5, Type: TypeFoley, BoneName: "L"},
		{StartTime: 0.5, Type: TypeFootstep, BoneName: "R"},
		{StartTime: 0.1, Type: TypeFoley, BoneName: "R"},
	}

	StableSortByStart(events)

	want := []Event{
		{StartTime: 0.1, Type: TypeFoley, BoneName: "R"},
		{StartTime: 0.2, Type: TypeFootstep, BoneName: "R"},
		{StartTime: 0.5, Type: TypeFootstep, BoneName: "L"},
		{StartTime: 0.5, Type: TypeFoley, BoneName: "L"},
		{StartTime: 0.5, Type: TypeFootstep, BoneName: "R"},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("sorted events mismatch (-want +got):\n%s", diff)
	}
}

func TestSorted_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []Event{{StartTime: 0.9}, {StartTime: 0.1}}
	out := Sorted(in)

	assert.Equal(t, 0.9, in[0].StartTime)
	assert.Equal(t, 0.1, out[0].StartTime)
}

func TestContentAppend_IsPureAppend(t *testing.T) {
	t.Parallel()

	c := Content{Name: "walk", Events: []Event{{StartTime: 0.5, Type: "custom"}}}
	c.Append(Event{StartTime: 0.1, Type: TypeFootstep}, Event{StartTime: 0.5, Type: "custom"})

	require.Len(t, c.Events, 3)
	assert.Equal(t, "custom", c.Events[0].Type)
	assert.Equal(t, TypeFootstep, c.Events[1].Type)
	assert.Equal(t, "custom", c.Events[2].Type)
}

func TestEqual(t *testing.T) {
	t.Parallel()

	a := []Event{{StartTime: 0.1, Type: TypeFootstep}, {StartTime: 0.4, Type: TypeFoley}}
	b := []Event{{StartTime: 0.4, Type: TypeFoley}, {StartTime: 0.1, Type: TypeFootstep}}

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, b[:1]))
	assert.False(t, Equal(a, []Event{{StartTime: 0.1, Type: TypeFootstep}, {StartTime: 0.4, Type: TypeFootstep}}))
	assert.True(t, Equal(nil, nil))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	assert.True(t, r.Known(TypeFootstep))
	assert.True(t, r.Known(TypeFoley))
	assert.False(t, r.Known("swoosh"))

	events := []Event{
		{Type: TypeFootstep}, {Type: "swoosh"}, {Type: "audio"}, {Type: "swoosh"},
	}
	assert.Equal(t, []string{"audio", "swoosh"}, r.Unknown(events))

	r.Add("audio")
	assert.Equal(t, []string{"swoosh"}, r.Unknown(events))
}
