package db

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/banshee-data/footfall/internal/animevent"
	"github.com/banshee-data/footfall/internal/timeutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func stepAt(t float64, bone string) animevent.Event {
	e := animevent.NewTemplate(animevent.TypeFootstep, "")
	e.BoneName = bone
	return e.Stamp(t)
}

func TestEventStore_Runs(t *testing.T) {
	store := setupTestDB(t).Events()

	walk := &Run{
		CharacterName: "walker",
		AnimationName: "walk",
		AnimationPath: "anims/walk.json",
		LengthSeconds: 1.2,
		FrameCount:    36,
		EventCount:    4,
		ParamsJSON:    json.RawMessage(`{"foot_height_mm":50}`),
		CreatedAt:     100,
	}
	require.NoError(t, store.InsertRun(walk))
	assert.NotEmpty(t, walk.RunID)

	run := &Run{CharacterName: "walker", AnimationName: "run", LengthSeconds: 0.8, FrameCount: 24, CreatedAt: 200}
	require.NoError(t, store.InsertRun(run))

	got, err := store.GetRun(walk.RunID)
	require.NoError(t, err)
	if diff := cmp.Diff(walk, got); diff != "" {
		t.Errorf("GetRun mismatch (-want +got):\n%s", diff)
	}

	all, err := store.ListRuns("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, run.RunID, all[0].RunID, "newest first")
	assert.Nil(t, all[0].ParamsJSON)

	walks, err := store.ListRuns("walk")
	require.NoError(t, err)
	require.Len(t, walks, 1)
	assert.Equal(t, walk.RunID, walks[0].RunID)
}

func TestEventStore_GetRunNotFound(t *testing.T) {
	store := setupTestDB(t).Events()

	_, err := store.GetRun("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestEventStore_InsertRunDuplicateID(t *testing.T) {
	store := setupTestDB(t).Events()

	r := &Run{RunID: "fixed", CharacterName: "c", AnimationName: "a"}
	require.NoError(t, store.InsertRun(r))
	assert.Error(t, store.InsertRun(&Run{RunID: "fixed", CharacterName: "c", AnimationName: "a"}))
}

func TestEventStore_SaveAnimationEvents(t *testing.T) {
	store := setupTestDB(t).Events()
	const path = "anims/walk.json"

	custom := animevent.Event{
		StartTime: 0.5, EndTime: 0.6, Type: "custom", Parameter: "p",
		Offset: r3.Vec{X: 1, Y: 2, Z: 3}, Direction: r3.Vec{Z: 1}, Model: "dust.cgf",
	}
	events := []animevent.Event{
		stepAt(0.7, "Bip01 R Toe0"),
		custom,
		stepAt(0.2, "Bip01 L Toe0"),
	}

	changed, err := store.SaveAnimationEvents(path, events)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := store.ListAnimationEvents(path)
	require.NoError(t, err)
	if diff := cmp.Diff(animevent.Sorted(events), got); diff != "" {
		t.Errorf("stored events mismatch (-want +got):\n%s", diff)
	}

	// same set in a different order is not a change
	reordered := []animevent.Event{events[2], events[0], events[1]}
	changed, err = store.SaveAnimationEvents(path, reordered)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = store.SaveAnimationEvents(path, events[:1])
	require.NoError(t, err)
	assert.True(t, changed)
	got, err = store.ListAnimationEvents(path)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	other, err := store.ListAnimationEvents("anims/run.json")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestEventStore_SaveEmptyWhenNothingStored(t *testing.T) {
	store := setupTestDB(t).Events()

	changed, err := store.SaveAnimationEvents("anims/idle.json", nil)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestEventStore_SaveRejectsInvalidRange(t *testing.T) {
	store := setupTestDB(t).Events()

	bad := animevent.Event{StartTime: 0.8, EndTime: 0.2, Type: "custom"}
	_, err := store.SaveAnimationEvents("anims/walk.json", []animevent.Event{bad})
	assert.ErrorIs(t, err, animevent.ErrInvalidRange)

	got, err := store.ListAnimationEvents("anims/walk.json")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEventStore_SaveRejectsUnplacedTemplate(t *testing.T) {
	store := setupTestDB(t).Events()

	placed := animevent.Event{StartTime: 0.1, EndTime: 0.1, Type: animevent.TypeFootstep}
	tmpl := animevent.NewTemplate(animevent.TypeFootstep, "Bip01 L Toe0")
	_, err := store.SaveAnimationEvents("anims/walk.json", []animevent.Event{placed, tmpl})
	assert.ErrorIs(t, err, ErrUnplacedEvent)

	got, err := store.ListAnimationEvents("anims/walk.json")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEventStore_ClockStamps(t *testing.T) {
	conn := setupTestDB(t)
	store := conn.Events()
	clock := timeutil.NewMockClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	store.SetClock(clock)

	r := &Run{CharacterName: "walker", AnimationName: "walk"}
	require.NoError(t, store.InsertRun(r))
	assert.Equal(t, clock.Now().UnixNano(), r.CreatedAt)

	clock.Advance(time.Minute)
	_, err := store.SaveAnimationEvents("anims/walk.json", []animevent.Event{stepAt(0.3, "Bip01 L Toe0")})
	require.NoError(t, err)

	var updated int64
	require.NoError(t, conn.QueryRow(`SELECT updated_at FROM animation_events WHERE animation_path = ?`, "anims/walk.json").Scan(&updated))
	assert.Equal(t, clock.Now().UnixNano(), updated)
}
