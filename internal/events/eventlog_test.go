package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	got []GameEvent
	err error
}

func (p *recordingPersister) Append(e GameEvent) error {
	p.got = append(p.got, e)
	return p.err
}

func TestAppendFillsIdentity(t *testing.T) {
	p := &recordingPersister{}
	el := NewEventLog(p)

	require.NoError(t, el.Append(GameEvent{Type: EventTypeTurnSkipped, ActorID: ActorPlayer, Year: 1, Week: 1}))

	require.Len(t, p.got, 1)
	assert.NotEmpty(t, p.got[0].ID)
	assert.False(t, p.got[0].Timestamp.IsZero())
	assert.Equal(t, el.GetByYear(1)[0].ID, p.got[0].ID)
}

func TestAppendKeepsEventWhenPersisterFails(t *testing.T) {
	el := NewEventLog(&recordingPersister{err: errors.New("disk full")})

	err := el.Append(GameEvent{Type: EventTypeWeekSettled, Year: 1, Week: 3})
	assert.Error(t, err)
	assert.Len(t, el.GetByYear(1), 1)
}

func TestQueries(t *testing.T) {
	el := NewEventLog(nil)
	for _, e := range []GameEvent{
		{Type: EventTypeFloorBuilt, Year: 1, Week: 1},
		{Type: EventTypeFloorBuilt, Year: 1, Week: 2},
		{Type: EventTypeTenantMovedIn, Year: 1, Week: 2},
		{Type: EventTypeFloorBuilt, Year: 2, Week: 1},
	} {
		require.NoError(t, el.Append(e))
	}

	assert.Len(t, el.GetByYear(1), 3)
	assert.Equal(t, map[EventType]int{EventTypeFloorBuilt: 2, EventTypeTenantMovedIn: 1}, el.CountByType(1))
	assert.NotEqual(t, GenerateEventID(), GenerateEventID())
}
