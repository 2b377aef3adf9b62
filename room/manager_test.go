package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerCreateAndList(t *testing.T) {
	m := NewManager(flatLevel(), Options{})
	defer m.Close()

	a := m.CreateRoom()
	b := m.CreateRoom()

	assert.Len(t, a, 6)
	assert.NotEqual(t, a, b)
	for _, c := range a {
		assert.Contains(t, codeChars, string(c))
	}

	rooms := m.ListRooms()
	require.Len(t, rooms, 2)
	assert.Less(t, rooms[0].Code, rooms[1].Code)
	assert.ElementsMatch(t, []string{a, b}, []string{rooms[0].Code, rooms[1].Code})
	assert.Equal(t, "flat", rooms[0].Level)

	r, ok := m.Get(a)
	require.True(t, ok)
	assert.Equal(t, a, r.Code)
}

func TestManagerGetOrCreateRoom(t *testing.T) {
	m := NewManager(flatLevel(), Options{})
	defer m.Close()

	assert.Nil(t, m.GetOrCreateRoom(""))

	r1 := m.GetOrCreateRoom("HILLS1")
	r2 := m.GetOrCreateRoom("HILLS1")
	assert.Same(t, r1, r2)

	_, ok := m.Get("NOPE22")
	assert.False(t, ok)
}

func TestManagerRoomsDoNotShareTerrain(t *testing.T) {
	m := NewManager(flatLevel(), Options{})
	defer m.Close()

	r1 := m.GetOrCreateRoom("AAAAAA")
	r2 := m.GetOrCreateRoom("BBBBBB")
	assert.NotSame(t, r1.Terrain(), r2.Terrain())
}

func TestManagerRemovesEmptyRoom(t *testing.T) {
	m := NewManager(flatLevel(), Options{})
	defer m.Close()

	r := m.GetOrCreateRoom("EMPTY2")
	fc := &fakeConn{sendCh: make(chan []byte, 256)}
	id := join(t, r, fc)
	assert.Equal(t, 1, m.ListRooms()[0].Clients)

	r.Inbox <- Leave{ClientID: id}

	assert.Eventually(t, func() bool {
		_, ok := m.Get("EMPTY2")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestManagerClose(t *testing.T) {
	m := NewManager(flatLevel(), Options{})
	m.CreateRoom()
	m.CreateRoom()

	m.Close()

	assert.Empty(t, m.ListRooms())
}

func TestManagerJoinAfterRoomRemoved(t *testing.T) {
	m := NewManager(flatLevel(), Options{})
	defer m.Close()

	stale := m.GetOrCreateRoom("RACE01")
	m.removeRoom(stale)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := stale.Join(ctx, &fakeConn{sendCh: make(chan []byte, 64)}, "late")
	require.ErrorIs(t, err, ErrClosed)

	r, id, err := m.Join(ctx, "RACE01", &fakeConn{sendCh: make(chan []byte, 64)}, "late")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NotSame(t, stale, r)

	got, ok := m.Get("RACE01")
	require.True(t, ok)
	assert.Same(t, r, got)
	assert.Equal(t, 1, r.NumPlayers())
}

func TestManagerJoinWhileRoomEmpties(t *testing.T) {
	m := NewManager(flatLevel(), Options{})
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i := 0; i < 20; i++ {
		first, id, err := m.Join(ctx, "CHURN1", &fakeConn{sendCh: make(chan []byte, 256)}, "first")
		require.NoError(t, err)

		first.Post(Leave{ClientID: id})
		r, _, err := m.Join(ctx, "CHURN1", &fakeConn{sendCh: make(chan []byte, 256)}, "second")
		require.NoError(t, err)

		select {
		case <-r.Done():
			t.Fatalf("round %d: joined a room that stopped", i)
		default:
		}
		got, ok := m.Get("CHURN1")
		require.True(t, ok)
		require.Same(t, r, got)
		assert.Equal(t, 1, got.NumPlayers())

		m.removeRoom(r)
	}
}

func TestManagerReapsUnusedRoom(t *testing.T) {
	m := NewManager(flatLevel(), Options{IdleTimeout: 50 * time.Millisecond})
	defer m.Close()

	code := m.CreateRoom()
	r, ok := m.Get(code)
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := m.Get(code)
		return !ok
	}, time.Second, 10*time.Millisecond)

	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatalf("idle room kept running")
	}
}

func TestManagerKeepsOccupiedRoom(t *testing.T) {
	m := NewManager(flatLevel(), Options{IdleTimeout: 50 * time.Millisecond})
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, _, err := m.Join(ctx, "BUSY01", &fakeConn{sendCh: make(chan []byte, 1024)}, "stay")
	require.NoError(t, err)

	time.Sleep(150 * time.Millisecond)

	_, ok := m.Get("BUSY01")
	assert.True(t, ok)
}
