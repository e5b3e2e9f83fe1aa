package combat_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

func pair(t *testing.T, id string) *combat.Battle {
	t.Helper()
	p := combat.NewActor(combat.KindPlayer, "P", block(1, 1, 1), 0, 0)
	e := combat.NewActor(combat.KindEnemy, "E", block(1, 1, 1), 0, 0)
	b, err := combat.NewBattle([]*combat.Actor{p}, []*combat.Actor{e}, combat.WithID(id))
	require.NoError(t, err)
	return b
}

func TestEngine_StartGetEnd(t *testing.T) {
	eng := combat.NewEngine()
	b := pair(t, "b1")
	require.NoError(t, eng.Start(b))

	got, ok := eng.Get("b1")
	assert.True(t, ok)
	assert.Same(t, b, got)
	assert.ErrorIs(t, eng.Start(b), combat.ErrBattleExists)

	eng.End("b1")
	_, ok = eng.Get("b1")
	assert.False(t, ok)
	eng.End("b1")
	assert.Empty(t, eng.Active())
}

func TestEngine_RejectsSharedActor(t *testing.T) {
	eng := combat.NewEngine()
	first := pair(t, "b1")
	require.NoError(t, eng.Start(first))

	shared := first.Players()[0]
	other := combat.NewActor(combat.KindEnemy, "X", block(1, 1, 1), 0, 0)
	second, err := combat.NewBattle([]*combat.Actor{shared}, []*combat.Actor{other}, combat.WithID("b2"))
	require.NoError(t, err)
	assert.ErrorIs(t, eng.Start(second), combat.ErrActorBusy)

	eng.End("b1")
	assert.NoError(t, eng.Start(second), "actors are released when their battle ends")
}

func TestEngine_ConcurrentStarts(t *testing.T) {
	eng := combat.NewEngine()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		b := pair(t, fmt.Sprintf("b%02d", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, eng.Start(b))
		}()
	}
	wg.Wait()
	assert.Len(t, eng.Active(), 20)
	assert.Equal(t, "b00", eng.Active()[0])
}
