package history

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiendabot/salesrag-go/internal/domain/entities"
)

func TestInMemoryStore_AppendAndRecent(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "351555", entities.RoleCustomer, "hola"))
	require.NoError(t, store.Append(ctx, "351555", entities.RoleAssistant, "buenas"))

	turns, err := store.Recent(ctx, "351555", 10)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	require.Equal(t, entities.RoleCustomer, turns[0].Role)
	require.Equal(t, "hola", turns[0].Content)
	require.Equal(t, entities.RoleAssistant, turns[1].Role)
	require.NotEmpty(t, turns[0].ID)
	require.False(t, turns[0].CreatedAt.IsZero())
}

func TestInMemoryStore_RecentWindowsOldestOut(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		require.NoError(t, store.Append(ctx, "351555", entities.RoleCustomer, fmt.Sprintf("mensaje %d", i)))
	}

	turns, err := store.Recent(ctx, "351555", 10)
	require.NoError(t, err)
	require.Len(t, turns, 10)
	require.Equal(t, "mensaje 2", turns[0].Content)
	require.Equal(t, "mensaje 11", turns[9].Content)
}

func TestInMemoryStore_PhonesAreIsolated(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "351555", entities.RoleCustomer, "hola"))

	turns, err := store.Recent(ctx, "113777", 10)
	require.NoError(t, err)
	require.Empty(t, turns)
}

func TestInMemoryStore_RecentReturnsCopy(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "351555", entities.RoleCustomer, "hola"))

	turns, err := store.Recent(ctx, "351555", 10)
	require.NoError(t, err)
	turns[0].Content = "mutado"

	again, err := store.Recent(ctx, "351555", 10)
	require.NoError(t, err)
	require.Equal(t, "hola", again[0].Content)
}

func TestInMemoryStore_ConcurrentAppends(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Append(ctx, "351555", entities.RoleCustomer, fmt.Sprintf("mensaje %d", n))
		}(i)
	}
	wg.Wait()

	turns, err := store.Recent(ctx, "351555", 0)
	require.NoError(t, err)
	require.Len(t, turns, 20)
}
