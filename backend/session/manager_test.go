package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront/backend/models"
)

func TestManagerKeysStoresBySubject(t *testing.T) {
	m, b := setup(t)
	b.AddUser("tok2", models.SessionUser{ID: "u2", Name: "Linus"})
	ctx := context.Background()

	a1 := m.Session(ctx, ada)
	a2 := m.Session(ctx, &models.Identity{Subject: "u1", Token: "tok"})
	l := m.Session(ctx, &models.Identity{Subject: "u2", Token: "tok2"})

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, l)
	assert.Same(t, m.Session(ctx, nil), m.Session(ctx, &models.Identity{}))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, "Linus", l.Snapshot().User.Name)
}

func TestManagerEvictsIdleStores(t *testing.T) {
	m, _ := setup(t)
	m.Session(context.Background(), ada)

	assert.Equal(t, 0, m.Evict(time.Now()))
	assert.Equal(t, 1, m.Evict(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, m.Len())
}

func TestManagerForget(t *testing.T) {
	m, _ := setup(t)
	m.Session(context.Background(), ada)
	m.Forget("u1")
	assert.Equal(t, 0, m.Len())
}
