package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCartAddMergesExistingLine(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	_, v1, _ := seedImplantProduct(t, r, 10, 10)
	p := mustProduct(t, r, v1.ProductID)

	first, err := svc.AddItem(ctx, 1, p.ID, &v1.ID, 2)
	require.NoError(t, err)
	require.Equal(t, uint(2), first.Quantity)

	second, err := svc.AddItem(ctx, 1, p.ID, &v1.ID, 1)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, uint(3), second.Quantity)

	items, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, uint(3), items[0].Quantity)
}

func TestCartAddVariantRequired(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	_, v1, _ := seedImplantProduct(t, r, 10, 10)
	p := mustProduct(t, r, v1.ProductID)

	_, err := svc.AddItem(context.Background(), 1, p.ID, nil, 1)
	require.ErrorIs(t, err, ErrVariantRequired)
}

func TestCartAddUnknownProduct(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	_, err := svc.AddItem(context.Background(), 1, 9999, nil, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCartAddZeroQuantity(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	_, err := svc.AddItem(context.Background(), 1, 1, nil, 0)
	require.ErrorIs(t, err, ErrValidation)
}

func TestCartUpdateToZeroRemovesLine(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	gloves, _ := seedGlovesProduct(t, r, 100)
	item, err := svc.AddItem(ctx, 1, gloves.ID, nil, 5)
	require.NoError(t, err)

	removed, updated, err := svc.UpdateItem(ctx, 1, item.ID, 0)
	require.NoError(t, err)
	require.True(t, removed)
	require.Nil(t, updated)

	items, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCartUpdateOverwritesQuantity(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	gloves, _ := seedGlovesProduct(t, r, 100)
	item, err := svc.AddItem(ctx, 1, gloves.ID, nil, 5)
	require.NoError(t, err)

	removed, updated, err := svc.UpdateItem(ctx, 1, item.ID, 2)
	require.NoError(t, err)
	require.False(t, removed)
	require.Equal(t, uint(2), updated.Quantity)
}

func TestCartCrossUserIsolation(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	gloves, _ := seedGlovesProduct(t, r, 100)
	item, err := svc.AddItem(ctx, 1, gloves.ID, nil, 5)
	require.NoError(t, err)

	// Another user cannot see or touch the line.
	_, _, err = svc.UpdateItem(ctx, 2, item.ID, 1)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, svc.RemoveItem(ctx, 2, item.ID), ErrNotFound)

	items, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestCartClear(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	gloves, _ := seedGlovesProduct(t, r, 100)
	_, v1, v2 := seedImplantProduct(t, r, 10, 10)
	implant := mustProduct(t, r, v1.ProductID)

	_, err := svc.AddItem(ctx, 1, gloves.ID, nil, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1, implant.ID, &v1.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1, implant.ID, &v2.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, 1))

	items, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, items)
}
