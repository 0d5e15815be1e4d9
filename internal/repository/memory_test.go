package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/paperpatch/poster-store/internal/model"
	"github.com/paperpatch/poster-store/internal/repository"
)

func newOrder(id string, created time.Time) *model.Order {
	o := &model.Order{
		ID:          id,
		OrderNumber: "PP-TEST-" + id,
		Items: []model.LineItem{
			{Width: 12, Height: 8, Price: 350, ImageURL: "/uploads/a.jpg"},
			{Width: 18, Height: 12, WithBoard: true, Price: 550, ImageURL: "/uploads/b.jpg"},
		},
		Shipping: model.ShippingInfo{
			Name: "Rahim", Phone: "01712345678", Email: "rahim@example.com",
			Address: "House 1, Road 2", City: "Dhaka", InsideDhaka: true,
		},
		PaymentMethod: model.PaymentCOD,
		ShippingCost:  80,
		Status:        model.StatusPending,
		CreatedAt:     created,
	}
	o.RecomputeTotal()
	return o
}

func TestMemoryStore_CreateListNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := repository.NewMemoryStore()

	base := time.Now().UTC()
	require.NoError(t, st.Create(ctx, newOrder("a", base.Add(-time.Hour))))
	require.NoError(t, st.Create(ctx, newOrder("b", base)))

	orders, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, "b", orders[0].ID)
	require.Equal(t, "a", orders[1].ID)
	require.Equal(t, 980, orders[0].TotalAmount) // 350 + 550 + 80
}

func TestMemoryStore_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	st := repository.NewMemoryStore()
	require.NoError(t, st.Create(ctx, newOrder("a", time.Now().UTC())))

	err := st.UpdateStatus(ctx, "missing", model.StatusApproved, "")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, st.UpdateStatus(ctx, "a", model.StatusApproved, "looks good"))
	got, err := st.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, got.Status)
	require.NotNil(t, got.ApprovedAt)
	require.Equal(t, "looks good", got.Notes)

	// backward move is rejected
	err = st.UpdateStatus(ctx, "a", model.StatusPending, "")
	require.ErrorIs(t, err, repository.ErrInvalidTransition)

	require.NoError(t, st.UpdateStatus(ctx, "a", model.StatusReadyToShip, ""))
	require.NoError(t, st.UpdateStatus(ctx, "a", model.StatusCompleted, ""))

	err = st.UpdateStatus(ctx, "a", model.StatusApproved, "")
	require.ErrorIs(t, err, repository.ErrInvalidTransition)
}

func TestMemoryStore_RejectedIsTerminal(t *testing.T) {
	ctx := context.Background()
	st := repository.NewMemoryStore()
	require.NoError(t, st.Create(ctx, newOrder("a", time.Now().UTC())))

	require.NoError(t, st.UpdateStatus(ctx, "a", model.StatusRejected, "blurry image"))
	err := st.UpdateStatus(ctx, "a", model.StatusApproved, "")
	require.ErrorIs(t, err, repository.ErrInvalidTransition)
}

func TestMemoryStore_UpdateItemPrice(t *testing.T) {
	ctx := context.Background()
	st := repository.NewMemoryStore()
	o := newOrder("a", time.Now().UTC())
	o.ShippingCost = 120
	o.RecomputeTotal()
	require.NoError(t, st.Create(ctx, o))

	require.NoError(t, st.UpdateItemPrice(ctx, "a", 0, 999))
	got, err := st.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 999, got.Items[0].Price)
	require.Equal(t, 999+550+120, got.TotalAmount)

	err = st.UpdateItemPrice(ctx, "a", 5, 100)
	require.ErrorIs(t, err, repository.ErrNotFound)
	err = st.UpdateItemPrice(ctx, "missing", 0, 100)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	st := repository.NewMemoryStore()
	require.NoError(t, st.Create(ctx, newOrder("a", time.Now().UTC())))

	require.NoError(t, st.Delete(ctx, "a"))
	_, err := st.GetByID(ctx, "a")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, st.Delete(ctx, "a"), repository.ErrNotFound)
}

func TestMemoryStore_PriceTableVersioning(t *testing.T) {
	ctx := context.Background()
	st := repository.NewMemoryStore()

	table, err := st.PriceTable(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, table.Version)
	require.Len(t, table.Sizes, 4)

	edited := append([]model.StandardSize(nil), table.Sizes...)
	edited[0].PriceNoBoard = 400
	table, err = st.SavePriceTable(ctx, edited)
	require.NoError(t, err)
	require.Equal(t, 1, table.Version)
	require.Equal(t, 400, table.Sizes[0].PriceNoBoard)

	table, err = st.ResetPriceTable(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, table.Version)
	require.Equal(t, 350, table.Sizes[0].PriceNoBoard)
}

func TestMemoryStore_Gallery(t *testing.T) {
	ctx := context.Background()
	st := repository.NewMemoryStore()

	img := &model.GalleryImage{Title: "studio wall", URL: "/uploads/wall.jpg", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.AddImage(ctx, img))
	require.NotZero(t, img.ID)

	imgs, err := st.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, imgs, 1)

	require.NoError(t, st.DeleteImage(ctx, img.ID))
	require.ErrorIs(t, st.DeleteImage(ctx, img.ID), repository.ErrNotFound)
}
