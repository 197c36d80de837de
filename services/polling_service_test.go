package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/hazlamahedich/shop-sub002/models"
	"github.com/hazlamahedich/shop-sub002/services"
)

type pollingFixture struct {
	lock      *mockPollingLock
	merchants *mockMerchantRepo
	client    *mockPlatformClient
	orders    *mockOrderRepo
	notifier  *mockShippingNotifier
	health    *services.PollingHealthState
	svc       *services.OrderPollingService
}

func newPollingFixture() *pollingFixture {
	logger, _ := zap.NewDevelopment()
	f := &pollingFixture{
		lock: &mockPollingLock{acquired: true},
		merchants: &mockMerchantRepo{
			merchant: &models.Merchant{MerchantID: "m1", ShopDomain: "demo.myshopify.com", AccessToken: "token"},
		},
		client:   &mockPlatformClient{},
		orders:   newMockOrderRepo(),
		notifier: &mockShippingNotifier{status: models.NotificationStatusSuccess},
		health:   services.NewPollingHealthState(),
	}
	f.svc = services.NewOrderPollingService(
		f.lock, f.merchants, f.client, f.orders, f.notifier,
		f.health, 24*time.Hour, 0, logger,
	)
	return f
}

func recentPayload(id int64, fulfillment string) models.OrderPayload {
	now := time.Now().UTC()
	p := models.OrderPayload{
		ID:                id,
		OrderNumber:       "#1001",
		FinancialStatus:   "paid",
		FulfillmentStatus: fulfillment,
		CreatedAt:         now.Add(-time.Hour),
		UpdatedAt:         now.Add(-30 * time.Minute),
		NoteAttributes:    []models.NoteAttribute{{Name: "psid", Value: "psid-1"}},
	}
	if fulfillment == models.FulfillmentStatusFulfilled {
		p.Fulfillments = []models.Fulfillment{{ID: 900, TrackingNumber: "1Z999", TrackingURL: "https://track.example/1Z999"}}
	}
	return p
}

func TestPollRecentOrders_LockHeld(t *testing.T) {
	f := newPollingFixture()
	f.lock.acquired = false

	result := f.svc.PollRecentOrders(context.Background(), "m1")

	assert.Equal(t, models.PollingStatusSkippedLock, result.Status)
	assert.Equal(t, 0, f.client.listCalls)
}

func TestPollRecentOrders_APIErrorContained(t *testing.T) {
	f := newPollingFixture()
	f.client.listErr = assert.AnError

	result := f.svc.PollRecentOrders(context.Background(), "m1")

	assert.Equal(t, models.PollingStatusErrorAPI, result.Status)
	assert.Equal(t, 1, f.health.Snapshot().ErrorsLastHour)
}

func TestPollRecentOrders_CreatesAndNotifies(t *testing.T) {
	f := newPollingFixture()
	f.client.orders = []models.OrderPayload{recentPayload(10, models.FulfillmentStatusFulfilled)}

	result := f.svc.PollRecentOrders(context.Background(), "m1")

	assert.Equal(t, models.PollingStatusSuccess, result.Status)
	assert.Equal(t, 1, result.OrdersPolled)
	assert.Equal(t, 1, result.OrdersCreated)
	assert.Equal(t, 0, result.OrdersUpdated)
	assert.Equal(t, 1, result.NotificationsSent)
	assert.Equal(t, []string{"900"}, f.notifier.fulfillmentIDs)
}

func TestPollRecentOrders_UnchangedOrderIsNoOp(t *testing.T) {
	f := newPollingFixture()
	f.client.orders = []models.OrderPayload{recentPayload(10, "")}

	first := f.svc.PollRecentOrders(context.Background(), "m1")
	second := f.svc.PollRecentOrders(context.Background(), "m1")

	assert.Equal(t, 1, first.OrdersCreated)
	assert.Equal(t, 0, second.OrdersCreated)
	assert.Equal(t, 0, second.OrdersUpdated)
}

func TestPollRecentOrders_WatermarkAdvanceUpdatesOnce(t *testing.T) {
	f := newPollingFixture()
	payload := recentPayload(10, "")
	f.client.orders = []models.OrderPayload{payload}
	_ = f.svc.PollRecentOrders(context.Background(), "m1")

	// The platform touches the order: updated_at advances and the order
	// transitions to fulfilled.
	advanced := recentPayload(10, models.FulfillmentStatusFulfilled)
	advanced.UpdatedAt = payload.UpdatedAt.Add(10 * time.Minute)
	f.client.orders = []models.OrderPayload{advanced}

	result := f.svc.PollRecentOrders(context.Background(), "m1")

	assert.Equal(t, 1, result.OrdersUpdated)
	assert.Equal(t, 1, result.NotificationsSent)

	repeat := f.svc.PollRecentOrders(context.Background(), "m1")
	assert.Equal(t, 0, repeat.OrdersUpdated)
}

func TestPollRecentOrders_NotificationFailureNotCounted(t *testing.T) {
	f := newPollingFixture()
	f.notifier.status = models.NotificationStatusFailed
	f.client.orders = []models.OrderPayload{recentPayload(10, models.FulfillmentStatusFulfilled)}

	result := f.svc.PollRecentOrders(context.Background(), "m1")

	assert.Equal(t, models.PollingStatusSuccess, result.Status)
	assert.Equal(t, 0, result.NotificationsSent)
}

func TestPollRecentOrders_WindowFilter(t *testing.T) {
	f := newPollingFixture()
	old := recentPayload(10, "")
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	f.client.orders = []models.OrderPayload{old}

	result := f.svc.PollRecentOrders(context.Background(), "m1")

	assert.Equal(t, 0, result.OrdersPolled)
	assert.Equal(t, 0, result.OrdersCreated)
}

func TestPollRecentOrders_MutualExclusion(t *testing.T) {
	f := newPollingFixture()
	f.lock.acquireOnce = true

	first := f.svc.PollRecentOrders(context.Background(), "m1")
	second := f.svc.PollRecentOrders(context.Background(), "m1")

	assert.Equal(t, models.PollingStatusSuccess, first.Status)
	assert.Equal(t, models.PollingStatusSkippedLock, second.Status)
	assert.Equal(t, 1, f.client.listCalls)
}

func TestPollAllMerchants_ContinuesOnFailure(t *testing.T) {
	f := newPollingFixture()
	f.client.listErr = assert.AnError

	results := f.svc.PollAllMerchants(context.Background(), []string{"m1", "m2"})

	assert.Len(t, results, 2)
	assert.Equal(t, models.PollingStatusErrorAPI, results[0].Status)
	assert.Equal(t, models.PollingStatusErrorAPI, results[1].Status)
}

func TestPollingHealth_TracksState(t *testing.T) {
	f := newPollingFixture()
	f.client.orders = []models.OrderPayload{recentPayload(10, "")}

	_ = f.svc.PollRecentOrders(context.Background(), "m1")
	snapshot := f.svc.Health()

	assert.False(t, snapshot.SchedulerRunning)
	assert.False(t, snapshot.LastPollAt.IsZero())
	assert.Equal(t, int64(1), snapshot.OrdersSynced)
}
