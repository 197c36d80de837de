package services_test

import (
	"context"
	"time"

	"github.com/hazlamahedich/shop-sub002/models"
	"github.com/hazlamahedich/shop-sub002/platform"
	"github.com/hazlamahedich/shop-sub002/sender"
)

// ---- mock cart store ----

type mockCartStore struct {
	cart           *models.Cart
	cartErr        error
	savedToken     *models.CheckoutToken
	saveTokenErr   error
	deleteCartErr  error
	deleteTokenErr error
	cartDeleted    bool
	tokenDeleted   bool
}

func (m *mockCartStore) GetCart(_ context.Context, _ string) (*models.Cart, error) {
	return m.cart, m.cartErr
}

func (m *mockCartStore) DeleteCart(_ context.Context, _ string) error {
	if m.deleteCartErr != nil {
		return m.deleteCartErr
	}
	m.cartDeleted = true
	return nil
}

func (m *mockCartStore) SaveCheckoutToken(_ context.Context, token *models.CheckoutToken) error {
	if m.saveTokenErr != nil {
		return m.saveTokenErr
	}
	m.savedToken = token
	return nil
}

func (m *mockCartStore) GetCheckoutToken(_ context.Context, _ string) (*models.CheckoutToken, error) {
	return m.savedToken, nil
}

func (m *mockCartStore) DeleteCheckoutToken(_ context.Context, _ string) error {
	if m.deleteTokenErr != nil {
		return m.deleteTokenErr
	}
	m.tokenDeleted = true
	return nil
}

// ---- mock confirmation store ----

type mockConfirmationStore struct {
	cached  *models.ConfirmationResult
	getErr  error
	saved   *models.ConfirmationResult
	saveErr error
	refs    []*models.OrderReference
}

func (m *mockConfirmationStore) GetConfirmation(_ context.Context, _ string, _ int64) (*models.ConfirmationResult, error) {
	return m.cached, m.getErr
}

func (m *mockConfirmationStore) SaveConfirmation(_ context.Context, result *models.ConfirmationResult) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = result
	m.cached = result
	return nil
}

func (m *mockConfirmationStore) SaveOrderReference(_ context.Context, ref *models.OrderReference) error {
	m.refs = append(m.refs, ref)
	return nil
}

// ---- mock notification store ----

type mockNotificationStore struct {
	sentKeys  map[string]bool
	count     int64
	isSentErr error
	countErr  error
	markErr   error
	markCalls int
	lastKey   string
}

func newMockNotificationStore() *mockNotificationStore {
	return &mockNotificationStore{sentKeys: map[string]bool{}}
}

func (m *mockNotificationStore) IsSent(_ context.Context, key string) (bool, error) {
	if m.isSentErr != nil {
		return false, m.isSentErr
	}
	return m.sentKeys[key], nil
}

func (m *mockNotificationStore) DailyCount(_ context.Context, _ string) (int64, error) {
	return m.count, m.countErr
}

func (m *mockNotificationStore) MarkSent(_ context.Context, key, _ string) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.sentKeys[key] = true
	m.count++
	m.markCalls++
	m.lastKey = key
	return nil
}

// ---- mock polling lock ----

type mockPollingLock struct {
	acquired    bool
	acquireOnce bool
	err         error
	calls       int
}

func (m *mockPollingLock) Acquire(_ context.Context, _ string) (bool, error) {
	m.calls++
	if m.acquireOnce {
		return m.calls == 1, m.err
	}
	return m.acquired, m.err
}

// ---- mock order repository ----

type mockOrderRepo struct {
	rows        map[int64]*models.Order
	findErr     error
	createErr   error
	updateErr   error
	createCalls int
	updateCalls int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{rows: map[int64]*models.Order{}}
}

func (m *mockOrderRepo) FindByPlatformID(_ context.Context, id int64) (*models.Order, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createCalls++
	copied := *order
	m.rows[order.PlatformOrderID] = &copied
	return nil
}

func (m *mockOrderRepo) Update(_ context.Context, order *models.Order) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updateCalls++
	copied := *order
	m.rows[order.PlatformOrderID] = &copied
	return nil
}

// ---- mock merchant repository ----

type mockMerchantRepo struct {
	merchant *models.Merchant
	err      error
	ids      []string
}

func (m *mockMerchantRepo) FindByMerchantID(_ context.Context, _ string) (*models.Merchant, error) {
	return m.merchant, m.err
}

func (m *mockMerchantRepo) ListMerchantIDs(_ context.Context) ([]string, error) {
	return m.ids, m.err
}

// ---- mock consent repository ----

type mockConsentRepo struct {
	granted bool
	err     error
	calls   int
}

func (m *mockConsentRepo) HasNotificationConsent(_ context.Context, _ string) (bool, error) {
	m.calls++
	return m.granted, m.err
}

// ---- mock notification log repository ----

type mockNotificationLogRepo struct {
	entries []*models.NotificationLog
}

func (m *mockNotificationLogRepo) SaveLog(_ context.Context, entry *models.NotificationLog) error {
	m.entries = append(m.entries, entry)
	return nil
}

// ---- mock platform client ----

type mockPlatformClient struct {
	checkoutURL string
	checkoutErr error
	createCalls int
	orders      []models.OrderPayload
	listErr     error
	listCalls   int
}

func (m *mockPlatformClient) CreateCheckout(_ context.Context, _ platform.Credentials, _ []platform.CheckoutItem) (string, error) {
	m.createCalls++
	if m.checkoutErr != nil {
		return "", m.checkoutErr
	}
	return m.checkoutURL, nil
}

func (m *mockPlatformClient) ListOrders(_ context.Context, _ platform.Credentials, _ time.Time) ([]models.OrderPayload, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.orders, nil
}

// ---- mock URL validator ----

// mockURLValidator fails the first failures calls, then succeeds.
type mockURLValidator struct {
	failures int
	calls    int
}

func (m *mockURLValidator) Validate(_ context.Context, _ string) error {
	m.calls++
	if m.calls <= m.failures {
		return &platform.ValidationError{Reason: "status 503"}
	}
	return nil
}

// ---- mock message sender ----

type mockSender struct {
	err   error
	calls int
	texts []string
}

func (m *mockSender) SendText(_ context.Context, _ string, text string) (sender.SendResult, error) {
	m.calls++
	if m.err != nil {
		return sender.SendResult{}, m.err
	}
	m.texts = append(m.texts, text)
	return sender.SendResult{MessageID: "mid.1"}, nil
}

// ---- mock kafka producer ----

type mockProducer struct {
	published [][]byte
	err       error
}

func (m *mockProducer) Publish(_ context.Context, _ string, value []byte) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, value)
	return nil
}

func (m *mockProducer) Close() error { return nil }

// ---- mock SNS publisher ----

type mockSNS struct {
	published  [][]byte
	eventTypes []string
	err        error
}

func (m *mockSNS) Publish(_ context.Context, _ string, eventType string, message []byte) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, message)
	m.eventTypes = append(m.eventTypes, eventType)
	return nil
}

// ---- mock shipping notifier ----

type mockShippingNotifier struct {
	status         string
	calls          int
	fulfillmentIDs []string
}

func (m *mockShippingNotifier) SendShippingNotification(_ context.Context, order *models.Order, fulfillmentID string) models.NotificationResult {
	m.calls++
	m.fulfillmentIDs = append(m.fulfillmentIDs, fulfillmentID)
	return models.NotificationResult{
		Status:      m.status,
		ShopperID:   order.ShopperID,
		OrderNumber: order.OrderNumber,
	}
}
