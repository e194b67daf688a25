package service

import (
	"context"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/payment"

	"github.com/stretchr/testify/mock"
)

// passthroughTx runs the function directly; the services under test only
// care that everything inside one WithinTx call succeeds or fails together.
type passthroughTx struct {
	beginErr error
	calls    int
}

func (t *passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.beginErr != nil {
		return t.beginErr
	}
	t.calls++
	return fn(ctx)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *mockOrderRepo) GetByGUID(ctx context.Context, guid string) (*domain.Order, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *mockOrderRepo) GetByGUIDForUpdate(ctx context.Context, guid string) (*domain.Order, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *mockOrderRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *mockOrderRepo) Update(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *mockOrderRepo) ListByRenter(ctx context.Context, renterID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}
func (m *mockOrderRepo) ListByOwner(ctx context.Context, ownerID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}
func (m *mockOrderRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Order), args.Error(1)
}

type mockItemRepo struct {
	mock.Mock
}

func (m *mockItemRepo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *mockItemRepo) Reserve(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}
func (m *mockItemRepo) Release(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}
func (m *mockItemRepo) WriteOff(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

type mockWalletRepo struct {
	mock.Mock
}

func (m *mockWalletRepo) GetOrCreateByUser(ctx context.Context, userID int64, currency string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *mockWalletRepo) AddBalance(ctx context.Context, walletID int64, deltaCents int64) (int64, error) {
	args := m.Called(ctx, walletID, deltaCents)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockWalletRepo) CreateTransaction(ctx context.Context, tx *domain.WalletTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *mockWalletRepo) GetTransactionByID(ctx context.Context, id int64) (*domain.WalletTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletTransaction), args.Error(1)
}
func (m *mockWalletRepo) GetTransactionByOrderCodeForUpdate(ctx context.Context, orderCode string) (*domain.WalletTransaction, error) {
	args := m.Called(ctx, orderCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletTransaction), args.Error(1)
}
func (m *mockWalletRepo) UpdateTransaction(ctx context.Context, tx *domain.WalletTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *mockWalletRepo) ListTransactions(ctx context.Context, walletID int64, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	args := m.Called(ctx, walletID, page, pageSize)
	return args.Get(0).([]domain.WalletTransaction), args.Get(1).(int32), args.Error(2)
}
func (m *mockWalletRepo) ListWithdrawalsByStatus(ctx context.Context, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.WalletTransaction), args.Get(1).(int32), args.Error(2)
}
func (m *mockWalletRepo) ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockWalletRepo) CreateBankAccount(ctx context.Context, acct *domain.BankAccount) error {
	args := m.Called(ctx, acct)
	return args.Error(0)
}
func (m *mockWalletRepo) GetBankAccountByID(ctx context.Context, id int64) (*domain.BankAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}
func (m *mockWalletRepo) ListBankAccounts(ctx context.Context, userID int64) ([]domain.BankAccount, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

type mockDisputeRepo struct {
	mock.Mock
}

func (m *mockDisputeRepo) Create(ctx context.Context, d *domain.Dispute) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *mockDisputeRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Dispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}
func (m *mockDisputeRepo) Update(ctx context.Context, d *domain.Dispute) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *mockDisputeRepo) ListByStatus(ctx context.Context, status domain.DisputeStatus, page, pageSize int32) ([]domain.Dispute, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Dispute), args.Get(1).(int32), args.Error(2)
}

type mockWalletService struct {
	mock.Mock
}

func (m *mockWalletService) GetWallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *mockWalletService) ListTransactions(ctx context.Context, userID int64, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.WalletTransaction), args.Get(1).(int32), args.Error(2)
}
func (m *mockWalletService) Credit(ctx context.Context, userID int64, amountCents int64, typ domain.TransactionType, orderID *int64, description string) (*domain.WalletTransaction, error) {
	args := m.Called(ctx, userID, amountCents, typ, orderID, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletTransaction), args.Error(1)
}
func (m *mockWalletService) Debit(ctx context.Context, userID int64, amountCents int64, typ domain.TransactionType, orderID *int64, description string) (*domain.WalletTransaction, error) {
	args := m.Called(ctx, userID, amountCents, typ, orderID, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletTransaction), args.Error(1)
}
func (m *mockWalletService) RequestDeposit(ctx context.Context, userID int64, amountCents int64) (*domain.WalletTransaction, *payment.Link, error) {
	args := m.Called(ctx, userID, amountCents)
	var tx *domain.WalletTransaction
	var link *payment.Link
	if args.Get(0) != nil {
		tx = args.Get(0).(*domain.WalletTransaction)
	}
	if args.Get(1) != nil {
		link = args.Get(1).(*payment.Link)
	}
	return tx, link, args.Error(2)
}
func (m *mockWalletService) AddBankAccount(ctx context.Context, userID int64, bankName, accountNumber, accountHolder string) (*domain.BankAccount, error) {
	args := m.Called(ctx, userID, bankName, accountNumber, accountHolder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}
func (m *mockWalletService) ListBankAccounts(ctx context.Context, userID int64) ([]domain.BankAccount, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreatePaymentLink(ctx context.Context, orderCode string, amountCents int64, description string) (*payment.Link, error) {
	args := m.Called(ctx, orderCode, amountCents, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Link), args.Error(1)
}

// recordingNotifier captures fire-and-forget notifications without
// requiring expectations on every happy path.
type recordingNotifier struct {
	sent []sentNote
}

type sentNote struct {
	UserID int64
	Title  string
	Attrs  map[string]string
}

func (n *recordingNotifier) Notify(ctx context.Context, userID int64, title, message string, attrs map[string]string) {
	n.sent = append(n.sent, sentNote{UserID: userID, Title: title, Attrs: attrs})
}
