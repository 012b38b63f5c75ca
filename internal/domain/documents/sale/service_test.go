package sale

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/numerator"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/registers/stock"
)

// --- fakes ---

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type fakeSaleRepo struct {
	docs    map[id.ID]*Sale
	lines   map[id.ID][]SaleLine
	created *Sale
	updated *Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		docs:  make(map[id.ID]*Sale),
		lines: make(map[id.ID][]SaleLine),
	}
}

func (r *fakeSaleRepo) Create(ctx context.Context, doc *Sale) error {
	r.created = doc
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeSaleRepo) GetByID(ctx context.Context, docID id.ID) (*Sale, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("sale", docID)
	}
	return doc, nil
}

func (r *fakeSaleRepo) GetByNumber(ctx context.Context, number string) (*Sale, error) {
	return nil, apperror.NewNotFound("sale", number)
}

func (r *fakeSaleRepo) Update(ctx context.Context, doc *Sale) error {
	r.updated = doc
	return nil
}

func (r *fakeSaleRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.docs, docID)
	return nil
}

func (r *fakeSaleRepo) GetLines(ctx context.Context, docID id.ID) ([]SaleLine, error) {
	return r.lines[docID], nil
}

func (r *fakeSaleRepo) SaveLines(ctx context.Context, docID id.ID, lines []SaleLine) error {
	r.lines[docID] = lines
	return nil
}

func (r *fakeSaleRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	return domain.ListResult[*Sale]{}, nil
}

func (r *fakeSaleRepo) Exists(ctx context.Context, docID id.ID) (bool, error) {
	_, ok := r.docs[docID]
	return ok, nil
}

type fakeStockRepo struct {
	balances  map[id.ID]int
	movements []stock.Movement
	reversed  []id.ID
}

func (r *fakeStockRepo) CreateMovements(ctx context.Context, movements []stock.Movement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *fakeStockRepo) DeleteMovementsByDocument(ctx context.Context, documentID id.ID) error {
	r.reversed = append(r.reversed, documentID)
	return nil
}

func (r *fakeStockRepo) GetBalance(ctx context.Context, storeID, variantID id.ID) (stock.Balance, error) {
	return stock.Balance{StoreID: storeID, VariantID: variantID, Quantity: r.balances[variantID]}, nil
}

func (r *fakeStockRepo) GetBalanceForUpdate(ctx context.Context, storeID, variantID id.ID) (stock.Balance, error) {
	return r.GetBalance(ctx, storeID, variantID)
}

func (r *fakeStockRepo) ListBalances(ctx context.Context, storeID id.ID) ([]stock.Balance, error) {
	return nil, nil
}

type fakeVariants struct {
	deltas map[id.ID]int
}

func (v *fakeVariants) AdjustVariantQuantity(ctx context.Context, variantID id.ID, delta int) error {
	if v.deltas == nil {
		v.deltas = make(map[id.ID]int)
	}
	v.deltas[variantID] += delta
	return nil
}

type saleFixture struct {
	svc      *Service
	repo     *fakeSaleRepo
	stock    *fakeStockRepo
	variants *fakeVariants
	tx       *fakeTxManager
	gen      *numerator.MockGenerator
}

func newSaleFixture() *saleFixture {
	f := &saleFixture{
		repo:     newFakeSaleRepo(),
		stock:    &fakeStockRepo{balances: make(map[id.ID]int)},
		variants: &fakeVariants{},
		tx:       &fakeTxManager{},
		gen:      &numerator.MockGenerator{},
	}
	f.svc = NewService(f.repo, stock.NewService(f.stock), f.variants, f.gen, f.tx)
	return f
}

// --- tests ---

func TestCreate_PostsAndExpensesStock(t *testing.T) {
	f := newSaleFixture()
	f.gen.GetNextNumberFunc = func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
		return "SALE-2026-00042", nil
	}

	tshirt := id.New()
	mug := id.New()
	f.stock.balances[tshirt] = 10
	f.stock.balances[mug] = 10

	doc := NewSale(id.New())
	doc.AddLine(tshirt, "TSHIRT-M", 2, types.NewMoney(10.00))
	doc.AddLine(mug, "MUG-STD", 1, types.NewMoney(5.00))

	require.NoError(t, f.svc.Create(context.Background(), doc))

	assert.True(t, doc.Posted)
	assert.Equal(t, "SALE-2026-00042", doc.Number)
	require.NotNil(t, f.repo.created)
	assert.Len(t, f.repo.lines[doc.ID], 2)
	assert.Equal(t, 1, f.tx.calls)

	require.Len(t, f.stock.movements, 2)
	for _, m := range f.stock.movements {
		assert.Equal(t, stock.MovementExpense, m.Type)
		assert.Equal(t, doc.ID, m.DocumentID)
	}

	assert.Equal(t, -2, f.variants.deltas[tshirt])
	assert.Equal(t, -1, f.variants.deltas[mug])
}

func TestCreate_InsufficientStockFailsPosting(t *testing.T) {
	f := newSaleFixture()

	tshirt := id.New()
	f.stock.balances[tshirt] = 1

	doc := NewSale(id.New())
	doc.AddLine(tshirt, "TSHIRT-M", 2, types.NewMoney(10.00))

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)

	assert.False(t, doc.Posted)
	assert.Nil(t, f.repo.created)
	assert.Empty(t, f.stock.movements)
	assert.Empty(t, f.variants.deltas)
}

func TestCreate_KeepsPresetNumber(t *testing.T) {
	f := newSaleFixture()
	generatorCalled := false
	f.gen.GetNextNumberFunc = func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
		generatorCalled = true
		return "", nil
	}

	tshirt := id.New()
	f.stock.balances[tshirt] = 5

	doc := NewSale(id.New())
	doc.Number = "SALE-2026-00007"
	doc.AddLine(tshirt, "TSHIRT-M", 1, types.NewMoney(10.00))

	require.NoError(t, f.svc.Create(context.Background(), doc))

	assert.False(t, generatorCalled)
	assert.Equal(t, "SALE-2026-00007", doc.Number)
}

func TestCreate_BeforeCreateHookRejects(t *testing.T) {
	f := newSaleFixture()
	f.svc.Hooks().OnBeforeCreate(func(ctx context.Context, doc *Sale) error {
		return errors.New("store closed")
	})

	doc := NewSale(id.New())
	doc.AddLine(id.New(), "TSHIRT-M", 1, types.NewMoney(10.00))

	err := f.svc.Create(context.Background(), doc)
	require.EqualError(t, err, "store closed")
	assert.Nil(t, f.repo.created)
	assert.Zero(t, f.tx.calls)
}

func TestUnpost_ReversesMovements(t *testing.T) {
	f := newSaleFixture()

	tshirt := id.New()
	f.stock.balances[tshirt] = 5

	doc := NewSale(id.New())
	doc.AddLine(tshirt, "TSHIRT-M", 2, types.NewMoney(10.00))
	require.NoError(t, f.svc.Create(context.Background(), doc))
	require.True(t, doc.Posted)

	require.NoError(t, f.svc.Unpost(context.Background(), doc.ID))

	assert.Contains(t, f.stock.reversed, doc.ID)
	assert.Equal(t, 0, f.variants.deltas[tshirt], "expense reversed")
	require.NotNil(t, f.repo.updated)
	assert.False(t, f.repo.updated.Posted)
}

func TestDelete_RejectsPostedDocument(t *testing.T) {
	f := newSaleFixture()

	tshirt := id.New()
	f.stock.balances[tshirt] = 5

	doc := NewSale(id.New())
	doc.AddLine(tshirt, "TSHIRT-M", 1, types.NewMoney(10.00))
	require.NoError(t, f.svc.Create(context.Background(), doc))

	err := f.svc.Delete(context.Background(), doc.ID)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeDocumentPosted, appErr.Code)
}
