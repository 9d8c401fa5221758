package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/davidkaruri/billify-api/internal/domain/repository"
	"github.com/davidkaruri/billify-api/pkg/pagination"
)

// In-memory repository fakes. They keep just enough behavior for the
// services to run their real logic: owner scoping, number scans and
// payment sums work; anything a test never touches returns zero values.

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeClientRepo struct {
	clients map[uuid.UUID]*entity.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[uuid.UUID]*entity.Client{}}
}

func (r *fakeClientRepo) add(userID uuid.UUID) uuid.UUID {
	id := uuid.New()
	r.clients[id] = &entity.Client{ID: id, UserID: userID}
	return id
}

func (r *fakeClientRepo) Create(ctx context.Context, client *entity.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	c := *client
	r.clients[c.ID] = &c
	return nil
}

func (r *fakeClientRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error) {
	c, ok := r.clients[id]
	if !ok || (userID != uuid.Nil && c.UserID != userID) {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (r *fakeClientRepo) GetByEmail(ctx context.Context, userID uuid.UUID, email string) (*entity.Client, error) {
	for _, c := range r.clients {
		if c.UserID == userID && c.Email != nil && *c.Email == email {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) Update(ctx context.Context, client *entity.Client) error {
	c := *client
	r.clients[c.ID] = &c
	return nil
}

func (r *fakeClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.clients, id)
	return nil
}

func (r *fakeClientRepo) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Client, int64, error) {
	var out []entity.Client
	for _, c := range r.clients {
		if userID == uuid.Nil || c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeClientRepo) Exists(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	c, ok := r.clients[id]
	return ok && (userID == uuid.Nil || c.UserID == userID), nil
}

func (r *fakeClientRepo) HasDocuments(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

type fakeSettingsRepo struct {
	byUser map[uuid.UUID]*entity.UserSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{byUser: map[uuid.UUID]*entity.UserSettings{}}
}

func (r *fakeSettingsRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserSettings, error) {
	s, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (r *fakeSettingsRepo) Create(ctx context.Context, settings *entity.UserSettings) error {
	if settings.ID == uuid.Nil {
		settings.ID = uuid.New()
	}
	s := *settings
	r.byUser[s.UserID] = &s
	return nil
}

func (r *fakeSettingsRepo) Update(ctx context.Context, settings *entity.UserSettings) error {
	s := *settings
	r.byUser[s.UserID] = &s
	return nil
}

type fakeInvoiceItemRepo struct {
	byInvoice map[uuid.UUID][]entity.InvoiceItem
}

func newFakeInvoiceItemRepo() *fakeInvoiceItemRepo {
	return &fakeInvoiceItemRepo{byInvoice: map[uuid.UUID][]entity.InvoiceItem{}}
}

func (r *fakeInvoiceItemRepo) CreateBatch(ctx context.Context, items []entity.InvoiceItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		r.byInvoice[items[i].InvoiceID] = append(r.byInvoice[items[i].InvoiceID], items[i])
	}
	return nil
}

func (r *fakeInvoiceItemRepo) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceItem, error) {
	return append([]entity.InvoiceItem(nil), r.byInvoice[invoiceID]...), nil
}

func (r *fakeInvoiceItemRepo) DeleteByInvoiceID(ctx context.Context, invoiceID uuid.UUID) error {
	delete(r.byInvoice, invoiceID)
	return nil
}

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*entity.Invoice
	items    *fakeInvoiceItemRepo
}

func newFakeInvoiceRepo(items *fakeInvoiceItemRepo) *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: map[uuid.UUID]*entity.Invoice{}, items: items}
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	inv := *invoice
	r.invoices[inv.ID] = &inv
	return nil
}

func (r *fakeInvoiceRepo) get(userID, id uuid.UUID) *entity.Invoice {
	inv, ok := r.invoices[id]
	if !ok || (userID != uuid.Nil && inv.UserID != userID) {
		return nil
	}
	out := *inv
	return &out
}

func (r *fakeInvoiceRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	return r.get(userID, id), nil
}

func (r *fakeInvoiceRepo) GetByIDForUpdate(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	return r.get(userID, id), nil
}

func (r *fakeInvoiceRepo) GetWithDetails(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	inv := r.get(userID, id)
	if inv != nil && r.items != nil {
		inv.Items, _ = r.items.GetByInvoiceID(ctx, inv.ID)
	}
	return inv, nil
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	inv := *invoice
	r.invoices[inv.ID] = &inv
	return nil
}

func (r *fakeInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, userID uuid.UUID, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var out []entity.Invoice
	for _, inv := range r.invoices {
		if userID == uuid.Nil || inv.UserID == userID {
			out = append(out, *inv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeInvoiceRepo) LastNumber(ctx context.Context, userID uuid.UUID, prefix string) (string, error) {
	return lastNumberIn(r.numbersFor(userID), prefix), nil
}

func (r *fakeInvoiceRepo) numbersFor(userID uuid.UUID) []string {
	var numbers []string
	for _, inv := range r.invoices {
		if inv.UserID == userID {
			numbers = append(numbers, inv.Number)
		}
	}
	return numbers
}

func (r *fakeInvoiceRepo) CountForeignCurrency(ctx context.Context, userID uuid.UUID, baseCurrency string) (int64, error) {
	var n int64
	for _, inv := range r.invoices {
		if inv.UserID == userID && inv.Currency != baseCurrency {
			n++
		}
	}
	return n, nil
}

func (r *fakeInvoiceRepo) Summary(ctx context.Context, userID uuid.UUID, monthStart time.Time) (*repository.InvoiceSummary, error) {
	return &repository.InvoiceSummary{CountByStatus: map[enum.InvoiceStatus]int64{}}, nil
}

// lastNumberIn mirrors the repositories' greatest-number scan for fakes
func lastNumberIn(numbers []string, prefix string) string {
	best := ""
	bestSeq := -1
	for _, n := range numbers {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		seq, ok := trailingNumber(n[len(prefix):])
		if ok && seq > bestSeq {
			best = n
			bestSeq = seq
		}
	}
	return best
}

type fakePaymentRepo struct {
	payments map[uuid.UUID]*entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[uuid.UUID]*entity.Payment{}}
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	p := *payment
	r.payments[p.ID] = &p
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Payment, error) {
	p, ok := r.payments[id]
	if !ok || (userID != uuid.Nil && p.UserID != userID) {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (r *fakePaymentRepo) Update(ctx context.Context, payment *entity.Payment) error {
	p := *payment
	r.payments[p.ID] = &p
	return nil
}

func (r *fakePaymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.payments, id)
	return nil
}

func (r *fakePaymentRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.Payment, error) {
	var out []entity.Payment
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentDate.Before(out[j].PaymentDate) })
	return out, nil
}

func (r *fakePaymentRepo) SumByInvoice(ctx context.Context, invoiceID uuid.UUID, exclude *uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.payments {
		if p.InvoiceID != invoiceID {
			continue
		}
		if exclude != nil && p.ID == *exclude {
			continue
		}
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func (r *fakePaymentRepo) DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	for id, p := range r.payments {
		if p.InvoiceID == invoiceID {
			delete(r.payments, id)
		}
	}
	return nil
}

type fakeQuotationItemRepo struct {
	byQuotation map[uuid.UUID][]entity.QuotationItem
}

func newFakeQuotationItemRepo() *fakeQuotationItemRepo {
	return &fakeQuotationItemRepo{byQuotation: map[uuid.UUID][]entity.QuotationItem{}}
}

func (r *fakeQuotationItemRepo) CreateBatch(ctx context.Context, items []entity.QuotationItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		r.byQuotation[items[i].QuotationID] = append(r.byQuotation[items[i].QuotationID], items[i])
	}
	return nil
}

func (r *fakeQuotationItemRepo) GetByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]entity.QuotationItem, error) {
	return append([]entity.QuotationItem(nil), r.byQuotation[quotationID]...), nil
}

func (r *fakeQuotationItemRepo) DeleteByQuotationID(ctx context.Context, quotationID uuid.UUID) error {
	delete(r.byQuotation, quotationID)
	return nil
}

type fakeQuotationRepo struct {
	quotations map[uuid.UUID]*entity.Quotation
	items      *fakeQuotationItemRepo
}

func newFakeQuotationRepo(items *fakeQuotationItemRepo) *fakeQuotationRepo {
	return &fakeQuotationRepo{quotations: map[uuid.UUID]*entity.Quotation{}, items: items}
}

func (r *fakeQuotationRepo) Create(ctx context.Context, quotation *entity.Quotation) error {
	if quotation.ID == uuid.Nil {
		quotation.ID = uuid.New()
	}
	q := *quotation
	r.quotations[q.ID] = &q
	return nil
}

func (r *fakeQuotationRepo) get(userID, id uuid.UUID) *entity.Quotation {
	q, ok := r.quotations[id]
	if !ok || (userID != uuid.Nil && q.UserID != userID) {
		return nil
	}
	out := *q
	return &out
}

func (r *fakeQuotationRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Quotation, error) {
	return r.get(userID, id), nil
}

func (r *fakeQuotationRepo) GetWithItems(ctx context.Context, userID, id uuid.UUID) (*entity.Quotation, error) {
	q := r.get(userID, id)
	if q != nil && r.items != nil {
		q.Items, _ = r.items.GetByQuotationID(ctx, q.ID)
	}
	return q, nil
}

func (r *fakeQuotationRepo) Update(ctx context.Context, quotation *entity.Quotation) error {
	q := *quotation
	r.quotations[q.ID] = &q
	return nil
}

func (r *fakeQuotationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.QuotationStatus) error {
	if q, ok := r.quotations[id]; ok {
		q.Status = status
	}
	return nil
}

func (r *fakeQuotationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.quotations, id)
	return nil
}

func (r *fakeQuotationRepo) List(ctx context.Context, userID uuid.UUID, params *repository.QuotationFilterParams) ([]entity.Quotation, int64, error) {
	var out []entity.Quotation
	for _, q := range r.quotations {
		if userID == uuid.Nil || q.UserID == userID {
			out = append(out, *q)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeQuotationRepo) LastNumber(ctx context.Context, userID uuid.UUID, prefix string) (string, error) {
	var numbers []string
	for _, q := range r.quotations {
		if q.UserID == userID {
			numbers = append(numbers, q.Number)
		}
	}
	return lastNumberIn(numbers, prefix), nil
}

func (r *fakeQuotationRepo) CountForeignCurrency(ctx context.Context, userID uuid.UUID, baseCurrency string) (int64, error) {
	var n int64
	for _, q := range r.quotations {
		if q.UserID == userID && q.Currency != baseCurrency {
			n++
		}
	}
	return n, nil
}

type fakeRecurringItemRepo struct {
	byRecurring map[uuid.UUID][]entity.RecurringInvoiceItem
}

func newFakeRecurringItemRepo() *fakeRecurringItemRepo {
	return &fakeRecurringItemRepo{byRecurring: map[uuid.UUID][]entity.RecurringInvoiceItem{}}
}

func (r *fakeRecurringItemRepo) CreateBatch(ctx context.Context, items []entity.RecurringInvoiceItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		r.byRecurring[items[i].RecurringInvoiceID] = append(r.byRecurring[items[i].RecurringInvoiceID], items[i])
	}
	return nil
}

func (r *fakeRecurringItemRepo) GetByRecurringInvoiceID(ctx context.Context, recurringInvoiceID uuid.UUID) ([]entity.RecurringInvoiceItem, error) {
	return append([]entity.RecurringInvoiceItem(nil), r.byRecurring[recurringInvoiceID]...), nil
}

func (r *fakeRecurringItemRepo) DeleteByRecurringInvoiceID(ctx context.Context, recurringInvoiceID uuid.UUID) error {
	delete(r.byRecurring, recurringInvoiceID)
	return nil
}

type fakeRecurringRepo struct {
	templates map[uuid.UUID]*entity.RecurringInvoice
	items     *fakeRecurringItemRepo
}

func newFakeRecurringRepo(items *fakeRecurringItemRepo) *fakeRecurringRepo {
	return &fakeRecurringRepo{templates: map[uuid.UUID]*entity.RecurringInvoice{}, items: items}
}

func (r *fakeRecurringRepo) Create(ctx context.Context, rec *entity.RecurringInvoice) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	t := *rec
	r.templates[t.ID] = &t
	return nil
}

func (r *fakeRecurringRepo) get(userID, id uuid.UUID) *entity.RecurringInvoice {
	t, ok := r.templates[id]
	if !ok || (userID != uuid.Nil && t.UserID != userID) {
		return nil
	}
	out := *t
	return &out
}

func (r *fakeRecurringRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.RecurringInvoice, error) {
	return r.get(userID, id), nil
}

func (r *fakeRecurringRepo) GetWithItems(ctx context.Context, userID, id uuid.UUID) (*entity.RecurringInvoice, error) {
	t := r.get(userID, id)
	if t != nil && r.items != nil {
		t.Items, _ = r.items.GetByRecurringInvoiceID(ctx, t.ID)
	}
	return t, nil
}

func (r *fakeRecurringRepo) Update(ctx context.Context, rec *entity.RecurringInvoice) error {
	t := *rec
	t.Items = nil
	r.templates[t.ID] = &t
	return nil
}

func (r *fakeRecurringRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.templates, id)
	return nil
}

func (r *fakeRecurringRepo) List(ctx context.Context, userID uuid.UUID, params *repository.RecurringFilterParams) ([]entity.RecurringInvoice, int64, error) {
	var out []entity.RecurringInvoice
	for _, t := range r.templates {
		if userID == uuid.Nil || t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRecurringRepo) ListDue(ctx context.Context, date time.Time) ([]entity.RecurringInvoice, error) {
	var out []entity.RecurringInvoice
	for _, t := range r.templates {
		if t.Status != enum.RecurringStatusActive || t.NextGenerationDate == nil {
			continue
		}
		if t.NextGenerationDate.After(date) {
			continue
		}
		rec := *t
		rec.Items, _ = r.items.GetByRecurringInvoiceID(ctx, rec.ID)
		out = append(out, rec)
	}
	return out, nil
}
