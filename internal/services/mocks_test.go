package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"plantcare/internal/models/db_models"
	"plantcare/internal/repositories"
)

// In-memory repository fakes. They keep real state so the multi-step flows
// (extension, fallback fork, sweep) can be exercised end to end without a
// database.

type fakeSubscriptionRepo struct {
	subs  map[uuid.UUID]*db_models.Subscription
	plans map[uint]db_models.Plan
	seq   int64
	err   error // when set, every call fails with it
}

func newFakeSubscriptionRepo(plans map[uint]db_models.Plan) *fakeSubscriptionRepo {
	if plans == nil {
		plans = map[uint]db_models.Plan{}
	}
	return &fakeSubscriptionRepo{
		subs:  make(map[uuid.UUID]*db_models.Subscription),
		plans: plans,
	}
}

func (f *fakeSubscriptionRepo) snapshot(sub *db_models.Subscription) *db_models.Subscription {
	cp := *sub
	if plan, ok := f.plans[sub.PlanID]; ok {
		cp.Plan = plan
	}
	return &cp
}

func (f *fakeSubscriptionRepo) Create(_ context.Context, sub *db_models.Subscription) error {
	if f.err != nil {
		return f.err
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	f.seq++
	sub.CreatedAt = f.seq
	cp := *sub
	f.subs[sub.ID] = &cp
	return nil
}

func (f *fakeSubscriptionRepo) GetByID(_ context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	sub, ok := f.subs[id]
	if !ok {
		return nil, nil
	}
	return f.snapshot(sub), nil
}

func (f *fakeSubscriptionRepo) GetUserActiveSubscription(_ context.Context, userID uuid.UUID) (*db_models.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now()
	var current *db_models.Subscription
	for _, sub := range f.subs {
		if sub.UserID != userID || !sub.IsActive {
			continue
		}
		if sub.SubEnd != nil && !sub.SubEnd.After(now) {
			continue
		}
		if current == nil || sub.CreatedAt > current.CreatedAt {
			current = sub
		}
	}
	if current == nil {
		return nil, nil
	}
	return f.snapshot(current), nil
}

func (f *fakeSubscriptionRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]db_models.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []db_models.Subscription
	for _, sub := range f.subs {
		if sub.UserID == userID {
			out = append(out, *f.snapshot(sub))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (f *fakeSubscriptionRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if f.err != nil {
		return f.err
	}
	sub, ok := f.subs[id]
	if !ok {
		return nil
	}
	for key, val := range fields {
		switch key {
		case "sub_end":
			switch v := val.(type) {
			case nil:
				sub.SubEnd = nil
			case time.Time:
				end := v
				sub.SubEnd = &end
			case *time.Time:
				sub.SubEnd = v
			}
		case "subscription_type":
			sub.SubscriptionType = val.(db_models.SubscriptionType)
		case "payment_id":
			if v, ok := val.(*uuid.UUID); ok {
				sub.PaymentID = v
			}
		case "auto_renew":
			sub.AutoRenew = val.(bool)
		case "is_active":
			sub.IsActive = val.(bool)
		case "cancelled_at":
			if v, ok := val.(time.Time); ok {
				sub.CancelledAt = &v
			}
		}
	}
	return nil
}

func (f *fakeSubscriptionRepo) DeactivateByID(_ context.Context, id uuid.UUID) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	sub, ok := f.subs[id]
	if !ok || !sub.IsActive {
		return 0, nil
	}
	sub.IsActive = false
	return 1, nil
}

func (f *fakeSubscriptionRepo) ReactivateByID(_ context.Context, id uuid.UUID) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	sub, ok := f.subs[id]
	if !ok || sub.IsActive {
		return 0, nil
	}
	sub.IsActive = true
	return 1, nil
}

func (f *fakeSubscriptionRepo) DeactivateUserSubscriptions(_ context.Context, userID uuid.UUID) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, sub := range f.subs {
		if sub.UserID == userID && sub.IsActive {
			sub.IsActive = false
			n++
		}
	}
	return n, nil
}

func (f *fakeSubscriptionRepo) FindDueWithFallback(_ context.Context, now time.Time) ([]db_models.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []db_models.Subscription
	for _, sub := range f.subs {
		if sub.IsActive && sub.FallbackSubscriptionID != nil && sub.SubEnd != nil && !sub.SubEnd.After(now) {
			out = append(out, *f.snapshot(sub))
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) ExpireDueWithoutFallback(_ context.Context, now time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, sub := range f.subs {
		if sub.IsActive && sub.FallbackSubscriptionID == nil && sub.SubEnd != nil && !sub.SubEnd.After(now) {
			sub.IsActive = false
			n++
		}
	}
	return n, nil
}

func (f *fakeSubscriptionRepo) GetExpiring(_ context.Context, daysAhead int) ([]db_models.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now()
	cutoff := now.AddDate(0, 0, daysAhead)
	var out []db_models.Subscription
	for _, sub := range f.subs {
		if sub.IsActive && sub.SubEnd != nil && sub.SubEnd.After(now) && sub.SubEnd.Before(cutoff) {
			out = append(out, *f.snapshot(sub))
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) CountActive(_ context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, sub := range f.subs {
		if sub.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubscriptionRepo) CountExpired(_ context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, sub := range f.subs {
		if !sub.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubscriptionRepo) CountExpiringWithin(_ context.Context, daysAhead int) (int64, error) {
	subs, err := f.GetExpiring(context.Background(), daysAhead)
	if err != nil {
		return 0, err
	}
	return int64(len(subs)), nil
}

var _ repositories.ISubscriptionRepository = (*fakeSubscriptionRepo)(nil)

type fakePlanRepo struct {
	plans map[uint]db_models.Plan
	err   error
}

func newFakePlanRepo(plans map[uint]db_models.Plan) *fakePlanRepo {
	if plans == nil {
		plans = map[uint]db_models.Plan{}
	}
	return &fakePlanRepo{plans: plans}
}

func (f *fakePlanRepo) GetPlanByID(_ context.Context, planID uint) (*db_models.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	plan, ok := f.plans[planID]
	if !ok {
		return nil, nil
	}
	cp := plan
	return &cp, nil
}

func (f *fakePlanRepo) GetPlanByName(_ context.Context, name string) (*db_models.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, plan := range f.plans {
		if plan.Name == name && plan.IsActive {
			cp := plan
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePlanRepo) GetPublicPlans(_ context.Context) ([]db_models.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []db_models.Plan
	for _, plan := range f.plans {
		if plan.IsActive && !plan.IsAdminOnly {
			out = append(out, plan)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePlanRepo) GetAllPlans(_ context.Context) ([]db_models.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []db_models.Plan
	for _, plan := range f.plans {
		out = append(out, plan)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePlanRepo) CreatePlan(_ context.Context, plan *db_models.Plan) error {
	if f.err != nil {
		return f.err
	}
	if plan.ID == 0 {
		plan.ID = uint(len(f.plans) + 1)
	}
	f.plans[plan.ID] = *plan
	return nil
}

func (f *fakePlanRepo) UpdatePlan(_ context.Context, plan *db_models.Plan) error {
	if f.err != nil {
		return f.err
	}
	f.plans[plan.ID] = *plan
	return nil
}

func (f *fakePlanRepo) DeactivatePlan(_ context.Context, planID uint) error {
	if f.err != nil {
		return f.err
	}
	plan, ok := f.plans[planID]
	if ok {
		plan.IsActive = false
		f.plans[planID] = plan
	}
	return nil
}

var _ repositories.IPlanRepository = (*fakePlanRepo)(nil)

type fakePaymentRepo struct {
	payments map[string]*db_models.Payment
	seq      int64
	err      error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*db_models.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *db_models.Payment) error {
	if f.err != nil {
		return f.err
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.seq++
	payment.CreatedAt = f.seq
	cp := *payment
	f.payments[payment.OrderID] = &cp
	return nil
}

func (f *fakePaymentRepo) FindByOrderID(_ context.Context, orderID string) (*db_models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	payment, ok := f.payments[orderID]
	if !ok {
		return nil, nil
	}
	cp := *payment
	return &cp, nil
}

func (f *fakePaymentRepo) FindByUserID(_ context.Context, userID uuid.UUID, status *db_models.PaymentStatus, limit int) ([]db_models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []db_models.Payment
	for _, payment := range f.payments {
		if payment.UserID != userID {
			continue
		}
		if status != nil && payment.Status != *status {
			continue
		}
		out = append(out, *payment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePaymentRepo) FindAll(_ context.Context, status *db_models.PaymentStatus, limit int) ([]db_models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []db_models.Payment
	for _, payment := range f.payments {
		if status != nil && payment.Status != *status {
			continue
		}
		out = append(out, *payment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePaymentRepo) UpdateByOrderID(_ context.Context, orderID string, fields map[string]interface{}) (*db_models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	payment, ok := f.payments[orderID]
	if !ok {
		return nil, nil
	}
	for key, val := range fields {
		switch key {
		case "status":
			payment.Status = val.(db_models.PaymentStatus)
		case "transaction_no":
			v := val.(string)
			payment.TransactionNo = &v
		case "response_code":
			v := val.(string)
			payment.ResponseCode = &v
		case "pay_date":
			v := val.(string)
			payment.PayDate = &v
		case "bank_code":
			v := val.(string)
			payment.BankCode = &v
		case "gateway_payload":
			payment.GatewayPayload = val.(datatypes.JSON)
		}
	}
	cp := *payment
	return &cp, nil
}

func (f *fakePaymentRepo) Stats(_ context.Context, since time.Time) (*repositories.PaymentStatsRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	row := &repositories.PaymentStatsRow{}
	for _, payment := range f.payments {
		row.TotalCount++
		switch payment.Status {
		case db_models.PaymentStatusSuccess:
			row.SuccessCount++
			row.TotalRevenue += payment.Amount
		case db_models.PaymentStatusFailed:
			row.FailedCount++
		case db_models.PaymentStatusPending:
			row.PendingCount++
		}
	}
	return row, nil
}

var _ repositories.IPaymentRepository = (*fakePaymentRepo)(nil)

type fakeUserRepo struct {
	users map[uuid.UUID]*db_models.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*db_models.User)}
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*db_models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, userID uuid.UUID, role string) error {
	if f.err != nil {
		return f.err
	}
	if user, ok := f.users[userID]; ok {
		user.Role = role
	}
	return nil
}

var _ repositories.IUserRepository = (*fakeUserRepo)(nil)
