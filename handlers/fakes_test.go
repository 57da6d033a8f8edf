package handlers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"assetverse/events"
	"assetverse/models"
	"assetverse/payment"
	"assetverse/repository"
)

// applySet merges a $set document into doc by way of its bson form.
func applySet(doc interface{}, set bson.M) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range set {
		m[k] = v
	}
	if raw, err = bson.Marshal(m); err != nil {
		return err
	}
	return bson.Unmarshal(raw, doc)
}

type fakeUsers struct {
	mu    sync.Mutex
	users []models.User
	err   error
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) Insert(_ context.Context, u *models.User) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.users = append(f.users, *u)
	return u.ID, nil
}

func (f *fakeUsers) Update(_ context.Context, email string, set bson.M) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].Email != email {
			continue
		}
		before, _ := bson.Marshal(f.users[i])
		if err := applySet(&f.users[i], set); err != nil {
			return nil, err
		}
		after, _ := bson.Marshal(f.users[i])
		res := &mongo.UpdateResult{MatchedCount: 1}
		if string(before) != string(after) {
			res.ModifiedCount = 1
		}
		return res, nil
	}
	return &mongo.UpdateResult{}, nil
}

type fakeAssets struct {
	mu     sync.Mutex
	assets []models.Asset
}

func (f *fakeAssets) Page(_ context.Context, hrEmail string, req models.PageRequest) ([]models.Asset, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Asset
	for i := len(f.assets) - 1; i >= 0; i-- {
		if hrEmail == "" || f.assets[i].HREmail == hrEmail {
			matched = append(matched, f.assets[i])
		}
	}
	total := int64(len(matched))
	start := req.Skip()
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeAssets) FindByID(_ context.Context, id primitive.ObjectID) (*models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.assets {
		if f.assets[i].ID == id {
			a := f.assets[i]
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAssets) Insert(_ context.Context, a *models.Asset) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	f.assets = append(f.assets, *a)
	return a.ID, nil
}

func (f *fakeAssets) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.assets {
		if f.assets[i].ID == id {
			if err := applySet(&f.assets[i], set); err != nil {
				return nil, err
			}
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (f *fakeAssets) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.assets {
		if f.assets[i].ID == id {
			f.assets = append(f.assets[:i], f.assets[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeAssets) CountByType(_ context.Context, hrEmail string) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, a := range f.assets {
		if hrEmail == "" || a.HREmail == hrEmail {
			counts[a.ProductType]++
		}
	}
	return counts, nil
}

type fakeRequests struct {
	mu   sync.Mutex
	reqs []models.AssetRequest
	// approveErr fails the status write, after any earlier writes in the same call
	approveErr error
}

func (f *fakeRequests) Insert(_ context.Context, r *models.AssetRequest) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	f.reqs = append(f.reqs, *r)
	return r.ID, nil
}

func (f *fakeRequests) List(_ context.Context, filter models.RequestFilter) ([]models.AssetRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AssetRequest
	for _, r := range f.reqs {
		if filter.HREmail != "" && r.HREmail != filter.HREmail {
			continue
		}
		if filter.RequesterEmail != "" && r.RequesterEmail != filter.RequesterEmail {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RequestDate.After(out[j].RequestDate) })
	return out, nil
}

func (f *fakeRequests) find(id primitive.ObjectID) *models.AssetRequest {
	for i := range f.reqs {
		if f.reqs[i].ID == id {
			return &f.reqs[i]
		}
	}
	return nil
}

func (f *fakeRequests) FindByID(_ context.Context, id primitive.ObjectID) (*models.AssetRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r := f.find(id); r != nil {
		c := *r
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRequests) transition(id primitive.ObjectID, to string, at time.Time) *mongo.UpdateResult {
	r := f.find(id)
	if r == nil || r.RequestStatus != models.RequestPending {
		return &mongo.UpdateResult{}
	}
	r.RequestStatus = to
	if to == models.RequestApproved {
		r.ApprovedAt = &at
	} else {
		r.RejectedDate = &at
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}
}

func (f *fakeRequests) Approve(_ context.Context, id primitive.ObjectID, at time.Time) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	return f.transition(id, models.RequestApproved, at), nil
}

func (f *fakeRequests) Reject(_ context.Context, id primitive.ObjectID, at time.Time) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transition(id, models.RequestRejected, at), nil
}

func (f *fakeRequests) MarkAssigned(_ context.Context, id primitive.ObjectID, hrEmail string, at time.Time) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.find(id)
	if r == nil || r.RequestStatus == models.RequestRejected {
		return &mongo.UpdateResult{}, nil
	}
	r.RequestStatus = models.RequestApproved
	r.ApprovalDate = &at
	r.ProcessedBy = hrEmail
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeRequests) TopAssets(_ context.Context, n int) ([]models.AssetPopularity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, r := range f.reqs {
		counts[r.AssetName]++
	}
	var out []models.AssetPopularity
	for name, c := range counts {
		out = append(out, models.AssetPopularity{Name: name, Requests: c})
	}
	return models.RankAssets(out, n), nil
}

type fakePackages struct {
	pkgs  []models.Package
	calls int
}

func (f *fakePackages) List(context.Context) ([]models.Package, error) {
	f.calls++
	return f.pkgs, nil
}

type fakePayments struct {
	mu       sync.Mutex
	payments []models.Payment
	err      error
}

func (f *fakePayments) Insert(_ context.Context, p *models.Payment) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.payments = append(f.payments, *p)
	return p.ID, nil
}

func (f *fakePayments) RecordOnce(_ context.Context, p *models.Payment) (*models.Payment, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	for i := range f.payments {
		if f.payments[i].TransactionID == p.TransactionID {
			existing := f.payments[i]
			return &existing, false, nil
		}
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.payments = append(f.payments, *p)
	return p, true, nil
}

func (f *fakePayments) ListByHR(_ context.Context, hrEmail string) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.HREmail == hrEmail {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAffiliations struct {
	mu   sync.Mutex
	affs []models.EmployeeAffiliation
}

func (f *fakeAffiliations) EnsureActive(_ context.Context, key models.AffiliationKey, a *models.EmployeeAffiliation) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.affs {
		if key.Matches(&f.affs[i]) {
			return false, nil
		}
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	f.affs = append(f.affs, *a)
	return true, nil
}

func (f *fakeAffiliations) ActiveForEmployee(_ context.Context, email string) ([]models.EmployeeAffiliation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.EmployeeAffiliation
	for _, a := range f.affs {
		if a.EmployeeEmail == email && a.Status == models.AffiliationActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAffiliations) InScope(_ context.Context, scope models.TeamScope) ([]models.EmployeeAffiliation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.EmployeeAffiliation
	for i := range f.affs {
		if scope.Matches(&f.affs[i]) {
			out = append(out, f.affs[i])
		}
	}
	return out, nil
}

func (f *fakeAffiliations) FindByID(_ context.Context, id primitive.ObjectID) (*models.EmployeeAffiliation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.affs {
		if f.affs[i].ID == id {
			a := f.affs[i]
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAffiliations) Remove(_ context.Context, id primitive.ObjectID, at time.Time) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.affs {
		if f.affs[i].ID == id && f.affs[i].Status == models.AffiliationActive {
			f.affs[i].Status = models.AffiliationRemoved
			f.affs[i].RemovedAt = &at
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (f *fakeAffiliations) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.affs {
		if a.Status == models.AffiliationActive {
			n++
		}
	}
	return n
}

type fakeAssigned struct {
	mu     sync.Mutex
	assets []models.AssignedAsset
}

func (f *fakeAssigned) ListByEmployee(_ context.Context, email string) ([]models.AssignedAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AssignedAsset
	for _, a := range f.assets {
		if a.EmployeeEmail == email {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssigned) CountByEmployee(_ context.Context, email string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.assets {
		if a.EmployeeEmail == email {
			n++
		}
	}
	return n, nil
}

func (f *fakeAssigned) Assign(_ context.Context, a *models.AssignedAsset) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.RequestID != "" {
		for _, existing := range f.assets {
			if existing.RequestID == a.RequestID && existing.EmployeeEmail == a.EmployeeEmail {
				return false, nil
			}
		}
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	f.assets = append(f.assets, *a)
	return true, nil
}

func (f *fakeAssigned) Return(_ context.Context, id primitive.ObjectID, at time.Time) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.assets {
		a := &f.assets[i]
		if a.ID == id && a.Status == models.AssignmentAssigned && a.AssetType == models.TypeReturnable {
			a.Status = models.AssignmentReturned
			a.ReturnDate = &at
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (f *fakeAssigned) FindByID(_ context.Context, id primitive.ObjectID) (*models.AssignedAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.assets {
		if f.assets[i].ID == id {
			a := f.assets[i]
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeGateway struct {
	sessions map[string]*payment.Session
	created  []payment.CheckoutRequest
	err      error
}

func (g *fakeGateway) CreateSession(_ context.Context, req payment.CheckoutRequest) (*payment.Session, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.created = append(g.created, req)
	return &payment.Session{ID: "cs_new", URL: "https://checkout.example/cs_new"}, nil
}

func (g *fakeGateway) GetSession(_ context.Context, id string) (*payment.Session, error) {
	if g.err != nil {
		return nil, g.err
	}
	s, ok := g.sessions[id]
	if !ok {
		return nil, errors.New("no such checkout session: " + id)
	}
	return s, nil
}

type recordedEvents struct {
	mu  sync.Mutex
	got []events.Event
}

func (r *recordedEvents) Publish(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, e)
}

func (r *recordedEvents) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, 0, len(r.got))
	for _, e := range r.got {
		out = append(out, e.Type)
	}
	return out
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
