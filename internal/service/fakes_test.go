package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/repository"
)

// ─── Catalog ────────────────────────────────────────────────────────────────

type fakeCatalog struct {
	universities  map[int]*model.University
	majors        map[int]*model.Major
	methods       map[int]*model.AdmissionMethod
	subjectGroups map[int]*model.SubjectGroup
	links         []*model.EligibilityLink

	activeCalls []model.CatalogKind
	lookups     int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		universities:  map[int]*model.University{},
		majors:        map[int]*model.Major{},
		methods:       map[int]*model.AdmissionMethod{},
		subjectGroups: map[int]*model.SubjectGroup{},
	}
}

func (f *fakeCatalog) repos() CatalogRepos {
	return CatalogRepos{
		Universities:  fakeUniversities{f},
		Majors:        fakeMajors{f},
		Methods:       fakeMethods{f},
		SubjectGroups: fakeSubjectGroups{f},
		Links:         fakeLinks{f},
		Activity:      fakeActivity{f},
	}
}

func (f *fakeCatalog) eligibility() *EligibilityService {
	r := f.repos()
	return NewEligibilityService(r.Universities, r.Majors, r.Methods, r.SubjectGroups, r.Links, nil)
}

type fakeUniversities struct{ f *fakeCatalog }

func (r fakeUniversities) GetByID(_ context.Context, id int) (*model.University, error) {
	if u, ok := r.f.universities[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (r fakeUniversities) ListActive(context.Context) ([]model.University, error) {
	r.f.lookups++
	var out []model.University
	for _, u := range r.f.universities {
		if u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeMajors struct{ f *fakeCatalog }

func (r fakeMajors) GetByID(_ context.Context, id int) (*model.Major, error) {
	if m, ok := r.f.majors[id]; ok {
		c := *m
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (r fakeMajors) ListActiveByUniversity(_ context.Context, universityID int) ([]model.Major, error) {
	var out []model.Major
	for _, m := range r.f.majors {
		if m.IsActive && m.UniversityID == universityID {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakeMethods struct{ f *fakeCatalog }

func (r fakeMethods) GetByID(_ context.Context, id int) (*model.AdmissionMethod, error) {
	if m, ok := r.f.methods[id]; ok {
		c := *m
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (r fakeMethods) ListActive(context.Context) ([]model.AdmissionMethod, error) {
	var out []model.AdmissionMethod
	for _, m := range r.f.methods {
		if m.IsActive {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakeSubjectGroups struct{ f *fakeCatalog }

func (r fakeSubjectGroups) GetByID(_ context.Context, id int) (*model.SubjectGroup, error) {
	if g, ok := r.f.subjectGroups[id]; ok {
		c := *g
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (r fakeSubjectGroups) ListActive(context.Context) ([]model.SubjectGroup, error) {
	var out []model.SubjectGroup
	for _, g := range r.f.subjectGroups {
		if g.IsActive {
			out = append(out, *g)
		}
	}
	return out, nil
}

type fakeLinks struct{ f *fakeCatalog }

func sameGroup(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r fakeLinks) FindActive(_ context.Context, majorID, methodID int, groupID *int, year int) (*model.EligibilityLink, error) {
	r.f.lookups++
	for _, l := range r.f.links {
		if l.IsActive && l.MajorID == majorID && l.AdmissionMethodID == methodID && sameGroup(l.SubjectGroupID, groupID) && l.Year == year {
			c := *l
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeLinks) GetByID(_ context.Context, id int) (*model.EligibilityLink, error) {
	for _, l := range r.f.links {
		if l.ID == id {
			c := *l
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeLinks) List(_ context.Context, filter model.EligibilityLinkFilter) ([]model.EligibilityLinkView, error) {
	var out []model.EligibilityLinkView
	for _, l := range r.f.links {
		if filter.MajorID > 0 && l.MajorID != filter.MajorID {
			continue
		}
		if filter.Year > 0 && l.Year != filter.Year {
			continue
		}
		if filter.ActiveOnly && !l.IsActive {
			continue
		}
		out = append(out, model.EligibilityLinkView{EligibilityLink: *l})
	}
	return out, nil
}

// conflicts mirrors the partial unique index on active tuples.
func (r fakeLinks) conflicts(link *model.EligibilityLink) bool {
	if !link.IsActive {
		return false
	}
	for _, l := range r.f.links {
		if l.ID != link.ID && l.IsActive && l.MajorID == link.MajorID && l.AdmissionMethodID == link.AdmissionMethodID &&
			sameGroup(l.SubjectGroupID, link.SubjectGroupID) && l.Year == link.Year {
			return true
		}
	}
	return false
}

func (r fakeLinks) Create(_ context.Context, link *model.EligibilityLink) error {
	if r.conflicts(link) {
		return repository.ErrDuplicateLink
	}
	link.ID = len(r.f.links) + 1
	c := *link
	r.f.links = append(r.f.links, &c)
	return nil
}

func (r fakeLinks) Update(_ context.Context, link *model.EligibilityLink) error {
	if r.conflicts(link) {
		return repository.ErrDuplicateLink
	}
	for i, l := range r.f.links {
		if l.ID == link.ID {
			c := *link
			r.f.links[i] = &c
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeActivity struct{ f *fakeCatalog }

func (r fakeActivity) SetActive(_ context.Context, kind model.CatalogKind, id int, active bool, _ int) error {
	r.f.activeCalls = append(r.f.activeCalls, kind)
	switch kind {
	case model.CatalogUniversities:
		if u, ok := r.f.universities[id]; ok {
			u.IsActive = active
			return nil
		}
	case model.CatalogMajors:
		if m, ok := r.f.majors[id]; ok {
			m.IsActive = active
			return nil
		}
	}
	return repository.ErrNotFound
}

// seedBKA builds the reference catalog: university BKA, major IT1, method
// THPT, subject group A00 and one active link for 2025.
func seedBKA() (*fakeCatalog, model.ApplicationChoice) {
	f := newFakeCatalog()
	f.universities[1] = &model.University{ID: 1, Code: "BKA", Name: "Đại học Bách khoa Hà Nội", Activity: model.Activity{IsActive: true}}
	f.majors[10] = &model.Major{ID: 10, UniversityID: 1, Code: "IT1", Name: "Khoa học Máy tính", Activity: model.Activity{IsActive: true}}
	f.methods[100] = &model.AdmissionMethod{ID: 100, Code: "THPT", Name: "Xét điểm thi THPT", Activity: model.Activity{IsActive: true}}
	f.subjectGroups[1000] = &model.SubjectGroup{ID: 1000, Code: "A00", Name: "Toán, Lý, Hóa",
		Subjects: []string{"math", "physics", "chemistry"}, Activity: model.Activity{IsActive: true}}
	group := 1000
	f.links = append(f.links, &model.EligibilityLink{ID: 1, MajorID: 10, AdmissionMethodID: 100, SubjectGroupID: &group, Year: 2025,
		Activity: model.Activity{IsActive: true}})

	return f, model.ApplicationChoice{UniversityID: 1, MajorID: 10, AdmissionMethodID: 100, SubjectGroupID: &group, Year: 2025}
}

// ─── Profiles, applications, documents ─────────────────────────────────────

type fakeProfiles struct {
	mu      sync.Mutex
	byUser  map[int]model.CandidateProfile
	upserts int
	err     error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byUser: map[int]model.CandidateProfile{}}
}

func (f *fakeProfiles) Upsert(_ context.Context, p *model.CandidateProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserts++
	if existing, ok := f.byUser[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = len(f.byUser) + 1
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	f.byUser[p.UserID] = *p
	return nil
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID int) (*model.CandidateProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUser[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

type fakeApplications struct {
	mu   sync.Mutex
	apps []model.Application
	err  error
}

func (f *fakeApplications) Create(_ context.Context, a *model.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	a.CreatedAt, a.UpdatedAt = a.SubmissionDate, a.SubmissionDate
	f.apps = append(f.apps, *a)
	return nil
}

func (f *fakeApplications) GetByID(_ context.Context, id uuid.UUID) (*model.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.ID == id {
			c := a
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeApplications) ListByCandidate(_ context.Context, candidateID int) ([]model.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Application{}
	for _, a := range f.apps {
		if a.CandidateID == candidateID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApplications) ListPaginated(_ context.Context, filter model.ApplicationFilter, limit, offset int) ([]model.Application, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []model.Application
	for _, a := range f.apps {
		if filter.Status == "" || a.Status == filter.Status {
			matched = append(matched, a)
		}
	}
	total := len(matched)
	if offset >= total {
		return []model.Application{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (f *fakeApplications) UpdateStatus(_ context.Context, id uuid.UUID, status model.ApplicationStatus, note string) (*model.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.apps {
		if f.apps[i].ID == id {
			f.apps[i].Status = status
			f.apps[i].AdminNote = note
			c := f.apps[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeDocuments struct {
	docs    map[uuid.UUID]model.DocumentProof
	lookups int
}

func newFakeDocuments(docs ...model.DocumentProof) *fakeDocuments {
	f := &fakeDocuments{docs: map[uuid.UUID]model.DocumentProof{}}
	for _, d := range docs {
		f.docs[d.ID] = d
	}
	return f
}

func (f *fakeDocuments) Create(_ context.Context, d *model.DocumentProof) error {
	d.UploadedAt = time.Now()
	f.docs[d.ID] = *d
	return nil
}

func (f *fakeDocuments) ListByIDs(_ context.Context, ids []uuid.UUID) ([]model.DocumentProof, error) {
	f.lookups++
	var out []model.DocumentProof
	for _, id := range ids {
		if d, ok := f.docs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocuments) ListByCandidate(_ context.Context, candidateID int) ([]model.DocumentProof, error) {
	var out []model.DocumentProof
	for _, d := range f.docs {
		if d.CandidateID == candidateID {
			out = append(out, d)
		}
	}
	return out, nil
}

// ─── Users ──────────────────────────────────────────────────────────────────

type fakeUsers struct {
	byID map[int]*model.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int]*model.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = len(f.byID) + 1
	c := *u
	f.byID[u.ID] = &c
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

// ─── Notifications ──────────────────────────────────────────────────────────

type fakeNotificationStore struct {
	items []model.Notification
	err   error
}

func (f *fakeNotificationStore) Create(_ context.Context, n *model.Notification) error {
	if f.err != nil {
		return f.err
	}
	n.ID = int64(len(f.items) + 1)
	n.CreatedAt = time.Now()
	f.items = append(f.items, *n)
	return nil
}

func (f *fakeNotificationStore) ListByUser(_ context.Context, userID int, unreadOnly bool, limit, offset int) ([]model.Notification, int, error) {
	var matched []model.Notification
	for _, n := range f.items {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			matched = append(matched, n)
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, userID int, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			f.items[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeNotificationStore) MarkAllRead(_ context.Context, userID int) (int64, error) {
	var n int64
	for i := range f.items {
		if f.items[i].UserID == userID && !f.items[i].IsRead {
			f.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

// ─── Redis ──────────────────────────────────────────────────────────────────

// fakeRedis implements the key/value, publish and queue capabilities.
type fakeRedis struct {
	mu        sync.Mutex
	values    map[string]string
	ttls      map[string]time.Duration
	published map[string][]string
	lists     map[string][]string
	err       error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		values:    map[string]string{},
		ttls:      map[string]time.Duration{},
		published: map[string][]string{},
		lists:     map[string][]string{},
	}
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	}
	return ""
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = toString(value)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.published[channel] = append(f.published[channel], toString(message))
	return redis.NewIntResult(1, nil)
}

func (f *fakeRedis) RPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	for _, v := range values {
		f.lists[key] = append(f.lists[key], toString(v))
	}
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

// ─── Side effects ───────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu        sync.Mutex
	submitted []*model.Application
	changed   []*model.Application
}

func (r *recordingNotifier) ApplicationSubmitted(app *model.Application, _ *Eligibility) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitted = append(r.submitted, app)
}

func (r *recordingNotifier) ApplicationStatusChanged(app *model.Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = append(r.changed, app)
}
