package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"restaurant-forum/internal/core/storage"
	"restaurant-forum/internal/domain"
)

// 内存版仓储，行为与 gorm 实现保持一致：未找到返回 (nil, nil)

type fakeUsers struct {
	mu   sync.RWMutex
	rows map[uint]domain.User
	next uint
}

func newFakeUsers() *fakeUsers { return &fakeUsers{rows: map[uint]domain.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	f.next++
	u.ID = f.next
	u.CreatedAt = time.Now()
	f.rows[u.ID] = *u
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*domain.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if u, ok := f.rows[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, u := range f.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []uint) ([]domain.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []domain.User{}
	for _, u := range f.sorted() {
		if slices.Contains(ids, u.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) List(_ context.Context, offset, limit int) ([]domain.User, int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	all := f.sorted()
	return window(all, offset, limit), int64(len(all)), nil
}

func (f *fakeUsers) ListAll(_ context.Context) ([]domain.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sorted(), nil
}

func (f *fakeUsers) Update(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[u.ID] = *u
	return nil
}

func (f *fakeUsers) sorted() []domain.User {
	out := make([]domain.User, 0, len(f.rows))
	for _, u := range f.rows {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b domain.User) int { return int(a.ID) - int(b.ID) })
	return out
}

type fakeCategories struct {
	mu   sync.RWMutex
	rows map[uint]domain.Category
	next uint
}

func newFakeCategories() *fakeCategories { return &fakeCategories{rows: map[uint]domain.Category{}} }

func (f *fakeCategories) Create(_ context.Context, c *domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	c.ID = f.next
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeCategories) FindByID(_ context.Context, id uint) (*domain.Category, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if c, ok := f.rows[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeCategories) ListActive(_ context.Context) ([]domain.Category, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []domain.Category{}
	for id := uint(1); id <= f.next; id++ {
		if c, ok := f.rows[id]; ok && !c.Deleted {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) Update(_ context.Context, c *domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[c.ID] = *c
	return nil
}

type fakeRestaurants struct {
	mu         sync.RWMutex
	rows       []domain.Restaurant
	categories *fakeCategories
}

func (f *fakeRestaurants) withCategory(r domain.Restaurant) domain.Restaurant {
	if c, _ := f.categories.FindByID(context.Background(), r.CategoryID); c != nil {
		r.Category = *c
	}
	return r
}

func (f *fakeRestaurants) Create(_ context.Context, r *domain.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uint(len(f.rows) + 1)
	r.CreatedAt = time.Now()
	f.rows = append(f.rows, *r)
	return nil
}

func (f *fakeRestaurants) FindByID(_ context.Context, id uint) (*domain.Restaurant, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, r := range f.rows {
		if r.ID == id {
			r = f.withCategory(r)
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRestaurants) FindByIDs(_ context.Context, ids []uint) ([]domain.Restaurant, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []domain.Restaurant{}
	for _, r := range f.rows {
		if slices.Contains(ids, r.ID) {
			out = append(out, f.withCategory(r))
		}
	}
	return out, nil
}

func (f *fakeRestaurants) Page(_ context.Context, q domain.RestaurantFilter) ([]domain.Restaurant, int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var all []domain.Restaurant
	for _, r := range f.rows {
		if q.CategoryID == 0 || r.CategoryID == q.CategoryID {
			all = append(all, f.withCategory(r))
		}
	}
	return window(all, q.Offset, q.Limit), int64(len(all)), nil
}

func (f *fakeRestaurants) Latest(_ context.Context, limit int) ([]domain.Restaurant, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []domain.Restaurant
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.withCategory(f.rows[i]))
	}
	return out, nil
}

func (f *fakeRestaurants) ListAll(_ context.Context) ([]domain.Restaurant, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.Restaurant, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, f.withCategory(r))
	}
	return out, nil
}

func (f *fakeRestaurants) Update(_ context.Context, r *domain.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == r.ID {
			f.rows[i] = *r
			return nil
		}
	}
	return errors.New("missing row")
}

func (f *fakeRestaurants) IncrementViewCounts(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].ViewCounts++
		}
	}
	return nil
}

type fakeComments struct {
	mu          sync.RWMutex
	rows        []domain.Comment
	next        uint
	users       *fakeUsers
	restaurants *fakeRestaurants
}

func (f *fakeComments) Create(_ context.Context, c *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	c.ID = f.next
	c.CreatedAt = time.Now()
	f.rows = append(f.rows, *c)
	return nil
}

func (f *fakeComments) FindByID(_ context.Context, id uint) (*domain.Comment, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, c := range f.rows {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeComments) Delete(_ context.Context, id uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.rows {
		if c.ID == id {
			f.rows = slices.Delete(f.rows, i, i+1)
			return 1, nil
		}
	}
	return 0, nil
}

// newest 按创建倒序，filter 为 nil 时不过滤
func (f *fakeComments) newest(filter func(domain.Comment) bool, withUser, withRestaurant bool) []domain.Comment {
	ctx := context.Background()
	var out []domain.Comment
	for i := len(f.rows) - 1; i >= 0; i-- {
		c := f.rows[i]
		if filter != nil && !filter(c) {
			continue
		}
		if withUser {
			if u, _ := f.users.FindByID(ctx, c.UserID); u != nil {
				c.User = *u
			}
		}
		if withRestaurant {
			if r, _ := f.restaurants.FindByID(ctx, c.RestaurantID); r != nil {
				c.Restaurant = *r
			}
		}
		out = append(out, c)
	}
	return out
}

func (f *fakeComments) ListByRestaurant(_ context.Context, restaurantID uint) ([]domain.Comment, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.newest(func(c domain.Comment) bool { return c.RestaurantID == restaurantID }, true, false), nil
}

func (f *fakeComments) ListByUser(_ context.Context, userID uint) ([]domain.Comment, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.newest(func(c domain.Comment) bool { return c.UserID == userID }, false, true), nil
}

func (f *fakeComments) Latest(_ context.Context, limit int) ([]domain.Comment, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return window(f.newest(nil, true, true), 0, limit), nil
}

func (f *fakeComments) CountByRestaurant(_ context.Context, restaurantID uint) (int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var n int64
	for _, c := range f.rows {
		if c.RestaurantID == restaurantID {
			n++
		}
	}
	return n, nil
}

type pair struct{ subject, target uint }

// fakeRelations blindExists=true 时 Exists 恒为 false，用来模拟并发下先查后写的竞态
type fakeRelations struct {
	mu          sync.RWMutex
	rows        []pair
	blindExists bool
	failWith    error
}

func (f *fakeRelations) Exists(_ context.Context, s, t uint) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.failWith != nil {
		return false, f.failWith
	}
	if f.blindExists {
		return false, nil
	}
	return slices.Contains(f.rows, pair{s, t}), nil
}

func (f *fakeRelations) Create(_ context.Context, s, t uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slices.Contains(f.rows, pair{s, t}) {
		return domain.ErrDuplicate
	}
	f.rows = append(f.rows, pair{s, t})
	return nil
}

func (f *fakeRelations) Delete(_ context.Context, s, t uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.Index(f.rows, pair{s, t})
	if i < 0 {
		return 0, nil
	}
	f.rows = slices.Delete(f.rows, i, i+1)
	return 1, nil
}

func (f *fakeRelations) TargetIDs(_ context.Context, s uint) ([]uint, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ids := []uint{}
	for _, p := range f.rows {
		if p.subject == s {
			ids = append(ids, p.target)
		}
	}
	return ids, nil
}

func (f *fakeRelations) SubjectIDs(_ context.Context, t uint) ([]uint, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ids := []uint{}
	for _, p := range f.rows {
		if p.target == t {
			ids = append(ids, p.subject)
		}
	}
	return ids, nil
}

func (f *fakeRelations) SubjectsByTarget(_ context.Context) (map[uint][]uint, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := map[uint][]uint{}
	for _, p := range f.rows {
		out[p.target] = append(out[p.target], p.subject)
	}
	return out, nil
}

// 最小的合法文件头，足够通过内容检测
const (
	pngBytes  = "\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"
	jpegBytes = "\xff\xd8\xff\xe0\x00\x10JFIF\x00"
)

// fakeImages 记录上传次数，返回固定 URL
type fakeImages struct {
	mu      sync.Mutex
	uploads []string
}

func (f *fakeImages) Put(_ context.Context, folder string, up storage.Upload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, folder+"/"+up.Filename)
	return "https://img.example.com/" + folder + "/" + up.Filename, nil
}

func window[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := min(offset+limit, len(all))
	return all[offset:end]
}

type world struct {
	repos  Repos
	users  *fakeUsers
	cats   *fakeCategories
	rests  *fakeRestaurants
	cmts   *fakeComments
	favs   *fakeRelations
	likes  *fakeRelations
	follow *fakeRelations
	images *fakeImages
	svc    *Services
}

func newWorld() *world {
	w := &world{
		users:  newFakeUsers(),
		cats:   newFakeCategories(),
		favs:   &fakeRelations{},
		likes:  &fakeRelations{},
		follow: &fakeRelations{},
		images: &fakeImages{},
	}
	w.rests = &fakeRestaurants{categories: w.cats}
	w.cmts = &fakeComments{users: w.users, restaurants: w.rests}
	w.repos = Repos{
		Users:       w.users,
		Categories:  w.cats,
		Restaurants: w.rests,
		Comments:    w.cmts,
		Favorites:   w.favs,
		Likes:       w.likes,
		Followships: w.follow,
	}
	w.svc = New(w.repos, w.images, zap.NewNop())
	return w
}

func (w *world) user(name string) domain.User {
	u := domain.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: domain.RoleUser}
	_ = w.users.Create(context.Background(), &u)
	return u
}

func (w *world) category(name string) domain.Category {
	c := domain.Category{Name: name}
	_ = w.cats.Create(context.Background(), &c)
	return c
}

func (w *world) restaurant(name string, categoryID uint) domain.Restaurant {
	r := domain.Restaurant{Name: name, CategoryID: categoryID}
	_ = w.rests.Create(context.Background(), &r)
	return r
}
