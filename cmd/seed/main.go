// seed 往本地库里灌一批假数据，方便前端联调
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"restaurant-forum/internal/app"
	"restaurant-forum/internal/core/config"
	"restaurant-forum/internal/domain"
	"restaurant-forum/pkg/utils"
)

var categoryNames = []string{"中式料理", "日本料理", "義大利料理", "墨西哥料理", "素食料理", "美式料理", "複合式料理"}

func main() {
	users := flag.Int("users", 5, "number of normal users")
	restaurants := flag.Int("restaurants", 50, "number of restaurants")
	comments := flag.Int("comments", 3, "comments per restaurant")
	seed := flag.Int64("seed", 0, "gofakeit seed, 0 = time based")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	cfg.DB.AutoMigrate = true

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer a.Close()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	s := &seeder{a: a, f: gofakeit.New(*seed)}
	ctx := context.Background()
	if err := s.run(ctx, *users, *restaurants, *comments); err != nil {
		a.Log.Fatal("seed failed", zap.Error(err))
	}
	a.Log.Info("seed done", zap.Int64("seed", *seed))
}

type seeder struct {
	a *app.App
	f *gofakeit.Faker
}

func (s *seeder) run(ctx context.Context, nUsers, nRestaurants, nComments int) error {
	r := s.a.Repos

	pw, err := utils.HashPassword("12345678")
	if err != nil {
		return err
	}
	users := make([]*domain.User, 0, nUsers+1)
	accounts := []struct{ name, email, role string }{{"root", "root@example.com", domain.RoleAdmin}}
	for i := 0; i < nUsers; i++ {
		accounts = append(accounts, struct{ name, email, role string }{s.f.Name(), s.f.Email(), domain.RoleUser})
	}
	for _, acc := range accounts {
		u := &domain.User{Name: acc.name, Email: acc.email, PasswordHash: pw, Role: acc.role}
		if err := r.Users.Create(ctx, u); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				s.a.Log.Warn("user exists, skipped", zap.String("email", acc.email))
				continue
			}
			return err
		}
		users = append(users, u)
	}

	cats, err := s.ensureCategories(ctx)
	if err != nil {
		return err
	}

	rests := make([]*domain.Restaurant, 0, nRestaurants)
	for i := 0; i < nRestaurants; i++ {
		rest := &domain.Restaurant{
			Name:         s.f.Company(),
			Tel:          s.f.Phone(),
			Address:      s.f.Street() + ", " + s.f.City(),
			OpeningHours: "08:00",
			Description:  s.f.Paragraph(1, 3, 12, " "),
			Image:        "https://loremflickr.com/320/240/restaurant,food/?lock=" + s.f.DigitN(4),
			CategoryID:   cats[s.f.Number(0, len(cats)-1)].ID,
		}
		if err := r.Restaurants.Create(ctx, rest); err != nil {
			return err
		}
		rests = append(rests, rest)
	}
	s.a.Log.Info("seeded base rows",
		zap.Int("users", len(users)), zap.Int("categories", len(cats)), zap.Int("restaurants", len(rests)))

	if len(users) == 0 || len(rests) == 0 {
		return nil
	}

	for _, rest := range rests {
		for i := 0; i < nComments; i++ {
			c := &domain.Comment{
				Text:         s.f.Sentence(s.f.Number(4, 12)),
				UserID:       users[s.f.Number(0, len(users)-1)].ID,
				RestaurantID: rest.ID,
			}
			if err := r.Comments.Create(ctx, c); err != nil {
				return err
			}
		}
	}

	// 关系随机生成，撞到唯一索引直接跳过
	relate := func(repo domain.RelationRepository, subject, target uint) error {
		if err := repo.Create(ctx, subject, target); err != nil && !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
		return nil
	}
	for _, u := range users {
		for i := 0; i < s.f.Number(0, 8); i++ {
			rest := rests[s.f.Number(0, len(rests)-1)]
			if err := relate(r.Favorites, u.ID, rest.ID); err != nil {
				return err
			}
			if s.f.Bool() {
				if err := relate(r.Likes, u.ID, rest.ID); err != nil {
					return err
				}
			}
		}
		for i := 0; i < s.f.Number(0, 3); i++ {
			other := users[s.f.Number(0, len(users)-1)]
			if other.ID == u.ID {
				continue
			}
			if err := relate(r.Followships, u.ID, other.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// ensureCategories 已有同名（未删除）分类时复用，重复执行 seed 不会产生重复分类
func (s *seeder) ensureCategories(ctx context.Context) ([]*domain.Category, error) {
	repo := s.a.Repos.Categories
	existing, err := repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]domain.Category, len(existing))
	for _, c := range existing {
		byName[c.Name] = c
	}

	cats := make([]*domain.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		if c, ok := byName[name]; ok {
			cats = append(cats, &c)
			continue
		}
		c := &domain.Category{Name: name}
		if err := repo.Create(ctx, c); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, nil
}
