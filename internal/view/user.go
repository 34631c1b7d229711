package view

import (
	"time"

	"restaurant-forum/internal/domain"
)

// UserCard 对外展示的用户信息；Icon 为名字首字，没有头像时代替头像
type UserCard struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Icon  string `json:"icon"`
}

func NewUserCard(u domain.User) UserCard {
	return UserCard{ID: u.ID, Name: u.Name, Image: u.Image, Icon: Truncate(u.Name, 1)}
}

func NewUserCards(us []domain.User) []UserCard {
	out := make([]UserCard, 0, len(us))
	for _, u := range us {
		out = append(out, NewUserCard(u))
	}
	return out
}

// Account 本人或管理员可见（含 email / role）
type Account struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewAccount(u domain.User) Account {
	return Account{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image, Role: u.Role, CreatedAt: u.CreatedAt}
}
