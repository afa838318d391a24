package services

import (
	"context"
	"fmt"
	"strings"

	"DuoChat/models"
	"DuoChat/pkg/apperr"

	"gorm.io/gorm"
)

const maxUserResults = 100

// UserDirectory lets callers find someone to talk to.
type UserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// List matches search against username and email, ignoring case. An
// excludeID of 0 excludes nobody.
func (d *UserDirectory) List(ctx context.Context, search string, excludeID uint) ([]models.PublicUser, error) {
	q := d.db.WithContext(ctx).Model(&models.User{})
	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		like := "%" + escapeLike(term) + "%"
		q = q.Where("LOWER(username) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!'", like, like)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var users []models.User
	if err := q.Order("id ASC").Limit(maxUserResults).Find(&users).Error; err != nil {
		return nil, apperr.Wrap(fmt.Errorf("list users: %w", err), apperr.Internal)
	}
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

// escapeLike uses '!' as the escape character; a backslash would need
// different quoting on MySQL.
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
