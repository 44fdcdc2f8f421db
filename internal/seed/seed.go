// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"hearth/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db}
}

var profileImages = []string{
	"/static/images/profile/anduin.jpeg",
	"/static/images/profile/jaina.jpeg",
	"/static/images/profile/thrall.jpeg",
	"/static/images/profile/valeera.jpeg",
}

// CreateUser persists a reader account with the given credentials.
func (f *Factory) CreateUser(username, password string, admin bool) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
		Name:         gofakeit.Name(),
		ProfileImage: profileImages[rand.Intn(len(profileImages))],
		PasswordHash: string(hash),
		IsAdmin:      admin,
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a demo post authored under the given display name.
func (f *Factory) CreatePost(author string, featured bool) (*models.Post, error) {
	post := &models.Post{
		Title:       gofakeit.Sentence(4),
		Description: gofakeit.Sentence(8),
		Date:        time.Now().AddDate(0, 0, -rand.Intn(90)).Format(models.DateLayout),
		Body:        "<p>" + gofakeit.Paragraph(2, 4, 10, "</p><p>") + "</p>",
		Author:      author,
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/400", gofakeit.UUID()),
		Featured:    featured,
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a demo comment by user on post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Text:     gofakeit.Sentence(12),
		AuthorID: user.ID,
		PostID:   post.ID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Run populates a development database with an admin, a few readers and a
// handful of commented posts.
func Run(db *gorm.DB) error {
	f := NewFactory(db)

	admin, err := f.CreateUser("keeper", "hearth-admin", true)
	if err != nil {
		return err
	}

	readers := make([]*models.User, 0, 3)
	for i := 0; i < 3; i++ {
		u, err := f.CreateUser(gofakeit.Username(), "hearth-reader", false)
		if err != nil {
			return err
		}
		readers = append(readers, u)
	}

	for i := 0; i < 6; i++ {
		post, err := f.CreatePost(admin.Name, i%3 == 0)
		if err != nil {
			return err
		}
		for _, u := range readers {
			if rand.Intn(2) == 0 {
				if _, err := f.CreateComment(u, post); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
