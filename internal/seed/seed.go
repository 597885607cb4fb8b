// Package seed populates the database with realistic development data.
package seed

import (
	"fmt"
	"strings"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password assigned to every seeded account.
const DefaultPassword = "password123"

// Seeder populates the database with fake users, posts and comments.
type Seeder struct {
	db *gorm.DB
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll removes all seeded rows. Settings documents are kept so a
// reseed does not wipe the admin's configuration.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.Comment{},
		&models.Post{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
	}
	return nil
}

// EnsureAdmin creates (or reuses) the bootstrap admin account.
func (s *Seeder) EnsureAdmin(email string) (*models.User, error) {
	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		Email:       email,
		Password:    string(hash),
		DisplayName: "Site Admin",
		Role:        models.RoleAdmin,
		Active:      true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

// SeedUsers creates n fake reader accounts.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Email:       fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password:    string(hash),
			DisplayName: gofakeit.Name(),
			Role:        models.RoleUser,
			Active:      true,
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %d: %w", i, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedPosts creates n published posts with HTML bodies and tags.
func (s *Seeder) SeedPosts(n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		title := strings.Title(gofakeit.HipsterSentence(5))
		title = strings.TrimSuffix(title, ".")

		post := &models.Post{
			Title:           title,
			Slug:            fmt.Sprintf("%s-%d", models.Slugify(title, 6), i),
			MetaDescription: gofakeit.Sentence(12),
			Tags:            []string{gofakeit.HipsterWord(), gofakeit.HipsterWord()},
			ContentHTML: fmt.Sprintf("<h1>%s</h1><p>%s</p><h2>%s</h2><p>%s</p>",
				title,
				gofakeit.Paragraph(1, 4, 12, " "),
				strings.TrimSuffix(strings.Title(gofakeit.HipsterSentence(3)), "."),
				gofakeit.Paragraph(1, 4, 12, " ")),
			Images: []string{},
			Status: models.StatusPublished,
		}
		if err := s.db.Create(post).Error; err != nil {
			return nil, fmt.Errorf("failed to create post %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// SeedComments scatters comments and replies across the given posts.
func (s *Seeder) SeedComments(users []*models.User, posts []*models.Post, perPost int) (int, error) {
	if len(users) == 0 || len(posts) == 0 {
		return 0, nil
	}

	total := 0
	for _, post := range posts {
		var parents []*models.Comment
		for i := 0; i < perPost; i++ {
			author := users[gofakeit.Number(0, len(users)-1)]
			comment := &models.Comment{
				PostID:      post.ID,
				UserID:      author.ID,
				AuthorName:  author.DisplayName,
				AuthorEmail: author.Email,
				Content:     gofakeit.HipsterSentence(gofakeit.Number(4, 14)),
				Approved:    true,
			}
			// Roughly a third of comments reply to an earlier one.
			if len(parents) > 0 && gofakeit.Number(0, 2) == 0 {
				comment.ParentID = &parents[gofakeit.Number(0, len(parents)-1)].ID
			}
			if err := s.db.Create(comment).Error; err != nil {
				return total, fmt.Errorf("failed to create comment: %w", err)
			}
			if comment.ParentID == nil {
				parents = append(parents, comment)
			}
			total++
		}
	}
	return total, nil
}
