// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "Murmur-Seed-2024!"

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	NumPosts       int
	FollowsPerUser int
	LikesPerPost   int
	ShouldClean    bool
	// RandSeed makes a run reproducible; zero picks one from the clock.
	RandSeed int64
}

// Result counts what a run created.
type Result struct {
	Users    int
	Posts    int
	Follows  int
	Likes    int
	Comments int
}

// Seeder fills the store with fake but well-formed social data.
type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	likes *service.InteractionService
}

func NewSeeder(db *gorm.DB, randSeed int64) *Seeder {
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	return &Seeder{
		db:    db,
		faker: gofakeit.New(randSeed),
		likes: service.NewInteractionService(db, nil, false),
	}
}

// Run seeds users, posts, the follow graph, comments and likes.
// Likes go through the interaction service so their notifications exist too.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	middleware.Logger.Info("seeding database", "users", opts.NumUsers, "posts", opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	res := &Result{}
	users, err := s.createUsers(ctx, opts.NumUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}
	res.Users = len(users)
	if len(users) == 0 {
		return res, nil
	}

	if res.Follows, err = s.createFollows(ctx, users, opts.FollowsPerUser); err != nil {
		return nil, fmt.Errorf("failed to create follows: %w", err)
	}

	posts, err := s.createPosts(ctx, users, opts.NumPosts)
	if err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	res.Posts = len(posts)

	if res.Comments, err = s.createComments(ctx, users, posts); err != nil {
		return nil, fmt.Errorf("failed to create comments: %w", err)
	}

	if res.Likes, err = s.createLikes(ctx, users, posts, opts.LikesPerPost); err != nil {
		return nil, fmt.Errorf("failed to create likes: %w", err)
	}

	middleware.Logger.Info("seeding complete",
		"users", res.Users,
		"posts", res.Posts,
		"follows", res.Follows,
		"comments", res.Comments,
		"likes", res.Likes,
	)
	return res, nil
}

// ClearAll hard-deletes every seeded table, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	for _, model := range []interface{}{
		&models.Notification{},
		&models.Like{},
		&models.Comment{},
		&models.Post{},
		&models.Follow{},
		&models.User{},
	} {
		// A fresh chain per table; a reused statement keeps the first table.
		db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped()
		if err := db.Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

var usernameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func (s *Seeder) createUsers(ctx context.Context, n int) ([]*models.User, error) {
	if n <= 0 {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		base := strings.Trim(usernameUnsafe.ReplaceAllString(s.faker.Username(), ""), "_-")
		if len(base) < 2 {
			base = "user" + base
		}
		if len(base) > 20 {
			base = base[:20]
		}
		username := fmt.Sprintf("%s_%d", base, i)
		users = append(users, &models.User{
			Username:       username,
			Email:          fmt.Sprintf("%s@example.com", username),
			Password:       string(hash),
			Bio:            s.faker.HipsterSentence(8),
			ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", s.faker.UUID()),
		})
	}
	if err := s.db.WithContext(ctx).CreateInBatches(users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Seeder) createFollows(ctx context.Context, users []*models.User, perUser int) (int, error) {
	if perUser <= 0 || len(users) < 2 {
		return 0, nil
	}
	if perUser > len(users)-1 {
		perUser = len(users) - 1
	}

	var follows []models.Follow
	for i, u := range users {
		seen := map[int]bool{i: true}
		for len(seen) <= perUser {
			j := s.faker.Number(0, len(users)-1)
			if seen[j] {
				continue
			}
			seen[j] = true
			follows = append(follows, models.Follow{FollowerID: u.ID, FolloweeID: users[j].ID})
		}
	}
	if err := s.db.WithContext(ctx).CreateInBatches(follows, 200).Error; err != nil {
		return 0, err
	}
	return len(follows), nil
}

func (s *Seeder) createPosts(ctx context.Context, users []*models.User, n int) ([]*models.Post, error) {
	if n <= 0 {
		return nil, nil
	}
	end := time.Now().UTC()
	start := end.AddDate(0, -1, 0)

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.faker.Number(0, len(users)-1)]
		createdAt := s.faker.DateRange(start, end)
		posts = append(posts, &models.Post{
			Title:     truncate(s.faker.Sentence(6), 200),
			Content:   s.faker.Paragraph(1, 3, 12, "\n"),
			UserID:    author.ID,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		})
	}
	if err := s.db.WithContext(ctx).CreateInBatches(posts, 100).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Seeder) createComments(ctx context.Context, users []*models.User, posts []*models.Post) (int, error) {
	var comments []models.Comment
	for _, p := range posts {
		for k := s.faker.Number(0, 3); k > 0; k-- {
			author := users[s.faker.Number(0, len(users)-1)]
			comments = append(comments, models.Comment{
				Content: s.faker.Sentence(10),
				UserID:  author.ID,
				PostID:  p.ID,
			})
		}
	}
	if len(comments) == 0 {
		return 0, nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(comments, 200).Error; err != nil {
		return 0, err
	}
	return len(comments), nil
}

func (s *Seeder) createLikes(ctx context.Context, users []*models.User, posts []*models.Post, perPost int) (int, error) {
	if perPost <= 0 {
		return 0, nil
	}
	if perPost > len(users) {
		perPost = len(users)
	}

	total := 0
	for _, p := range posts {
		for _, idx := range s.faker.Rand.Perm(len(users))[:perPost] {
			if err := s.likes.Like(ctx, users[idx].ID, p.ID); err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
