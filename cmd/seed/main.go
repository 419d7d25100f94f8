// Command seed fills a development database with users, groups, posts,
// comments and follow edges so the feeds have something to show.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quillhq/quill/config"
	"github.com/quillhq/quill/internal/model"
	"github.com/quillhq/quill/internal/repository"
	"github.com/quillhq/quill/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	ctx := context.Background()

	hash := must(bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost))

	const userCount = 20
	users := make([]model.User, userCount)
	for i := range users {
		users[i] = model.User{
			ID:           uuid.New().String(),
			Username:     fmt.Sprintf("author_%02d", i),
			Email:        fmt.Sprintf("author_%02d@example.com", i),
			PasswordHash: string(hash),
		}
	}
	mustDo(db.Create(&users).Error)

	groups := []model.Group{
		{ID: uuid.New().String(), Title: "Travel", Slug: "travel", Description: "Trips and places"},
		{ID: uuid.New().String(), Title: "Cooking", Slug: "cooking", Description: "Recipes and kitchens"},
		{ID: uuid.New().String(), Title: "Code", Slug: "code", Description: "Software notes"},
	}
	mustDo(db.Create(&groups).Error)

	base := time.Now()
	posts := make([]model.Post, 0, userCount*5)
	for i, u := range users {
		for j := 0; j < 5; j++ {
			p := model.Post{
				ID:        uuid.New().String(),
				Text:      fmt.Sprintf("post %d by %s", j, u.Username),
				AuthorID:  u.ID,
				CreatedAt: base.Add(-time.Duration(i*5+j) * time.Minute),
			}
			if rand.Intn(2) == 0 {
				p.GroupID = &groups[rand.Intn(len(groups))].ID
			}
			posts = append(posts, p)
		}
	}
	mustDo(db.CreateInBatches(&posts, 100).Error)

	comments := make([]model.Comment, 0, len(posts))
	for _, p := range posts {
		if rand.Intn(3) != 0 {
			continue
		}
		comments = append(comments, model.Comment{
			ID:        uuid.New().String(),
			PostID:    p.ID,
			AuthorID:  users[rand.Intn(userCount)].ID,
			Text:      "nice one",
			CreatedAt: p.CreatedAt.Add(time.Minute),
		})
	}
	if len(comments) > 0 {
		mustDo(db.CreateInBatches(&comments, 100).Error)
	}

	followRepo := repository.NewFollowRepository(db)
	edges := 0
	for i := 0; i < userCount*3; i++ {
		from := users[rand.Intn(userCount)]
		to := users[rand.Intn(userCount)]
		if from.ID == to.ID {
			continue
		}
		created := must(followRepo.Create(ctx, from.ID, to.ID))
		if created {
			edges++
		}
	}

	fmt.Printf("seeded %d users, %d groups, %d posts, %d comments, %d follow edges\n",
		userCount, len(groups), len(posts), len(comments), edges)
}
