package service

import (
	"context"
	"fmt"
	"log"

	"chapterquiz-server/models"
)

// Signup registers email as the owner of chapter. Both must be unused.
func (s *Service) Signup(ctx context.Context, email, chapter string) (models.User, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("signup: %w", err)
	}
	for _, u := range users {
		if u.Email == email {
			return models.User{}, conflict("Email already registered")
		}
	}
	for _, u := range users {
		if u.Chapter == chapter {
			return models.User{}, conflict("Chapter already registered")
		}
	}

	user := models.User{
		Email:     email,
		UserID:    s.newID(),
		Chapter:   chapter,
		CreatedAt: s.timestamp(),
	}
	if err := s.store.Users.Append(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("signup: %w", err)
	}
	log.Printf("User signed up: %s (chapter %s)", email, chapter)
	s.sync.Trigger(ctx, SyncSignup)
	return user, nil
}

// Signin looks a user up by email.
func (s *Service) Signin(ctx context.Context, email string) (models.User, error) {
	user, found, err := s.store.Users.FindFirst(ctx, func(u models.User) bool { return u.Email == email })
	if err != nil {
		return models.User{}, fmt.Errorf("signin: %w", err)
	}
	if !found {
		return models.User{}, notFound("User not found")
	}
	log.Printf("User signed in: %s", email)
	return user, nil
}
