package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/docquery-auth/internal/auth"
	"github.com/spec-kit/docquery-auth/internal/config"
	"github.com/spec-kit/docquery-auth/internal/domain"
	"github.com/spec-kit/docquery-auth/internal/events"
	"github.com/spec-kit/docquery-auth/internal/repository"
)

// SeedSummary counts the outcome of one bootstrap pass.
type SeedSummary struct {
	Created int
	Skipped int
	Failed  int
}

// AdminSeeder ensures the configured administrator accounts exist.
// Existing accounts are never modified, so the seeder is safe to run on every start.
type AdminSeeder struct {
	users      repository.UserRepository
	hasher     *auth.PasswordHasher
	dispatcher events.Dispatcher
	logger     *zap.Logger
	admins     []config.AdminSeed
}

// NewAdminSeeder copies the seed list so later changes to the slice are not observed.
func NewAdminSeeder(users repository.UserRepository, hasher *auth.PasswordHasher, dispatcher events.Dispatcher, logger *zap.Logger, admins []config.AdminSeed) *AdminSeeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminSeeder{
		users:      users,
		hasher:     hasher,
		dispatcher: dispatcher,
		logger:     logger,
		admins:     append([]config.AdminSeed(nil), admins...),
	}
}

// Seed walks the admin list once, sequentially. Failures are logged per entry
// and never abort the pass.
func (s *AdminSeeder) Seed(ctx context.Context) SeedSummary {
	var summary SeedSummary
	for _, admin := range s.admins {
		switch s.seedOne(ctx, admin) {
		case seedCreated:
			summary.Created++
		case seedSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	s.logger.Info("admin bootstrap finished",
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary
}

type seedOutcome int

const (
	seedFailed seedOutcome = iota
	seedCreated
	seedSkipped
)

func (s *AdminSeeder) seedOne(ctx context.Context, admin config.AdminSeed) seedOutcome {
	log := s.logger.With(zap.String("email", admin.Email))

	if admin.Password == "" {
		log.Warn("no password defined for admin; skipping")
		return seedSkipped
	}

	if _, err := s.users.GetByEmail(ctx, admin.Email); err == nil {
		log.Info("admin user already exists")
		return seedSkipped
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Error("admin lookup failed", zap.Error(err))
		return seedFailed
	}

	hash, err := s.hasher.Hash(admin.Password)
	if err != nil {
		log.Error("hashing admin password failed", zap.Error(err))
		return seedFailed
	}

	name := admin.Name
	if name == "" {
		name = "admin"
	}
	user := &domain.User{
		Name:         name,
		Email:        admin.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			log.Info("admin user created concurrently; skipping")
			return seedSkipped
		}
		log.Error("creating admin user failed", zap.Error(err))
		return seedFailed
	}

	log.Info("admin user created")
	if s.dispatcher != nil {
		if err := s.dispatcher.Publish(ctx, events.NewEvent(events.EventAdminSeeded, user, events.AccountPayload{Email: user.Email})); err != nil {
			log.Warn("event handler failed", zap.Error(err))
		}
	}
	return seedCreated
}
