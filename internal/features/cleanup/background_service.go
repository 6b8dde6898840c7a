package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pocketprc/internal/config"
	teams_repositories "pocketprc/internal/features/teams/repositories"
	users_repositories "pocketprc/internal/features/users/repositories"
)

const (
	cleanupInterval      = 10 * time.Minute
	staleInviteRetention = 30 * 24 * time.Hour
)

type CleanupBackgroundService struct {
	inviteRepository        *teams_repositories.InviteRepository
	passwordResetRepository *users_repositories.PasswordResetRepository
	logger                  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (s *CleanupBackgroundService) StartWorkers() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.wg.Add(1)
	go s.cleanupWorker()

	s.logger.Info("Cleanup worker started", slog.Duration("interval", cleanupInterval))
}

func (s *CleanupBackgroundService) StopWorkers() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	s.wg.Wait()
}

func (s *CleanupBackgroundService) ExecuteAllTasksForTest() error {
	return s.runCleanup(time.Now().UTC())
}

func (s *CleanupBackgroundService) cleanupWorker() {
	defer s.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		if config.IsShouldShutdown() {
			s.logger.Info("Cleanup worker shutting down due to shutdown signal")
			return
		}

		select {
		case <-s.ctx.Done():
			s.logger.Info("Cleanup worker shutting down")
			return

		case <-ticker.C:
			if err := s.runCleanup(time.Now().UTC()); err != nil {
				s.logger.Error("Error during cleanup", slog.String("error", err.Error()))
			}
		}
	}
}

func (s *CleanupBackgroundService) runCleanup(now time.Time) error {
	deletedInvites, err := s.inviteRepository.DeleteStaleInvites(now.Add(-staleInviteRetention))
	if err != nil {
		return fmt.Errorf("failed to delete stale invites: %w", err)
	}

	deletedTokens, err := s.passwordResetRepository.DeleteStale(now)
	if err != nil {
		return fmt.Errorf("failed to delete stale password reset tokens: %w", err)
	}

	if deletedInvites > 0 || deletedTokens > 0 {
		s.logger.Info("Cleanup completed",
			slog.Int64("deletedInvites", deletedInvites),
			slog.Int64("deletedResetTokens", deletedTokens))
	}

	return nil
}
