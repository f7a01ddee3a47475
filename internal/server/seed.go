package server

import (
	"context"
	"log/slog"

	"github.com/csquest/api/internal/csquest"
	"github.com/csquest/api/internal/game"
)

// SeedDemo creates the default save under game.DemoPlayerID.
// Idempotent: an existing demo save is left alone.
func SeedDemo(ctx context.Context, logger *slog.Logger, games *game.Service) error {
	created, err := games.EnsurePlayer(ctx, game.DemoPlayerID, csquest.DefaultUsername, csquest.DefaultCharacter)
	if err != nil {
		return err
	}
	if created {
		logger.Info("demo player created", "player", game.DemoPlayerID)
	}
	return nil
}
