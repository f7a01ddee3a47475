package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/csquest/api/internal/battle"
	"github.com/csquest/api/internal/csquest"
	"github.com/csquest/api/internal/game"
)

// AddRoutes registers the game API, its docs and the SPA fallback. broker
// must be the publisher games was built with.
func AddRoutes(r chi.Router, logger *slog.Logger, games *game.Service, broker *Broker, spaDir string) {
	cat := games.Catalog()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("CSQuest API", "/openapi.json", "/docs"))

	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/", handleCatalog(cat))
		r.Get("/items", handleCatalogTable(cat.Items))
		r.Get("/pets", handleCatalogTable(cat.Pets))
		r.Get("/achievements", handleCatalogTable(cat.Achievements))
		r.Get("/quests", handleCatalogTable(cat.Quests))
		r.Get("/npcs", handleCatalogTable(cat.NPCs))
		r.Get("/enemies", handleCatalogTable(cat.Enemies))
	})

	r.Post("/api/players", handleCreatePlayer(logger, games))

	r.Route("/api/players/{playerID}", func(r chi.Router) {
		r.Use(playerMiddleware)

		r.Get("/state", handleState(logger, games))
		r.Get("/appearance", handleAppearance(logger, games))
		r.Get("/report.pdf", handleReport(logger, games))
		r.Get("/events", handleEvents(logger, games, broker))

		r.Post("/shop/purchase", handlePurchase(logger, games))
		r.Post("/inventory/equip", handleEquip(logger, games))
		r.Post("/inventory/unequip", handleUnequip(logger, games))
		r.Post("/inventory/use", handleUseItem(logger, games))
		r.Post("/pets/active", handleSelectPet(logger, games))
		r.Post("/quests/{questID}/attempt", handleQuestAttempt(logger, games))

		r.Post("/battle", handleStartBattle(logger, games))
		r.Get("/battle", handleGetBattle(logger, games))
		r.Delete("/battle", handleAbandonBattle(logger, games))
		r.Post("/battle/select", handleBattleAction(logger, true, games.SelectAnswer))
		r.Post("/battle/answer", handleBattleAction(logger, true, games.Answer))
		r.Post("/battle/submit", handleBattleAction(logger, false,
			func(ctx context.Context, playerID string, _ csquest.Answer) (battle.View, bool, error) {
				return games.Submit(ctx, playerID)
			}))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
