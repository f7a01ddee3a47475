package server

import (
	"net/http"

	"github.com/csquest/api/internal/catalog"
	"github.com/csquest/api/internal/csquest"
)

// CatalogResponse bundles every catalog table. Questions are not listed:
// they carry the answers.
type CatalogResponse struct {
	Items        []csquest.Item        `json:"items"`
	Pets         []csquest.PetTemplate `json:"pets"`
	Achievements []csquest.Achievement `json:"achievements"`
	Quests       []csquest.Quest       `json:"quests"`
	NPCs         []csquest.NPC         `json:"npcs"`
	Enemies      []csquest.Enemy       `json:"enemies"`
}

func handleCatalog(cat *catalog.Catalog) http.HandlerFunc {
	resp := CatalogResponse{
		Items:        cat.Items,
		Pets:         cat.Pets,
		Achievements: cat.Achievements,
		Quests:       cat.Quests,
		NPCs:         cat.NPCs,
		Enemies:      cat.Enemies,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleCatalogTable[T any](table []T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, table)
	}
}
