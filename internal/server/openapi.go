package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"

	"github.com/csquest/api/internal/csquest"
	"github.com/csquest/api/internal/game"
	"github.com/csquest/api/internal/handler/health"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PlayerPath and QuestPath document path parameters.
type PlayerPath struct {
	PlayerID string `path:"playerID"`
}

type QuestPath struct {
	PlayerID string `path:"playerID"`
	QuestID  string `path:"questID"`
}

type operation struct {
	method, path, summary, description string
	req                                any
	resp                               any
	status                             int
	errors                             []int
	contentType                        string
}

var operations = []operation{
	{method: http.MethodGet, path: "/healthz", summary: "Health check",
		description: "Returns the health status of the configured save backend.",
		resp: map[string]health.Result{}, status: http.StatusOK, errors: []int{http.StatusServiceUnavailable}},
	{method: http.MethodGet, path: "/ws/presence", summary: "Presence relay",
		description: "Upgrades to a WebSocket relaying player positions on the world map.",
		status:      http.StatusSwitchingProtocols, contentType: "text/plain"},

	{method: http.MethodGet, path: "/api/catalog", summary: "All catalogs",
		description: "Returns items, pets, achievements, quests, NPCs and enemies.",
		resp: CatalogResponse{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/catalog/items", summary: "Shop items",
		resp: []csquest.Item{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/catalog/pets", summary: "Pets",
		resp: []csquest.PetTemplate{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/catalog/achievements", summary: "Achievements",
		resp: []csquest.Achievement{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/catalog/quests", summary: "Quests",
		resp: []csquest.Quest{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/catalog/npcs", summary: "NPCs",
		resp: []csquest.NPC{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/catalog/enemies", summary: "Enemies",
		resp: []csquest.Enemy{}, status: http.StatusOK},

	{method: http.MethodPost, path: "/api/players", summary: "Create character",
		description: "Creates a fresh save with starting coins, stats and the starter pet.",
		req: CreatePlayerRequest{}, resp: CreatePlayerResponse{}, status: http.StatusCreated,
		errors: []int{http.StatusBadRequest}},
	{method: http.MethodGet, path: "/api/players/{playerID}/state", summary: "Player state",
		description: "Returns the snapshot with derived attack, defense, pet bonus and appearance.",
		req: PlayerPath{}, resp: game.StateView{}, status: http.StatusOK, errors: []int{http.StatusNotFound}},
	{method: http.MethodGet, path: "/api/players/{playerID}/appearance", summary: "Equipped appearance",
		req: PlayerPath{}, resp: csquest.Appearance{}, status: http.StatusOK, errors: []int{http.StatusNotFound}},
	{method: http.MethodGet, path: "/api/players/{playerID}/report.pdf", summary: "Progress report",
		description: "Renders a PDF character sheet.",
		req: PlayerPath{}, status: http.StatusOK, contentType: "application/pdf", errors: []int{http.StatusNotFound}},
	{method: http.MethodGet, path: "/api/players/{playerID}/events", summary: "SSE event stream",
		description: "Server-Sent Events: state, battle, battle_complete and appearance.",
		req: PlayerPath{}, status: http.StatusOK, contentType: "text/event-stream", errors: []int{http.StatusNotFound}},

	{method: http.MethodPost, path: "/api/players/{playerID}/shop/purchase", summary: "Buy item",
		description: "Buys one unit. Returns 402 when the player cannot afford it and 409 for gear already owned.",
		req: struct {
			PlayerPath
			ItemRequest
		}{}, resp: game.StateView{}, status: http.StatusOK,
		errors: []int{http.StatusPaymentRequired, http.StatusNotFound, http.StatusConflict}},
	{method: http.MethodPost, path: "/api/players/{playerID}/inventory/equip", summary: "Equip item",
		req: struct {
			PlayerPath
			ItemRequest
		}{}, resp: game.StateView{}, status: http.StatusOK, errors: []int{http.StatusConflict, http.StatusNotFound}},
	{method: http.MethodPost, path: "/api/players/{playerID}/inventory/unequip", summary: "Unequip slot",
		req: struct {
			PlayerPath
			SlotRequest
		}{}, resp: game.StateView{}, status: http.StatusOK, errors: []int{http.StatusBadRequest, http.StatusNotFound}},
	{method: http.MethodPost, path: "/api/players/{playerID}/inventory/use", summary: "Use consumable",
		req: struct {
			PlayerPath
			ItemRequest
		}{}, resp: game.StateView{}, status: http.StatusOK, errors: []int{http.StatusConflict, http.StatusNotFound}},
	{method: http.MethodPost, path: "/api/players/{playerID}/pets/active", summary: "Select pet",
		req: struct {
			PlayerPath
			PetRequest
		}{}, resp: game.StateView{}, status: http.StatusOK, errors: []int{http.StatusConflict, http.StatusNotFound}},
	{method: http.MethodPost, path: "/api/players/{playerID}/quests/{questID}/attempt", summary: "Attempt quest",
		description: "Judges one answer per quest question. A perfect score completes the quest.",
		req: struct {
			QuestPath
			QuestAttemptRequest
		}{}, resp: game.QuestResult{}, status: http.StatusOK,
		errors: []int{http.StatusBadRequest, http.StatusConflict, http.StatusNotFound}},

	{method: http.MethodPost, path: "/api/players/{playerID}/battle", summary: "Start battle",
		description: "Samples an enemy and the first question.",
		req: PlayerPath{}, resp: BattleResponse{}, status: http.StatusCreated,
		errors: []int{http.StatusConflict, http.StatusNotFound}},
	{method: http.MethodGet, path: "/api/players/{playerID}/battle", summary: "Battle view",
		req: PlayerPath{}, resp: BattleResponse{}, status: http.StatusOK, errors: []int{http.StatusConflict}},
	{method: http.MethodDelete, path: "/api/players/{playerID}/battle", summary: "Abandon battle",
		req: PlayerPath{}, status: http.StatusNoContent, errors: []int{http.StatusConflict}},
	{method: http.MethodPost, path: "/api/players/{playerID}/battle/select", summary: "Select answer",
		req: struct {
			PlayerPath
			csquest.Answer
		}{}, resp: BattleResponse{}, status: http.StatusOK, errors: []int{http.StatusConflict}},
	{method: http.MethodPost, path: "/api/players/{playerID}/battle/submit", summary: "Submit selection",
		req: PlayerPath{}, resp: BattleResponse{}, status: http.StatusOK, errors: []int{http.StatusConflict}},
	{method: http.MethodPost, path: "/api/players/{playerID}/battle/answer", summary: "Answer",
		description: "Selects and submits in one step.",
		req: struct {
			PlayerPath
			csquest.Answer
		}{}, resp: BattleResponse{}, status: http.StatusOK, errors: []int{http.StatusConflict}},
}

func newOpenAPISpec() *openapi31.Spec {
	r := openapi31.NewReflector()
	r.Spec.Info.Title = "CSQuest API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the CSQuest coding RPG.")

	for _, op := range operations {
		oc, _ := r.NewOperationContext(op.method, op.path)
		oc.SetSummary(op.summary)
		if op.description != "" {
			oc.SetDescription(op.description)
		}
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		var opts []openapi.ContentOption
		opts = append(opts, openapi.WithHTTPStatus(op.status))
		if op.contentType != "" {
			opts = append(opts, openapi.WithContentType(op.contentType))
		}
		oc.AddRespStructure(op.resp, opts...)
		for _, status := range op.errors {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(status))
		}
		_ = r.AddOperation(oc)
	}

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
