package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AbiralTr/Arc-Web/internal/middleware"
	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/services"
	"github.com/AbiralTr/Arc-Web/internal/session"
	"github.com/AbiralTr/Arc-Web/internal/utils"
)

type QuestHandler struct {
	quests *services.QuestService
	logger *zap.Logger
}

func NewQuestHandler(quests *services.QuestService, logger *zap.Logger) *QuestHandler {
	return &QuestHandler{quests: quests, logger: logger}
}

type generateResponse struct {
	Quest *models.Quest `json:"quest"`
}

type progressView struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
	models.Stats
}

type completeResponse struct {
	OK       bool         `json:"ok"`
	GainedXP int          `json:"gainedXp"`
	Stat     models.Stat  `json:"stat"`
	User     progressView `json:"user"`
}

type activityResponse struct {
	OK              bool                   `json:"ok"`
	RecentCompleted []models.QuestActivity `json:"recentCompleted"`
}

func (h *QuestHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.GenerateQuestRequest](r)
	userID, _ := session.UserIDFrom(r.Context())

	quest, err := h.quests.Generate(r.Context(), userID, req.Stat)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, generateResponse{Quest: quest})
}

func (h *QuestHandler) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.UserIDFrom(r.Context())
	questID := chi.URLParam(r, "id")

	result, err := h.quests.Complete(r.Context(), userID, questID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, completeResponse{
		OK:       true,
		GainedXP: result.GainedXP,
		Stat:     result.Stat,
		User: progressView{
			Level: result.User.Level,
			XP:    result.User.XP,
			Stats: result.User.Stats,
		},
	})
}

func (h *QuestHandler) ActivityHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.UserIDFrom(r.Context())
	recent, err := h.quests.RecentActivity(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if recent == nil {
		recent = []models.QuestActivity{}
	}
	utils.JSON(w, http.StatusOK, activityResponse{OK: true, RecentCompleted: recent})
}
