package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AbiralTr/Arc-Web/internal/llm"
	"github.com/AbiralTr/Arc-Web/internal/metrics"
	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/progression"
	"github.com/AbiralTr/Arc-Web/internal/prompts"
	"github.com/AbiralTr/Arc-Web/internal/questparse"
	"github.com/AbiralTr/Arc-Web/internal/repositories"
)

const (
	questPromptMode    = "quest"
	recentActivitySize = 3
	pendingListSize    = 10
)

// CompletionPublisher is notified after a completion commits.
type CompletionPublisher interface {
	PublishQuestCompleted(ctx context.Context, event *models.QuestCompletedEvent) error
}

type QuestService struct {
	store     *repositories.Store
	provider  llm.Provider
	prompts   prompts.PromptProvider
	publisher CompletionPublisher
	logger    *zap.Logger
	timeout   time.Duration
	now       func() time.Time
}

// NewQuestService wires the quest lifecycle. publisher may be nil.
func NewQuestService(store *repositories.Store, provider llm.Provider, pm prompts.PromptProvider,
	publisher CompletionPublisher, logger *zap.Logger, timeout time.Duration) *QuestService {
	return &QuestService{
		store:     store,
		provider:  provider,
		prompts:   pm,
		publisher: publisher,
		logger:    logger,
		timeout:   timeout,
		now:       time.Now,
	}
}

type promptData struct {
	StatLabel string
	StatValue int
	Username  string
	Level     int
	XP        int
	Stats     models.Stats
}

// promptVariant picks how hard the quest should be for the current stat.
func promptVariant(value int) string {
	switch {
	case value < 5:
		return "novice"
	case value < 15:
		return "adept"
	default:
		return "veteran"
	}
}

// Generate asks the provider for a quest targeting stat and stores it as
// pending. Nothing is stored when the provider fails or its output is
// rejected.
func (s *QuestService) Generate(ctx context.Context, userID, rawStat string) (*models.Quest, error) {
	stat, ok := models.ParseStat(rawStat)
	if !ok {
		return nil, ErrInvalidStat
	}

	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	value := user.Stats.Value(stat)
	data := promptData{
		StatLabel: stat.Label(),
		StatValue: value,
		Username:  user.DisplayName(),
		Level:     user.Level,
		XP:        user.XP,
		Stats:     user.Stats,
	}
	prompt, err := s.prompts.BuildPrompt(questPromptMode, promptVariant(value), data)
	if err != nil {
		return nil, fmt.Errorf("build quest prompt: %w", err)
	}
	instructions, err := s.prompts.Instructions(questPromptMode)
	if err != nil {
		return nil, fmt.Errorf("load quest instructions: %w", err)
	}

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	resp, err := s.provider.GenerateContent(genCtx, &models.GenerationRequest{
		Prompt:       prompt,
		Instructions: instructions,
		RequestID:    requestID,
	})
	if err != nil {
		metrics.QuestGenerated(string(stat), metrics.OutcomeUpstreamError)
		s.logger.Warn("quest generator call failed",
			zap.String("request_id", requestID),
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, &GeneratorError{Err: err}
	}

	draft, err := questparse.Parse(strings.TrimSpace(resp.Content))
	if err != nil {
		outcome := metrics.OutcomeInvalidPayload
		var extractErr *questparse.ExtractionError
		if errors.As(err, &extractErr) {
			outcome = metrics.OutcomeInvalidJSON
		}
		metrics.QuestGenerated(string(stat), outcome)
		s.logger.Warn("quest generator output rejected",
			zap.String("request_id", requestID),
			zap.String("outcome", outcome),
			zap.Error(err))
		return nil, err
	}

	quest := &models.Quest{
		UserID:      userID,
		Stat:        stat,
		Title:       draft.Title,
		Description: draft.Description,
		Difficulty:  draft.Difficulty,
		XPReward:    draft.XPReward,
		Tags:        draft.Tags,
		Status:      models.QuestPending,
	}
	if err := s.store.Quests.Create(ctx, quest); err != nil {
		return nil, fmt.Errorf("save generated quest: %w", err)
	}

	metrics.QuestGenerated(string(stat), metrics.OutcomeSuccess)
	s.logger.Info("quest generated",
		zap.String("request_id", requestID),
		zap.String("quest_id", quest.ID),
		zap.String("stat", string(stat)),
		zap.Int("processing_ms", resp.Metadata.ProcessingTime))
	return quest, nil
}

// CompletionResult is the outcome of a successful completion.
type CompletionResult struct {
	User         *models.User
	GainedXP     int
	Stat         models.Stat
	LevelsGained int
}

// Complete finishes a pending quest and grants its reward. The quest
// transition, the level-up resolution and the stat increment commit together.
func (s *QuestService) Complete(ctx context.Context, userID, questID string) (*CompletionResult, error) {
	var (
		result *CompletionResult
		at     = s.now().UTC()
	)

	err := s.store.WithinTransaction(ctx, func(tx *repositories.Store) error {
		quest, err := tx.Quests.MarkCompleted(ctx, questID, userID, at)
		if err != nil {
			return err
		}

		user, err := tx.Users.GetForUpdate(ctx, userID)
		if errors.Is(err, repositories.ErrUserNotFound) {
			return fmt.Errorf("%w: %s", errUserMissing, userID)
		}
		if err != nil {
			return err
		}

		leveled := progression.ApplyLevelUps(user.Level, progression.AddXP(user.XP, quest.XPReward))
		user.Level, user.XP = leveled.Level, leveled.XP
		if !user.Stats.Increment(quest.Stat) {
			return fmt.Errorf("quest %s has unknown stat %q", quest.ID, quest.Stat)
		}
		if err := tx.Users.SaveProgress(ctx, user); err != nil {
			return err
		}

		result = &CompletionResult{
			User:         user,
			GainedXP:     quest.XPReward,
			Stat:         quest.Stat,
			LevelsGained: leveled.LevelsGained,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.QuestCompleted(string(result.Stat), result.LevelsGained)
	s.publish(ctx, questID, at, result)
	return result, nil
}

func (s *QuestService) publish(ctx context.Context, questID string, at time.Time, r *CompletionResult) {
	if s.publisher == nil {
		return
	}
	event := &models.QuestCompletedEvent{
		UserID:       r.User.ID,
		Username:     r.User.DisplayName(),
		QuestID:      questID,
		Stat:         r.Stat,
		GainedXP:     r.GainedXP,
		Level:        r.User.Level,
		XP:           r.User.XP,
		LevelsGained: r.LevelsGained,
		CompletedAt:  at,
	}
	if err := s.publisher.PublishQuestCompleted(ctx, event); err != nil {
		s.logger.Warn("failed to publish quest completion",
			zap.String("quest_id", questID),
			zap.Error(err))
	}
}

// RecentActivity lists the newest completed quests of userID.
func (s *QuestService) RecentActivity(ctx context.Context, userID string) ([]models.QuestActivity, error) {
	return s.store.Quests.RecentCompleted(ctx, userID, recentActivitySize)
}

// Pending lists open quests for the home page.
func (s *QuestService) Pending(ctx context.Context, userID string) ([]models.Quest, error) {
	return s.store.Quests.ListPending(ctx, userID, pendingListSize)
}

// ProviderName reports which generator backs the service.
func (s *QuestService) ProviderName() string {
	return s.provider.GetProviderName()
}
