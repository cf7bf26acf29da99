package models

// ErrorResponse is the body of every failed API call. Detail, Raw and Issues
// are only filled for generator failures.
type ErrorResponse struct {
	Message string `json:"error"`
	Detail  string `json:"detail,omitempty"`
	Raw     any    `json:"raw,omitempty"`
	Issues  any    `json:"issues,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// GenerationRequest is what the quest service hands to a text generator.
type GenerationRequest struct {
	Prompt       string
	Instructions string
	RequestID    string
}

type GenerationResponse struct {
	Content   string             `json:"content"`
	RequestID string             `json:"requestId"`
	Metadata  GenerationMetadata `json:"metadata"`
}

type GenerationMetadata struct {
	ProcessingTime int    `json:"processingTimeMs"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
}

// UserProgress is the user payload of /api/user/me.
type UserProgress struct {
	ID       string  `json:"id"`
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Level    int     `json:"level"`
	XP       int     `json:"xp"`
	Stats
	XPToNext int `json:"xpToNext"`
}

// LeaderboardEntry is one row of either leaderboard list.
type LeaderboardEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
	IsSelf   bool   `json:"isSelf,omitempty"`
}
