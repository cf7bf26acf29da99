package prompts

import (
	"strings"
	"testing"
)

type questData struct {
	StatLabel string
	StatValue int
	Username  string
	Level     int
	XP        int
	Stats     struct{ Str, Int, End, Cha, Wis int }
}

func TestPromptManagerBuildPrompt(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager error: %v", err)
	}

	data := questData{StatLabel: "CHA", StatValue: 2, Username: "hero_1", Level: 3, XP: 40}
	data.Stats.Cha = 2
	prompt, err := pm.BuildPrompt("quest", "novice", data)
	if err != nil {
		t.Fatalf("BuildPrompt error: %v", err)
	}

	if !containsAll(prompt, []string{
		"improve CHA",
		"User: hero_1, level 3, xp 40.",
		"CHA 2",
		"2-8 minutes",
		"No gym",
		"very easy",
		"xpReward (integer 5-50)",
	}) {
		t.Fatalf("prompt did not contain expected values: %s", prompt)
	}

	if _, err := pm.BuildPrompt("unknown", "novice", data); err == nil {
		t.Fatalf("expected error for unknown mode")
	}

	if _, err := pm.BuildPrompt("quest", "missing", data); err == nil {
		t.Fatalf("expected error for missing variant")
	}
}

func TestPromptManagerInstructionsAndVariants(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager error: %v", err)
	}

	instr, err := pm.Instructions("quest")
	if err != nil || !strings.Contains(instr, "Return ONLY valid JSON") {
		t.Fatalf("unexpected instructions %q (%v)", instr, err)
	}
	if _, err := pm.Instructions("unknown"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}

	if got := strings.Join(pm.Variants("quest"), ","); got != "adept,novice,veteran" {
		t.Fatalf("unexpected variants %s", got)
	}
	if pm.Variants("unknown") != nil {
		t.Fatalf("expected no variants for unknown mode")
	}
	if len(pm.Modes()) == 0 {
		t.Fatalf("expected templates to be loaded")
	}
}

func TestBuildPromptMissingField(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager error: %v", err)
	}
	if _, err := pm.BuildPrompt("quest", "adept", map[string]any{"StatLabel": "STR"}); err == nil {
		t.Fatalf("expected error when template data is incomplete")
	}
}

func containsAll(haystack string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
