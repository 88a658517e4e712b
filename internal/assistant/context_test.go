package assistant

import (
	"strings"
	"testing"
	"unicode/utf8"

	"gnatwriter/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// charEstimator charges one unit per rune so test budgets are exact.
type charEstimator struct{}

func (charEstimator) Estimate(text string) int {
	return utf8.RuneCountInString(text)
}

func newTestManager() *ContextManager {
	return NewContextManager(charEstimator{}, zap.NewNop())
}

func TestRuneEstimator(t *testing.T) {
	est := RuneEstimator{}
	assert.Equal(t, 0, est.Estimate(""))
	assert.Equal(t, 1, est.Estimate("abc"))
	assert.Equal(t, 1, est.Estimate("abcd"))
	assert.Equal(t, 2, est.Estimate("abcde"))
	// Runes, not bytes.
	assert.Equal(t, 2, est.Estimate("héllo"))
}

func TestAssembleMandatoryOverflow(t *testing.T) {
	m := newTestManager()
	role := RoleConfig{ContextWindow: 50, MemoryDuration: 8}

	target := Block{Text: strings.Repeat("s", 80)}
	_, err := m.Assemble(role, "continue the scene", target, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrContextOverflow)
}

func TestAssembleImageChargeOverflow(t *testing.T) {
	m := newTestManager()
	role := RoleConfig{ContextWindow: ImageTokenCost, MemoryDuration: 8}

	// The text alone fits; the image charge pushes it over.
	target := Block{Text: "tiny", Images: 1}
	_, err := m.Assemble(role, "describe", target, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrContextOverflow)
}

func TestAssembleOrdering(t *testing.T) {
	m := newTestManager()
	role := RoleConfig{ContextWindow: 10000, MemoryDuration: 8}

	target := Block{Label: "Scene", Text: "the door opens"}
	history := []Turn{
		{Prompt: "newest question", Response: "newest answer"},
		{Prompt: "oldest question", Response: "oldest answer"},
	}
	context := []Block{
		{Label: "Story", Text: "a heist story"},
		{Label: "Character", Text: "Anya, the locksmith"},
	}

	prompt, err := m.Assemble(role, "continue the scene", target, history, context)
	require.NoError(t, err)

	assert.Equal(t, "continue the scene", prompt.System)

	// Context blocks in caller order, then turns oldest first, then the
	// target last.
	text := prompt.Text
	story := strings.Index(text, "a heist story")
	character := strings.Index(text, "Anya, the locksmith")
	oldest := strings.Index(text, "oldest question")
	newest := strings.Index(text, "newest question")
	scene := strings.Index(text, "the door opens")
	for name, idx := range map[string]int{
		"story": story, "character": character, "oldest": oldest, "newest": newest, "scene": scene,
	} {
		require.GreaterOrEqual(t, idx, 0, "missing %s", name)
	}
	assert.Less(t, story, character)
	assert.Less(t, character, oldest)
	assert.Less(t, oldest, newest)
	assert.Less(t, newest, scene)

	assert.LessOrEqual(t, prompt.Size, role.ContextWindow)
	assert.Equal(t, charEstimator{}.Estimate("continue the scene")+charEstimator{}.Estimate(text), prompt.Size)
}

func TestAssembleStatelessRole(t *testing.T) {
	m := newTestManager()
	role := RoleConfig{ContextWindow: 10000, MemoryDuration: 0}

	history := []Turn{{Prompt: "earlier question", Response: "earlier answer"}}
	prompt, err := m.Assemble(role, "continue", Block{Text: "scene text"}, history, nil)
	require.NoError(t, err)
	assert.NotContains(t, prompt.Text, "earlier question")
	assert.NotContains(t, prompt.Text, "user:")
}

func TestAssembleMemoryDurationCap(t *testing.T) {
	m := newTestManager()
	role := RoleConfig{ContextWindow: 10000, MemoryDuration: 1}

	history := []Turn{
		{Prompt: "newest", Response: "kept"},
		{Prompt: "older", Response: "dropped"},
	}
	prompt, err := m.Assemble(role, "continue", Block{Text: "scene"}, history, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt.Text, "newest")
	assert.NotContains(t, prompt.Text, "older")
}

func TestAssembleDropsOldestTurnsFirst(t *testing.T) {
	m := newTestManager()

	instruction := "go"
	target := Block{Text: "scene"}
	newest := Turn{Prompt: "new", Response: "new"}
	oldest := Turn{Prompt: "old", Response: "old"}

	est := charEstimator{}
	mandatory := est.Estimate(instruction) + est.Estimate(renderBlock(target))
	turnCost := est.Estimate(renderTurn(newest))

	// Budget for exactly one turn beyond the mandatory parts.
	role := RoleConfig{ContextWindow: mandatory + turnCost, MemoryDuration: 8}
	prompt, err := m.Assemble(role, instruction, target, []Turn{newest, oldest}, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt.Text, "user: new")
	assert.NotContains(t, prompt.Text, "user: old")
	assert.Equal(t, role.ContextWindow, prompt.Size)
}

func TestAssembleSkipsOversizedBlocksWholly(t *testing.T) {
	m := newTestManager()
	role := RoleConfig{ContextWindow: 120, MemoryDuration: 8}

	target := Block{Text: "scene"}
	small1 := Block{Text: strings.Repeat("a", 20)}
	huge := Block{Text: strings.Repeat("b", 500)}
	small2 := Block{Text: strings.Repeat("c", 20)}

	prompt, err := m.Assemble(role, "go", target, nil, []Block{small1, huge, small2})
	require.NoError(t, err)

	// The oversized block is skipped whole; later blocks still get their
	// chance at the remaining budget.
	assert.Contains(t, prompt.Text, strings.Repeat("a", 20))
	assert.NotContains(t, prompt.Text, strings.Repeat("b", 500))
	assert.Contains(t, prompt.Text, strings.Repeat("c", 20))
	assert.LessOrEqual(t, prompt.Size, role.ContextWindow)
}

func TestEncodeDecodeTurns(t *testing.T) {
	detail := EncodeTurn(Turn{Prompt: "hello", Response: "world"})
	require.NotEmpty(t, detail)

	activities := []models.Activity{
		{Operation: models.OpDispatch, Detail: detail},
		{Operation: models.OpCreate, Detail: "not a turn"},
		{Operation: models.OpDispatch, Detail: "{malformed"},
	}
	turns := DecodeTurns(activities)
	require.Len(t, turns, 1)
	assert.Equal(t, "hello", turns[0].Prompt)
	assert.Equal(t, "world", turns[0].Response)
}
