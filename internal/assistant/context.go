package assistant

import (
	"fmt"
	"strings"

	"gnatwriter/internal/models"

	"go.uber.org/zap"
)

// Block is one atomic unit of story context: a serialized scene, chapter,
// story, character, location or event. A block either fits the remaining
// budget whole or is skipped; blocks are never split.
type Block struct {
	Label  string
	Text   string
	Images int // attached image references, charged at ImageTokenCost each
}

// Turn is one prior exchange of an assistant session.
type Turn struct {
	Prompt   string
	Response string
}

// Prompt is the assembled model input. Size is the estimator's measure of
// everything included and never exceeds the role's context window.
type Prompt struct {
	System string
	Text   string
	Size   int
}

// ContextManager assembles bounded prompts. It is pure: no storage or
// network access, just budget arithmetic over what the caller gathered.
type ContextManager struct {
	est    SizeEstimator
	logger *zap.Logger
}

// NewContextManager creates a manager using the given size estimator.
func NewContextManager(est SizeEstimator, logger *zap.Logger) *ContextManager {
	return &ContextManager{
		est:    est,
		logger: logger.Named("ContextManager"),
	}
}

// Assemble builds the prompt for one dispatch.
//
// The instruction and the target block are mandatory; if they alone exceed
// the window the call fails with models.ErrContextOverflow. History must
// arrive newest first; it is capped at the role's memory duration and then
// filled newest first, dropping the oldest turns when the budget runs out.
// Context blocks are offered in caller priority order and included whole or
// not at all.
func (m *ContextManager) Assemble(role RoleConfig, instruction string, target Block, history []Turn, context []Block) (*Prompt, error) {
	budget := role.ContextWindow

	targetText := renderBlock(target)
	mandatory := m.est.Estimate(instruction) + m.est.Estimate(targetText) + target.Images*ImageTokenCost
	if mandatory > budget {
		return nil, fmt.Errorf("instruction and target need %d units but the window is %d: %w",
			mandatory, budget, models.ErrContextOverflow)
	}
	remaining := budget - mandatory

	if len(history) > role.MemoryDuration {
		history = history[:role.MemoryDuration]
	}
	var turns []string // newest first
	for _, turn := range history {
		text := renderTurn(turn)
		cost := m.est.Estimate(text)
		if cost > remaining {
			break
		}
		turns = append(turns, text)
		remaining -= cost
	}

	var contextParts []string
	for _, block := range context {
		text := renderBlock(block)
		cost := m.est.Estimate(text) + block.Images*ImageTokenCost
		if cost > remaining {
			m.logger.Debug("Skipping context block over budget",
				zap.String("label", block.Label), zap.Int("cost", cost), zap.Int("remaining", remaining))
			continue
		}
		contextParts = append(contextParts, text)
		remaining -= cost
	}

	var sb strings.Builder
	for _, part := range contextParts {
		sb.WriteString(part)
	}
	// Chronological order for the model, oldest turn first.
	for i := len(turns) - 1; i >= 0; i-- {
		sb.WriteString(turns[i])
	}
	sb.WriteString(targetText)

	return &Prompt{
		System: instruction,
		Text:   sb.String(),
		Size:   budget - remaining,
	}, nil
}

func renderBlock(b Block) string {
	if b.Label == "" {
		return b.Text + "\n\n"
	}
	return b.Label + ":\n" + b.Text + "\n\n"
}

func renderTurn(t Turn) string {
	return "user: " + t.Prompt + "\nassistant: " + t.Response + "\n\n"
}
