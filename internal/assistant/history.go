package assistant

import (
	"encoding/json"

	"gnatwriter/internal/models"
)

type turnRecord struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}

// EncodeTurn renders a session turn for the Activity detail column.
func EncodeTurn(t Turn) string {
	out, err := json.Marshal(turnRecord{Prompt: t.Prompt, Response: t.Response})
	if err != nil {
		return ""
	}
	return string(out)
}

// DecodeTurns converts dispatch activity rows (newest first) back into
// session turns, skipping rows whose detail is unreadable.
func DecodeTurns(activities []models.Activity) []Turn {
	turns := make([]Turn, 0, len(activities))
	for _, a := range activities {
		if a.Operation != models.OpDispatch {
			continue
		}
		var rec turnRecord
		if err := json.Unmarshal([]byte(a.Detail), &rec); err != nil {
			continue
		}
		turns = append(turns, Turn{Prompt: rec.Prompt, Response: rec.Response})
	}
	return turns
}
