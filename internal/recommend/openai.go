package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/BobKimani/Colovision-CRC-Detection/internal/mask"
)

const systemPrompt = "You are a medical AI assistant specializing in colorectal cancer " +
	"screening and diagnosis. Provide clear, evidence-based clinical recommendations."

// OpenAIAdvisor generates recommendations with a chat-completion model.
type OpenAIAdvisor struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIAdvisor constructs an advisor backed by the OpenAI API.
func NewOpenAIAdvisor(apiKey string, logger *zap.Logger) *OpenAIAdvisor {
	return &OpenAIAdvisor{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
		logger: logger.Named("openai_advisor"),
	}
}

// Recommend implements Advisor. Recommendation text generation is fully
// delegated to the model; this method only assembles the analysis context and
// classifies the returned lines by urgency.
func (a *OpenAIAdvisor) Recommend(ctx context.Context, risk mask.RiskLevel, stats mask.Statistics) ([]Recommendation, error) {
	prompt := fmt.Sprintf(`You are a medical AI assistant providing clinical recommendations for colorectal cancer screening based on colonoscopy image analysis.

Analysis Results:
Statistics: %d polyp pixels out of %d total pixels (%.2f%% coverage)

Risk Level: %s
Polyp Coverage: %.2f%%

Please provide 3-5 specific, actionable clinical recommendations based on these findings.
Format each recommendation as a clear, concise statement suitable for a medical report.
Include urgency indicators (urgent, monitoring, routine) and use professional medical language.

Return ONLY the recommendations, one per line, without numbering or bullets.`,
		stats.PositivePixels, stats.TotalPixels, stats.PositivePercentage,
		risk, stats.PositivePercentage)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   300,
	})
	if err != nil {
		a.logger.Warn("chat completion failed", zap.Error(err))
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("recommend: empty completion response")
	}

	recs := parseRecommendations(resp.Choices[0].Message.Content, risk)
	if len(recs) == 0 {
		return nil, errors.New("recommend: no recommendations parsed from completion")
	}
	return recs, nil
}

// parseRecommendations splits model output into lines and classifies each by
// urgency keywords and risk level.
func parseRecommendations(text string, risk mask.RiskLevel) []Recommendation {
	var recs []Recommendation
	for _, line := range strings.Split(text, "\n") {
		clean := strings.TrimLeft(strings.TrimSpace(line), "0123456789.-*) ")
		clean = strings.TrimSpace(clean)
		if clean == "" {
			continue
		}
		recs = append(recs, Recommendation{Type: classify(clean, risk), Text: clean})
	}
	return recs
}

func classify(text string, risk mask.RiskLevel) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "urgent", "immediate", "biopsy", "oncologist", "consultation", "asap"):
		return "urgent"
	case containsAny(lower, "monitor", "follow-up", "follow up", "surveillance"):
		return "monitoring"
	case risk == mask.RiskHigh || risk == mask.RiskMedium:
		// No keyword match, but elevated risk still escalates.
		return "urgent"
	default:
		return "routine"
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
