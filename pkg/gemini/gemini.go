package gemini

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"HealthTriageBot/internal/entity"
	"HealthTriageBot/pkg/nlp"
)

const classifyPrompt = `You label one chat message from a health assistant user.
Reply with exactly one line: LABEL CONFIDENCE
LABEL is one of GREETING, SYMPTOM_REPORT, MEDICINE_QUERY, EMERGENCY_KEYWORD, HOSPITAL_LOOKUP, HEALTH_TIP, UNKNOWN.
CONFIDENCE is a decimal between 0 and 1.
Message: `

var intentLabels = map[string]entity.Intent{
	"GREETING":          entity.IntentGreeting,
	"SYMPTOM_REPORT":    entity.IntentSymptomReport,
	"MEDICINE_QUERY":    entity.IntentMedicineQuery,
	"EMERGENCY_KEYWORD": entity.IntentEmergencyKeyword,
	"HOSPITAL_LOOKUP":   entity.IntentHospitalLookup,
	"HEALTH_TIP":        entity.IntentHealthTip,
	"UNKNOWN":           entity.IntentUnknown,
}

// Classifier labels intents with the Gemini API, falling back to the rule
// classifier when the API errors or returns something unparseable. Emergency
// phrases never reach the API at all.
type Classifier struct {
	modelName string
	client    *genai.Client
	fallback  nlp.IClassifier
}

func NewClassifier(fallback nlp.IClassifier) (*Classifier, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &Classifier{
		modelName: modelName,
		client:    client,
		fallback:  fallback,
	}, nil
}

func (g *Classifier) Classify(ctx context.Context, normalizedText string, language string) (entity.Intent, float64, error) {
	if nlp.ContainsEmergencyPhrase(normalizedText) {
		return entity.IntentEmergencyKeyword, 0.99, nil
	}

	model := g.client.GenerativeModel(g.modelName)
	res, err := model.GenerateContent(ctx, genai.Text(classifyPrompt+normalizedText))
	if err != nil {
		logrus.Warn("Gemini classification failed, using rule classifier: " + err.Error())
		return g.fallback.Classify(ctx, normalizedText, language)
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return g.fallback.Classify(ctx, normalizedText, language)
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return g.fallback.Classify(ctx, normalizedText, language)
	}

	intent, confidence, ok := parseLabel(string(text))
	if !ok {
		logrus.Debug("Unparseable Gemini label, using rule classifier: " + string(text))
		return g.fallback.Classify(ctx, normalizedText, language)
	}

	return intent, confidence, nil
}

func parseLabel(raw string) (entity.Intent, float64, bool) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) < 2 {
		return entity.IntentUnknown, 0, false
	}

	intent, ok := intentLabels[strings.ToUpper(fields[0])]
	if !ok {
		return entity.IntentUnknown, 0, false
	}

	confidence, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || confidence < 0 || confidence > 1 {
		return entity.IntentUnknown, 0, false
	}

	return intent, confidence, true
}

func (g *Classifier) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
