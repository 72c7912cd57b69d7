package triageService

import (
	"fmt"
	"strings"

	"HealthTriageBot/internal/entity"
	"HealthTriageBot/pkg/nlp"
)

// All reply building lives here and is pure: same inputs, same string, no
// side effects. Unsupported languages fall back to English.

var severityEmoji = map[entity.SeverityTier]string{
	entity.SeverityLow:      "🟢",
	entity.SeverityModerate: "🟡",
	entity.SeverityHigh:     "🟠",
	entity.SeverityCritical: "🔴",
}

type localeStrings struct {
	greeting        string
	askMoreSymptoms string
	reask           string
	confirmHeader   string
	confirmFooter   string
	confirmRetry    string
	allCandidates   string
	resolvedAdvice  string
	resolvedUrgent  string
	emergency       string
	emergencyAgain  string
	medicineMissing string
	hospitalHeader  string
	unknown         string
	resetDone       string
	noCandidates    string
}

var locales = map[string]localeStrings{
	"en": {
		greeting:        "Hello! I am your health assistant. Tell me how you are feeling, for example \"I have fever and headache\".",
		askMoreSymptoms: "I understand. Could you tell me a bit more? Any other symptoms, and since when?",
		reask:           "Sorry, I did not quite get that. Could you describe your symptoms in a few simple words?",
		confirmHeader:   "Based on what you told me, this looks like it could be:",
		confirmFooter:   "Does this match how you feel? Please reply yes or no.",
		confirmRetry:    "Please reply yes if one of these matches, or no if none of them does.",
		allCandidates:   "No problem. Here is everything your symptoms could point to:",
		resolvedAdvice:  "Please rest, stay hydrated, and watch your symptoms. See a doctor if things get worse or do not improve in 2-3 days.",
		resolvedUrgent:  "Your symptoms may need prompt attention. Please visit a doctor or clinic as soon as you can.",
		emergency:       "🚨 This sounds like a medical emergency. Please call 108 immediately or go to the nearest emergency room. Help has been notified.",
		emergencyAgain:  "🚨 Help has already been notified. Please stay with the patient and keep the line to 108 open.",
		medicineMissing: "I could not find that medicine. Please check the spelling, or ask a pharmacist.",
		hospitalHeader:  "Here are some hospitals you can contact:",
		unknown:         "I can help with symptoms, medicines, hospitals and health tips. What would you like to know?",
		resetDone:       "Okay, let us start over. Tell me how you are feeling.",
		noCandidates:    "I could not match those symptoms to a condition I know. If you feel unwell, please consult a doctor.",
	},
	"hi": {
		greeting:        "नमस्ते! मैं आपका स्वास्थ्य सहायक हूं। बताइए आप कैसा महसूस कर रहे हैं, जैसे \"मुझे बुखार और सिरदर्द है\"।",
		askMoreSymptoms: "समझ गया। थोड़ा और बताइए? कोई और लक्षण, और कब से?",
		reask:           "माफ कीजिए, मैं समझ नहीं पाया। कृपया अपने लक्षण सरल शब्दों में बताइए।",
		confirmHeader:   "आपके बताए लक्षणों के आधार पर, यह हो सकता है:",
		confirmFooter:   "क्या यह सही लगता है? कृपया हां या नहीं में जवाब दें।",
		confirmRetry:    "कृपया हां लिखें अगर इनमें से कोई सही लगे, या नहीं लिखें अगर कोई नहीं।",
		allCandidates:   "कोई बात नहीं। आपके लक्षण इनमें से किसी से जुड़े हो सकते हैं:",
		resolvedAdvice:  "कृपया आराम करें, पानी पीते रहें और लक्षणों पर नजर रखें। अगर 2-3 दिन में सुधार न हो तो डॉक्टर से मिलें।",
		resolvedUrgent:  "आपके लक्षणों पर जल्दी ध्यान देने की जरूरत हो सकती है। कृपया जल्द से जल्द डॉक्टर से मिलें।",
		emergency:       "🚨 यह मेडिकल इमरजेंसी लगती है। कृपया तुरंत 108 पर कॉल करें या नजदीकी अस्पताल जाएं। मदद को सूचित कर दिया गया है।",
		emergencyAgain:  "🚨 मदद को पहले ही सूचित किया जा चुका है। कृपया मरीज के साथ रहें और 108 से संपर्क बनाए रखें।",
		medicineMissing: "मुझे वह दवा नहीं मिली। कृपया नाम जांचें या किसी फार्मासिस्ट से पूछें।",
		hospitalHeader:  "ये कुछ अस्पताल हैं जिनसे आप संपर्क कर सकते हैं:",
		unknown:         "मैं लक्षण, दवाइयां, अस्पताल और सेहत के सुझावों में मदद कर सकता हूं। आप क्या जानना चाहेंगे?",
		resetDone:       "ठीक है, फिर से शुरू करते हैं। बताइए आप कैसा महसूस कर रहे हैं।",
		noCandidates:    "मैं इन लक्षणों को किसी जानी-पहचानी बीमारी से नहीं जोड़ पाया। तबीयत खराब लगे तो डॉक्टर से मिलें।",
	},
}

func localize(language string) localeStrings {
	if l, ok := locales[language]; ok {
		return l
	}
	return locales["en"]
}

func composeGreeting(language string) string {
	return localize(language).greeting
}

func composeFollowUp(language string) string {
	return localize(language).askMoreSymptoms
}

func composeReask(language string) string {
	return localize(language).reask
}

func composeUnknown(language string) string {
	return localize(language).unknown
}

func composeResetDone(language string) string {
	return localize(language).resetDone
}

func composeEmergency(language string) string {
	return localize(language).emergency
}

func composeEmergencyAcknowledged(language string) string {
	return localize(language).emergencyAgain
}

func composeConfirmRetry(language string) string {
	return localize(language).confirmRetry
}

func composeNoCandidates(language string) string {
	return localize(language).noCandidates
}

func composeConfirmation(language string, candidates []entity.SymptomCandidate) string {
	l := localize(language)

	var b strings.Builder
	b.WriteString(l.confirmHeader)
	b.WriteString("\n")
	for i, c := range candidates {
		if i >= 3 {
			break
		}
		b.WriteString(fmt.Sprintf("%s %s (%.0f%% match)\n", severityEmoji[c.Severity], c.Condition, c.Confidence*100))
	}
	b.WriteString(l.confirmFooter)
	return b.String()
}

func composeResolved(language string, top entity.SymptomCandidate) string {
	l := localize(language)
	advice := l.resolvedAdvice
	if top.Severity >= entity.SeverityHigh {
		advice = l.resolvedUrgent
	}
	if top.Condition == "" {
		return advice
	}
	return fmt.Sprintf("%s %s (%.0f%% match)\n%s", severityEmoji[top.Severity], top.Condition, top.Confidence*100, advice)
}

// composeAllCandidates closes out a query the user could not confirm; every
// pending candidate is listed so nothing is silently discarded.
func composeAllCandidates(language string, candidates []entity.SymptomCandidate) string {
	l := localize(language)
	if len(candidates) == 0 {
		return l.noCandidates
	}

	advice := l.resolvedAdvice
	var b strings.Builder
	b.WriteString(l.allCandidates)
	b.WriteString("\n")
	for _, c := range candidates {
		if c.Severity >= entity.SeverityHigh {
			advice = l.resolvedUrgent
		}
		b.WriteString(fmt.Sprintf("%s %s (%.0f%% match)\n", severityEmoji[c.Severity], c.Condition, c.Confidence*100))
	}
	b.WriteString(advice)
	return b.String()
}

func composeMedicine(language string, med nlp.MedicineData, found bool) string {
	if !found {
		return localize(language).medicineMissing
	}
	name := med.Name
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s: %s", name, med.Description)
}

func composeHospitals(language string, hospitals []nlp.HospitalData) string {
	var b strings.Builder
	b.WriteString(localize(language).hospitalHeader)
	for _, h := range hospitals {
		b.WriteString(fmt.Sprintf("\n🏥 %s, %s - %s", h.Name, h.City, h.Helpline))
	}
	return b.String()
}

func composeHealthTip(language string, tips []string, index int) string {
	if len(tips) == 0 {
		return composeUnknown(language)
	}
	return "💡 " + tips[index%len(tips)]
}
