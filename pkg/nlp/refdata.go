package nlp

import (
	"fmt"
	"os"

	"HealthTriageBot/internal/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ReferenceData is the versioned mapping the scorer and lookup replies run on.
// Loaded once at startup; read-only at runtime.
type ReferenceData struct {
	Version    string          `json:"version"`
	Conditions []ConditionData `json:"conditions"`
	Medicines  []MedicineData  `json:"medicines"`
	Hospitals  []HospitalData  `json:"hospitals"`
	HealthTips []string        `json:"health_tips"`
}

// EmergencyPhrases short-circuit straight into the emergency path regardless
// of classifier confidence. False negatives cost far more than false
// positives here.
var EmergencyPhrases = []string{
	"can't breathe",
	"cant breathe",
	"cannot breathe",
	"not breathing",
	"difficulty breathing",
	"chest pain",
	"unconscious",
	"severe bleeding",
	"heart attack",
	"stroke",
	"seizure",
	"suicide",
}

// LoadReferenceData reads the reference mapping from path, or returns the
// built-in defaults when path is empty.
func LoadReferenceData(path string) (*ReferenceData, error) {
	if path == "" {
		return defaultReferenceData(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference data: %w", err)
	}

	var data ReferenceData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse reference data: %w", err)
	}
	if len(data.Conditions) == 0 {
		return nil, fmt.Errorf("reference data %s contains no conditions", path)
	}

	return &data, nil
}

func defaultReferenceData() *ReferenceData {
	return &ReferenceData{
		Version: "builtin-1",
		Conditions: []ConditionData{
			{
				Name:     "heart attack",
				Symptoms: []string{"chest pain", "shortness of breath", "sweating", "left arm pain", "nausea"},
				Severity: entity.SeverityCritical,
			},
			{
				Name:     "stroke",
				Symptoms: []string{"numbness", "confusion", "slurred speech", "dizziness", "severe headache"},
				Severity: entity.SeverityCritical,
			},
			{
				Name:     "pneumonia",
				Symptoms: []string{"cough", "fever", "difficulty breathing", "chest pain", "fatigue"},
				Severity: entity.SeverityHigh,
			},
			{
				Name:     "dengue",
				Symptoms: []string{"high fever", "severe headache", "joint pain", "rash", "eye pain"},
				Severity: entity.SeverityHigh,
			},
			{
				Name:     "malaria",
				Symptoms: []string{"fever", "chills", "sweating", "headache", "vomiting"},
				Severity: entity.SeverityHigh,
			},
			{
				Name:     "typhoid",
				Symptoms: []string{"fever", "abdominal pain", "weakness", "loss of appetite", "headache"},
				Severity: entity.SeverityHigh,
			},
			{
				Name:     "appendicitis",
				Symptoms: []string{"abdominal pain", "nausea", "vomiting", "fever", "loss of appetite"},
				Severity: entity.SeverityHigh,
			},
			{
				Name:     "influenza",
				Symptoms: []string{"fever", "cough", "sore throat", "body ache", "fatigue", "runny nose"},
				Severity: entity.SeverityModerate,
			},
			{
				Name:     "gastroenteritis",
				Symptoms: []string{"diarrhea", "vomiting", "abdominal pain", "nausea", "fever"},
				Severity: entity.SeverityModerate,
			},
			{
				Name:     "migraine",
				Symptoms: []string{"headache", "nausea", "dizziness", "blurry vision"},
				Severity: entity.SeverityModerate,
			},
			{
				Name:     "urinary tract infection",
				Symptoms: []string{"painful urination", "frequent urination", "fever", "abdominal pain"},
				Severity: entity.SeverityModerate,
			},
			{
				Name:     "common cold",
				Symptoms: []string{"runny nose", "sore throat", "cough", "sneezing", "headache"},
				Severity: entity.SeverityLow,
			},
			{
				Name:     "allergic rhinitis",
				Symptoms: []string{"sneezing", "runny nose", "itching", "watery eyes"},
				Severity: entity.SeverityLow,
			},
			{
				Name:     "tension headache",
				Symptoms: []string{"headache", "neck pain", "stress", "fatigue"},
				Severity: entity.SeverityLow,
			},
		},
		Medicines: []MedicineData{
			{Name: "paracetamol", Description: "Relieves pain and reduces fever. Typical adult dose 500mg every 4-6 hours, maximum 4g per day."},
			{Name: "ibuprofen", Description: "Reduces inflammation, pain and fever. Take with food; avoid with stomach ulcers or kidney disease."},
			{Name: "cetirizine", Description: "Antihistamine for allergies, sneezing and itching. May cause mild drowsiness."},
			{Name: "ors", Description: "Oral rehydration salts replace fluids lost to diarrhea or vomiting. Dissolve one sachet in a litre of clean water."},
			{Name: "omeprazole", Description: "Reduces stomach acid for heartburn and acid reflux. Usually taken before the first meal of the day."},
			{Name: "amoxicillin", Description: "Antibiotic for bacterial infections. Only take when prescribed; always complete the full course."},
		},
		Hospitals: []HospitalData{
			{Name: "AIIMS", City: "Delhi", Helpline: "011-26588500"},
			{Name: "Apollo Hospital", City: "Chennai", Helpline: "044-28290200"},
			{Name: "Fortis Hospital", City: "Mumbai", Helpline: "022-66754444"},
			{Name: "Manipal Hospital", City: "Bengaluru", Helpline: "080-22221111"},
		},
		HealthTips: []string{
			"Stay hydrated: aim for 8-10 glasses of water daily.",
			"Get 7-9 hours of quality sleep each night.",
			"Exercise at least 30 minutes daily, even a brisk walk counts.",
			"Wash hands with soap before meals and after using the toilet.",
			"Eat balanced meals with fruits, vegetables and whole grains.",
			"Keep vaccinations up to date for the whole family.",
		},
	}
}

// symptomVocabulary collects every symptom token known to the reference data.
func (d *ReferenceData) symptomVocabulary() map[string]bool {
	vocab := make(map[string]bool)
	for _, c := range d.Conditions {
		for _, s := range c.Symptoms {
			vocab[s] = true
		}
	}
	return vocab
}

// FindMedicine looks up a medicine by name within the given text.
func (d *ReferenceData) FindMedicine(normalizedText string) (MedicineData, bool) {
	for _, m := range d.Medicines {
		if containsPhrase(normalizedText, m.Name) {
			return m, true
		}
	}
	return MedicineData{}, false
}
