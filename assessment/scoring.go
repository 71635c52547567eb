package assessment

import (
	"fmt"
	"math"
)

// Intake defaults applied when numeric form fields do not parse.
const (
	DefaultAge      = 45
	DefaultDuration = 3
)

const (
	baseConfidence   = 40.0
	symptomBlend     = 0.6
	imageBlend       = 0.4
	moderateFloor    = 50.0
	highFloor        = 75.0
	survivalBase     = 0.9
	survivalMin      = 0.1
	survivalMax      = 0.99
	diagnosisCutoff  = 60.0
	favorableCutoff  = 0.75
	monitoringCutoff = 0.45
)

// Severity bands of the combined confidence.
const (
	SeverityLow      = "Low"
	SeverityModerate = "Moderate"
	SeverityHigh     = "High"
)

// Band is the severity/urgency classification of a combined confidence.
type Band struct {
	Severity string `json:"severity"`
	Urgency  string `json:"urgency"`
	Color    string `json:"color"`
}

// Input is what the intake form supplies.
type Input struct {
	Age      int
	Duration int
	Symptoms []string
	// Image holds the raw scan upload; nil when none was supplied.
	Image []byte
}

// Result is the full assessment of one intake.
type Result struct {
	CancerType        string  `json:"cancer_type"`
	SymptomScore      float64 `json:"symptom_score"`
	SymptomConfidence float64 `json:"symptom_confidence"`
	ImageConfidence   float64 `json:"image_confidence"`
	Confidence        float64 `json:"confidence"`
	Band
	SurvivalProb float64 `json:"survival_prob"`
	Diagnosis    string  `json:"diagnosis"`
	Prognosis    string  `json:"prognosis"`
}

// ScoreSymptoms sums the selected symptom weights per cancer type and returns
// the type with the highest sum. Ties keep the earliest type in catalog order.
func ScoreSymptoms(selected []string) (string, float64) {
	best := ""
	bestScore := 0.0
	for i, ct := range catalog {
		score := 0.0
		for _, s := range selected {
			score += ct.Weight(s)
		}
		if i == 0 || score > bestScore {
			best, bestScore = ct.Name, score
		}
	}
	return best, bestScore
}

// SymptomConfidence converts a winning symptom score into a 0-100 confidence,
// adjusted for age and symptom duration in days. The base is capped at 100
// before the adjustments, so a penalty still lowers a saturated score.
func SymptomConfidence(score float64, age, duration int) float64 {
	confidence := math.Min(100, baseConfidence+score*100)
	switch {
	case age > 60:
		confidence += 10
	case age < 25:
		confidence -= 5
	}
	switch {
	case duration > 6:
		confidence += 10
	case duration < 1:
		confidence -= 5
	}
	return clamp(confidence, 0, 100)
}

// CombineConfidence blends symptom and image confidence. A missing image
// contributes 0 at the same weight.
func CombineConfidence(symptomConfidence, imageConfidence float64) float64 {
	return clamp(symptomConfidence*symptomBlend+imageConfidence*imageBlend, 0, 100)
}

// Classify maps a combined confidence onto its severity band.
func Classify(confidence float64) Band {
	switch {
	case confidence < moderateFloor:
		return Band{Severity: SeverityLow, Urgency: "Routine Check", Color: "#5cb85c"}
	case confidence < highFloor:
		return Band{Severity: SeverityModerate, Urgency: "Doctor Visit Recommended", Color: "#f0ad4e"}
	default:
		return Band{Severity: SeverityHigh, Urgency: "Immediate Medical Attention", Color: "#d9534f"}
	}
}

// SurvivalProbability decreases with both confidence and age and stays in [0.1, 0.99].
func SurvivalProbability(confidence float64, age int) float64 {
	return clamp(survivalBase-confidence/200-float64(age)/300, survivalMin, survivalMax)
}

// Interpret renders the plain-language diagnosis and prognosis shown on the result page.
func Interpret(cancerType string, confidence, survival float64) (diagnosis, prognosis string) {
	if confidence >= diagnosisCutoff {
		diagnosis = fmt.Sprintf("Signs suggest possible presence of %s.", cancerType)
	} else {
		diagnosis = fmt.Sprintf("No strong evidence of cancer detected - %s unlikely.", cancerType)
	}

	switch {
	case survival > favorableCutoff:
		prognosis = "Favorable - good outlook with early detection."
	case survival > monitoringCutoff:
		prognosis = "Monitor closely - treatment likely to improve outcomes."
	default:
		prognosis = "Critical outlook - immediate medical attention advised."
	}
	return diagnosis, prognosis
}

// Assess runs the whole pipeline for one intake.
func Assess(in Input) Result {
	cancerType, score := ScoreSymptoms(in.Symptoms)
	symptomConfidence := SymptomConfidence(score, in.Age, in.Duration)

	imageConfidence := 0.0
	if len(in.Image) > 0 {
		imageConfidence = AnalyzeImage(in.Image)
	}

	confidence := CombineConfidence(symptomConfidence, imageConfidence)
	survival := SurvivalProbability(confidence, in.Age)
	diagnosis, prognosis := Interpret(cancerType, confidence, survival)

	return Result{
		CancerType:        cancerType,
		SymptomScore:      score,
		SymptomConfidence: symptomConfidence,
		ImageConfidence:   imageConfidence,
		Confidence:        confidence,
		Band:              Classify(confidence),
		SurvivalProb:      survival,
		Diagnosis:         diagnosis,
		Prognosis:         prognosis,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
