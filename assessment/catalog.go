// Package assessment turns intake answers into the heuristic cancer-likelihood
// assessment stored with each patient record.
package assessment

import "sort"

// SymptomWeight is one catalog entry of a cancer type.
type SymptomWeight struct {
	Symptom string  `json:"symptom"`
	Weight  float64 `json:"weight"`
}

// CancerType groups the weighted symptoms that count towards one label.
type CancerType struct {
	Name     string          `json:"name"`
	Symptoms []SymptomWeight `json:"symptoms"`
}

// Weight returns the weight of symptom for this type, or 0 when absent.
func (ct CancerType) Weight(symptom string) float64 {
	for _, s := range ct.Symptoms {
		if s.Symptom == symptom {
			return s.Weight
		}
	}
	return 0
}

// catalog order is significant: ties go to the earlier type.
var catalog = []CancerType{
	{
		Name: "Breast Cancer",
		Symptoms: []SymptomWeight{
			{"Change in breast size or shape", 0.3},
			{"Lump in breast or underarm", 0.4},
			{"Persistent thickening near breast", 0.35},
			{"Skin dimpling or redness on breast", 0.25},
			{"Marble-like hardened area under skin", 0.3},
			{"Nipple discharge (blood-stained or clear)", 0.35},
		},
	},
	{
		Name: "Lung Cancer",
		Symptoms: []SymptomWeight{
			{"Persistent cough", 0.3},
			{"Coughing up blood", 0.4},
			{"Shortness of breath", 0.3},
			{"Chest pain or discomfort", 0.25},
			{"Wheezing", 0.25},
			{"Hoarseness", 0.2},
			{"Loss of appetite", 0.2},
			{"Unexplained weight loss", 0.3},
			{"Fatigue or tiredness", 0.2},
			{"Shoulder pain", 0.15},
			{"Swelling in face or neck", 0.25},
			{"Drooping eyelid or uneven pupil", 0.3},
		},
	},
	{
		Name: "Prostate Cancer",
		Symptoms: []SymptomWeight{
			{"Frequent need to pee, especially at night", 0.35},
			{"Weak urine flow", 0.25},
			{"Pain or burning when peeing", 0.3},
			{"Loss of bladder control", 0.2},
			{"Loss of bowel control", 0.2},
			{"Painful ejaculation or erectile dysfunction", 0.35},
			{"Blood in semen or pee", 0.4},
			{"Pain in lower back, hip or chest", 0.25},
		},
	},
	{
		Name: "Blood Cancer",
		Symptoms: []SymptomWeight{
			{"Fatigue", 0.3},
			{"Shortness of breath", 0.3},
			{"Swollen lymph nodes", 0.35},
			{"Frequent infections", 0.3},
			{"Bone or joint pain", 0.25},
			{"Night sweats", 0.25},
			{"Enlarged liver or spleen", 0.3},
			{"Persistent fever", 0.3},
			{"Unexplained weight loss", 0.3},
			{"Unusual bruising or bleeding", 0.4},
		},
	},
}

// Catalog returns a copy of the symptom catalog in scoring order.
func Catalog() []CancerType {
	out := make([]CancerType, len(catalog))
	for i, ct := range catalog {
		out[i] = CancerType{Name: ct.Name, Symptoms: append([]SymptomWeight(nil), ct.Symptoms...)}
	}
	return out
}

// AllSymptoms returns every catalog symptom once, sorted, for the intake form.
func AllSymptoms() []string {
	seen := make(map[string]struct{})
	var all []string
	for _, ct := range catalog {
		for _, s := range ct.Symptoms {
			if _, ok := seen[s.Symptom]; ok {
				continue
			}
			seen[s.Symptom] = struct{}{}
			all = append(all, s.Symptom)
		}
	}
	sort.Strings(all)
	return all
}

// IsKnownSymptom reports whether any cancer type lists symptom.
func IsKnownSymptom(symptom string) bool {
	for _, ct := range catalog {
		if ct.Weight(symptom) > 0 {
			return true
		}
	}
	return false
}
