// Package facereading turns a face photo into a face-reading Report by
// prompting a vision model and extracting the JSON it answers with.
package facereading

import (
	_ "embed"
	"strings"
)

//go:embed prompts/face_reading.txt
var faceReadingPrompt string

// Prompt returns the fixed instruction text sent along with every photo.
func Prompt() string {
	return strings.TrimSuffix(faceReadingPrompt, "\n")
}

// Report is the fixed-shape result of one analysis. Every field is free text.
type Report struct {
	Overview      string        `json:"overview"`
	FiveOfficials FiveOfficials `json:"fiveOfficials"`
	ThreeZones    ThreeZones    `json:"threeZones"`
	TwelvePalaces TwelvePalaces `json:"twelvePalaces"`
	Fortune       Fortune       `json:"fortune"`
	Advice        string        `json:"advice"`
	LuckyElements LuckyElements `json:"luckyElements"`
}

// FiveOfficials covers ear, eyebrow, eye, nose and mouth (五官).
type FiveOfficials struct {
	Ear     string `json:"ear"`
	Eyebrow string `json:"eyebrow"`
	Eye     string `json:"eye"`
	Nose    string `json:"nose"`
	Mouth   string `json:"mouth"`
}

// ThreeZones are the upper, middle and lower face (三停), i.e. youth, midlife and late life.
type ThreeZones struct {
	Upper  string `json:"upper"`
	Middle string `json:"middle"`
	Lower  string `json:"lower"`
}

// TwelvePalaces (十二宫位).
type TwelvePalaces struct {
	Life     string `json:"life"`
	Wealth   string `json:"wealth"`
	Siblings string `json:"siblings"`
	Marriage string `json:"marriage"`
	Children string `json:"children"`
	Health   string `json:"health"`
	Travel   string `json:"travel"`
	Friends  string `json:"friends"`
	Career   string `json:"career"`
	Property string `json:"property"`
	Fortune  string `json:"fortune"`
	Parents  string `json:"parents"`
}

type Fortune struct {
	Career string `json:"career"`
	Wealth string `json:"wealth"`
	Love   string `json:"love"`
	Health string `json:"health"`
}

type LuckyElements struct {
	Color     string `json:"color"`
	Number    string `json:"number"`
	Direction string `json:"direction"`
}

// fields flattens the report into section -> key -> value using JSON names.
// Scalar sections are stored under the empty key.
func (r *Report) fields() map[string]map[string]string {
	return map[string]map[string]string{
		"overview": {"": r.Overview},
		"fiveOfficials": {
			"ear":     r.FiveOfficials.Ear,
			"eyebrow": r.FiveOfficials.Eyebrow,
			"eye":     r.FiveOfficials.Eye,
			"nose":    r.FiveOfficials.Nose,
			"mouth":   r.FiveOfficials.Mouth,
		},
		"threeZones": {
			"upper":  r.ThreeZones.Upper,
			"middle": r.ThreeZones.Middle,
			"lower":  r.ThreeZones.Lower,
		},
		"twelvePalaces": {
			"life":     r.TwelvePalaces.Life,
			"wealth":   r.TwelvePalaces.Wealth,
			"siblings": r.TwelvePalaces.Siblings,
			"marriage": r.TwelvePalaces.Marriage,
			"children": r.TwelvePalaces.Children,
			"health":   r.TwelvePalaces.Health,
			"travel":   r.TwelvePalaces.Travel,
			"friends":  r.TwelvePalaces.Friends,
			"career":   r.TwelvePalaces.Career,
			"property": r.TwelvePalaces.Property,
			"fortune":  r.TwelvePalaces.Fortune,
			"parents":  r.TwelvePalaces.Parents,
		},
		"fortune": {
			"career": r.Fortune.Career,
			"wealth": r.Fortune.Wealth,
			"love":   r.Fortune.Love,
			"health": r.Fortune.Health,
		},
		"advice": {"": r.Advice},
		"luckyElements": {
			"color":     r.LuckyElements.Color,
			"number":    r.LuckyElements.Number,
			"direction": r.LuckyElements.Direction,
		},
	}
}

// Lookup returns the value at section/key (JSON names). Scalar sections use key "".
func (r *Report) Lookup(section, key string) (string, bool) {
	values, ok := r.fields()[section]
	if !ok {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

// Missing lists "section.key" paths (or "section" for scalars) whose value is blank,
// in layout order.
func (r *Report) Missing() []string {
	fields := r.fields()
	var missing []string
	for _, s := range Layout() {
		keys := []string{""}
		if len(s.Items) > 0 {
			keys = keys[:0]
			for _, it := range s.Items {
				keys = append(keys, it.Key)
			}
		}
		for _, k := range keys {
			if strings.TrimSpace(fields[s.Key][k]) != "" {
				continue
			}
			if k == "" {
				missing = append(missing, s.Key)
			} else {
				missing = append(missing, s.Key+"."+k)
			}
		}
	}
	return missing
}
