package cards

import "strings"

// FilterOptions selects records. Empty fields do not filter.
type FilterOptions struct {
	Classes   []string `json:"classes"`
	Types     []string `json:"types"`
	Costs     []string `json:"costs"`
	FreeWords string   `json:"free_words"`
	WithArt   bool     `json:"with_art"` // keep only records that name an art file
}

func containsAny(hay []string, needles []string) bool {
	for _, n := range needles {
		n = strings.ToLower(n)
		for _, h := range hay {
			if strings.Contains(strings.ToLower(h), n) {
				return true
			}
		}
	}
	return false
}

func equalsAny(v string, options []string) bool {
	for _, o := range options {
		if strings.EqualFold(v, strings.TrimSpace(o)) {
			return true
		}
	}
	return false
}

// Filter returns the records matching every set option, in input order.
// Types match as substrings ("Action" matches "Ninja Action - Attack"); free
// words must each appear in the name, type or rules text.
func Filter(recs []Record, opt FilterOptions) []Record {
	var out []Record
	for _, r := range recs {
		if len(opt.Classes) > 0 && !equalsAny(r.Class(), opt.Classes) {
			continue
		}
		if len(opt.Types) > 0 && !containsAny([]string{r.Get(ColType)}, opt.Types) {
			continue
		}
		if len(opt.Costs) > 0 && !equalsAny(r.Get(ColCost), opt.Costs) {
			continue
		}
		if opt.WithArt && r.Get(ColArtPath) == "" {
			continue
		}
		if opt.FreeWords != "" {
			text := strings.ToLower(strings.Join([]string{r.Name(), r.Get(ColType), r.Get(ColRules)}, " "))
			ok := true
			for _, k := range strings.Fields(opt.FreeWords) {
				if !strings.Contains(text, strings.ToLower(k)) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
