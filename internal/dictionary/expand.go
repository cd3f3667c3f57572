package dictionary

// Expand derives word forms through the plugin layers and records every
// derived form that is not already a dictionary key as Expanded. It returns
// the number of entries added. Without a plugin it does nothing.
//
// Each layer consumes the forms produced by the previous one (the first layer
// consumes every current key) and emits only what its rules produce: a form
// no rule in the layer matches leaves the pipeline. Only the output of the
// last layer is recorded. Original entries are never overwritten.
func (s *Store) Expand() int {
	if s.plugin == nil || len(s.plugin.Layers) == 0 {
		return 0
	}

	forms := make(map[string]struct{}, len(s.entries))
	for w := range s.entries {
		forms[w] = struct{}{}
	}

	for _, layer := range s.plugin.Layers {
		forms = applyLayer(layer, forms)
	}

	added := 0
	for w := range forms {
		if _, ok := s.entries[w]; ok {
			continue
		}
		s.entries[w] = Expanded
		added++
	}
	return added
}

// applyLayer returns the set of candidates every rule of layer produces from forms
func applyLayer(layer Layer, forms map[string]struct{}) map[string]struct{} {
	next := make(map[string]struct{})
	for _, rule := range layer.Rules {
		for w := range forms {
			if !rule.Pattern.MatchString(w) {
				continue
			}
			for _, tmpl := range rule.Replacements {
				if candidate := rule.Pattern.ReplaceAllString(w, tmpl); candidate != "" {
					next[candidate] = struct{}{}
				}
			}
		}
	}
	return next
}
