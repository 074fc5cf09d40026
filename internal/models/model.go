package models

// Model identifies a selectable backend model.
type Model struct {
	Name string `json:"name"`
}

// ModelNames returns the names of the given models in order.
func ModelNames(list []Model) []string {
	names := make([]string, len(list))
	for i, m := range list {
		names[i] = m.Name
	}
	return names
}

// UniqueModels drops empty names and repeated names, keeping the first
// occurrence of each.
func UniqueModels(list []Model) []Model {
	seen := make(map[string]struct{}, len(list))
	out := make([]Model, 0, len(list))
	for _, m := range list {
		if m.Name == "" {
			continue
		}
		if _, ok := seen[m.Name]; ok {
			continue
		}
		seen[m.Name] = struct{}{}
		out = append(out, m)
	}
	return out
}

// ContainsModel reports whether name is one of the models in list.
func ContainsModel(list []Model, name string) bool {
	for _, m := range list {
		if m.Name == name {
			return true
		}
	}
	return false
}
