package erp

import "sort"

// AllowList - неизменяемый набор методов, разрешенных для вызова. Все остальное запрещено.
type AllowList struct {
	methods map[string]struct{}
}

// ReadOnly - политика по умолчанию, только немодифицирующие методы.
var ReadOnly = NewAllowList("search", "read", "search_read", "fields_get", "get_version")

func NewAllowList(methods ...string) AllowList {
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		set[m] = struct{}{}
	}
	return AllowList{methods: set}
}

func (a AllowList) Allowed(method string) bool {
	_, ok := a.methods[method]
	return ok
}

// Methods возвращает отсортированную копию набора.
func (a AllowList) Methods() []string {
	out := make([]string, 0, len(a.methods))
	for m := range a.methods {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
