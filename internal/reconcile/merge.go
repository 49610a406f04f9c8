package reconcile

import (
	"github.com/playok/compliancemon/internal/model"
)

// Merge resolves a view from the two payloads using the precedence tables.
// It is pure: the same payloads always give an equal view. nil payloads are
// treated as empty.
func Merge(a, b model.RawPayload) *model.View {
	payloads := map[model.SourceID]model.RawPayload{
		model.SourceA: orEmpty(a),
		model.SourceB: orEmpty(b),
	}

	v := model.NewView()
	for _, rule := range Precedence {
		ref := v.ScalarRef(rule.Field)
		*ref = model.Unknown()
		for _, l := range rule.From {
			if s, ok := l.scalar(payloads); ok {
				*ref = s
				break
			}
		}
	}
	for _, rule := range ListPrecedence {
		ref := v.ListRef(rule.Field)
		for _, l := range rule.From {
			if items, ok := l.list(payloads); ok {
				*ref = items
				break
			}
		}
	}
	return v
}

func orEmpty(p model.RawPayload) model.RawPayload {
	if p == nil {
		return model.EmptyPayload()
	}
	return p
}
