package sqlgen

import (
	"strings"

	"github.com/satishbabariya/hdbwrap/query/model"
)

// whereBuilder collects WHERE parts and their arguments in declaration order.
type whereBuilder struct {
	parts []string
	args  []any
}

// Where renders " WHERE <cond> AND <cond> ..." and its arguments. It
// returns an empty string when no condition is effective.
func Where(where model.Where) (string, []any, error) {
	b := &whereBuilder{}
	for _, c := range where.Active() {
		if err := c.Validate(); err != nil {
			return "", nil, err
		}
		switch f := c.Filter.(type) {
		case model.Is:
			b.addValue(c.Target(), f.Value, model.Equal)
		case model.Compare:
			b.addValue(c.Target(), f.Value, f.Comparator.OrDefault())
		case model.AnyOf:
			b.addValues(c.Target(), f, model.In)
		case model.Membership:
			b.addValues(c.Target(), f.Values, f.Presence.OrDefault())
		}
	}
	if len(b.parts) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(b.parts, " AND "), b.args, nil
}

func (b *whereBuilder) addValue(col model.Column, v model.Value, cmp model.Comparator) {
	if v.IsNull() {
		// Validate already rejected the ordering comparators.
		if cmp == model.Equal {
			b.parts = append(b.parts, Column(col)+" IS NULL")
		} else {
			b.parts = append(b.parts, Column(col)+" IS NOT NULL")
		}
		return
	}
	b.parts = append(b.parts, Column(col)+" "+string(cmp)+" ?")
	b.args = append(b.args, v.Interface())
}

func (b *whereBuilder) addValues(col model.Column, values []model.Value, presence model.Presence) {
	if len(values) == 0 {
		// IN () matches nothing, NOT IN () filters nothing and is left out.
		if presence == model.In {
			b.parts = append(b.parts, "true = false")
		}
		return
	}
	b.parts = append(b.parts, Column(col)+" "+string(presence)+" ("+Placeholders(len(values))+")")
	for _, v := range values {
		b.args = append(b.args, v.Interface())
	}
}
