package sqlgen

import (
	"strconv"
	"strings"

	"github.com/satishbabariya/hdbwrap/query/model"
)

// Joins renders every join in order:
// ` INNER JOIN "t" ON "t"."a" = "b" AND "t"."c" = "d"`.
func Joins(joins []model.Join) (string, error) {
	var sb strings.Builder
	for _, j := range joins {
		typ := j.Type.OrDefault()
		switch typ {
		case model.InnerJoin, model.LeftJoin, model.RightJoin:
		default:
			return "", model.Errorf(model.ErrUnsupportedJoin, "Unsupported join type '%s'", j.Type)
		}
		conditions := make([]string, len(j.OnEquals))
		for i, on := range j.OnEquals {
			conditions[i] = Column(model.TableCol(j.Table, on.Column)) + " = " + Column(on.Other)
		}
		sb.WriteString(" " + string(typ) + " JOIN " + Quote(j.Table) + " ON " + strings.Join(conditions, " AND "))
	}
	return sb.String(), nil
}

// OrderBy renders ` ORDER BY "a", "b" DESC`. Entries without a direction
// render without a keyword.
func OrderBy(orderBy []model.OrderBy) string {
	if len(orderBy) == 0 {
		return ""
	}
	parts := make([]string, len(orderBy))
	for i, o := range orderBy {
		out := Column(o.Column)
		if o.Direction != "" {
			out += " " + string(o.Direction)
		}
		parts[i] = out
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// Limit renders ` LIMIT n` for a positive n.
func Limit(limit int) string {
	if limit <= 0 {
		return ""
	}
	return " LIMIT " + strconv.Itoa(limit)
}
