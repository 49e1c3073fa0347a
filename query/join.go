package query

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/dictquery/query/sqlgen"
)

// AddTableDirectJoin inner joins table on the single foreign key of the
// query's table that references it. Joining the same table again is a
// no-op.
func (q *Query) AddTableDirectJoin(table string) error {
	const op = "direct join"

	other, err := q.engine.dict.LookupTable(table)
	if err != nil {
		return configError(op, q.table.Name, err)
	}
	if strings.EqualFold(other.Name, q.table.Name) {
		return configError(op, q.table.Name, fmt.Errorf("cannot join %s to itself", other.Name))
	}
	for _, j := range q.joins {
		if strings.EqualFold(j.Table, other.Name) {
			return nil
		}
	}

	fks := q.table.ForeignKeysTo(other)
	switch len(fks) {
	case 0:
		return configError(op, q.table.Name, fmt.Errorf("no foreign key references %s", other.Name))
	case 1:
	default:
		names := make([]string, len(fks))
		for i, c := range fks {
			names[i] = c.Name
		}
		return configError(op, q.table.Name,
			fmt.Errorf("ambiguous join to %s: candidate keys %s", other.Name, strings.Join(names, ", ")))
	}

	q.joins = append(q.joins, sqlgen.KeyJoin(q.table.Name, fks[0].Name, other.Name, other.KeyColumn))
	return nil
}
