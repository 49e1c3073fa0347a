package sqlgen

import "fmt"

// Join is an INNER JOIN of Table on a raw condition.
type Join struct {
	Table     string
	Condition string
}

// KeyJoin joins other on table.foreignKey = other.otherKey.
func KeyJoin(table, foreignKey, other, otherKey string) Join {
	return Join{
		Table:     other,
		Condition: fmt.Sprintf("%s.%s=%s.%s", table, foreignKey, other, otherKey),
	}
}

func (j Join) clause() string {
	return fmt.Sprintf("INNER JOIN %s ON (%s)", j.Table, j.Condition)
}
