// Package selection manages the T_Selection rows that scope a query to the
// records a process instance selected.
package selection

import (
	"context"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"github.com/satishbabariya/dictquery/query/executor"
	"github.com/satishbabariya/dictquery/query/sqlgen"
	"github.com/satishbabariya/dictquery/record"
)

// Table layout of the selection store.
const (
	Table          = "T_Selection"
	KeyColumn      = "T_Selection_ID"
	InstanceColumn = "AD_PInstance_ID"
)

// Scope is an in-memory selection: the keys picked under one process
// instance. A query scoped by it matches only rows whose key is in Keys.
type Scope struct {
	InstanceID int64
	Keys       []int64
}

// NewScope returns a scope holding a sorted, de-duplicated copy of keys.
func NewScope(instanceID int64, keys ...int64) *Scope {
	k := slices.Clone(keys)
	slices.Sort(k)
	return &Scope{InstanceID: instanceID, Keys: slices.Compact(k)}
}

// Contains reports whether key is part of the scope.
func (s *Scope) Contains(key int64) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.Keys, key)
}

// Subquery returns the predicate restricting keyColumn to the rows stored
// for instanceID.
func Subquery(keyColumn string, instanceID int64) sqlgen.Predicate {
	return sqlgen.Raw(
		fmt.Sprintf("%s IN (SELECT %s FROM %s WHERE %s=?)", keyColumn, KeyColumn, Table, InstanceColumn),
		instanceID,
	)
}

// Store reads and writes T_Selection.
type Store struct {
	exec    *executor.Executor
	builder sq.StatementBuilderType
}

// NewStore creates a store generating SQL for dialect.
func NewStore(dialect sqlgen.Dialect, exec *executor.Executor) *Store {
	if exec == nil {
		exec = executor.New(nil)
	}
	return &Store{
		exec:    exec,
		builder: sqlgen.NewGenerator(dialect).Builder(),
	}
}

// Create replaces the selection of instanceID with keys. Run it inside a
// transaction to make the replacement atomic.
func (s *Store) Create(ctx context.Context, r executor.Runner, instanceID int64, keys []int64) error {
	if err := s.Delete(ctx, r, instanceID); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	ins := s.builder.Insert(Table).Columns(InstanceColumn, KeyColumn)
	for _, key := range NewScope(instanceID, keys...).Keys {
		ins = ins.Values(instanceID, key)
	}
	stmt, err := statement(ins)
	if err != nil {
		return err
	}
	if _, err := s.exec.Exec(ctx, r, stmt); err != nil {
		return fmt.Errorf("failed to save selection %d: %w", instanceID, err)
	}
	return nil
}

// Delete removes the selection of instanceID.
func (s *Store) Delete(ctx context.Context, r executor.Runner, instanceID int64) error {
	stmt, err := statement(s.builder.Delete(Table).Where(sq.Eq{InstanceColumn: instanceID}))
	if err != nil {
		return err
	}
	if _, err := s.exec.Exec(ctx, r, stmt); err != nil {
		return fmt.Errorf("failed to delete selection %d: %w", instanceID, err)
	}
	return nil
}

// Keys returns the stored keys of instanceID in ascending order.
func (s *Store) Keys(ctx context.Context, r executor.Runner, instanceID int64) ([]int64, error) {
	stmt, err := statement(s.builder.Select(KeyColumn).From(Table).
		Where(sq.Eq{InstanceColumn: instanceID}).
		OrderBy(KeyColumn))
	if err != nil {
		return nil, err
	}
	rows, err := s.exec.All(ctx, r, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to read selection %d: %w", instanceID, err)
	}

	keys := make([]int64, 0, len(rows))
	for _, row := range rows {
		key, err := record.AsInt64(row[0])
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Load reads the stored selection of instanceID into a Scope.
func (s *Store) Load(ctx context.Context, r executor.Runner, instanceID int64) (*Scope, error) {
	keys, err := s.Keys(ctx, r, instanceID)
	if err != nil {
		return nil, err
	}
	return &Scope{InstanceID: instanceID, Keys: keys}, nil
}

func statement(b sq.Sqlizer) (sqlgen.Statement, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return sqlgen.Statement{}, fmt.Errorf("failed to build statement: %w", err)
	}
	return sqlgen.Statement{SQL: sql, Args: args}, nil
}
