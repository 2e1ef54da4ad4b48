// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"context"
	"fmt"
	"sort"
)

// liveColumn is a column reported by table_info along with its 1-based
// position in the primary key (0 when it is not part of the key).
type liveColumn struct {
	ColumnDefinition
	pk int64
}

// Inspect returns the live definition of a table.
// The second result is false if the table does not exist.
func Inspect(ctx context.Context, db Querier, table string) (TableDefinition, bool, error) {
	if err := checkQuerier(db); err != nil {
		return TableDefinition{}, false, err
	}
	s := &session{db: db, cfg: Config{}.defaults()}
	cols, err := s.columns(ctx, table)
	if err != nil {
		return TableDefinition{}, false, err
	}
	if len(cols) == 0 {
		return TableDefinition{}, false, nil
	}
	live, err := s.inspect(ctx, table, cols)
	if err != nil {
		return TableDefinition{}, false, err
	}
	return live, true, nil
}

// TableNames lists the user tables in the main database.
func TableNames(ctx context.Context, db Querier) ([]string, error) {
	if err := checkQuerier(db); err != nil {
		return nil, err
	}
	rows, err := db.Select(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, stringOf(row["name"]))
	}
	return names, nil
}

// columns runs table_info. An empty result means the table does not exist.
func (s *session) columns(ctx context.Context, table string) ([]liveColumn, error) {
	rows, err := s.query(ctx, "PRAGMA table_info("+Quote(table)+")")
	if err != nil {
		return nil, err
	}
	cols := make([]liveColumn, 0, len(rows))
	for _, row := range rows {
		dflt, err := ParseDefaultValue(row["dflt_value"])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: default: %w", table, stringOf(row["name"]), err)
		}
		cols = append(cols, liveColumn{
			ColumnDefinition: ColumnDefinition{
				Name:    stringOf(row["name"]),
				Type:    stringOf(row["type"]),
				NotNull: intOf(row["notnull"]) != 0,
				Default: dflt,
			},
			pk: intOf(row["pk"]),
		})
	}
	return cols, nil
}

// inspect assembles the live definition from the table_info rows plus the
// index and foreign key listings.
func (s *session) inspect(ctx context.Context, table string, cols []liveColumn) (TableDefinition, error) {
	live := TableDefinition{Name: table}
	for _, c := range cols {
		live.Columns = append(live.Columns, c.ColumnDefinition)
	}

	indexes, err := s.indexes(ctx, table)
	if err != nil {
		return live, err
	}
	live.Indexes = indexes

	// A rowid alias has no entry in index_list; rebuild the key from the
	// pk positions in table_info.
	if _, ok := live.primaryKey(); !ok {
		var keyed []liveColumn
		for _, c := range cols {
			if c.pk > 0 {
				keyed = append(keyed, c)
			}
		}
		if len(keyed) > 0 {
			sort.SliceStable(keyed, func(i, j int) bool { return keyed[i].pk < keyed[j].pk })
			pk := IndexDefinition{Origin: OriginPrimaryKey}
			for _, c := range keyed {
				pk.Columns = append(pk.Columns, c.Name)
			}
			live.Indexes = append(live.Indexes, pk)
		}
	}

	fks, err := s.foreignKeys(ctx, table)
	if err != nil {
		return live, err
	}
	live.ForeignKeys = fks
	return live, nil
}

// indexes runs index_list and index_info for every reported index.
func (s *session) indexes(ctx context.Context, table string) ([]IndexDefinition, error) {
	rows, err := s.query(ctx, "PRAGMA index_list("+Quote(table)+")")
	if err != nil {
		return nil, err
	}
	var indexes []IndexDefinition
	for _, row := range rows {
		idx := IndexDefinition{
			Name:   stringOf(row["name"]),
			Origin: stringOf(row["origin"]),
		}
		if idx.Origin == OriginIndex && intOf(row["unique"]) != 0 {
			idx.Origin = OriginUnique
		}
		info, err := s.query(ctx, "PRAGMA index_info("+Quote(idx.Name)+")")
		if err != nil {
			return nil, err
		}
		sort.SliceStable(info, func(i, j int) bool { return intOf(info[i]["seqno"]) < intOf(info[j]["seqno"]) })
		for _, col := range info {
			idx.Columns = append(idx.Columns, stringOf(col["name"]))
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

// foreignKeys runs foreign_key_list, merging rows that share an id into a
// single multi-column key.
func (s *session) foreignKeys(ctx context.Context, table string) ([]ForeignKeyDefinition, error) {
	rows, err := s.query(ctx, "PRAGMA foreign_key_list("+Quote(table)+")")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if intOf(a["id"]) != intOf(b["id"]) {
			return intOf(a["id"]) < intOf(b["id"])
		}
		return intOf(a["seq"]) < intOf(b["seq"])
	})

	var fks []ForeignKeyDefinition
	byID := make(map[int64]int)
	for _, row := range rows {
		id := intOf(row["id"])
		i, ok := byID[id]
		if !ok {
			fks = append(fks, ForeignKeyDefinition{
				Table:    stringOf(row["table"]),
				OnUpdate: normalizeAction(stringOf(row["on_update"])),
				OnDelete: normalizeAction(stringOf(row["on_delete"])),
			})
			i = len(fks) - 1
			byID[id] = i
		}
		fks[i].References = append(fks[i].References, ColumnPair{
			From: stringOf(row["from"]),
			To:   stringOf(row["to"]),
		})
	}
	return fks, nil
}
