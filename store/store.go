// Package store is the university database access layer. It is the only
// package that talks to the database; tool adapters reach it through two
// narrow paths: a guarded read-only raw query and allow-list validated
// mutations. Rows are normalized to JSON-serializable scalars so results
// can flow through conversation state and traces unchanged.
package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campusops/adminflow/core"
)

// Student is an enrolled or prospective student record.
type Student struct {
	ID             uint   `gorm:"primaryKey"`
	FirstName      string `gorm:"size:64"`
	LastName       string `gorm:"size:64"`
	Email          string `gorm:"size:128;uniqueIndex"`
	ProgramID      uint
	EnrollmentYear int
}

// Program is a degree program offered by a department.
type Program struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:128"`
	Department  string `gorm:"size:128"`
	DegreeLevel string `gorm:"size:32"`
}

// Course is a catalogued course.
type Course struct {
	ID         uint   `gorm:"primaryKey"`
	Code       string `gorm:"size:16;uniqueIndex"`
	Title      string `gorm:"size:128"`
	Credits    int
	Department string `gorm:"size:128"`
}

// Enrollment links a student to a course in a term.
type Enrollment struct {
	ID        uint   `gorm:"primaryKey"`
	StudentID uint   `gorm:"index"`
	CourseID  uint   `gorm:"index"`
	Term      string `gorm:"size:16"`
	Grade     string `gorm:"size:4"`
}

// FinancialAid is an aid award for a student.
type FinancialAid struct {
	ID        uint    `gorm:"primaryKey"`
	StudentID uint    `gorm:"index"`
	AidType   string  `gorm:"size:32"`
	Amount    float64
	Year      int
}

// Options configure the database connection.
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	QueryTimeout time.Duration
}

// Store wraps the gorm handle. Safe for concurrent use across sessions; the
// underlying pool serializes access.
type Store struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// Open connects to the sqlite database at dsn, migrates the schema and
// applies pool settings. Use "file::memory:?cache=shared" for tests.
func Open(dsn string, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{MaxOpenConns: 10, MaxIdleConns: 5, QueryTimeout: 15 * time.Second}
	for _, fn := range optFns {
		fn(&opts)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Student{}, &Program{}, &Course{}, &Enrollment{}, &FinancialAid{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)

	return &Store{db: db, queryTimeout: opts.QueryTimeout}, nil
}

// NewFromDB wraps an existing gorm handle (tests, shared pools).
func NewFromDB(db *gorm.DB) *Store {
	return &Store{db: db, queryTimeout: 15 * time.Second}
}

// leadingNoise strips whitespace and line comments before the first keyword.
var leadingNoise = regexp.MustCompile(`^(\s*(--[^\n]*\n)?)*`)

// ErrNotSelect rejects any read-path statement that is not a SELECT.
var ErrNotSelect = fmt.Errorf("only SELECT queries are allowed on the read path")

// ErrMultiStatement rejects read-path input carrying more than one
// statement. The driver would execute all of them, so a mutation smuggled
// after a semicolon must be caught before the query reaches it.
var ErrMultiStatement = fmt.Errorf("only a single SELECT statement is allowed on the read path")

// ReadQuery executes a validated read-only query and returns normalized
// rows plus column order. Statements that do not start with SELECT (after
// stripping comments), or that chain a second statement after a top-level
// semicolon, are rejected before touching the database.
func (s *Store) ReadQuery(ctx context.Context, query string) (core.Rows, []string, error) {
	cleaned := leadingNoise.ReplaceAllString(query, "")
	if !strings.HasPrefix(strings.ToUpper(cleaned), "SELECT") {
		return nil, nil, ErrNotSelect
	}
	if multiStatement(cleaned) {
		return nil, nil, ErrMultiStatement
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read columns: %w", err)
	}

	var out core.Rows
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		record := make(map[string]any, len(columns))
		for i, col := range columns {
			record[col] = normalizeValue(values[i])
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, columns, nil
}

// Insert creates one record in table from column/value pairs. Callers must
// have validated table and columns against the allow-list already; this
// method only enforces non-emptiness.
func (s *Store) Insert(ctx context.Context, table string, values map[string]any) (int64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("insert into %s: no values", table)
	}
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	tx := s.db.WithContext(ctx).Table(table).Create(values)
	if tx.Error != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, tx.Error)
	}
	return tx.RowsAffected, nil
}

// Update modifies records in table matching the where pairs. An empty where
// clause is rejected so a composed mutation can never touch a whole table.
func (s *Store) Update(ctx context.Context, table string, values, where map[string]any) (int64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("update %s: no values", table)
	}
	if len(where) == 0 {
		return 0, fmt.Errorf("update %s: empty where clause", table)
	}
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	tx := s.db.WithContext(ctx).Table(table).Where(where).Updates(values)
	if tx.Error != nil {
		return 0, fmt.Errorf("update %s: %w", table, tx.Error)
	}
	return tx.RowsAffected, nil
}

// multiStatement reports whether query continues past a top-level
// semicolon. Semicolons inside quoted literals, quoted identifiers and
// comments do not count; a bare trailing semicolon is allowed.
func multiStatement(query string) bool {
	var inSingle, inDouble, inLine, inBlock bool
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case inLine:
			if c == '\n' {
				inLine = false
			}
		case inBlock:
			if c == '*' && i+1 < len(query) && query[i+1] == '/' {
				inBlock = false
				i++
			}
		case inSingle:
			if c == '\'' {
				inSingle = false
			}
		case inDouble:
			if c == '"' {
				inDouble = false
			}
		case c == '\'':
			inSingle = true
		case c == '"':
			inDouble = true
		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			inLine = true
			i++
		case c == '/' && i+1 < len(query) && query[i+1] == '*':
			inBlock = true
			i++
		case c == ';':
			return strings.TrimSpace(query[i+1:]) != ""
		}
	}
	return false
}

// DB exposes the gorm handle for seeding in tests and examples.
func (s *Store) DB() *gorm.DB { return s.db }

// normalizeValue converts driver types into JSON-serializable scalars,
// mirroring the shapes the rest of the engine expects in core.Rows.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}
