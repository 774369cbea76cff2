package database

import (
	"testing"
)

func TestDialects(t *testing.T) {
	tests := []struct {
		name                 string
		dialect              Dialect
		driverName           string
		supportsLastInsertID bool
		trueValue            string
	}{
		{
			name:                 "sqlite",
			dialect:              NewSQLiteDialect(),
			driverName:           "sqlite3",
			supportsLastInsertID: true,
			trueValue:            "1",
		},
		{
			name:                 "postgres",
			dialect:              NewPostgresDialect(),
			driverName:           "postgres",
			supportsLastInsertID: false,
			trueValue:            "TRUE",
		},
		{
			name:                 "mysql",
			dialect:              NewMySQLDialect(),
			driverName:           "mysql",
			supportsLastInsertID: true,
			trueValue:            "TRUE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driverName {
				t.Errorf("DriverName() = %v, want %v", got, tt.driverName)
			}
			if got := tt.dialect.SupportsLastInsertId(); got != tt.supportsLastInsertID {
				t.Errorf("SupportsLastInsertId() = %v, want %v", got, tt.supportsLastInsertID)
			}
			if got := tt.dialect.BoolValue(true); got != tt.trueValue {
				t.Errorf("BoolValue(true) = %v, want %v", got, tt.trueValue)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM cars WHERE car_index = ?",
			expected: "SELECT * FROM cars WHERE car_index = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM cars WHERE car_index = ?",
			expected: "SELECT * FROM cars WHERE car_index = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO daily_games (day, car_index) VALUES (?, ?)",
			expected: "INSERT INTO daily_games (day, car_index) VALUES ($1, $2)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE cars SET game_data = ?, notes = ? WHERE car_index = ?",
			expected: "UPDATE cars SET game_data = ?, notes = ? WHERE car_index = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}
