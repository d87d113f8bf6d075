package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := Config{User: "app", Pass: "secret", Host: "db.internal", Port: "3306", Name: "stagepass"}
	dsn := cfg.dsn()
	assert.Contains(t, dsn, "app:secret@tcp(db.internal:3306)/stagepass")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "loc=UTC")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestDSNEmptyPassword(t *testing.T) {
	cfg := Config{User: "app", Host: "localhost", Port: "3306", Name: "stagepass"}
	assert.Contains(t, cfg.dsn(), "app@tcp(localhost:3306)/stagepass")
}
