package main

import (
	"testing"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsParse(t *testing.T) {
	available, err := migrationSource.FindMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, available)
	assert.Equal(t, "20260301000000_missions_unique_slot.sql", available[0].Id)
	assert.NotEmpty(t, available[0].Up)
	assert.NotEmpty(t, available[0].Down)
}

func TestStatusLines(t *testing.T) {
	available := []*migrate.Migration{{Id: "1_first.sql"}, {Id: "2_second.sql"}}
	records := []*migrate.MigrationRecord{{
		Id:        "1_first.sql",
		AppliedAt: time.Date(2026, time.March, 1, 8, 30, 0, 0, time.UTC),
	}}

	lines := statusLines(available, records)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "applied 2026-03-01 08:30:00")
	assert.Contains(t, lines[1], "pending")
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()

	names := []string{}
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "seed", "status"}, names)

	down, _, err := root.Find([]string{"down"})
	require.NoError(t, err)
	assert.Equal(t, "1", down.Flag("steps").DefValue)
}
