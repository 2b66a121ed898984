package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingevents/internal/infrastructure/database"
	"trainingevents/internal/ports/input"
)

func TestWriteReport(t *testing.T) {
	report := &input.AssignmentReport{
		Assigned: map[int64]int64{3: 7, 1: 2},
		Skipped:  []int64{5},
		Failed:   map[int64]error{4: errors.New("timeout")},
	}

	var text bytes.Buffer
	require.NoError(t, writeReport(&text, "text", report))
	assert.Equal(t, "event 1: lesson plan 2\nevent 3: lesson plan 7\nevent 5: skipped\nevent 4: failed: timeout\n", text.String())

	var js bytes.Buffer
	require.NoError(t, writeReport(&js, "json", report))
	assert.JSONEq(t, `{"assigned":{"1":2,"3":7},"skipped":[5],"failed":{"4":"timeout"}}`, js.String())
}

func TestRootCommand_RejectsUnknownFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"assign", "--format", "xml"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestAssignCommand_InMemory(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("DIRECTORY_FILE", "testdata/directory.yaml")
	t.Setenv("REDIS_URL", "")
	t.Setenv("DISCORD_TOKEN", "")

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"assign", "--format", "json"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.JSONEq(t, `{"assigned":{},"skipped":[],"failed":{}}`, out.String())
}

func TestWriteMigrationStatus(t *testing.T) {
	var text bytes.Buffer
	require.NoError(t, writeMigrationStatus(&text, "text", database.MigrationStatus{Version: 1}))
	assert.Equal(t, "version 1 (dirty=false)\n", text.String())

	var js bytes.Buffer
	require.NoError(t, writeMigrationStatus(&js, "json", database.MigrationStatus{Version: 1, Dirty: true}))
	assert.JSONEq(t, `{"version":1,"dirty":true}`, js.String())
}

func TestMigrateCommand_RequiresPostgres(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("DIRECTORY_FILE", "testdata/directory.yaml")

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"migrate"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE=postgres")
}
