package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_ListsOperations(t *testing.T) {
	root := newRootCommand()

	names := []string{}
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"reset-streaks", "assign-missions", "send-reminders", "issue-token"}, names)
}

func TestIssueToken_RequiresValidUser(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	root.SetArgs([]string{"issue-token"})
	require.Error(t, root.Execute())

	root.SetArgs([]string{"issue-token", "--user", "not-a-uuid"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --user")
}
