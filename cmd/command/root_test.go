package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"migrate", "export"}, names)

	export, _, err := root.Find([]string{"export"})
	require.NoError(t, err)
	assert.Equal(t, "projects.xlsx", export.Flag("out").DefValue)
}

func TestMigrateCmd_RequiresOneArg(t *testing.T) {
	cmd := newMigrateCmd()
	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"up"}))
}
