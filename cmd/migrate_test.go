package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSubcommands(t *testing.T) {
	names := []string{}
	for _, c := range migrateCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"create", "up", "down", "status"}, names)

	for _, c := range []string{"up", "down"} {
		sub, _, err := migrateCmd.Find([]string{c})
		require.NoError(t, err)
		step, err := sub.Flags().GetInt("step")
		require.NoError(t, err)
		assert.Equal(t, 0, step, "%s applies everything by default", c)
		assert.Contains(t, sub.Long, "--step N")
	}

	found, _, err := rootCmd.Find([]string{"migrate", "status"})
	require.NoError(t, err)
	assert.Equal(t, migrateStatusCmd, found)
}
