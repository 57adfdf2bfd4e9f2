package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	app := newApp()
	for _, name := range []string{"migrate", "seed", "import-roster", "token"} {
		assert.NotNil(t, app.Command(name), name)
	}
}

func TestImportRosterRequiresFlags(t *testing.T) {
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out

	err := app.Run([]string{"schoolctl", "import-roster", "roster.xlsx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "school")
}
