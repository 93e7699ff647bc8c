package git

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandContextAppliesDefaultTimeout(t *testing.T) {
	g := NewOSClient()

	ctx, cancel := g.commandContext()
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok, "commands without a caller deadline must get the default timeout")
	assert.WithinDuration(t, time.Now().Add(commandTimeout), deadline, time.Second)
}

func TestCommandContextKeepsCallerDeadline(t *testing.T) {
	parent, parentCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer parentCancel()

	g := NewOSClient().WithContext(parent).(*OSClient)

	ctx, cancel := g.commandContext()
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
}
