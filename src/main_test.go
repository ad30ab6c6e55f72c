package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidsim/src/simulation"
)

func TestRunHeadless(t *testing.T) {
	o := simulation.DefaultOptions
	o.Rows, o.Columns = 8, 8
	o.Interval = 0
	o.MaxSteps = 20
	o.StopWhenSettled = true
	stateCh := make(chan simulation.Status, 10)
	s := simulation.NewBaseSimulation(&o, stateCh)
	require.NoError(t, s.SettleTemplate("dam"))

	path := filepath.Join(t.TempDir(), "run.png")
	require.NoError(t, runHeadless(s, stateCh, path))

	st := s.Status()
	assert.Equal(t, simulation.RunningStateFinished, st.RunningMode)
	assert.LessOrEqual(t, st.IterationNum, 20)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
