package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Name() string                { return f.name }
func (f fakeChecker) Check(context.Context) error { return f.err }

func TestReport_AllUp(t *testing.T) {
	rep := NewService(fakeChecker{name: "a"}, fakeChecker{name: "b"}).Report(context.Background())

	assert.True(t, rep.Ready)
	require.Len(t, rep.Checks, 2)
	assert.Equal(t, "a", rep.Checks[0].Name)
	assert.Equal(t, StatusUp, rep.Checks[1].Status)
	assert.Empty(t, rep.Failing())
}

func TestReport_RunsEveryCheckerAndKeepsOrder(t *testing.T) {
	rep := NewService(
		fakeChecker{name: "postgres", err: errors.New("refused")},
		fakeChecker{name: "cache"},
		fakeChecker{name: "s3", err: errors.New("timeout")},
	).Report(context.Background())

	assert.False(t, rep.Ready)
	require.Len(t, rep.Checks, 3)
	assert.Equal(t, []string{"postgres", "cache", "s3"}, []string{rep.Checks[0].Name, rep.Checks[1].Name, rep.Checks[2].Name})

	failing := rep.Failing()
	require.Len(t, failing, 2)
	assert.Equal(t, "postgres", failing[0].Name)
	assert.EqualError(t, failing[0].Err, "refused")
	assert.Equal(t, StatusDown, failing[1].Status)
}

func TestReport_NoCheckers(t *testing.T) {
	rep := NewService().Report(context.Background())
	assert.True(t, rep.Ready)
	assert.Empty(t, rep.Checks)
}
