package feature

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tabprep/core"
)

func TestSetIndex_Process(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "pandas export", src: "Unnamed: 0"},
		{name: "empty header", src: "X0"},
		{name: "already named", src: core.ColID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df := table(
				strs("Gender", "M", "F"),
				strs(tt.src, "0", "1"),
			)
			out, _ := run(t, NewSetIndex(), df)
			assert.Equal(t, []string{core.ColID, "Gender"}, out.Names())
			assert.Equal(t, []interface{}{"0", "1"}, colStrings(t, out, core.ColID))
		})
	}
}

func TestSetIndex_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewSetIndex().Process(ctx, core.NewRunContext("test"), table(strs("Gender", "M")))
	require.Error(t, err)
	assert.True(t, core.IsMissingColumn(err))

	_, err = NewSetIndex().Process(ctx, core.NewRunContext("test"), table(strs("Unnamed: 0", "1", "1")))
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))

	_, err = NewSetIndex().Process(ctx, core.NewRunContext("test"), table(strs("Unnamed: 0", "1", nil)))
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}
