package nftapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueJSON(t *testing.T) {
	var got struct {
		N Value `json:"n"`
		S Value `json:"s"`
		Z Value `json:"z"`
		M Value `json:"m"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"n":1e3,"s":"x\"y","z":null}`), &got))
	require.Equal(t, "1e3", got.N.String())
	require.Equal(t, `x"y`, got.S.String())
	require.False(t, got.Z.IsSet())
	require.False(t, got.M.IsSet())

	f, ok := got.N.Float()
	require.True(t, ok)
	require.Equal(t, 1000.0, f)
	_, ok = got.S.Float()
	require.False(t, ok)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	require.JSONEq(t, `{"n":1e3,"s":"x\"y","z":null,"m":null}`, string(out))
}

func TestValueOrText(t *testing.T) {
	require.Equal(t, Text("N/A"), Value{}.OrText("N/A"))
	require.Equal(t, Number("3"), Number("3").OrText("N/A"))
}
