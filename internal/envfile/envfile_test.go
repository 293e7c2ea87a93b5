package envfile

import (
	"testing"

	"github.com/dberzins/envault/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := "# comment\nAPI_KEY=sk-123\n\nexport DB_URL=\"postgres://db\"\nEMPTY=\nQUOTED='single'\r\n"

	vars, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, []cryptox.Variable{
		{Name: "API_KEY", Value: "sk-123"},
		{Name: "DB_URL", Value: "postgres://db"},
		{Name: "EMPTY", Value: ""},
		{Name: "QUOTED", Value: "single"},
	}, vars)
}

func TestParse_BadLine(t *testing.T) {
	_, err := Parse("API_KEY=ok\njust a line\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestFormatRoundTrip(t *testing.T) {
	vars := []cryptox.Variable{
		{Name: "A", Value: "1"},
		{Name: "B", Value: "two words"},
	}

	parsed, err := Parse(Format(vars))
	require.NoError(t, err)
	assert.Equal(t, vars, parsed)
}

func TestFormatValues_SortedByName(t *testing.T) {
	got := FormatValues(map[string]string{"B": "2", "A": "1"})
	assert.Equal(t, "A=1\nB=2\n", got)
}
