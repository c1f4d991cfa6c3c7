package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPercentage(t *testing.T) {
	assert.Equal(t, 0, ClampPercentage(-5))
	assert.Equal(t, 0, ClampPercentage(0))
	assert.Equal(t, 55, ClampPercentage(55))
	assert.Equal(t, 100, ClampPercentage(100))
	assert.Equal(t, 100, ClampPercentage(150))
}

func TestClampLikes(t *testing.T) {
	assert.Equal(t, 0, ClampLikes(-3))
	assert.Equal(t, 7, ClampLikes(7))
}

func TestSkillTypeValid(t *testing.T) {
	assert.True(t, SkillTypeDesign.Valid())
	assert.True(t, SkillTypeDevelopment.Valid())
	assert.True(t, SkillTypeTools.Valid())
	assert.False(t, SkillType("cooking").Valid())
	assert.False(t, SkillType("").Valid())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, StringArray{"Go", "React", "SQL"}, SplitList(" Go, React,,SQL ,", ","))
	assert.Equal(t, StringArray{"Fast", "Secure"}, SplitList("Fast\n\n  Secure  \n", "\n"))
	assert.Equal(t, StringArray{}, SplitList("  ", ","))
}

func TestStringArrayScan(t *testing.T) {
	var a StringArray
	require.NoError(t, a.Scan(`["a","b"]`))
	assert.Equal(t, StringArray{"a", "b"}, a)

	require.NoError(t, a.Scan([]byte("go, rust")))
	assert.Equal(t, StringArray{"go", "rust"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Equal(t, StringArray{}, a)

	assert.Error(t, a.Scan(42))
}

func TestStringArrayJSONNeverNull(t *testing.T) {
	b, err := json.Marshal(WorkModel{Title: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"tools":[]`)
	assert.Contains(t, string(b), `"features":[]`)
	assert.Contains(t, string(b), `"_id":""`)
}
