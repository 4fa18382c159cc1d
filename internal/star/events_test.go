package star

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGender(t *testing.T) {
	assert.Equal(t, GenderMale, ParseGender("M"))
	assert.Equal(t, GenderFemale, ParseGender("F"))
	assert.Equal(t, GenderFemale, ParseGender("f"))
	assert.Equal(t, GenderUnknown, ParseGender(""))
	assert.Equal(t, GenderUnknown, ParseGender("X"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelPaid, ParseLevel("paid"))
	assert.Equal(t, LevelPaid, ParseLevel("Paid"))
	assert.Equal(t, LevelFree, ParseLevel("free"))
	assert.Equal(t, LevelFree, ParseLevel(""))
}
