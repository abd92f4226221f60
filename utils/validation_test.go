package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeLanguage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "en", SanitizeLanguage(""))
	require.Equal(t, "en", SanitizeLanguage("   "))
	require.Equal(t, "de", SanitizeLanguage(" DE "))
	require.Equal(t, "en_us", SanitizeLanguage("en_US"))
}

func TestIsLanguageCode(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"en", "es", "haw", "en_us", "en-GB"} {
		require.True(t, IsLanguageCode(ok), ok)
	}
	for _, bad := range []string{"", "e", "english", "en_", "12", "en us"} {
		require.False(t, IsLanguageCode(bad), bad)
	}
}

func TestFormatValidationErrors(t *testing.T) {
	t.Parallel()

	type payload struct {
		URL      string `validate:"required,http_url"`
		Language string `validate:"omitempty,langcode"`
	}

	err := Validate.Struct(payload{Language: "klingon"})
	msgs := FormatValidationErrors(err)
	require.Len(t, msgs, 2)
	require.Contains(t, msgs[0], "Field 'URL' failed on the 'required' tag")
	require.Contains(t, msgs[1], "'langcode'")

	require.Nil(t, FormatValidationErrors(nil))
	require.Equal(t, []string{"boom"}, FormatValidationErrors(errors.New("boom")))
}
