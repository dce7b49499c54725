package errors

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

func TestDefaultFormatterConfig(t *testing.T) {
	config := DefaultFormatterConfig()

	assert.False(t, config.Verbose)
	assert.Equal(t, "auto", config.Color)
	assert.Equal(t, 80, config.MaxLineLength)
}

func TestFormatterConfigFrom(t *testing.T) {
	assert.Equal(t, DefaultFormatterConfig(), FormatterConfigFrom(nil))

	cfg := &schema.DeployConfiguration{
		Errors: schema.ErrorsConfig{Format: schema.ErrorFormatConfig{Verbose: true, Color: "never"}},
	}
	fc := FormatterConfigFrom(cfg)
	assert.True(t, fc.Verbose)
	assert.Equal(t, "never", fc.Color)
}

func TestFormat_NilError(t *testing.T) {
	assert.Empty(t, Format(nil, DefaultFormatterConfig()))
}

func TestFormat_ErrorWithHints(t *testing.T) {
	err := errors.WithHint(errors.WithHint(errors.New("test error"), "First hint"), "Second hint")

	result := Format(err, FormatterConfig{Color: "never", MaxLineLength: 80})

	assert.Contains(t, result, "test error")
	assert.Contains(t, result, "First hint")
	assert.Contains(t, result, "Second hint")
	assert.Equal(t, 2, strings.Count(result, "hint: "))
}

func TestFormat_WrapsLongSingleLineMessages(t *testing.T) {
	err := errors.New(strings.Repeat("word ", 40))

	result := Format(err, FormatterConfig{Color: "never", MaxLineLength: 40})

	for _, line := range strings.Split(result, "\n") {
		assert.LessOrEqual(t, len(line), 40)
	}
}

func TestFormat_KeepsCommandOutputLines(t *testing.T) {
	err := &CommandFailure{
		Task:    "maven:package",
		Host:    "host-a",
		Command: "cd /opt/app/current && mvn clean package",
		Output:  "[INFO] Scanning for projects...\n[ERROR] BUILD FAILURE",
		Status:  1,
	}

	result := Format(err, FormatterConfig{Color: "never", MaxLineLength: 40})

	assert.Contains(t, result, "cd /opt/app/current && mvn clean package")
	assert.Contains(t, result, "\n[ERROR] BUILD FAILURE")
}

func TestFormat_VerboseIncludesContext(t *testing.T) {
	err := Build(errors.New("lock busy")).
		WithContext("application", "ld4p-marc21-to-xml").
		Err()

	result := Format(err, FormatterConfig{Verbose: true, Color: "never", MaxLineLength: 80})

	assert.Contains(t, result, "Context")
	assert.Contains(t, result, "application")
	assert.Contains(t, result, "ld4p-marc21-to-xml")
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "a b\nc d", wrapText("a b c d", 3))
	assert.Equal(t, "single", wrapText("single", 0))
}
