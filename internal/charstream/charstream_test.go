package charstream

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchSourceReadAllReturnsFullContent(t *testing.T) {
	src := NewBatchSource(strings.NewReader("func main() {}\n"))
	text, err := src.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "func main() {}\n", text)
	assert.NoError(t, src.Close())
}

type errReader struct{}

func (errReader) Read(p []byte) (int, error) { return 0, errors.New("boom") }

func TestBatchSourceReadAllWrapsUnderlyingError(t *testing.T) {
	src := NewBatchSource(errReader{})
	_, err := src.ReadAll()
	assert.Error(t, err)
}

func TestDefaultPromptNumbersLines(t *testing.T) {
	assert.Equal(t, "1>> ", defaultPrompt(1))
	assert.Equal(t, "42>> ", defaultPrompt(42))
}

func TestSetPromptFuncOverridesRendering(t *testing.T) {
	is := &InteractiveSource{lineNum: 1, promptFn: defaultPrompt}
	is.SetPromptFunc(func(line int) string { return "custom:" + strings.Repeat(">", line) })
	assert.Equal(t, "custom:>", is.promptFn(1))
	assert.Equal(t, "custom:>>", is.promptFn(2))
}

var (
	_ Source = (*BatchSource)(nil)
	_ Source = (*InteractiveSource)(nil)
)
