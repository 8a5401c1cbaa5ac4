package scene

import (
	"strings"
	"testing"

	"github.com/gogpu/naga"
	"github.com/stretchr/testify/require"
)

// compileProgram compiles WGSL to SPIR-V, skipping only on features naga has not implemented yet.
func compileProgram(t *testing.T, source string) []byte {
	t.Helper()
	spirv, err := naga.Compile(source)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
			t.Skipf("naga feature not yet implemented: %v", err)
		}
		t.Fatalf("failed to compile program: %v\n%s", err, source)
	}
	return spirv
}

func TestProgramsCompile(t *testing.T) {
	for _, kind := range allLayouts {
		t.Run(kind.String(), func(t *testing.T) {
			source, err := Program(kind)
			require.NoError(t, err)
			require.NotEmpty(t, compileProgram(t, source))
		})
	}

	t.Run("points", func(t *testing.T) {
		require.NotEmpty(t, compileProgram(t, PointProgram()))
	})
}
