package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	"github.com/uber/dthbridge/src/dthbridge/factory"
	"github.com/uber/dthbridge/src/dthbridge/gateway/workspace"
)

func TestCompilerOptionsToWorkspace(t *testing.T) {
	t.Run("library defaults", func(t *testing.T) {
		compilation, parse := CompilerOptionsToWorkspace(entity.CompilerOptions{})
		assert.Equal(t, workspace.OutputKindDynamicallyLinkedLibrary, compilation.OutputKind)
		assert.Equal(t, workspace.OptimizationLevelDebug, compilation.OptimizationLevel)
		assert.Equal(t, "AnyCpu", compilation.Platform)
		assert.Empty(t, parse.PreprocessorSymbols)
	})

	t.Run("optimized application", func(t *testing.T) {
		compilation, parse := CompilerOptionsToWorkspace(entity.CompilerOptions{
			EmitEntryPoint:   true,
			Optimize:         true,
			AllowUnsafe:      true,
			WarningsAsErrors: true,
			Platform:         "x64",
			LanguageVersion:  "CSharp6",
			Defines:          []string{"DEBUG", "DNX451"},
		})
		assert.Equal(t, workspace.CompilationOptions{
			OutputKind:        workspace.OutputKindConsoleApplication,
			OptimizationLevel: workspace.OptimizationLevelRelease,
			AllowUnsafe:       true,
			WarningsAsErrors:  true,
			Platform:          "x64",
			EmitEntryPoint:    true,
		}, compilation)
		assert.Equal(t, workspace.ParseOptions{LanguageVersion: "CSharp6", PreprocessorSymbols: []string{"DEBUG", "DNX451"}}, parse)
	})
}

func TestFrameworkToProjectInfo(t *testing.T) {
	variant := entity.FrameworkVariant{FrameworkData: factory.Framework("dnx451"), Handle: factory.UUID()}
	info := FrameworkToProjectInfo(variant, "app", "/src/app/project.json")
	assert.Equal(t, variant.Handle, info.Handle)
	assert.Equal(t, "app+dnx451", info.Name)
	assert.Equal(t, "/src/app/project.json", info.FilePath)
	assert.Equal(t, "DNX,Version=dnx451", info.Framework)
}
