package mapper

import (
	"github.com/uber/dthbridge/src/dthbridge/entity"
	"github.com/uber/dthbridge/src/dthbridge/gateway/workspace"
)

const _defaultPlatform = "AnyCpu"

// CompilerOptionsToWorkspace translates host compiler options into workspace compilation and parse options.
func CompilerOptionsToWorkspace(opts entity.CompilerOptions) (workspace.CompilationOptions, workspace.ParseOptions) {
	compilation := workspace.CompilationOptions{
		OutputKind:        workspace.OutputKindDynamicallyLinkedLibrary,
		OptimizationLevel: workspace.OptimizationLevelDebug,
		AllowUnsafe:       opts.AllowUnsafe,
		WarningsAsErrors:  opts.WarningsAsErrors,
		Platform:          opts.Platform,
		EmitEntryPoint:    opts.EmitEntryPoint,
	}
	if opts.EmitEntryPoint {
		compilation.OutputKind = workspace.OutputKindConsoleApplication
	}
	if opts.Optimize {
		compilation.OptimizationLevel = workspace.OptimizationLevelRelease
	}
	if compilation.Platform == "" {
		compilation.Platform = _defaultPlatform
	}

	parse := workspace.ParseOptions{
		LanguageVersion:     opts.LanguageVersion,
		PreprocessorSymbols: append([]string(nil), opts.Defines...),
	}
	return compilation, parse
}

// FrameworkToProjectInfo builds the workspace description of one framework variant.
func FrameworkToProjectInfo(variant entity.FrameworkVariant, name, path string) workspace.ProjectInfo {
	return workspace.ProjectInfo{
		Handle:    variant.Handle,
		Name:      name + "+" + variant.ShortName,
		FilePath:  path,
		Framework: variant.FrameworkName,
	}
}
