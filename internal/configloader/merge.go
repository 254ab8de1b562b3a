package configloader

import "github.com/ZabraveniGeroi/blogc/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointers: override overwrites base if non-nil
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.ContentDir != "" {
		result.ContentDir = override.ContentDir
	}
	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.Engine != "" {
		result.Engine = override.Engine
	}
	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Stylesheet != "" {
		result.Stylesheet = override.Stylesheet
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Serve.Addr != "" {
		result.Serve.Addr = override.Serve.Addr
	}
	if override.Watch.Debounce != 0 {
		result.Watch.Debounce = override.Watch.Debounce
	}

	if override.DetectLanguages != nil {
		detect := *override.DetectLanguages
		result.DetectLanguages = &detect
	}

	// Force is CLI-only; config files cannot unset it.
	if override.Force {
		result.Force = true
	}

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
