package interpreter

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/vk/buildgrid/internal/environment"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// evalContext exposes the configuration of env as HCL variables.
func evalContext(env *environment.Environment) *hcl.EvalContext {
	cfg := env.Config()
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"prefix":     cty.StringVal(cfg.Prefix()),
			"libdir":     cty.StringVal(cfg.LibDir()),
			"bindir":     cty.StringVal(cfg.BinDir()),
			"includedir": cty.StringVal(cfg.IncludeDir()),
			"datadir":    cty.StringVal(cfg.DataDir()),
			"mandir":     cty.StringVal(cfg.ManDir()),
			"buildtype":  cty.StringVal(string(cfg.BuildType())),
			"strip":      cty.BoolVal(cfg.Strip()),
			"coverage":   cty.BoolVal(cfg.Coverage()),
			"source_dir": cty.StringVal(env.SourceDir()),
			"build_dir":  cty.StringVal(env.BuildDir()),
		},
		Functions: map[string]function.Function{
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"join":   stdlib.JoinFunc,
			"concat": stdlib.ConcatFunc,
			"format": stdlib.FormatFunc,
		},
	}
}
