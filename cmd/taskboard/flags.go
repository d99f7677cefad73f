package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Short spellings accepted for long flag names
var flagAliases = map[string]string{
	"desc": "description",
	"pos":  "position",
}

func addFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		aliasFlags(cmd.Flags(), flagAliases)
	}
}

func aliasFlags(flags *pflag.FlagSet, aliases map[string]string) {
	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if full, ok := aliases[name]; ok {
			name = full
		}
		return normalize(f, name)
	})
}
