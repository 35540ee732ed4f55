// Package flagx lets several loaders share os.Args without tripping over
// each other's flags: each one picks the flags it owns and parses only those.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// Pick returns the subset of args made of the allowed flags and their values.
//
// Both "-flag value" and "-flag=value" forms are recognised. A value is only
// consumed when the next argument does not itself look like a flag. The
// result is never nil.
func Pick(args []string, allowed ...string) []string {
	known := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		known[f] = struct{}{}
	}

	picked := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, hit := known[name]; hit {
				picked = append(picked, arg)
			}
			continue
		}

		if _, hit := known[arg]; !hit {
			continue
		}
		picked = append(picked, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			picked = append(picked, args[i+1])
			i++
		}
	}
	return picked
}

// ConfigPath extracts the JSON config file given with -c or -config.
// It returns "" when neither is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(Pick(args, "-c", "-config", "--config"))

	return path
}
