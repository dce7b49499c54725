package command

import (
	"sort"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// Spec is a command to run on a host: an executable with arguments, started from a
// working directory. It only becomes a shell string at the transport boundary.
type Spec struct {
	Executable string
	Args       []string
	Dir        string
	Env        map[string]string
}

// Render returns the shell string a transport runs, e.g.
//
//	cd /opt/app/ld4p/ld4p-marc21-to-xml/current && mvn clean package
//
// Every word is quoted only when it needs to be.
func (s Spec) Render() string {
	var b strings.Builder

	if s.Dir != "" {
		b.WriteString("cd ")
		b.WriteString(shellescape.Quote(s.Dir))
		b.WriteString(" && ")
	}

	if len(s.Env) > 0 {
		keys := make([]string, 0, len(s.Env))
		for k := range s.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(shellescape.Quote(s.Env[k]))
			b.WriteString(" ")
		}
	}

	b.WriteString(shellescape.Quote(s.Executable))
	for _, arg := range s.Args {
		b.WriteString(" ")
		b.WriteString(shellescape.Quote(arg))
	}
	return b.String()
}

// String is Render, so a Spec prints the way it runs.
func (s Spec) String() string {
	return s.Render()
}
